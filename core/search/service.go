package search

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"sonicstream/apperr"
	"sonicstream/cache"
	"sonicstream/logger"
)

const trackIDPrefix = "deezer_"

var trackIDPattern = regexp.MustCompile(`^deezer_(\d+)$`)

// Service runs discovery queries against Deezer, caching hot results in
// Redis.
type Service struct {
	client *Client
}

// NewService creates a search service.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

func reshapeTrack(t deezerTrack) Track {
	cover := t.Album.CoverMedium
	if cover == "" {
		cover = t.Album.Cover
	}
	track := Track{
		ID:          trackIDPrefix + fmt.Sprintf("%d", t.ID),
		Title:       t.Title,
		Artist:      t.Artist.Name,
		Album:       t.Album.Title,
		Duration:    t.Duration,
		CoverImage:  cover,
		AudioSrc:    t.Preview,
		Source:      "deezer",
		ArtistID:    t.Artist.ID,
		AlbumID:     t.Album.ID,
		ReleaseDate: t.ReleaseDate,
		BPM:         t.BPM,
		Position:    t.Position,
	}
	if t.Genres != nil {
		for _, g := range t.Genres.Data {
			track.Genres = append(track.Genres, g.Name)
		}
	}
	return track
}

func reshapeTracks(list []deezerTrack) []Track {
	tracks := make([]Track, 0, len(list))
	for _, t := range list {
		tracks = append(tracks, reshapeTrack(t))
	}
	return tracks
}

func nextIndex(next string, limit, index int) *int {
	if next == "" {
		return nil
	}
	n := index + limit
	return &n
}

// cachedTrackPage serves a track-page query through the Redis cache,
// falling through to fetch on a miss. Cache failures degrade to a
// direct fetch.
func (s *Service) cachedTrackPage(ctx context.Context, key string, fetch func() (*TrackPage, error)) (*TrackPage, error) {
	if data, ok, err := cache.GetCachedSearch(ctx, key); err != nil {
		logger.Warn("Search cache read failed", logger.String("key", key), logger.ErrorField(err))
	} else if ok {
		var page TrackPage
		if err := json.Unmarshal(data, &page); err == nil {
			return &page, nil
		}
		logger.Warn("Corrupt search cache entry", logger.String("key", key))
	}

	page, err := fetch()
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(page); err == nil {
		if err := cache.CacheSearch(ctx, key, data); err != nil {
			logger.Warn("Search cache write failed", logger.String("key", key), logger.ErrorField(err))
		}
	}
	return page, nil
}

// SearchTracks searches Deezer for tracks matching the query.
func (s *Service) SearchTracks(ctx context.Context, query string, limit, index int) (*TrackPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.New(apperr.InvalidArgument, "search query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	key := cache.SearchKey("tracks", fmt.Sprintf("%s:%d:%d", query, limit, index))
	return s.cachedTrackPage(ctx, key, func() (*TrackPage, error) {
		q := pageQuery(limit, index)
		q.Set("q", query)

		var list deezerTrackList
		if err := s.client.get(ctx, "/search", q, &list); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "track search failed", err)
		}
		return &TrackPage{
			Tracks: reshapeTracks(list.Data),
			Total:  list.Total,
			Next:   nextIndex(list.Next, limit, index),
		}, nil
	})
}

// GetTrack fetches one track by id. Accepts both the prefixed
// application id and a bare Deezer id.
func (s *Service) GetTrack(ctx context.Context, id string) (*Track, error) {
	if id == "" {
		return nil, apperr.New(apperr.InvalidArgument, "track id is required")
	}
	if m := trackIDPattern.FindStringSubmatch(id); m != nil {
		id = m[1]
	}

	var raw deezerTrack
	if err := s.client.get(ctx, "/track/"+id, nil, &raw); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "track lookup failed", err)
	}
	track := reshapeTrack(raw)
	return &track, nil
}

// SearchArtists searches Deezer for artists matching the query.
func (s *Service) SearchArtists(ctx context.Context, query string, limit, index int) (*ArtistPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.New(apperr.InvalidArgument, "search query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	q := pageQuery(limit, index)
	q.Set("q", query)

	var list deezerArtistList
	if err := s.client.get(ctx, "/search/artist", q, &list); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "artist search failed", err)
	}

	artists := make([]Artist, 0, len(list.Data))
	for _, a := range list.Data {
		picture := a.PictureMedium
		if picture == "" {
			picture = a.Picture
		}
		artists = append(artists, Artist{
			ID:      a.ID,
			Name:    a.Name,
			Picture: picture,
			Fans:    a.Fans,
			Albums:  a.Albums,
			Source:  "deezer",
		})
	}
	return &ArtistPage{
		Artists: artists,
		Total:   list.Total,
		Next:    nextIndex(list.Next, limit, index),
	}, nil
}

// GetArtist fetches an artist profile together with their top tracks.
func (s *Service) GetArtist(ctx context.Context, id string) (*Artist, error) {
	if id == "" {
		return nil, apperr.New(apperr.InvalidArgument, "artist id is required")
	}

	var raw deezerArtist
	if err := s.client.get(ctx, "/artist/"+id, nil, &raw); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "artist lookup failed", err)
	}

	var top deezerTrackList
	if err := s.client.get(ctx, "/artist/"+id+"/top", nil, &top); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "artist top tracks lookup failed", err)
	}

	picture := raw.PictureMedium
	if picture == "" {
		picture = raw.Picture
	}
	bigPicture := raw.PictureXL
	if bigPicture == "" {
		bigPicture = raw.PictureBig
	}

	return &Artist{
		ID:         raw.ID,
		Name:       raw.Name,
		Picture:    picture,
		BigPicture: bigPicture,
		Fans:       raw.Fans,
		Albums:     raw.Albums,
		Source:     "deezer",
		TopTracks:  reshapeTracks(top.Data),
	}, nil
}

// TrendingTracks returns the Deezer global chart.
func (s *Service) TrendingTracks(ctx context.Context) (*TrackPage, error) {
	key := cache.SearchKey("trending", "global")
	return s.cachedTrackPage(ctx, key, func() (*TrackPage, error) {
		var list deezerTrackList
		if err := s.client.get(ctx, "/chart/0/tracks", nil, &list); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "trending lookup failed", err)
		}
		return &TrackPage{Tracks: reshapeTracks(list.Data), Total: list.Total}, nil
	})
}

// TracksByGenre returns a page of tracks from one Deezer genre.
func (s *Service) TracksByGenre(ctx context.Context, genreID string, limit, index int) (*TrackPage, error) {
	if genreID == "" {
		return nil, apperr.New(apperr.InvalidArgument, "genre id is required")
	}
	if limit <= 0 {
		limit = 20
	}

	key := cache.SearchKey("genre", fmt.Sprintf("%s:%d:%d", genreID, limit, index))
	return s.cachedTrackPage(ctx, key, func() (*TrackPage, error) {
		var list deezerTrackList
		if err := s.client.get(ctx, "/genre/"+genreID+"/tracks", pageQuery(limit, index), &list); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "genre tracks lookup failed", err)
		}
		return &TrackPage{
			Tracks: reshapeTracks(list.Data),
			Total:  list.Total,
			Next:   nextIndex(list.Next, limit, index),
		}, nil
	})
}

// Genres lists the Deezer genre catalog.
func (s *Service) Genres(ctx context.Context) ([]Genre, error) {
	var list deezerGenreList
	if err := s.client.get(ctx, "/genre", nil, &list); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "genre list lookup failed", err)
	}

	genres := make([]Genre, 0, len(list.Data))
	for _, g := range list.Data {
		picture := g.PictureMedium
		if picture == "" {
			picture = g.Picture
		}
		genres = append(genres, Genre{ID: g.ID, Name: g.Name, Picture: picture})
	}
	return genres, nil
}
