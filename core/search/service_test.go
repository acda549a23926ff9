package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"sonicstream/apperr"
)

// newTestService points the client at a stub Deezer server.
func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewService(NewClient(ts.URL))
}

const searchPayload = `{
	"data": [
		{
			"id": 3135556,
			"title": "Harder, Better, Faster, Stronger",
			"duration": 224,
			"preview": "https://cdn.example/preview.mp3",
			"release_date": "2001-03-07",
			"artist": {"id": 27, "name": "Daft Punk"},
			"album": {"id": 302127, "title": "Discovery", "cover": "cover.jpg", "cover_medium": "cover_medium.jpg"}
		},
		{
			"id": 42,
			"title": "No Medium Cover",
			"duration": 100,
			"artist": {"id": 1, "name": "Someone"},
			"album": {"id": 2, "title": "Album", "cover": "fallback.jpg"}
		}
	],
	"total": 120,
	"next": "https://api.deezer.com/search?q=daft&index=25"
}`

func TestSearchTracks(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "daft" {
			t.Errorf("q = %q, want daft", got)
		}
		w.Write([]byte(searchPayload))
	})

	page, err := svc.SearchTracks(context.Background(), "daft", 25, 0)
	if err != nil {
		t.Fatalf("SearchTracks returned error: %v", err)
	}

	if len(page.Tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(page.Tracks))
	}
	first := page.Tracks[0]
	if first.ID != "deezer_3135556" {
		t.Errorf("id = %q, want deezer_3135556", first.ID)
	}
	if first.Artist != "Daft Punk" || first.Album != "Discovery" {
		t.Errorf("artist/album = %q/%q", first.Artist, first.Album)
	}
	if first.CoverImage != "cover_medium.jpg" {
		t.Errorf("cover = %q, want medium variant", first.CoverImage)
	}
	if page.Tracks[1].CoverImage != "fallback.jpg" {
		t.Errorf("cover = %q, want fallback to plain cover", page.Tracks[1].CoverImage)
	}
	if page.Total != 120 {
		t.Errorf("total = %d, want 120", page.Total)
	}
	if page.Next == nil || *page.Next != 25 {
		t.Errorf("next = %v, want 25", page.Next)
	}
}

func TestSearchTracksLastPage(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [], "total": 0}`))
	})

	page, err := svc.SearchTracks(context.Background(), "obscure", 25, 100)
	if err != nil {
		t.Fatalf("SearchTracks returned error: %v", err)
	}
	if page.Next != nil {
		t.Errorf("next = %v, want nil on last page", *page.Next)
	}
}

func TestSearchTracksRequiresQuery(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be issued for an empty query")
	})

	for _, q := range []string{"", "   "} {
		if _, err := svc.SearchTracks(context.Background(), q, 20, 0); !apperr.Is(err, apperr.InvalidArgument) {
			t.Errorf("query %q: expected InvalidArgument, got %v", q, err)
		}
	}
}

func TestGetTrackAcceptsPrefixedID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/track/3135556" {
			t.Errorf("path = %s, want /track/3135556", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": 3135556,
			"title": "Harder, Better, Faster, Stronger",
			"duration": 224,
			"bpm": 123.5,
			"artist": {"id": 27, "name": "Daft Punk"},
			"album": {"id": 302127, "title": "Discovery", "cover_medium": "cover_medium.jpg"},
			"genres": {"data": [{"name": "Electro"}, {"name": "House"}]}
		}`))
	})

	track, err := svc.GetTrack(context.Background(), "deezer_3135556")
	if err != nil {
		t.Fatalf("GetTrack returned error: %v", err)
	}
	if track.ID != "deezer_3135556" {
		t.Errorf("id = %q, want deezer_3135556", track.ID)
	}
	if track.BPM != 123.5 {
		t.Errorf("bpm = %v, want 123.5", track.BPM)
	}
	if len(track.Genres) != 2 || track.Genres[0] != "Electro" {
		t.Errorf("genres = %v, want [Electro House]", track.Genres)
	}
}

func TestUpstreamErrorSurfacesAsInternal(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.SearchTracks(context.Background(), "daft", 20, 0)
	if err == nil {
		t.Fatal("expected error from failing upstream")
	}
	if apperr.KindOf(err) != apperr.Internal {
		t.Errorf("kind = %v, want Internal", apperr.KindOf(err))
	}
}

func TestGetArtistMergesTopTracks(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/artist/27":
			w.Write([]byte(`{"id": 27, "name": "Daft Punk", "picture_medium": "p_m.jpg", "picture_xl": "p_xl.jpg", "nb_fan": 1000, "nb_album": 4}`))
		case "/artist/27/top":
			w.Write([]byte(`{"data": [{"id": 1, "title": "One More Time", "artist": {"id": 27, "name": "Daft Punk"}, "album": {"id": 1, "title": "Discovery", "cover": "c.jpg"}}]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	artist, err := svc.GetArtist(context.Background(), "27")
	if err != nil {
		t.Fatalf("GetArtist returned error: %v", err)
	}
	if artist.Name != "Daft Punk" || artist.Fans != 1000 {
		t.Errorf("artist = %+v", artist)
	}
	if artist.BigPicture != "p_xl.jpg" {
		t.Errorf("bigPicture = %q, want p_xl.jpg", artist.BigPicture)
	}
	if len(artist.TopTracks) != 1 || artist.TopTracks[0].ID != "deezer_1" {
		t.Errorf("topTracks = %+v", artist.TopTracks)
	}
}
