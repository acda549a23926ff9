// Package playlist enforces single-owner mutation rights over playlists
// and their song membership.
package playlist

import (
	"context"
	"errors"
	"strings"

	"sonicstream/apperr"
	"sonicstream/logger"
	"sonicstream/model"
	"sonicstream/repository"
	"sonicstream/storage"
)

const defaultCoverImage = "default-playlist.jpg"

// Service implements the playlist ownership operations.
type Service struct {
	playlists repository.PlaylistRepository
	songs     repository.SongRepository
	files     storage.FileStore
}

// NewService creates a playlist service. files may be nil when no
// object store is configured; cover cleanup is then skipped.
func NewService(playlists repository.PlaylistRepository, songs repository.SongRepository, files storage.FileStore) *Service {
	return &Service{playlists: playlists, songs: songs, files: files}
}

// requireOwner is the single authorization predicate for playlist
// mutations: only the creator may touch a playlist.
func requireOwner(playlist *model.Playlist, requesterID int64) error {
	if playlist.CreatedBy != requesterID {
		return apperr.New(apperr.Forbidden, "not authorized to modify this playlist")
	}
	return nil
}

// load resolves a playlist id or reports NotFound.
func (s *Service) load(playlistID int64) (*model.Playlist, error) {
	playlist, err := s.playlists.GetPlaylistByID(playlistID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load playlist", err)
	}
	if playlist == nil {
		return nil, apperr.New(apperr.NotFound, "playlist not found")
	}
	return playlist, nil
}

// CreateParams are the fields a new playlist accepts.
type CreateParams struct {
	Name        string
	Description string
	Genre       string
	CoverImage  string
	// IsPublic defaults to true when unset.
	IsPublic *bool
}

// Create makes a new playlist owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID int64, params CreateParams) (*model.Playlist, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, apperr.New(apperr.InvalidArgument, "playlist name is required")
	}

	isPublic := true
	if params.IsPublic != nil {
		isPublic = *params.IsPublic
	}

	playlist := &model.Playlist{
		Name:        name,
		Description: params.Description,
		Genre:       params.Genre,
		CoverImage:  params.CoverImage,
		CreatedBy:   ownerID,
		IsPublic:    isPublic,
	}

	id, err := s.playlists.CreatePlaylist(playlist)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create playlist", err)
	}
	playlist.ID = id
	if playlist.CoverImage == "" {
		playlist.CoverImage = defaultCoverImage
	}
	return playlist, nil
}

// AddSong appends a song to the playlist. Only the owner may add;
// duplicates are rejected so membership stays set-like.
func (s *Service) AddSong(ctx context.Context, playlistID, songID, requesterID int64) error {
	playlist, err := s.load(playlistID)
	if err != nil {
		return err
	}
	if err := requireOwner(playlist, requesterID); err != nil {
		return err
	}

	song, err := s.songs.GetSongByID(songID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to load song", err)
	}
	if song == nil {
		return apperr.New(apperr.NotFound, "song not found")
	}

	if err := s.playlists.AddSongToPlaylist(playlistID, songID); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return apperr.New(apperr.AlreadyExists, "song already in playlist")
		}
		return apperr.Wrap(apperr.Internal, "failed to add song to playlist", err)
	}
	return nil
}

// RemoveSong removes a song from the playlist. Only the owner may
// remove; removing a non-member is a no-op.
func (s *Service) RemoveSong(ctx context.Context, playlistID, songID, requesterID int64) error {
	playlist, err := s.load(playlistID)
	if err != nil {
		return err
	}
	if err := requireOwner(playlist, requesterID); err != nil {
		return err
	}

	if err := s.playlists.RemoveSongFromPlaylist(playlistID, songID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to remove song from playlist", err)
	}
	return nil
}

// UpdateParams are the owner-editable playlist fields. Nil pointers
// keep the stored value.
type UpdateParams struct {
	Name        *string
	Description *string
	Genre       *string
	CoverImage  *string
	IsPublic    *bool
}

// Update edits playlist fields. Only the owner may update.
func (s *Service) Update(ctx context.Context, playlistID, requesterID int64, params UpdateParams) (*model.Playlist, error) {
	playlist, err := s.load(playlistID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(playlist, requesterID); err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, apperr.New(apperr.InvalidArgument, "playlist name is required")
		}
		playlist.Name = name
	}
	if params.Description != nil {
		playlist.Description = *params.Description
	}
	if params.Genre != nil {
		playlist.Genre = *params.Genre
	}
	if params.IsPublic != nil {
		playlist.IsPublic = *params.IsPublic
	}
	if params.CoverImage != nil && *params.CoverImage != "" {
		// Replacing the cover orphans the old object; drop it.
		s.removeCover(ctx, playlist.CoverImage)
		playlist.CoverImage = *params.CoverImage
	}

	if err := s.playlists.UpdatePlaylist(playlist); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update playlist", err)
	}
	return playlist, nil
}

// Delete removes the playlist and its cover object. Only the owner may
// delete.
func (s *Service) Delete(ctx context.Context, playlistID, requesterID int64) error {
	playlist, err := s.load(playlistID)
	if err != nil {
		return err
	}
	if err := requireOwner(playlist, requesterID); err != nil {
		return err
	}

	if err := s.playlists.DeletePlaylist(playlistID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete playlist", err)
	}

	s.removeCover(ctx, playlist.CoverImage)
	return nil
}

// View returns the playlist with its songs. Private playlists are
// visible to the owner only. A successful view counts as a play.
func (s *Service) View(ctx context.Context, playlistID, requesterID int64) (*model.Playlist, error) {
	playlist, err := s.load(playlistID)
	if err != nil {
		return nil, err
	}

	if !playlist.IsPublic && playlist.CreatedBy != requesterID {
		return nil, apperr.New(apperr.Forbidden, "this playlist is private")
	}

	// Popularity counter, not a transactional read: the increment is
	// atomic at the storage layer but the returned count may trail
	// concurrent views.
	if err := s.playlists.IncrementPlays(playlistID); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to count playlist view", err)
	}
	playlist.Plays++

	songs, err := s.playlists.GetPlaylistSongs(playlistID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load playlist songs", err)
	}
	playlist.Songs = songs
	return playlist, nil
}

// ListPublic returns a page of public playlists.
func (s *Service) ListPublic(ctx context.Context, filter repository.PlaylistFilter) ([]*model.Playlist, int64, error) {
	playlists, total, err := s.playlists.ListPublicPlaylists(filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to list public playlists", err)
	}
	return playlists, total, nil
}

// ListOwned returns the requester's own playlists.
func (s *Service) ListOwned(ctx context.Context, ownerID int64) ([]*model.Playlist, error) {
	playlists, err := s.playlists.ListPlaylistsByOwner(ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list playlists", err)
	}
	return playlists, nil
}

// removeCover deletes a cover object unless it is the shared default.
// Cleanup failures are logged, not surfaced: the playlist mutation has
// already committed.
func (s *Service) removeCover(ctx context.Context, coverImage string) {
	if s.files == nil || coverImage == "" || coverImage == defaultCoverImage {
		return
	}
	if err := s.files.Remove(ctx, coverImage); err != nil {
		logger.Warn("Failed to remove playlist cover", logger.String("path", coverImage), logger.ErrorField(err))
	}
}
