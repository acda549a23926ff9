// Package library manages a user's personal library: the favorites set
// and the bounded recently-played history.
package library

import (
	"context"
	"errors"
	"time"

	"sonicstream/apperr"
	"sonicstream/model"
	"sonicstream/repository"
)

// Service implements the favorites and play-history operations.
type Service struct {
	songs repository.SongRepository
	lib   repository.LibraryRepository
	now   func() time.Time
}

// NewService creates a library service.
func NewService(songs repository.SongRepository, lib repository.LibraryRepository) *Service {
	return &Service{songs: songs, lib: lib, now: time.Now}
}

// AddFavorite inserts a song into the user's favorites set. Favoriting
// a missing song is NotFound; favoriting twice is AlreadyExists.
func (s *Service) AddFavorite(ctx context.Context, userID, songID int64) error {
	song, err := s.songs.GetSongByID(songID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to load song", err)
	}
	if song == nil {
		return apperr.New(apperr.NotFound, "song not found")
	}

	if err := s.lib.AddFavorite(ctx, userID, songID); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return apperr.New(apperr.AlreadyExists, "song already in favorites")
		}
		return apperr.Wrap(apperr.Internal, "failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite removes a song from the favorites set. Removing a song
// that was never favorited succeeds as a no-op.
func (s *Service) RemoveFavorite(ctx context.Context, userID, songID int64) error {
	if err := s.lib.RemoveFavorite(ctx, userID, songID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to remove favorite", err)
	}
	return nil
}

// ListFavorites returns the user's favorited songs.
func (s *Service) ListFavorites(ctx context.Context, userID int64) ([]*model.Song, error) {
	songs, err := s.lib.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list favorites", err)
	}
	return songs, nil
}

// RecordPlay adds a song to the front of the recently-played history.
// A song already anywhere in the history is skipped rather than moved
// to the front, and the history never grows past its cap.
func (s *Service) RecordPlay(ctx context.Context, userID, songID int64) error {
	song, err := s.songs.GetSongByID(songID)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to load song", err)
	}
	if song == nil {
		return apperr.New(apperr.NotFound, "song not found")
	}

	if _, err := s.lib.RecordPlay(ctx, userID, songID, s.now()); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to record play", err)
	}
	return nil
}

// ListRecentlyPlayed returns the history, most recent first.
func (s *Service) ListRecentlyPlayed(ctx context.Context, userID int64) ([]*model.PlayedSong, error) {
	played, err := s.lib.ListRecentlyPlayed(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list recently played", err)
	}
	return played, nil
}
