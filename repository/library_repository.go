package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sonicstream/model"

	"gorm.io/gorm"
)

// HistoryLimit caps the recently-played history per user.
const HistoryLimit = 20

// LibraryRepository defines the data operations behind a user's
// personal library: the favorites set and the bounded play history.
type LibraryRepository interface {
	// AddFavorite inserts a favorites row; a duplicate surfaces as
	// ErrDuplicateEntry via the composite primary key.
	AddFavorite(ctx context.Context, userID, songID int64) error
	// RemoveFavorite deletes a favorites row. Removing a non-member is
	// a no-op, not an error.
	RemoveFavorite(ctx context.Context, userID, songID int64) error
	IsFavorite(ctx context.Context, userID, songID int64) (bool, error)
	ListFavorites(ctx context.Context, userID int64) ([]*model.Song, error)
	// RecordPlay inserts a history entry unless the song is already
	// present anywhere in the history, then prunes beyond HistoryLimit.
	// Returns false when the entry was skipped as a duplicate.
	RecordPlay(ctx context.Context, userID, songID int64, playedAt time.Time) (bool, error)
	ListRecentlyPlayed(ctx context.Context, userID int64) ([]*model.PlayedSong, error)
}

// gormLibraryRepository implements LibraryRepository with GORM.
type gormLibraryRepository struct {
	db *gorm.DB
}

// NewGormLibraryRepository creates a GORM-backed library repository.
func NewGormLibraryRepository(db *gorm.DB) LibraryRepository {
	return &gormLibraryRepository{db: db}
}

// AddFavorite inserts into the favorites set.
func (r *gormLibraryRepository) AddFavorite(ctx context.Context, userID, songID int64) error {
	fav := &model.Favorite{UserID: userID, SongID: songID, CreatedAt: time.Now()}
	err := r.db.WithContext(ctx).Create(fav).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to add favorite (user %d, song %d): %w", userID, songID, err)
	}
	return nil
}

// RemoveFavorite deletes from the favorites set.
func (r *gormLibraryRepository) RemoveFavorite(ctx context.Context, userID, songID int64) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Delete(&model.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove favorite (user %d, song %d): %w", userID, songID, err)
	}
	return nil
}

// IsFavorite reports favorites membership.
func (r *gormLibraryRepository) IsFavorite(ctx context.Context, userID, songID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND song_id = ?", userID, songID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check favorite (user %d, song %d): %w", userID, songID, err)
	}
	return count > 0, nil
}

// ListFavorites returns the favorited songs, most recently added first.
func (r *gormLibraryRepository) ListFavorites(ctx context.Context, userID int64) ([]*model.Song, error) {
	var songs []*model.Song
	err := r.db.WithContext(ctx).Table("songs").
		Select("songs.*").
		Joins("INNER JOIN favorites f ON f.song_id = songs.id").
		Where("f.user_id = ?", userID).
		Order("f.created_at DESC").
		Find(&songs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites for user %d: %w", userID, err)
	}
	return songs, nil
}

// RecordPlay appends to the history with dedup-by-song semantics: a
// song already anywhere in the history is not re-promoted.
func (r *gormLibraryRepository) RecordPlay(ctx context.Context, userID, songID int64, playedAt time.Time) (bool, error) {
	recorded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.RecentPlay{}).
			Where("user_id = ? AND song_id = ?", userID, songID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		entry := &model.RecentPlay{UserID: userID, SongID: songID, PlayedAt: playedAt}
		if err := tx.Create(entry).Error; err != nil {
			// A concurrent insert of the same song loses the race; the
			// unique index turns that into a skip, not a failure.
			if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateKeyError(err) {
				return nil
			}
			return err
		}
		recorded = true

		// Prune everything past the newest HistoryLimit entries.
		var stale []int64
		if err := tx.Model(&model.RecentPlay{}).
			Where("user_id = ?", userID).
			Order("played_at DESC").
			Offset(HistoryLimit).
			Limit(HistoryLimit).
			Pluck("id", &stale).Error; err != nil {
			return err
		}
		if len(stale) > 0 {
			if err := tx.Delete(&model.RecentPlay{}, stale).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to record play (user %d, song %d): %w", userID, songID, err)
	}
	return recorded, nil
}

// ListRecentlyPlayed returns the history, most recent first.
func (r *gormLibraryRepository) ListRecentlyPlayed(ctx context.Context, userID int64) ([]*model.PlayedSong, error) {
	var entries []model.RecentPlay
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("played_at DESC").
		Limit(HistoryLimit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recently played for user %d: %w", userID, err)
	}
	if len(entries) == 0 {
		return []*model.PlayedSong{}, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.SongID)
	}

	var songs []*model.Song
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to load songs for recently played: %w", err)
	}

	byID := make(map[int64]*model.Song, len(songs))
	for _, s := range songs {
		byID[s.ID] = s
	}

	played := make([]*model.PlayedSong, 0, len(entries))
	for _, e := range entries {
		song, ok := byID[e.SongID]
		if !ok {
			continue // song deleted since it was played
		}
		played = append(played, &model.PlayedSong{Song: song, PlayedAt: e.PlayedAt})
	}
	return played, nil
}
