// Package catalog manages song records and the uploader-or-admin
// mutation rights over them.
package catalog

import (
	"context"
	"strings"
	"time"

	"sonicstream/apperr"
	"sonicstream/logger"
	"sonicstream/model"
	"sonicstream/repository"
	"sonicstream/storage"
)

const defaultCoverImage = "default-cover.jpg"

// Service implements the song catalog operations.
type Service struct {
	songs repository.SongRepository
	files storage.FileStore
}

// NewService creates a catalog service. files may be nil when no object
// store is configured; file cleanup is then skipped.
func NewService(songs repository.SongRepository, files storage.FileStore) *Service {
	return &Service{songs: songs, files: files}
}

// requireUploader is the authorization predicate for song mutations:
// the original uploader or an admin.
func requireUploader(song *model.Song, requesterID int64, role model.Role) error {
	if song.UploadedBy != requesterID && role != model.RoleAdmin {
		return apperr.New(apperr.Forbidden, "not authorized to modify this song")
	}
	return nil
}

// load resolves a song id or reports NotFound.
func (s *Service) load(songID int64) (*model.Song, error) {
	song, err := s.songs.GetSongByID(songID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to load song", err)
	}
	if song == nil {
		return nil, apperr.New(apperr.NotFound, "song not found")
	}
	return song, nil
}

// CreateParams are the fields a new song accepts. AudioFile and
// CoverImage are object-store paths produced by the upload layer.
type CreateParams struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	Duration    int
	AudioFile   string
	CoverImage  string
	ReleaseDate time.Time
	IsPremium   bool
	Lyrics      string
}

// Create registers an uploaded song.
func (s *Service) Create(ctx context.Context, uploaderID int64, params CreateParams) (*model.Song, error) {
	if strings.TrimSpace(params.Title) == "" || strings.TrimSpace(params.Artist) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "title and artist are required")
	}
	if params.Duration <= 0 {
		return nil, apperr.New(apperr.InvalidArgument, "duration must be positive")
	}
	if params.AudioFile == "" {
		return nil, apperr.New(apperr.InvalidArgument, "audio file is required")
	}

	releaseDate := params.ReleaseDate
	if releaseDate.IsZero() {
		releaseDate = time.Now()
	}

	song := &model.Song{
		Title:       strings.TrimSpace(params.Title),
		Artist:      strings.TrimSpace(params.Artist),
		Album:       params.Album,
		Genre:       params.Genre,
		Duration:    params.Duration,
		AudioFile:   params.AudioFile,
		CoverImage:  params.CoverImage,
		ReleaseDate: releaseDate,
		IsPremium:   params.IsPremium,
		UploadedBy:  uploaderID,
		Lyrics:      params.Lyrics,
	}

	id, err := s.songs.CreateSong(song)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create song", err)
	}
	song.ID = id
	if song.CoverImage == "" {
		song.CoverImage = defaultCoverImage
	}
	return song, nil
}

// Lookup returns a song without counting a play.
func (s *Service) Lookup(ctx context.Context, songID int64) (*model.Song, error) {
	return s.load(songID)
}

// Get returns a song and counts the read as a play.
func (s *Service) Get(ctx context.Context, songID int64) (*model.Song, error) {
	song, err := s.load(songID)
	if err != nil {
		return nil, err
	}

	if err := s.songs.IncrementPlays(songID); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to count play", err)
	}
	song.Plays++
	return song, nil
}

// List returns a catalog page plus the total match count.
func (s *Service) List(ctx context.Context, filter repository.SongFilter) ([]*model.Song, int64, error) {
	songs, total, err := s.songs.ListSongs(filter)
	if err != nil {
		return nil, 0, apperr.Wrap(apperr.Internal, "failed to list songs", err)
	}
	return songs, total, nil
}

// UpdateParams are the editable song fields. Nil pointers keep the
// stored value.
type UpdateParams struct {
	Title       *string
	Artist      *string
	Album       *string
	Genre       *string
	ReleaseDate *time.Time
	IsPremium   *bool
	Lyrics      *string
	AudioFile   *string
	CoverImage  *string
}

// Update edits song metadata. Only the uploader or an admin may update.
func (s *Service) Update(ctx context.Context, songID, requesterID int64, role model.Role, params UpdateParams) (*model.Song, error) {
	song, err := s.load(songID)
	if err != nil {
		return nil, err
	}
	if err := requireUploader(song, requesterID, role); err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, apperr.New(apperr.InvalidArgument, "title is required")
		}
		song.Title = title
	}
	if params.Artist != nil {
		artist := strings.TrimSpace(*params.Artist)
		if artist == "" {
			return nil, apperr.New(apperr.InvalidArgument, "artist is required")
		}
		song.Artist = artist
	}
	if params.Album != nil {
		song.Album = *params.Album
	}
	if params.Genre != nil {
		song.Genre = *params.Genre
	}
	if params.ReleaseDate != nil {
		song.ReleaseDate = *params.ReleaseDate
	}
	if params.IsPremium != nil {
		song.IsPremium = *params.IsPremium
	}
	if params.Lyrics != nil {
		song.Lyrics = *params.Lyrics
	}
	if params.AudioFile != nil && *params.AudioFile != "" {
		s.removeObject(ctx, song.AudioFile, "")
		song.AudioFile = *params.AudioFile
	}
	if params.CoverImage != nil && *params.CoverImage != "" {
		s.removeObject(ctx, song.CoverImage, defaultCoverImage)
		song.CoverImage = *params.CoverImage
	}

	if err := s.songs.UpdateSong(song); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update song", err)
	}
	return song, nil
}

// Delete removes the song record and its backing objects. Only the
// uploader or an admin may delete.
func (s *Service) Delete(ctx context.Context, songID, requesterID int64, role model.Role) error {
	song, err := s.load(songID)
	if err != nil {
		return err
	}
	if err := requireUploader(song, requesterID, role); err != nil {
		return err
	}

	if err := s.songs.DeleteSong(songID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete song", err)
	}

	s.removeObject(ctx, song.AudioFile, "")
	s.removeObject(ctx, song.CoverImage, defaultCoverImage)
	return nil
}

// removeObject deletes a backing object unless it is the shared
// default. Cleanup failures are logged, not surfaced: the record
// mutation has already committed.
func (s *Service) removeObject(ctx context.Context, objectPath, defaultPath string) {
	if s.files == nil || objectPath == "" || objectPath == defaultPath {
		return
	}
	if err := s.files.Remove(ctx, objectPath); err != nil {
		logger.Warn("Failed to remove song object", logger.String("path", objectPath), logger.ErrorField(err))
	}
}
