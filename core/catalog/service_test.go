package catalog

import (
	"context"
	"testing"
	"time"

	"sonicstream/apperr"
	"sonicstream/model"
	"sonicstream/repository"
)

type fakeSongRepo struct {
	songs   map[int64]*model.Song
	nextID  int64
	updated *model.Song
}

func newFakeSongRepo() *fakeSongRepo {
	return &fakeSongRepo{songs: make(map[int64]*model.Song), nextID: 1}
}

func (f *fakeSongRepo) CreateSong(song *model.Song) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *song
	cp.ID = id
	f.songs[id] = &cp
	return id, nil
}

func (f *fakeSongRepo) GetSongByID(id int64) (*model.Song, error) {
	s, ok := f.songs[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSongRepo) ListSongs(filter repository.SongFilter) ([]*model.Song, int64, error) {
	var out []*model.Song
	for _, s := range f.songs {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSongRepo) UpdateSong(song *model.Song) error {
	cp := *song
	f.songs[song.ID] = &cp
	f.updated = &cp
	return nil
}

func (f *fakeSongRepo) DeleteSong(id int64) error {
	delete(f.songs, id)
	return nil
}

func (f *fakeSongRepo) IncrementPlays(id int64) error {
	f.songs[id].Plays++
	return nil
}

func (f *fakeSongRepo) IncrementDownloads(id int64) error {
	f.songs[id].Downloads++
	return nil
}

// fakeFileStore records removals.
type fakeFileStore struct {
	removed []string
}

func (f *fakeFileStore) Exists(ctx context.Context, objectPath string) (bool, error) {
	return true, nil
}

func (f *fakeFileStore) Remove(ctx context.Context, objectPath string) error {
	f.removed = append(f.removed, objectPath)
	return nil
}

const (
	uploaderID = int64(1)
	otherID    = int64(2)
)

func newTestService() (*Service, *fakeSongRepo, *fakeFileStore) {
	repo := newFakeSongRepo()
	files := &fakeFileStore{}
	return NewService(repo, files), repo, files
}

func seedSong(repo *fakeSongRepo) *model.Song {
	song := &model.Song{
		Title:      "seeded",
		Artist:     "artist",
		Duration:   180,
		AudioFile:  "audio/seeded.mp3",
		CoverImage: "covers/seeded.jpg",
		UploadedBy: uploaderID,
	}
	id, _ := repo.CreateSong(song)
	return repo.songs[id]
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	valid := CreateParams{Title: "t", Artist: "a", Duration: 120, AudioFile: "audio/x.mp3"}

	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"missing title", func(p *CreateParams) { p.Title = "  " }},
		{"missing artist", func(p *CreateParams) { p.Artist = "" }},
		{"zero duration", func(p *CreateParams) { p.Duration = 0 }},
		{"negative duration", func(p *CreateParams) { p.Duration = -5 }},
		{"missing audio", func(p *CreateParams) { p.AudioFile = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := valid
			tt.mutate(&params)
			if _, err := svc.Create(ctx, uploaderID, params); !apperr.Is(err, apperr.InvalidArgument) {
				t.Errorf("expected InvalidArgument, got %v", err)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	svc, repo, _ := newTestService()

	song, err := svc.Create(context.Background(), uploaderID, CreateParams{
		Title:     "  spaced  ",
		Artist:    "artist",
		Duration:  200,
		AudioFile: "audio/x.mp3",
		IsPremium: true,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if song.Title != "spaced" {
		t.Errorf("title = %q, want trimmed", song.Title)
	}
	if song.UploadedBy != uploaderID {
		t.Errorf("uploadedBy = %d, want %d", song.UploadedBy, uploaderID)
	}
	if song.CoverImage != defaultCoverImage {
		t.Errorf("coverImage = %q, want default", song.CoverImage)
	}
	if !repo.songs[song.ID].IsPremium {
		t.Error("stored song should be premium")
	}
}

func TestGetCountsPlay(t *testing.T) {
	svc, repo, _ := newTestService()
	seeded := seedSong(repo)

	song, err := svc.Get(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if song.Plays != 1 {
		t.Errorf("returned plays = %d, want 1", song.Plays)
	}
	if repo.songs[seeded.ID].Plays != 1 {
		t.Errorf("stored plays = %d, want 1", repo.songs[seeded.ID].Plays)
	}
}

func TestLookupDoesNotCountPlay(t *testing.T) {
	svc, repo, _ := newTestService()
	seeded := seedSong(repo)

	if _, err := svc.Lookup(context.Background(), seeded.ID); err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if repo.songs[seeded.ID].Plays != 0 {
		t.Errorf("plays = %d, want 0", repo.songs[seeded.ID].Plays)
	}
}

func TestGetUnknownSong(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Get(context.Background(), 99); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	svc, repo, _ := newTestService()
	seeded := seedSong(repo)
	ctx := context.Background()
	title := "renamed"

	if _, err := svc.Update(ctx, seeded.ID, otherID, model.RoleStandard, UpdateParams{Title: &title}); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("stranger update: expected Forbidden, got %v", err)
	}

	if _, err := svc.Update(ctx, seeded.ID, uploaderID, model.RoleStandard, UpdateParams{Title: &title}); err != nil {
		t.Errorf("uploader update returned error: %v", err)
	}

	// Admins may edit songs they did not upload.
	title2 := "admin rename"
	if _, err := svc.Update(ctx, seeded.ID, otherID, model.RoleAdmin, UpdateParams{Title: &title2}); err != nil {
		t.Errorf("admin update returned error: %v", err)
	}
	if repo.songs[seeded.ID].Title != "admin rename" {
		t.Errorf("title = %q, want %q", repo.songs[seeded.ID].Title, "admin rename")
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc, repo, _ := newTestService()
	seeded := seedSong(repo)
	premium := true

	song, err := svc.Update(context.Background(), seeded.ID, uploaderID, model.RoleStandard, UpdateParams{IsPremium: &premium})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if song.Title != "seeded" || song.Artist != "artist" {
		t.Errorf("unset fields changed: title=%q artist=%q", song.Title, song.Artist)
	}
	if !song.IsPremium {
		t.Error("isPremium should be updated")
	}
}

func TestUpdateReplacesAudioObject(t *testing.T) {
	svc, repo, files := newTestService()
	seeded := seedSong(repo)

	newAudio := "audio/replacement.mp3"
	if _, err := svc.Update(context.Background(), seeded.ID, uploaderID, model.RoleStandard, UpdateParams{AudioFile: &newAudio}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if len(files.removed) != 1 || files.removed[0] != "audio/seeded.mp3" {
		t.Errorf("removed = %v, want old audio object", files.removed)
	}
	if repo.songs[seeded.ID].AudioFile != newAudio {
		t.Errorf("audioFile = %q, want %q", repo.songs[seeded.ID].AudioFile, newAudio)
	}
}

func TestDeleteRemovesObjects(t *testing.T) {
	svc, repo, files := newTestService()
	seeded := seedSong(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, seeded.ID, otherID, model.RoleStandard); !apperr.Is(err, apperr.Forbidden) {
		t.Fatalf("stranger delete: expected Forbidden, got %v", err)
	}

	if err := svc.Delete(ctx, seeded.ID, uploaderID, model.RoleStandard); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.songs[seeded.ID]; ok {
		t.Error("song should be gone after delete")
	}
	if len(files.removed) != 2 {
		t.Errorf("removed %d objects, want 2 (audio and cover)", len(files.removed))
	}
}

func TestDeleteKeepsDefaultCover(t *testing.T) {
	svc, repo, files := newTestService()
	song := &model.Song{
		Title:      "bare",
		Artist:     "artist",
		Duration:   60,
		AudioFile:  "audio/bare.mp3",
		CoverImage: defaultCoverImage,
		UploadedBy: uploaderID,
	}
	id, _ := repo.CreateSong(song)

	if err := svc.Delete(context.Background(), id, uploaderID, model.RoleStandard); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	for _, path := range files.removed {
		if path == defaultCoverImage {
			t.Error("shared default cover must never be removed")
		}
	}
}

func TestCreateDefaultsReleaseDate(t *testing.T) {
	svc, repo, _ := newTestService()

	before := time.Now()
	song, err := svc.Create(context.Background(), uploaderID, CreateParams{
		Title: "t", Artist: "a", Duration: 60, AudioFile: "audio/x.mp3",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	stored := repo.songs[song.ID]
	if stored.ReleaseDate.Before(before.Add(-time.Minute)) {
		t.Errorf("releaseDate = %v, want roughly now", stored.ReleaseDate)
	}
}
