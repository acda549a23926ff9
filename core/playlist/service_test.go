package playlist

import (
	"context"
	"testing"

	"sonicstream/apperr"
	"sonicstream/model"
	"sonicstream/repository"
)

type fakeSongRepo struct {
	songs map[int64]*model.Song
}

func (f *fakeSongRepo) CreateSong(song *model.Song) (int64, error) { return 0, nil }
func (f *fakeSongRepo) GetSongByID(id int64) (*model.Song, error)  { return f.songs[id], nil }
func (f *fakeSongRepo) ListSongs(filter repository.SongFilter) ([]*model.Song, int64, error) {
	return nil, 0, nil
}
func (f *fakeSongRepo) UpdateSong(song *model.Song) error { return nil }
func (f *fakeSongRepo) DeleteSong(id int64) error         { return nil }
func (f *fakeSongRepo) IncrementPlays(id int64) error     { return nil }
func (f *fakeSongRepo) IncrementDownloads(id int64) error { return nil }

type fakePlaylistRepo struct {
	playlists map[int64]*model.Playlist
	members   map[int64][]int64 // playlistID -> ordered songIDs
	nextID    int64
	songs     *fakeSongRepo
}

func newFakePlaylistRepo(songs *fakeSongRepo) *fakePlaylistRepo {
	return &fakePlaylistRepo{
		playlists: make(map[int64]*model.Playlist),
		members:   make(map[int64][]int64),
		nextID:    1,
		songs:     songs,
	}
}

func (f *fakePlaylistRepo) CreatePlaylist(p *model.Playlist) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *p
	cp.ID = id
	f.playlists[id] = &cp
	return id, nil
}

func (f *fakePlaylistRepo) GetPlaylistByID(id int64) (*model.Playlist, error) {
	p, ok := f.playlists[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePlaylistRepo) ListPublicPlaylists(filter repository.PlaylistFilter) ([]*model.Playlist, int64, error) {
	var out []*model.Playlist
	for _, p := range f.playlists {
		if p.IsPublic {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakePlaylistRepo) ListPlaylistsByOwner(ownerID int64) ([]*model.Playlist, error) {
	var out []*model.Playlist
	for _, p := range f.playlists {
		if p.CreatedBy == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlaylistRepo) UpdatePlaylist(p *model.Playlist) error {
	cp := *p
	f.playlists[p.ID] = &cp
	return nil
}

func (f *fakePlaylistRepo) DeletePlaylist(id int64) error {
	delete(f.playlists, id)
	delete(f.members, id)
	return nil
}

func (f *fakePlaylistRepo) GetPlaylistSongs(playlistID int64) ([]*model.Song, error) {
	var out []*model.Song
	for _, songID := range f.members[playlistID] {
		out = append(out, f.songs.songs[songID])
	}
	return out, nil
}

func (f *fakePlaylistRepo) AddSongToPlaylist(playlistID, songID int64) error {
	for _, existing := range f.members[playlistID] {
		if existing == songID {
			return repository.ErrDuplicateEntry
		}
	}
	f.members[playlistID] = append(f.members[playlistID], songID)
	return nil
}

func (f *fakePlaylistRepo) RemoveSongFromPlaylist(playlistID, songID int64) error {
	members := f.members[playlistID]
	for i, existing := range members {
		if existing == songID {
			f.members[playlistID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePlaylistRepo) IncrementPlays(playlistID int64) error {
	f.playlists[playlistID].Plays++
	return nil
}

const (
	ownerID    = int64(1)
	strangerID = int64(2)
)

func newTestService(t *testing.T) (*Service, *fakePlaylistRepo) {
	t.Helper()
	songs := &fakeSongRepo{songs: map[int64]*model.Song{
		10: {ID: 10, Title: "first"},
		11: {ID: 11, Title: "second"},
	}}
	repo := newFakePlaylistRepo(songs)
	return NewService(repo, songs, nil), repo
}

func mustCreate(t *testing.T, svc *Service, params CreateParams) *model.Playlist {
	t.Helper()
	p, err := svc.Create(context.Background(), ownerID, params)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	return p
}

func TestCreateDefaultsPublic(t *testing.T) {
	svc, repo := newTestService(t)

	p := mustCreate(t, svc, CreateParams{Name: "road trip"})
	if !repo.playlists[p.ID].IsPublic {
		t.Error("playlist should default to public")
	}

	private := false
	p2 := mustCreate(t, svc, CreateParams{Name: "secret", IsPublic: &private})
	if repo.playlists[p2.ID].IsPublic {
		t.Error("playlist should honor explicit isPublic=false")
	}
}

func TestCreateRequiresName(t *testing.T) {
	svc, _ := newTestService(t)

	for _, name := range []string{"", "   "} {
		if _, err := svc.Create(context.Background(), ownerID, CreateParams{Name: name}); !apperr.Is(err, apperr.InvalidArgument) {
			t.Errorf("Create(%q): expected InvalidArgument, got %v", name, err)
		}
	}
}

func TestOwnerOnlyMutations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateParams{Name: "mine"})

	name := "renamed"
	tests := []struct {
		name string
		call func() error
	}{
		{"add song", func() error { return svc.AddSong(ctx, p.ID, 10, strangerID) }},
		{"remove song", func() error { return svc.RemoveSong(ctx, p.ID, 10, strangerID) }},
		{"update", func() error {
			_, err := svc.Update(ctx, p.ID, strangerID, UpdateParams{Name: &name})
			return err
		}},
		{"delete", func() error { return svc.Delete(ctx, p.ID, strangerID) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !apperr.Is(err, apperr.Forbidden) {
				t.Errorf("expected Forbidden for non-owner, got %v", err)
			}
		})
	}
}

func TestAddSong(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateParams{Name: "mine"})

	if err := svc.AddSong(ctx, p.ID, 10, ownerID); err != nil {
		t.Fatalf("AddSong returned error: %v", err)
	}
	if err := svc.AddSong(ctx, p.ID, 10, ownerID); !apperr.Is(err, apperr.AlreadyExists) {
		t.Errorf("duplicate add: expected AlreadyExists, got %v", err)
	}
	if err := svc.AddSong(ctx, p.ID, 99, ownerID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("missing song: expected NotFound, got %v", err)
	}
	if len(repo.members[p.ID]) != 1 {
		t.Errorf("membership length = %d, want 1", len(repo.members[p.ID]))
	}
}

func TestRemoveSongNoOp(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateParams{Name: "mine"})

	// Removing a song that was never added succeeds.
	if err := svc.RemoveSong(ctx, p.ID, 10, ownerID); err != nil {
		t.Errorf("RemoveSong returned error: %v", err)
	}
}

func TestViewPrivatePlaylist(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	private := false
	p := mustCreate(t, svc, CreateParams{Name: "secret", IsPublic: &private})

	if _, err := svc.View(ctx, p.ID, strangerID); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("stranger view: expected Forbidden, got %v", err)
	}
	if _, err := svc.View(ctx, p.ID, 0); !apperr.Is(err, apperr.Forbidden) {
		t.Errorf("anonymous view: expected Forbidden, got %v", err)
	}
	if _, err := svc.View(ctx, p.ID, ownerID); err != nil {
		t.Errorf("owner view returned error: %v", err)
	}
}

func TestViewCountsPlaysAndLoadsSongs(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateParams{Name: "mine"})

	if err := svc.AddSong(ctx, p.ID, 10, ownerID); err != nil {
		t.Fatalf("AddSong returned error: %v", err)
	}
	if err := svc.AddSong(ctx, p.ID, 11, ownerID); err != nil {
		t.Fatalf("AddSong returned error: %v", err)
	}

	viewed, err := svc.View(ctx, p.ID, strangerID)
	if err != nil {
		t.Fatalf("View returned error: %v", err)
	}
	if viewed.Plays != 1 {
		t.Errorf("plays = %d, want 1", viewed.Plays)
	}
	if repo.playlists[p.ID].Plays != 1 {
		t.Errorf("stored plays = %d, want 1", repo.playlists[p.ID].Plays)
	}
	if len(viewed.Songs) != 2 {
		t.Errorf("songs length = %d, want 2", len(viewed.Songs))
	}
}

func TestViewUnknownPlaylist(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.View(context.Background(), 99, ownerID); !apperr.Is(err, apperr.NotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateParams{Name: "mine", Description: "original", Genre: "rock"})

	name := "renamed"
	updated, err := svc.Update(ctx, p.ID, ownerID, UpdateParams{Name: &name})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "renamed" {
		t.Errorf("name = %q, want %q", updated.Name, "renamed")
	}
	if updated.Description != "original" || updated.Genre != "rock" {
		t.Errorf("unset fields changed: desc=%q genre=%q", updated.Description, updated.Genre)
	}
}

func TestDelete(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	p := mustCreate(t, svc, CreateParams{Name: "mine"})

	if err := svc.Delete(ctx, p.ID, ownerID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := repo.playlists[p.ID]; ok {
		t.Error("playlist should be gone after delete")
	}
}
