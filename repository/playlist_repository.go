package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"sonicstream/model"
)

// PlaylistFilter narrows and orders public playlist listings.
type PlaylistFilter struct {
	Page   int
	Limit  int
	Genre  string
	SortBy string // newest, popular
}

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	CreatePlaylist(playlist *model.Playlist) (int64, error)
	GetPlaylistByID(id int64) (*model.Playlist, error)
	ListPublicPlaylists(filter PlaylistFilter) ([]*model.Playlist, int64, error)
	ListPlaylistsByOwner(ownerID int64) ([]*model.Playlist, error)
	UpdatePlaylist(playlist *model.Playlist) error
	DeletePlaylist(id int64) error
	GetPlaylistSongs(playlistID int64) ([]*model.Song, error)
	// AddSongToPlaylist appends at the end of the ordering; a duplicate
	// membership surfaces as ErrDuplicateEntry via the primary key.
	AddSongToPlaylist(playlistID, songID int64) error
	RemoveSongFromPlaylist(playlistID, songID int64) error
	IncrementPlays(playlistID int64) error
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

const playlistColumns = "id, name, description, cover_image, created_by, is_public, plays, genre, created_at, updated_at"

func scanPlaylist(row rowScanner) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	var description, genre sql.NullString
	err := row.Scan(&playlist.ID, &playlist.Name, &description, &playlist.CoverImage,
		&playlist.CreatedBy, &playlist.IsPublic, &playlist.Plays, &genre,
		&playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		return nil, err
	}
	playlist.Description = description.String
	playlist.Genre = genre.String
	return playlist, nil
}

// CreatePlaylist adds a new playlist.
func (r *mysqlPlaylistRepository) CreatePlaylist(playlist *model.Playlist) (int64, error) {
	query := `INSERT INTO playlists (name, description, cover_image, created_by, is_public, genre)
	           VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreatePlaylist: %w", err)
	}
	defer stmt.Close()

	cover := playlist.CoverImage
	if cover == "" {
		cover = "default-playlist.jpg"
	}

	res, err := stmt.Exec(playlist.Name, playlist.Description, cover, playlist.CreatedBy, playlist.IsPublic, playlist.Genre)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreatePlaylist: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreatePlaylist: %w", err)
	}
	return id, nil
}

// GetPlaylistByID retrieves a playlist by its ID.
func (r *mysqlPlaylistRepository) GetPlaylistByID(id int64) (*model.Playlist, error) {
	query := fmt.Sprintf("SELECT %s FROM playlists WHERE id = ?", playlistColumns)
	playlist, err := scanPlaylist(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Playlist not found
		}
		return nil, fmt.Errorf("failed to scan playlist by ID %d: %w", id, err)
	}
	return playlist, nil
}

// ListPublicPlaylists returns a page of public playlists plus the total count.
func (r *mysqlPlaylistRepository) ListPublicPlaylists(filter PlaylistFilter) ([]*model.Playlist, int64, error) {
	conds := []string{"is_public = 1"}
	var args []interface{}

	if filter.Genre != "" {
		conds = append(conds, "genre = ?")
		args = append(args, filter.Genre)
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var order string
	switch filter.SortBy {
	case "popular":
		order = " ORDER BY plays DESC"
	default:
		order = " ORDER BY created_at DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM playlists"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count public playlists: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM playlists%s%s LIMIT ? OFFSET ?", playlistColumns, where, order)
	rows, err := r.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query public playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan playlist in ListPublicPlaylists: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error during rows iteration in ListPublicPlaylists: %w", err)
	}

	return playlists, total, nil
}

// ListPlaylistsByOwner returns all playlists created by a user, newest first.
func (r *mysqlPlaylistRepository) ListPlaylistsByOwner(ownerID int64) ([]*model.Playlist, error) {
	query := fmt.Sprintf("SELECT %s FROM playlists WHERE created_by = ? ORDER BY created_at DESC", playlistColumns)
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for owner %d: %w", ownerID, err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist in ListPlaylistsByOwner: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in ListPlaylistsByOwner: %w", err)
	}

	return playlists, nil
}

// UpdatePlaylist rewrites the mutable fields of a playlist.
func (r *mysqlPlaylistRepository) UpdatePlaylist(playlist *model.Playlist) error {
	query := `UPDATE playlists SET name = ?, description = ?, cover_image = ?, is_public = ?, genre = ?, updated_at = NOW() WHERE id = ?`
	_, err := r.db.Exec(query, playlist.Name, playlist.Description, playlist.CoverImage, playlist.IsPublic, playlist.Genre, playlist.ID)
	if err != nil {
		return fmt.Errorf("failed to execute UpdatePlaylist for playlist ID %d: %w", playlist.ID, err)
	}
	return nil
}

// DeletePlaylist removes a playlist row; membership rows cascade.
func (r *mysqlPlaylistRepository) DeletePlaylist(id int64) error {
	_, err := r.db.Exec("DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist %d: %w", id, err)
	}
	return nil
}

// GetPlaylistSongs returns the member songs in playlist order.
func (r *mysqlPlaylistRepository) GetPlaylistSongs(playlistID int64) ([]*model.Song, error) {
	query := fmt.Sprintf(`SELECT %s FROM songs s
	           INNER JOIN playlist_songs ps ON ps.song_id = s.id
	           WHERE ps.playlist_id = ? ORDER BY ps.position ASC`,
		"s.id, s.title, s.artist, s.album, s.genre, s.duration, s.cover_image, s.audio_file, s.release_date, s.plays, s.downloads, s.is_premium, s.uploaded_by, s.lyrics, s.created_at, s.updated_at")
	rows, err := r.db.Query(query, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs for playlist %d: %w", playlistID, err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song in GetPlaylistSongs: %w", err)
		}
		songs = append(songs, song)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetPlaylistSongs: %w", err)
	}

	return songs, nil
}

// AddSongToPlaylist appends a song at the end of the playlist ordering.
func (r *mysqlPlaylistRepository) AddSongToPlaylist(playlistID, songID int64) error {
	query := `INSERT INTO playlist_songs (playlist_id, song_id, position)
	           SELECT ?, ?, COALESCE(MAX(position) + 1, 0) FROM playlist_songs WHERE playlist_id = ?`
	_, err := r.db.Exec(query, playlistID, songID, playlistID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("failed to add song %d to playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// RemoveSongFromPlaylist removes a membership row. Removing a song that
// is not a member is a no-op.
func (r *mysqlPlaylistRepository) RemoveSongFromPlaylist(playlistID, songID int64) error {
	_, err := r.db.Exec("DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?", playlistID, songID)
	if err != nil {
		return fmt.Errorf("failed to remove song %d from playlist %d: %w", songID, playlistID, err)
	}
	return nil
}

// IncrementPlays bumps the playlist play counter atomically.
func (r *mysqlPlaylistRepository) IncrementPlays(playlistID int64) error {
	_, err := r.db.Exec("UPDATE playlists SET plays = plays + 1 WHERE id = ?", playlistID)
	if err != nil {
		return fmt.Errorf("failed to increment plays for playlist %d: %w", playlistID, err)
	}
	return nil
}
