package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"sonicstream/model"
)

// SongFilter narrows and orders catalog listings.
type SongFilter struct {
	Page   int
	Limit  int
	Genre  string
	Search string
	SortBy string // newest, popular, downloads
}

// SongRepository defines the interface for song data operations.
type SongRepository interface {
	CreateSong(song *model.Song) (int64, error)
	GetSongByID(id int64) (*model.Song, error)
	ListSongs(filter SongFilter) ([]*model.Song, int64, error)
	UpdateSong(song *model.Song) error
	DeleteSong(id int64) error
	// IncrementPlays and IncrementDownloads are storage-native atomic
	// increments; concurrent calls never lose updates.
	IncrementPlays(id int64) error
	IncrementDownloads(id int64) error
}

// mysqlSongRepository implements SongRepository for MySQL.
type mysqlSongRepository struct {
	db *sql.DB
}

// NewMySQLSongRepository creates a new mysqlSongRepository.
func NewMySQLSongRepository(db *sql.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

const songColumns = "id, title, artist, album, genre, duration, cover_image, audio_file, release_date, plays, downloads, is_premium, uploaded_by, lyrics, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSong(row rowScanner) (*model.Song, error) {
	song := &model.Song{}
	var album, genre, lyrics sql.NullString
	var releaseDate sql.NullTime
	err := row.Scan(&song.ID, &song.Title, &song.Artist, &album, &genre, &song.Duration,
		&song.CoverImage, &song.AudioFile, &releaseDate, &song.Plays, &song.Downloads,
		&song.IsPremium, &song.UploadedBy, &lyrics, &song.CreatedAt, &song.UpdatedAt)
	if err != nil {
		return nil, err
	}
	song.Album = album.String
	song.Genre = genre.String
	song.Lyrics = lyrics.String
	if releaseDate.Valid {
		song.ReleaseDate = releaseDate.Time
	}
	return song, nil
}

// CreateSong adds a new song to the catalog.
func (r *mysqlSongRepository) CreateSong(song *model.Song) (int64, error) {
	query := `INSERT INTO songs (title, artist, album, genre, duration, cover_image, audio_file, release_date, is_premium, uploaded_by, lyrics)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement for CreateSong: %w", err)
	}
	defer stmt.Close()

	cover := song.CoverImage
	if cover == "" {
		cover = "default-cover.jpg"
	}

	res, err := stmt.Exec(song.Title, song.Artist, song.Album, song.Genre, song.Duration,
		cover, song.AudioFile, song.ReleaseDate, song.IsPremium, song.UploadedBy, song.Lyrics)
	if err != nil {
		return 0, fmt.Errorf("failed to execute CreateSong: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for CreateSong: %w", err)
	}
	return id, nil
}

// GetSongByID retrieves a song by its ID.
func (r *mysqlSongRepository) GetSongByID(id int64) (*model.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE id = ?", songColumns)
	song, err := scanSong(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Song not found
		}
		return nil, fmt.Errorf("failed to scan song by ID %d: %w", id, err)
	}
	return song, nil
}

// ListSongs returns a page of the catalog plus the total match count.
func (r *mysqlSongRepository) ListSongs(filter SongFilter) ([]*model.Song, int64, error) {
	var conds []string
	var args []interface{}

	if filter.Genre != "" {
		conds = append(conds, "genre = ?")
		args = append(args, filter.Genre)
	}
	if filter.Search != "" {
		conds = append(conds, "(title LIKE ? OR artist LIKE ? OR album LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var order string
	switch filter.SortBy {
	case "popular":
		order = " ORDER BY plays DESC"
	case "downloads":
		order = " ORDER BY downloads DESC"
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
	countQuery := "SELECT COUNT(*) FROM songs" + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count songs: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM songs%s%s LIMIT ? OFFSET ?", songColumns, where, order)
	rows, err := r.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := make([]*model.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan song in ListSongs: %w", err)
		}
		songs = append(songs, song)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error during rows iteration in ListSongs: %w", err)
	}

	return songs, total, nil
}

// UpdateSong rewrites the mutable metadata of a song.
func (r *mysqlSongRepository) UpdateSong(song *model.Song) error {
	query := `UPDATE songs SET title = ?, artist = ?, album = ?, genre = ?, release_date = ?,
	           cover_image = ?, audio_file = ?, is_premium = ?, lyrics = ?, updated_at = NOW() WHERE id = ?`
	stmt, err := r.db.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpdateSong: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(song.Title, song.Artist, song.Album, song.Genre, song.ReleaseDate,
		song.CoverImage, song.AudioFile, song.IsPremium, song.Lyrics, song.ID)
	if err != nil {
		return fmt.Errorf("failed to execute UpdateSong for song ID %d: %w", song.ID, err)
	}
	return nil
}

// DeleteSong removes a song row; membership rows cascade.
func (r *mysqlSongRepository) DeleteSong(id int64) error {
	_, err := r.db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song %d: %w", id, err)
	}
	return nil
}

// IncrementPlays bumps the play counter atomically.
func (r *mysqlSongRepository) IncrementPlays(id int64) error {
	_, err := r.db.Exec("UPDATE songs SET plays = plays + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment plays for song %d: %w", id, err)
	}
	return nil
}

// IncrementDownloads bumps the download counter atomically.
func (r *mysqlSongRepository) IncrementDownloads(id int64) error {
	_, err := r.db.Exec("UPDATE songs SET downloads = downloads + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to increment downloads for song %d: %w", id, err)
	}
	return nil
}
