package db

import (
	"database/sql"
	"fmt"

	"sonicstream/config"
	"sonicstream/logger"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

var DB *sql.DB

// ConnectDB establishes a connection to the database.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Successfully connected to the database.")
	return nil
}

// CloseDB closes the database connection.
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// InitDB initializes the database schema, creating tables if they don't exist.
func InitDB() error {
	statements := []struct {
		name  string
		query string
	}{
		{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(100) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255),
			avatar VARCHAR(767) NOT NULL DEFAULT 'default-avatar.png',
			role VARCHAR(16) NOT NULL DEFAULT 'standard',
			download_credits INT NOT NULL DEFAULT 5,
			premium_until TIMESTAMP NULL DEFAULT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		);`},
		{"songs", `
		CREATE TABLE IF NOT EXISTS songs (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			artist VARCHAR(255) NOT NULL,
			album VARCHAR(255),
			genre VARCHAR(100),
			duration INT NOT NULL,
			cover_image VARCHAR(767) NOT NULL DEFAULT 'default-cover.jpg',
			audio_file VARCHAR(767) NOT NULL,
			release_date TIMESTAMP NULL DEFAULT NULL,
			plays BIGINT NOT NULL DEFAULT 0,
			downloads BIGINT NOT NULL DEFAULT 0,
			is_premium TINYINT(1) NOT NULL DEFAULT 0,
			uploaded_by BIGINT NOT NULL,
			lyrics TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_songs_uploader FOREIGN KEY (uploaded_by) REFERENCES users(id) ON DELETE CASCADE,
			INDEX idx_songs_genre (genre),
			INDEX idx_songs_plays (plays),
			INDEX idx_songs_downloads (downloads)
		);`},
		{"playlists", `
		CREATE TABLE IF NOT EXISTS playlists (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,
			cover_image VARCHAR(767) NOT NULL DEFAULT 'default-playlist.jpg',
			created_by BIGINT NOT NULL,
			is_public TINYINT(1) NOT NULL DEFAULT 1,
			plays BIGINT NOT NULL DEFAULT 0,
			genre VARCHAR(100),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_playlists_owner FOREIGN KEY (created_by) REFERENCES users(id) ON DELETE CASCADE,
			INDEX idx_playlists_owner (created_by),
			INDEX idx_playlists_public (is_public)
		);`},
		{"playlist_songs", `
		CREATE TABLE IF NOT EXISTS playlist_songs (
			playlist_id BIGINT NOT NULL,
			song_id BIGINT NOT NULL,
			position INT NOT NULL,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (playlist_id, song_id),
			CONSTRAINT fk_ps_playlist FOREIGN KEY (playlist_id) REFERENCES playlists(id) ON DELETE CASCADE,
			CONSTRAINT fk_ps_song FOREIGN KEY (song_id) REFERENCES songs(id) ON DELETE CASCADE
		);`},
		{"favorites", `
		CREATE TABLE IF NOT EXISTS favorites (
			user_id BIGINT NOT NULL,
			song_id BIGINT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, song_id),
			CONSTRAINT fk_fav_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT fk_fav_song FOREIGN KEY (song_id) REFERENCES songs(id) ON DELETE CASCADE
		);`},
		{"recently_played", `
		CREATE TABLE IF NOT EXISTS recently_played (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			song_id BIGINT NOT NULL,
			played_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_rp_user_song (user_id, song_id),
			CONSTRAINT fk_rp_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			CONSTRAINT fk_rp_song FOREIGN KEY (song_id) REFERENCES songs(id) ON DELETE CASCADE,
			INDEX idx_rp_user_played (user_id, played_at)
		);`},
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", stmt.name, err)
		}
		logger.Debug("Table initialized", logger.String("table", stmt.name))
	}

	logger.Info("Database schema initialization completed.")
	return nil
}
