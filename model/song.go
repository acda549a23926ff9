package model

import "time"

// Song represents a track in the catalog. The audio and cover fields
// hold object-store paths produced by the upload layer; the core never
// reads the bytes behind them.
type Song struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Album       string    `json:"album,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Duration    int       `json:"duration"` // seconds
	CoverImage  string    `json:"coverImage,omitempty"`
	AudioFile   string    `json:"-"` // object path, served via download endpoint only
	ReleaseDate time.Time `json:"releaseDate"`
	Plays       int64     `json:"plays"`
	Downloads   int64     `json:"downloads"`
	IsPremium   bool      `json:"isPremium"`
	UploadedBy  int64     `json:"uploadedBy"`
	Lyrics      string    `json:"lyrics,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlayedSong is one entry of a user's recently-played history.
type PlayedSong struct {
	Song     *Song     `json:"song"`
	PlayedAt time.Time `json:"playedAt"`
}
