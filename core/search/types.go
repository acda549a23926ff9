package search

// Raw Deezer payload shapes, trimmed to the fields we reshape.

type deezerArtistRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type deezerAlbumRef struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverMedium string `json:"cover_medium"`
}

type deezerTrack struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Duration    int             `json:"duration"`
	Preview     string          `json:"preview"`
	ReleaseDate string          `json:"release_date"`
	BPM         float64         `json:"bpm"`
	Position    int             `json:"position"`
	Artist      deezerArtistRef `json:"artist"`
	Album       deezerAlbumRef  `json:"album"`
	Genres      *struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
	} `json:"genres"`
}

type deezerArtist struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PictureMedium string `json:"picture_medium"`
	PictureBig    string `json:"picture_big"`
	PictureXL     string `json:"picture_xl"`
	Fans          int64  `json:"nb_fan"`
	Albums        int    `json:"nb_album"`
}

type deezerGenre struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	PictureMedium string `json:"picture_medium"`
}

type deezerTrackList struct {
	Data  []deezerTrack `json:"data"`
	Total int64         `json:"total"`
	Next  string        `json:"next"`
}

type deezerArtistList struct {
	Data  []deezerArtist `json:"data"`
	Total int64          `json:"total"`
	Next  string         `json:"next"`
}

type deezerGenreList struct {
	Data []deezerGenre `json:"data"`
}

// Track is a Deezer track reshaped to the application's shape. IDs are
// prefixed so external tracks never collide with catalog ids.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Album       string   `json:"album"`
	Duration    int      `json:"duration"`
	CoverImage  string   `json:"coverImage"`
	AudioSrc    string   `json:"audioSrc"`
	Source      string   `json:"source"`
	ArtistID    int64    `json:"artistId,omitempty"`
	AlbumID     int64    `json:"albumId,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty"`
	BPM         float64  `json:"bpm,omitempty"`
	Position    int      `json:"position,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// Artist is a Deezer artist reshaped to the application's shape.
type Artist struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Picture    string  `json:"picture"`
	BigPicture string  `json:"bigPicture,omitempty"`
	Fans       int64   `json:"fans"`
	Albums     int     `json:"albums"`
	Source     string  `json:"source"`
	TopTracks  []Track `json:"topTracks,omitempty"`
}

// Genre is a Deezer genre entry.
type Genre struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// TrackPage is a paginated track result. Next is nil when Deezer
// reports no further page.
type TrackPage struct {
	Tracks []Track `json:"data"`
	Total  int64   `json:"total"`
	Next   *int    `json:"next"`
}

// ArtistPage is a paginated artist result.
type ArtistPage struct {
	Artists []Artist `json:"data"`
	Total   int64    `json:"total"`
	Next    *int     `json:"next"`
}
