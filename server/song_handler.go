package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sonicstream/core/catalog"
	"sonicstream/logger"
	"sonicstream/repository"
	"sonicstream/storage"
)

const maxUploadMemory = 32 << 20 // 32MB

// songFilterFromQuery builds a catalog filter from list parameters.
func songFilterFromQuery(r *http.Request) repository.SongFilter {
	return repository.SongFilter{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
		Genre:  r.URL.Query().Get("genre"),
		Search: r.URL.Query().Get("search"),
		SortBy: r.URL.Query().Get("sort"),
	}
}

// ListSongsHandler returns a catalog page.
func (h *APIHandler) ListSongsHandler(w http.ResponseWriter, r *http.Request) {
	filter := songFilterFromQuery(r)
	songs, total, err := h.catalogSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(songs),
		"total": total,
		"page":  filter.Page,
		"data":  songs,
	})
}

// GetSongHandler returns one song. The read counts as a play, and for
// an authenticated caller it lands in their recently-played history.
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	song, err := h.catalogSvc.Get(r.Context(), songID)
	if err != nil {
		writeError(w, err)
		return
	}

	if userID, err := GetUserIDFromContext(r.Context()); err == nil {
		if err := h.librarySvc.RecordPlay(r.Context(), userID, songID); err != nil {
			// History is best effort; the song read already succeeded.
			logger.Warn("Failed to record play",
				logger.Int64("userID", userID),
				logger.Int64("songID", songID),
				logger.ErrorField(err))
		}
	}

	respondJSON(w, http.StatusOK, song)
}

// uploadFormFile stores one multipart file under the given prefix and
// returns its object path. A missing optional file returns "".
func (h *APIHandler) uploadFormFile(r *http.Request, field, prefix string, required bool) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if required {
			return "", fmt.Errorf("missing '%s' in form", field)
		}
		return "", nil
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectPath := storage.ObjectKey(prefix, header.Filename)
	if err := h.store.Upload(r.Context(), objectPath, file, header.Size, contentType); err != nil {
		return "", err
	}
	return objectPath, nil
}

// UploadSongHandler handles multipart song uploads.
// Expected form fields:
// - audioFile: the audio file (required)
// - coverFile: cover art image (optional)
// - title, artist, album, genre, duration, releaseDate, isPremium, lyrics
func (h *APIHandler) UploadSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse multipart form: %v", err), http.StatusBadRequest)
		return
	}

	duration, _ := strconv.Atoi(r.FormValue("duration"))
	isPremium := r.FormValue("isPremium") == "true"

	var releaseDate time.Time
	if raw := r.FormValue("releaseDate"); raw != "" {
		releaseDate, err = time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid releaseDate, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	audioPath, err := h.uploadFormFile(r, "audioFile", "audio", true)
	if err != nil {
		logger.Error("[Upload] Audio upload failed", logger.ErrorField(err))
		http.Error(w, "Failed to store audio file", http.StatusBadRequest)
		return
	}

	coverPath, err := h.uploadFormFile(r, "coverFile", "covers", false)
	if err != nil {
		logger.Error("[Upload] Cover upload failed", logger.ErrorField(err))
		http.Error(w, "Failed to store cover image", http.StatusInternalServerError)
		return
	}

	song, err := h.catalogSvc.Create(r.Context(), userID, catalog.CreateParams{
		Title:       r.FormValue("title"),
		Artist:      r.FormValue("artist"),
		Album:       r.FormValue("album"),
		Genre:       r.FormValue("genre"),
		Duration:    duration,
		AudioFile:   audioPath,
		CoverImage:  coverPath,
		ReleaseDate: releaseDate,
		IsPremium:   isPremium,
		Lyrics:      r.FormValue("lyrics"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Upload] Song uploaded",
		logger.Int64("songID", song.ID),
		logger.Int64("userID", userID),
		logger.String("title", song.Title))
	respondJSON(w, http.StatusCreated, song)
}

// songUpdateRequest mirrors catalog.UpdateParams as JSON. Absent fields
// keep their stored values.
type songUpdateRequest struct {
	Title       *string `json:"title"`
	Artist      *string `json:"artist"`
	Album       *string `json:"album"`
	Genre       *string `json:"genre"`
	ReleaseDate *string `json:"releaseDate"`
	IsPremium   *bool   `json:"isPremium"`
	Lyrics      *string `json:"lyrics"`
}

// UpdateSongHandler edits song metadata. Uploader or admin only.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	role, err := GetRoleFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req songUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	params := catalog.UpdateParams{
		Title:     req.Title,
		Artist:    req.Artist,
		Album:     req.Album,
		Genre:     req.Genre,
		IsPremium: req.IsPremium,
		Lyrics:    req.Lyrics,
	}
	if req.ReleaseDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			http.Error(w, "Invalid releaseDate, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.ReleaseDate = &parsed
	}

	song, err := h.catalogSvc.Update(r.Context(), songID, userID, role, params)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, song)
}

// DeleteSongHandler removes a song and its files. Uploader or admin
// only.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	role, err := GetRoleFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.catalogSvc.Delete(r.Context(), songID, userID, role); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Delete] Song removed", logger.Int64("songID", songID), logger.Int64("userID", userID))
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DownloadSongHandler authorizes a download against the user's
// entitlements, then streams the audio object.
func (h *APIHandler) DownloadSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	song, err := h.entitleSvc.AuthorizeDownload(r.Context(), userID, songID)
	if err != nil {
		writeError(w, err)
		return
	}

	object, err := h.store.Get(r.Context(), song.AudioFile)
	if err != nil {
		logger.Error("[Download] Failed to open audio object",
			logger.Int64("songID", songID),
			logger.String("path", song.AudioFile),
			logger.ErrorField(err))
		http.Error(w, "Audio file not available", http.StatusNotFound)
		return
	}
	defer object.Close()

	filename := fmt.Sprintf("%s - %s%s", song.Artist, song.Title, filepath.Ext(song.AudioFile))
	w.Header().Set("Content-Type", audioContentType(song.AudioFile))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := io.Copy(w, object); err != nil {
		logger.Error("[Download] Failed to stream audio", logger.Int64("songID", songID), logger.ErrorField(err))
	}
}

func audioContentType(objectPath string) string {
	switch strings.ToLower(filepath.Ext(objectPath)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
