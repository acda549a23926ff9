package server

import (
	"encoding/json"
	"net/http"

	"sonicstream/core/playlist"
	"sonicstream/logger"
	"sonicstream/repository"
)

// CreatePlaylistHandler makes a new playlist owned by the caller. The
// cover may be set later through the update endpoint.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Genre       string `json:"genre"`
		CoverImage  string `json:"coverImage"`
		IsPublic    *bool  `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.playlistSvc.Create(r.Context(), userID, playlist.CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		CoverImage:  req.CoverImage,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Playlist] Created",
		logger.Int64("playlistID", created.ID),
		logger.Int64("userID", userID))
	respondJSON(w, http.StatusCreated, created)
}

// GetPlaylistHandler returns a playlist with its songs. Private
// playlists are visible to their owner only; a successful view bumps
// the play counter.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	// Anonymous viewers get requesterID 0, which can never own a
	// playlist.
	requesterID, _ := GetUserIDFromContext(r.Context())

	viewed, err := h.playlistSvc.View(r.Context(), playlistID, requesterID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, viewed)
}

// ListPublicPlaylistsHandler returns a page of public playlists.
func (h *APIHandler) ListPublicPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	filter := repository.PlaylistFilter{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 20),
		Genre:  r.URL.Query().Get("genre"),
		SortBy: r.URL.Query().Get("sort"),
	}

	playlists, total, err := h.playlistSvc.ListPublic(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(playlists),
		"total": total,
		"page":  filter.Page,
		"data":  playlists,
	})
}

// ListMyPlaylistsHandler returns the caller's own playlists, public and
// private.
func (h *APIHandler) ListMyPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlists, err := h.playlistSvc.ListOwned(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(playlists),
		"data":  playlists,
	})
}

// UpdatePlaylistHandler edits playlist fields. Owner only.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Genre       *string `json:"genre"`
		CoverImage  *string `json:"coverImage"`
		IsPublic    *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.playlistSvc.Update(r.Context(), playlistID, userID, playlist.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		CoverImage:  req.CoverImage,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DeletePlaylistHandler removes a playlist. Owner only.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.playlistSvc.Delete(r.Context(), playlistID, userID); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Playlist] Deleted",
		logger.Int64("playlistID", playlistID),
		logger.Int64("userID", userID))
	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// AddSongToPlaylistHandler appends a song. Owner only; duplicates are
// rejected.
func (h *APIHandler) AddSongToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	songID, err := pathID(r, "song_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.playlistSvc.AddSong(r.Context(), playlistID, songID, userID); err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// RemoveSongFromPlaylistHandler removes a song. Owner only; removing a
// non-member is a no-op.
func (h *APIHandler) RemoveSongFromPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	songID, err := pathID(r, "song_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.playlistSvc.RemoveSong(r.Context(), playlistID, songID, userID); err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
