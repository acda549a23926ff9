package server

import (
	"encoding/json"
	"net/http"
	"time"

	"sonicstream/cache"
	"sonicstream/logger"
)

// GetQueueHandler returns the caller's listening queue in order.
func (h *APIHandler) GetQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := cache.GetQueue(r.Context(), userID)
	if err != nil {
		logger.Error("[Queue] Failed to load queue", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to load queue", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(items),
		"data":  items,
	})
}

// AddToQueueHandler appends a catalog song to the caller's queue.
func (h *APIHandler) AddToQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		SongID int64 `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID <= 0 {
		http.Error(w, "Valid songId is required", http.StatusBadRequest)
		return
	}

	// Resolve the song so the queue entry carries display metadata.
	// Queueing is not a play, so this skips the play counter.
	song, err := h.catalogSvc.Lookup(r.Context(), req.SongID)
	if err != nil {
		writeError(w, err)
		return
	}

	item := cache.QueueItem{
		SongID:     song.ID,
		Title:      song.Title,
		Artist:     song.Artist,
		CoverImage: song.CoverImage,
		Duration:   song.Duration,
		AddedAt:    time.Now().Unix(),
	}
	if err := cache.AddToQueue(r.Context(), userID, item); err != nil {
		logger.Error("[Queue] Failed to add song", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to add to queue", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// RemoveFromQueueHandler removes one song from the caller's queue.
func (h *APIHandler) RemoveFromQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := pathID(r, "song_id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := cache.RemoveFromQueue(r.Context(), userID, songID); err != nil {
		logger.Error("[Queue] Failed to remove song", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to remove from queue", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ClearQueueHandler empties the caller's queue.
func (h *APIHandler) ClearQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := cache.ClearQueue(r.Context(), userID); err != nil {
		logger.Error("[Queue] Failed to clear queue", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to clear queue", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ReorderQueueHandler replaces the queue order with the given song id
// sequence.
func (h *APIHandler) ReorderQueueHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		SongIDs []int64 `json:"songIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.SongIDs) == 0 {
		http.Error(w, "songIds is required", http.StatusBadRequest)
		return
	}

	if err := cache.UpdateQueueOrder(r.Context(), userID, req.SongIDs); err != nil {
		logger.Error("[Queue] Failed to reorder queue", logger.Int64("userID", userID), logger.ErrorField(err))
		http.Error(w, "Failed to reorder queue", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
