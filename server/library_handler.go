package server

import (
	"net/http"
)

// AddFavoriteHandler inserts a song into the user's favorites.
func (h *APIHandler) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.librarySvc.AddFavorite(r.Context(), userID, songID); err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// RemoveFavoriteHandler removes a song from the user's favorites.
// Removing a song that was never favorited still succeeds.
func (h *APIHandler) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.librarySvc.RemoveFavorite(r.Context(), userID, songID); err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ListFavoritesHandler returns the user's favorited songs.
func (h *APIHandler) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songs, err := h.librarySvc.ListFavorites(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(songs),
		"data":  songs,
	})
}

// RecentlyPlayedHandler returns the user's play history, most recent
// first.
func (h *APIHandler) RecentlyPlayedHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	played, err := h.librarySvc.ListRecentlyPlayed(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(played),
		"data":  played,
	})
}
