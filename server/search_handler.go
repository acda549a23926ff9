package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SearchTracksHandler proxies a track search to Deezer.
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit := queryInt(r, "limit", 20)
	index := queryInt(r, "index", 0)

	page, err := h.searchSvc.SearchTracks(r.Context(), query, limit, index)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetTrackHandler looks up one external track by id.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.searchSvc.GetTrack(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// SearchArtistsHandler proxies an artist search to Deezer.
func (h *APIHandler) SearchArtistsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	limit := queryInt(r, "limit", 20)
	index := queryInt(r, "index", 0)

	page, err := h.searchSvc.SearchArtists(r.Context(), query, limit, index)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetArtistHandler returns an artist profile with top tracks.
func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	artist, err := h.searchSvc.GetArtist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, artist)
}

// TrendingTracksHandler returns the global chart.
func (h *APIHandler) TrendingTracksHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.searchSvc.TrendingTracks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// TracksByGenreHandler returns a page of tracks from one genre.
func (h *APIHandler) TracksByGenreHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	index := queryInt(r, "index", 0)

	page, err := h.searchSvc.TracksByGenre(r.Context(), mux.Vars(r)["id"], limit, index)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GenresHandler lists the external genre catalog.
func (h *APIHandler) GenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := h.searchSvc.Genres(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"data": genres})
}
