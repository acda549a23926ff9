package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"sonicstream/apperr"
	"sonicstream/config"
	"sonicstream/core/auth"
	"sonicstream/core/catalog"
	"sonicstream/core/entitlement"
	"sonicstream/core/library"
	"sonicstream/core/playlist"
	"sonicstream/core/search"
	"sonicstream/logger"
	"sonicstream/repository"
	"sonicstream/storage"

	"github.com/gorilla/mux"
)

// APIHandler carries the services and repositories behind all API
// endpoints.
type APIHandler struct {
	userRepo    repository.UserRepository
	catalogSvc  *catalog.Service
	librarySvc  *library.Service
	entitleSvc  *entitlement.Service
	playlistSvc *playlist.Service
	searchSvc   *search.Service
	store       *storage.MinioStore
	tokens      *auth.TokenIssuer
	cfg         *config.Config
}

// NewAPIHandler creates the API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	catalogSvc *catalog.Service,
	librarySvc *library.Service,
	entitleSvc *entitlement.Service,
	playlistSvc *playlist.Service,
	searchSvc *search.Service,
	store *storage.MinioStore,
	tokens *auth.TokenIssuer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:    userRepo,
		catalogSvc:  catalogSvc,
		librarySvc:  librarySvc,
		entitleSvc:  entitleSvc,
		playlistSvc: playlistSvc,
		searchSvc:   searchSvc,
		store:       store,
		tokens:      tokens,
		cfg:         cfg,
	}
}

// respondJSON writes a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

// writeError maps a service error onto an HTTP status. Unclassified
// errors log their cause and surface an opaque message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.InvalidArgument:
		status = http.StatusBadRequest
	case apperr.AlreadyExists:
		status = http.StatusConflict
	default:
		logger.Error("Request failed", logger.ErrorField(err))
	}
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": apperr.Message(err),
	})
}

// pathID extracts a numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Newf(apperr.InvalidArgument, "invalid %s", name)
	}
	return id, nil
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
