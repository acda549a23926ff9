package server

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sonicstream/cache"
	"sonicstream/config"
	"sonicstream/core/auth"
	"sonicstream/core/catalog"
	"sonicstream/core/entitlement"
	"sonicstream/core/library"
	"sonicstream/core/playlist"
	"sonicstream/core/search"
	"sonicstream/db"
	"sonicstream/logger"
	"sonicstream/repository"
	"sonicstream/storage"

	"github.com/gorilla/mux"
)

// Start initializes every backing service and runs the HTTP server
// until an interrupt arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database via GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer cache.CloseRedis()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
	}

	store := storage.GetStore()
	userRepo := repository.NewMySQLUserRepository(db.DB)
	songRepo := repository.NewMySQLSongRepository(db.DB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.DB)
	libraryRepo := repository.NewGormLibraryRepository(db.GormDB)

	catalogSvc := catalog.NewService(songRepo, store)
	librarySvc := library.NewService(songRepo, libraryRepo)
	entitleSvc := entitlement.NewService(userRepo, songRepo)
	playlistSvc := playlist.NewService(playlistRepo, songRepo, store)
	searchSvc := search.NewService(search.NewClient(cfg.DeezerAPIURL))

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	apiHandler := NewAPIHandler(userRepo, catalogSvc, librarySvc, entitleSvc, playlistSvc, searchSvc, store, tokens, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Auth
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)

	// User account
	router.HandleFunc("/api/users/me", apiHandler.AuthMiddleware(apiHandler.GetProfileHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/users/me", apiHandler.AuthMiddleware(apiHandler.UpdateProfileHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/users/me/password", apiHandler.AuthMiddleware(apiHandler.ChangePasswordHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/users/me/premium", apiHandler.AuthMiddleware(apiHandler.UpgradePremiumHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/users/me/credits", apiHandler.AuthMiddleware(apiHandler.GetCreditsHandler)).Methods(http.MethodGet)

	// Personal library
	router.HandleFunc("/api/users/me/favorites", apiHandler.AuthMiddleware(apiHandler.ListFavoritesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/users/me/favorites/{id}", apiHandler.AuthMiddleware(apiHandler.AddFavoriteHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/users/me/favorites/{id}", apiHandler.AuthMiddleware(apiHandler.RemoveFavoriteHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/users/me/recently-played", apiHandler.AuthMiddleware(apiHandler.RecentlyPlayedHandler)).Methods(http.MethodGet)

	// Song catalog
	router.HandleFunc("/api/songs", apiHandler.ListSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", apiHandler.AuthMiddleware(apiHandler.UploadSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}", apiHandler.OptionalAuthMiddleware(apiHandler.GetSongHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", apiHandler.AuthMiddleware(apiHandler.UpdateSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}", apiHandler.AuthMiddleware(apiHandler.DeleteSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/songs/{id}/download", apiHandler.AuthMiddleware(apiHandler.DownloadSongHandler)).Methods(http.MethodGet)

	// Playlists
	router.HandleFunc("/api/playlists", apiHandler.ListPublicPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", apiHandler.AuthMiddleware(apiHandler.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/mine", apiHandler.AuthMiddleware(apiHandler.ListMyPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.OptionalAuthMiddleware(apiHandler.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.UpdatePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}", apiHandler.AuthMiddleware(apiHandler.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/songs/{song_id}", apiHandler.AuthMiddleware(apiHandler.AddSongToPlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/songs/{song_id}", apiHandler.AuthMiddleware(apiHandler.RemoveSongFromPlaylistHandler)).Methods(http.MethodDelete)

	// Listening queue
	router.HandleFunc("/api/queue", apiHandler.AuthMiddleware(apiHandler.GetQueueHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/queue", apiHandler.AuthMiddleware(apiHandler.AddToQueueHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/queue", apiHandler.AuthMiddleware(apiHandler.ClearQueueHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/queue/order", apiHandler.AuthMiddleware(apiHandler.ReorderQueueHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/queue/{song_id}", apiHandler.AuthMiddleware(apiHandler.RemoveFromQueueHandler)).Methods(http.MethodDelete)

	// External discovery
	router.HandleFunc("/api/search/tracks", apiHandler.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/tracks/{id}", apiHandler.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/artists", apiHandler.SearchArtistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/artists/{id}", apiHandler.GetArtistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/trending", apiHandler.TrendingTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/genres", apiHandler.GenresHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search/genres/{id}/tracks", apiHandler.TracksByGenreHandler).Methods(http.MethodGet)

	// Serve covers and other public objects straight from the bucket.
	router.PathPrefix("/static/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		objectPath := strings.TrimPrefix(r.URL.Path, "/static/")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		object, err := store.Get(ctx, objectPath)
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer object.Close()

		var contentType string
		if strings.HasPrefix(objectPath, "covers/") {
			contentType = "image/jpeg"
		} else {
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000")

		if _, err := io.Copy(w, object); err != nil {
			logger.Error("Failed to serve object", logger.String("path", objectPath), logger.ErrorField(err))
		}
	})

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
