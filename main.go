package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/Marpace/drawing-app-backend/config"
	"github.com/Marpace/drawing-app-backend/game"
	"github.com/Marpace/drawing-app-backend/logger"
	"github.com/Marpace/drawing-app-backend/migrations"
	"github.com/Marpace/drawing-app-backend/socket"
	"github.com/Marpace/drawing-app-backend/storage"
	"github.com/Marpace/drawing-app-backend/wordlist"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})

	// Health probes carry no Origin header, so /health is registered ahead of
	// the allow-list and only routes added after it are guarded.
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })
	r.Use(requireAllowedOrigin(allowedOrigins))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func requireAllowedOrigin(allowedOrigins []string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !slices.Contains(allowedOrigins, ctx.Request.Header.Get("Origin")) {
			ctx.String(http.StatusForbidden, "forbidden origin")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// wordSource picks Postgres when a database is configured and the word list
// file or the built-in list otherwise. A configured file also seeds Postgres.
func wordSource(ctx context.Context, cfg config.Config) (game.RandomWordsGenerator, func(), error) {
	var fileList *wordlist.List
	if cfg.WordsFile != "" {
		list, err := wordlist.FromFile(cfg.WordsFile)
		if err != nil {
			return nil, nil, err
		}
		fileList = list
	}

	if cfg.PostgresURL == "" {
		if fileList != nil {
			log.Info().Str("file", cfg.WordsFile).Int("words", fileList.Len()).Msg("using word list file")
			return fileList, func() {}, nil
		}
		list := wordlist.Default()
		log.Info().Int("words", list.Len()).Msg("using built-in word list")
		return list, func() {}, nil
	}

	if err := migrations.Migrate(cfg.PostgresURL); err != nil {
		return nil, nil, err
	}
	repo, err := storage.NewPostgresWordRepo(ctx, cfg.PostgresURL)
	if err != nil {
		return nil, nil, err
	}
	if fileList != nil {
		added, err := repo.AddWords(ctx, fileList.Words())
		if err != nil {
			repo.Close()
			return nil, nil, err
		}
		log.Info().Int("added", added).Msg("seeded words from file")
	}
	count, err := repo.CountWords(ctx)
	if err != nil {
		repo.Close()
		return nil, nil, err
	}
	log.Info().Int("words", count).Msg("using postgres word store")
	return repo, repo.Close, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Setup(false)
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer stop()

	words, closeWords, err := wordSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("no word source")
	}
	defer closeWords()

	hub := socket.NewHub()
	idGen := game.NewIdGen()
	tickerGen := game.NewTickerGen()
	coordinator := game.NewCoordinator(hub, words, &idGen, &tickerGen, game.Settings{
		Capacity:    cfg.RoomCapacity,
		WordChoices: cfg.WordChoices,
	})

	coordinatorStarted := make(chan struct{})
	coordinatorDone := make(chan struct{})
	go func() {
		coordinator.Run(ctx, coordinatorStarted)
		close(coordinatorDone)
	}()
	<-coordinatorStarted

	r := CreateServer(cfg.AllowedOrigins)
	socket.NewGameHandler(hub, coordinator, cfg.AllowedOrigins, cfg.MessagesPerSecond).RegisterRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Strs("origins", cfg.AllowedOrigins).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("SIGTERM or SIGINT received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	<-coordinatorDone
	log.Info().Msg("shut down")
}
