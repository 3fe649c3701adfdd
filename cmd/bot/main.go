package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/ayurbot/internal/config"
	"github.com/aliskhannn/ayurbot/internal/delivery/http/health"
	"github.com/aliskhannn/ayurbot/internal/delivery/telegram"
	"github.com/aliskhannn/ayurbot/internal/infra/backend"
	"github.com/aliskhannn/ayurbot/internal/infra/geo"
	"github.com/aliskhannn/ayurbot/internal/infra/postgres"
	"github.com/aliskhannn/ayurbot/internal/infra/postgres/migrations"
	pgrepo "github.com/aliskhannn/ayurbot/internal/infra/postgres/repository"
	"github.com/aliskhannn/ayurbot/internal/logger"
	"github.com/aliskhannn/ayurbot/internal/repository"
	"github.com/aliskhannn/ayurbot/internal/service"
	"github.com/aliskhannn/ayurbot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}

	lg.Info("shutdown complete")
}

// stores groups the persistence used by the bot.
type stores struct {
	transcripts service.TranscriptRepository
	results     service.QuizResultRepository
	reset       telegram.ChatResetter
	pool        *pgxpool.Pool
}

func openStores(ctx context.Context, cfg *config.Config, lg *zap.Logger) (*stores, error) {
	if !cfg.DB.Enabled() {
		lg.Warn("DATABASE_URL is not set, chat history is kept in memory")

		transcripts := storage.NewTranscriptStorage()
		results := storage.NewQuizResultStorage()
		return &stores{
			transcripts: transcripts,
			results:     results,
			reset:       storage.NewResetStorage(transcripts, results),
		}, nil
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := migrations.Run(pool); err != nil {
		pool.Close()
		return nil, err
	}
	lg.Info("connected to postgres")

	return &stores{
		transcripts: pgrepo.NewTranscriptRepository(pool),
		results:     pgrepo.NewQuizResultRepository(pool),
		reset:       pgrepo.NewResetRepository(postgres.NewTransactor(pool)),
		pool:        pool,
	}, nil
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	// Knowledge base.
	herbRepo, err := repository.NewHerbRepository(cfg.Data.HerbsPath)
	if err != nil {
		return err
	}
	locRepo, err := repository.NewLocationRepository(cfg.Data.LocationsPath)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, lg)
	if err != nil {
		return err
	}
	if st.pool != nil {
		defer st.pool.Close()
	}

	// Backend collaborators.
	var (
		remedies service.RemedyClient = backend.Disabled{}
		oracle   service.QuizOracle
		herbs    telegram.HerbBrowser = herbRepo
		client   *backend.Client
	)

	if cfg.Backend.URL != "" {
		client = backend.NewClient(backend.Config{
			BaseURL: cfg.Backend.URL,
			Timeout: cfg.Backend.Timeout,
			Breaker: backend.BreakerConfig(cfg.Backend.Breaker),
		}, lg)
		remedies = client
		herbs = client
	} else {
		lg.Warn("BACKEND_URL is not set, symptom queries are disabled")
	}

	switch cfg.Quiz.Source {
	case config.QuizSourceBackend:
		oracle = client
	default:
		bank, err := repository.NewQuizBank(cfg.Data.QuizPath)
		if err != nil {
			return err
		}
		oracle = bank
	}

	// Core.
	locations := storage.NewLocationStorage(cfg.Location.SharedTTL)

	router := service.NewIntentRouter(
		service.NewHerbCatalog(herbRepo),
		service.NewLocationService(locRepo, geo.NewRandomWeather(uint64(time.Now().UnixNano()))),
		service.NewChatGeolocator(locations),
		geo.NewGeocoder(cfg.Location.GeocoderURL, cfg.Location.GeocoderTimeout),
		remedies,
		cfg.Location.Timeout,
		lg,
	)

	transcript := service.NewTranscriptService(
		st.transcripts,
		cfg.Transcript.Retention,
		cfg.Transcript.PruneSchedule,
		lg,
	)

	convDeps := service.ConversationDeps{
		Router:           router,
		Oracle:           oracle,
		Transcript:       transcript,
		Results:          st.results,
		ExplanationDelay: cfg.Quiz.ExplanationDelay,
		Scheduler:        service.SystemScheduler,
		Logger:           lg,
	}

	conversations := storage.NewConversationStorage()
	defer conversations.CloseAll()

	// Telegram.
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("connecting to telegram: %w", err)
	}
	bot.Debug = cfg.Env == "local"
	lg.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	handler := telegram.NewHandler(bot, lg, telegram.Config{
		UpdateTimeout: cfg.Bot.UpdateTimeout,
		MaxConcurrent: cfg.Bot.MaxConcurrent,
		HerbsPageSize: cfg.Bot.HerbsPageSize,
		HistoryLimit:  cfg.Transcript.HistoryLimit,
		Location:      time.Local,
	}, telegram.Deps{
		Conversations: conversations,
		NewConversation: func(chatID int64, notifier func(service.Reply)) *service.Conversation {
			return service.NewConversation(chatID, convDeps, notifier)
		},
		Locations:    locations,
		QuizMessages: storage.NewQuizMessageStorage(),
		Transcript:   transcript,
		Results:      st.results,
		Herbs:        herbs,
		Reset:        st.reset,
	})

	// Run.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := handler.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return transcript.Start(gctx)
	})

	if cfg.Health.Addr != "" {
		srv := health.NewServer(cfg.Health.Addr, lg, healthChecks(st.pool, client))
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	return g.Wait()
}

func healthChecks(pool *pgxpool.Pool, client *backend.Client) map[string]health.Checker {
	checks := make(map[string]health.Checker)
	if pool != nil {
		checks["postgres"] = health.CheckerFunc(pool.Ping)
	}
	if client != nil {
		checks["backend"] = health.CheckerFunc(func(context.Context) error {
			if client.State() == gobreaker.StateOpen {
				return backend.ErrUnavailable
			}
			return nil
		})
	}
	return checks
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "quiz", Description: "Take the Ayurveda quiz"},
		{Command: "quit", Description: "Leave the quiz"},
		{Command: "herbs", Description: "Browse herbs"},
		{Command: "location", Description: "Stores and herbs near you"},
		{Command: "history", Description: "Recent messages"},
		{Command: "export", Description: "Download chat history"},
		{Command: "results", Description: "Your quiz scores"},
		{Command: "clear", Description: "Delete your data"},
		{Command: "help", Description: "Help"},
	}
}
