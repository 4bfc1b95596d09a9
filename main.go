package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	telegoBot "chatarchive-bot/bot"
	"chatarchive-bot/internal/archive"
	"chatarchive-bot/internal/config"
	"chatarchive-bot/internal/database"
	"chatarchive-bot/internal/handlers"
	"chatarchive-bot/internal/locales"
	"chatarchive-bot/internal/logging"
	"chatarchive-bot/internal/media"

	sentry "github.com/getsentry/sentry-go"
	telego "github.com/mymmrac/telego"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log.Logger = logger

	// Initialize localization bundle
	if err := locales.Init(cfg.DefaultLanguage); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize locales")
	}

	// Initialize Sentry (if DSN is provided)
	err = sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		Release:          cfg.Version,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		Debug:            cfg.Debug,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("sentry.Init failed")
	}
	defer sentry.Flush(2 * time.Second)

	// The media root must be writable before any update is accepted.
	store := archive.NewStore(afero.NewOsFs(), cfg.LogDir, cfg.MediaArchiveDir)
	if err := store.Init(); err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Str("media_root", cfg.MediaArchiveDir).Msg("Failed to prepare archive directories")
	}
	log.Info().Str("media_root", store.MediaRoot()).Str("log_dir", cfg.LogDir).Msg("Archive directories ready")

	// Creating context for application lifecycle
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional activity journal
	var journal database.Journal = database.NopJournal{}
	if cfg.JournalEnabled() {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, db, err := database.ConnectDB(connectCtx, cfg.MongoDBURI, cfg.MongoDBDatabase)
		cancel()
		if err != nil {
			sentry.CaptureException(err)
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Error().Err(err).Msg("Error disconnecting from MongoDB")
				sentry.CaptureException(err)
			} else {
				log.Info().Msg("Disconnected from MongoDB")
			}
		}()
		journal = database.NewMongoLogger(db)
		log.Info().Str("database", cfg.MongoDBDatabase).Msg("Activity journal enabled")
	}

	// --- Bot Initialization ---
	bot, err := telego.NewBot(cfg.BotToken, telego.WithLogger(logging.NewTelegoLogger(logger, cfg.BotToken, cfg.Debug)))
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("Failed to create telego bot")
	}

	downloader := media.NewDownloader(bot, store, nil, logger)

	messageHandler, err := handlers.NewMessageHandler(handlers.Deps{
		Store:           store,
		Downloader:      downloader,
		Journal:         journal,
		Logger:          logger,
		Now:             time.Now,
		DefaultLanguage: cfg.DefaultLanguage,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create message handler")
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
		AllowedUpdates: []string{
			"message",
			"edited_message",
			"channel_post",
			"edited_channel_post",
		},
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("Failed to start long polling")
	}

	appBot, err := telegoBot.New(telegoBot.BotDeps{
		Bot:              bot,
		UpdatesChan:      updates,
		Handler:          messageHandler,
		Logger:           logger,
		Debug:            cfg.Debug,
		UpdatesPerSecond: cfg.UpdatesPerSecond,
		UpdateTimeout:    cfg.UpdateTimeout,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	if err := appBot.SetupCommands(ctx); err != nil {
		// Archiving works without the command menu.
		log.Warn().Err(err).Msg("Failed to register bot commands")
		sentry.CaptureException(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return appBot.Start(gctx)
	})

	log.Info().Str("version", cfg.Version).Msg("Bot is running. Press Ctrl+C to stop.")
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Update loop stopped with error")
		sentry.CaptureException(err)
	}

	log.Info().Msg("Shutting down bot...")
	appBot.Stop()
	log.Info().Msg("Bot shutdown complete.")
}
