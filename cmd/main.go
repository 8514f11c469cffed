package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"chainbreak/clients/reddit"
	"chainbreak/config"
	"chainbreak/db"
	"chainbreak/handlers"
	"chainbreak/middleware"
	communitiessvc "chainbreak/services/communities"
	"chainbreak/services/txmanager"
	"chainbreak/usecases/chains"
	"chainbreak/usecases/discovery"
	"chainbreak/usecases/mentions"
	"chainbreak/usecases/moderation"
	"chainbreak/usecases/responder"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "chainbreak",
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	communitiesRepo := db.NewPostgresCommunitiesRepository(dbConn, cfg.DatabaseSchema)
	txManager := txmanager.NewTransactionManager(dbConn)
	communitiesService := communitiessvc.NewCommunitiesService(communitiesRepo)

	redditClient := reddit.NewRedditClient(reddit.Config{
		ClientID:          cfg.RedditConfig.ClientID,
		ClientSecret:      cfg.RedditConfig.ClientSecret,
		Username:          cfg.RedditConfig.Username,
		Password:          cfg.RedditConfig.Password,
		UserAgent:         cfg.RedditConfig.UserAgent,
		RequestsPerSecond: cfg.APIRequestsPerSecond,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bad credentials must fail here, before any worker starts.
	botUsername, err := redditClient.Me(ctx)
	if err != nil {
		return err
	}
	log.Printf("✅ Authenticated as u/%s", botUsername)

	if err := communitiesService.Load(ctx, cfg.BotConfig.DefaultTargets); err != nil {
		return err
	}

	policy, err := chains.ParsePolicy(cfg.BotConfig.ChainPolicy)
	if err != nil {
		return err
	}

	responderUseCase := responder.NewResponderUseCase(
		redditClient,
		botUsername,
		responder.Messages{
			Normal:        cfg.BotConfig.ReplyMessage,
			Spoiler:       cfg.BotConfig.ReplyMessageSpoiler,
			PrimaryLink:   cfg.BotConfig.PrimaryLink,
			AltLink:       cfg.BotConfig.AltLink,
			AltLinkChance: cfg.BotConfig.AltLinkChance,
		},
		cfg.BotConfig.SpoilerSubreddits,
	)
	defer responderUseCase.Stop()

	chainUseCase := chains.NewChainUseCase(
		redditClient, responderUseCase, communitiesService, cfg.BotConfig.ChainLength, policy)
	mentionsUseCase := mentions.NewMentionsUseCase(redditClient, responderUseCase)
	moderationUseCase := moderation.NewModerationUseCase(
		redditClient, botUsername, cfg.BotConfig.ScoreFloor, cfg.BotConfig.RecencyLimit)
	discoveryUseCase := discovery.NewDiscoveryUseCase(redditClient, communitiesService, txManager)

	// Small read-only HTTP surface for operators
	router := mux.NewRouter()
	statusHandler := handlers.NewStatusHandler(communitiesService, botUsername)
	statusHandler.SetupEndpoints(router)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}
	go func() {
		log.Printf("✅ Status endpoint listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Status server error: %v", err)
		}
	}()

	// Mention watcher, self-moderation, and community discovery run as
	// independent background loops; the chain detector owns this goroutine.
	startBackgroundLoop(ctx, cfg.BotConfig.MentionPollInterval,
		alertMiddleware.WrapBackgroundTask("ProcessMentions", func() error {
			return mentionsUseCase.ProcessMentions(ctx)
		}))
	startBackgroundLoop(ctx, cfg.BotConfig.SweepInterval,
		alertMiddleware.WrapBackgroundTask("SelfModerationSweep", func() error {
			return moderationUseCase.Sweep(ctx)
		}))
	startBackgroundLoop(ctx, cfg.BotConfig.DiscoveryInterval,
		alertMiddleware.WrapBackgroundTask("CommunityDiscovery", func() error {
			return discoveryUseCase.Discover(ctx)
		}))

	if err := chainUseCase.Run(ctx); err != nil {
		return err
	}

	log.Printf("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Status server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Stopped gracefully")
	return nil
}

// startBackgroundLoop runs task on a fixed ticker until ctx is cancelled.
// Task errors are already handled by the alert middleware wrapper.
func startBackgroundLoop(ctx context.Context, interval time.Duration, task func() error) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = task()
			}
		}
	}()
}
