package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizbot/internal/bank"
	"quizbot/internal/config"
	"quizbot/internal/engine"
	"quizbot/internal/format"
	"quizbot/internal/infra/memory"
	pgloader "quizbot/internal/infra/postgres"
	redisstore "quizbot/internal/infra/redis"
	"quizbot/internal/provider/twilio"
	transport "quizbot/internal/transport/http"
	"quizbot/internal/transport/telegram"
	"quizbot/internal/transport/ws"
)

// NewServeCmd builds the CLI subcommand to start the webhook server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	mode, err := format.ParseMode(cfg.Quiz.Mode)
	if err != nil {
		return err
	}
	interactive := mode == format.ModeInteractive

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	if cfg.Postgres.URL == "" && cfg.Quiz.Source == "" {
		return fmt.Errorf("no question source configured: set quiz.source or postgres.url")
	}

	var loader bank.Loader = bank.FileLoader{Path: cfg.Quiz.Source, Interactive: interactive}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		bankID := cfg.Quiz.BankID
		if bankID == "" {
			bankID = "default"
		}
		loader = pgloader.NewBankLoader(pool, bankID, interactive)
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	banks := bank.NewCachedRepository(loader, cacheTTL)

	// A bank that fails validation must abort startup, not serve a broken quiz.
	loaded, err := banks.Bank(ctx)
	if err != nil {
		return err
	}
	log.Printf("question bank loaded: %d questions, %s mode", loaded.Len(), mode)

	var store engine.SessionStore = memory.NewSessionStore()
	if redisClient != nil {
		sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
		store = redisstore.NewSessionStore(redisClient, sessionTTL)
	}

	eng := engine.New(store, banks)
	formatter := format.New(mode)

	var sender transport.ButtonSender
	if interactive && cfg.Twilio.AccountSID != "" {
		sender = twilio.New(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From, cfg.Twilio.ContentSID)
	}

	webhook := transport.NewWebhookHandler(eng, formatter, sender)
	chat := ws.NewHandler(eng, formatter)

	mux := http.NewServeMux()
	mux.HandleFunc("/", transport.Health)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/whatsapp", webhook.ServeWebhook)
	mux.HandleFunc("/chat", chat.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	botCtx, cancelBot := context.WithCancel(ctx)
	defer cancelBot()
	if cfg.Telegram.Token != "" {
		bot, err := telegram.NewBot(cfg.Telegram.Token, eng, formatter)
		if err != nil {
			return err
		}
		go bot.Run(botCtx)
	}

	go func() {
		log.Printf("starting quiz bot on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
