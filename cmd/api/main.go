package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/sports-explorer/backend/internal/analysis/topic"
	"github.com/zhouzirui/sports-explorer/backend/internal/config"
	"github.com/zhouzirui/sports-explorer/backend/internal/handler"
	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/ai"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/assistant"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/chat"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/scores"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/translate"
	"github.com/zhouzirui/sports-explorer/backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	log := logger.L()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file loaded, using system environment only", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	languages := language.NewMemoryStore(language.Seed())
	chatService := chat.NewService()

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		log.Fatal("failed to create chat model", zap.Error(err))
	}

	aiService, err := ai.NewService(ctx, chatModel, ai.Options{Streaming: cfg.AI.StreamResponse})
	if err != nil {
		log.Fatal("failed to initialize AI service", zap.Error(err))
	}

	var translator translate.Translator
	if cfg.Translation.Enabled {
		chainTranslator, err := translate.NewChainTranslator(ctx, chatModel)
		if err != nil {
			log.Fatal("failed to initialize translator", zap.Error(err))
		}
		translator = chainTranslator
		log.Info("translation enabled")
	} else {
		log.Info("translation disabled by configuration")
	}

	scoreService := scores.NewService(scores.Config{
		Endpoint: cfg.Scores.Endpoint,
		APIKey:   cfg.Scores.APIKey,
		Timeout:  cfg.Scores.Timeout,
	}, nil)

	assistantService := assistant.NewService(
		topic.NewKeywordClassifier(),
		scoreService,
		aiService,
		translate.NewAdapter(translator),
		languages,
	)

	router := handler.NewRouter(languages, chatService, assistantService, cfg.RateLimit)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	log := logger.L()
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("sports explorer backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
