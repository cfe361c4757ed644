package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrsingh-rishi/voice-scribe/config"
	"github.com/mrsingh-rishi/voice-scribe/server"
	"github.com/mrsingh-rishi/voice-scribe/store"
	"github.com/mrsingh-rishi/voice-scribe/stt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	st, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	transcriber, err := newTranscriber(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build transcriber", zap.Error(err))
	}

	srv := server.New(server.Config{
		AllowedOrigins:  cfg.AllowedOrigins,
		JWTSecret:       cfg.JWTSecret,
		SupabaseURL:     cfg.SupabaseURL,
		SupabaseAnonKey: cfg.SupabaseAnonKey,
	}, logger, st, transcriber)

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		if err := srv.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zapCfg.Build()
}

func newStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, using in-memory store; history will not survive restarts")
		return store.NewMemoryStore(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.NewRedisStore(ctx, cfg.RedisAddr)
}

func newTranscriber(cfg *config.Config, logger *zap.Logger) (stt.Transcriber, error) {
	if cfg.STTProvider == "openai" {
		return stt.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
	return stt.NewDeepgramClient(cfg.DeepgramAPIKey, logger)
}
