package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/mrsingh-rishi/voice-scribe/store"
	"github.com/mrsingh-rishi/voice-scribe/stt"
	"github.com/mrsingh-rishi/voice-scribe/web"
)

// Config carries the server-level settings out of the environment.
type Config struct {
	AllowedOrigins  string
	JWTSecret       string
	SupabaseURL     string
	SupabaseAnonKey string
}

// Server wires the transcription gateway and the store behind the HTTP
// API. Every request is handled start-to-finish independently; there is
// no shared mutable state between requests.
type Server struct {
	app    *fiber.App
	cfg    Config
	store  store.Store
	stt    stt.Transcriber
	auth   *Authenticator
	logger *zap.Logger
}

// New builds the fiber app with all routes and middleware registered.
// The store and transcriber are injected by the composition root.
func New(cfg Config, logger *zap.Logger, st store.Store, transcriber stt.Transcriber) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		stt:    transcriber,
		auth:   NewAuthenticator(cfg.JWTSecret),
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		BodyLimit:             25 * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})

	app.Use(fiberrecover.New())
	app.Use(s.requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, x-user-id",
	}))

	app.Get("/", s.handleHealth)
	app.Get("/config", s.handleClientConfig)
	app.Post("/transcribe", s.requireUser, s.handleTranscribe)
	app.Get("/history", s.requireUser, s.handleHistory)
	app.Delete("/history/:id", s.requireUser, s.handleDelete)

	app.Use("/app", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Static),
		PathPrefix: "static",
		Index:      "index.html",
	}))

	// Everything else is an unknown route.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Route not found"})
	})

	s.app = app
	return s
}

// Listen blocks serving HTTP on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

// handleError is the last line of defense: anything a handler did not
// map itself (including recovered panics) becomes a generic 500. The
// details stay in the operator logs.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	s.logger.Error("unhandled request error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	}
}
