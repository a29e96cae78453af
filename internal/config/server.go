package config

import (
	fortuneHandler "ProjectPalm/internal/api/fortune/handler"
	fortuneService "ProjectPalm/internal/api/fortune/service"
	palmcheckHandler "ProjectPalm/internal/api/palmcheck/handler"
	palmcheckService "ProjectPalm/internal/api/palmcheck/service"
	usageHandler "ProjectPalm/internal/api/usage/handler"
	usageRepository "ProjectPalm/internal/api/usage/repository"
	"ProjectPalm/internal/middleware"
	"ProjectPalm/pkg/gemini"
	"ProjectPalm/pkg/redis"
	"ProjectPalm/pkg/s3"
	"ProjectPalm/pkg/utils"
	websocketPkg "ProjectPalm/pkg/websocket"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine        *fiber.App
	log           *logrus.Logger
	middleware    middleware.Middleware
	validator     *validator.Validate
	utils         utils.IUtils
	handlers      []handler
	redisServer   redis.ICounter
	trackerClient websocketPkg.IHandTracker
	geminiClient  gemini.IGemini
	s3Client      s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithRedisServer(redisServer redis.ICounter) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithTrackerClient(tracker websocketPkg.IHandTracker) ServerOption {
	return func(s *Server) error {
		s.trackerClient = tracker
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithS3Client enables palm image archiving. Skip the option entirely to run
// without an archive bucket.
func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to create Gemini client: %v", err)
			}
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Fortune Domain
	fortuneServices := fortuneService.NewFortuneService(s.log, s.geminiClient, s.s3Client)
	fortuneHandlers := fortuneHandler.New(s.log, s.validator, s.middleware, fortuneServices, s.utils)

	// Palm Check
	palmcheckServices := palmcheckService.New(s.log, s.trackerClient)
	palmcheckHandlers := palmcheckHandler.New(s.log, s.middleware, palmcheckServices)

	// Usage Counter
	usageRepo := usageRepository.New(s.log, s.redisServer)
	usageHandlers := usageHandler.New(s.log, s.middleware, usageRepo)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, fortuneHandlers, palmcheckHandlers, usageHandlers)
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	router := s.engine.Group("/api/v1")
	router.Use(s.middleware.NewRateLimiter)

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		if s.trackerClient != nil {
			s.trackerClient.Close()
		}
		return err
	}

	return nil
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
