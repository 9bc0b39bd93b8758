package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legallyai-backend/config"
	"legallyai-backend/handlers"
	"legallyai-backend/llm"
	"legallyai-backend/repository"
	"legallyai-backend/service"
	"legallyai-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := initPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Postgres connection established")

	// Initialize storage
	avatarStorage, err := storage.NewStorage(ctx, cfg.StorageConfig())
	if err != nil {
		return err
	}
	logger.Info("Storage initialized", zap.String("type", cfg.Storage.Type))

	// Initialize repositories
	lawyerRepo := repository.NewLawyerRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Initialize Gemini
	geminiClient, err := llm.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return err
	}
	defer geminiClient.Close()

	model := llm.NewGeminiModel(geminiClient, cfg.Gemini.TextModel,
		llm.GeminiWithTemperature(cfg.Gemini.Temperature),
		llm.GeminiWithLogger(logger),
	)
	speech, err := llm.NewGeminiSpeech(ctx, cfg.Gemini.APIKey, cfg.Gemini.SpeechModel, logger)
	if err != nil {
		return err
	}
	logger.Info("Gemini initialized",
		zap.String("text_model", cfg.Gemini.TextModel),
		zap.String("speech_model", cfg.Gemini.SpeechModel),
	)

	// Initialize services
	flowOpts := []service.FlowOption{
		service.WithModel(model),
		service.WithCallTimeout(cfg.Gemini.CallTimeout),
		service.WithMaxToolRounds(cfg.Gemini.MaxToolRounds),
		service.WithLogger(logger),
	}
	recommender := service.NewRecommendationService(append(flowOpts, service.WithExpertFinder(lawyerRepo))...)
	suggester := service.NewLawSuggestionService(flowOpts...)
	assistant := service.NewAssistantService(append(flowOpts,
		service.WithSpeech(speech),
		service.WithVoice(cfg.Gemini.Voice),
	)...)

	accounts := service.NewAccountService(
		service.AccountWithStore(userRepo),
		service.AccountWithSessionStore(sessionRepo),
		service.AccountWithLawyerStore(lawyerRepo),
		service.AccountWithSessionTTL(cfg.SessionTTL),
		service.AccountWithLogger(logger),
	)
	directory := service.NewDirectoryService(
		service.DirectoryWithLawyerStore(lawyerRepo),
		service.DirectoryWithFileStore(fileRepo),
		service.DirectoryWithStorage(avatarStorage),
		service.DirectoryWithLogger(logger),
	)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router, err := handlers.NewRouter(handlers.RouterConfig{
		Accounts:    accounts,
		Directory:   directory,
		Recommender: recommender,
		Suggester:   suggester,
		Assistant:   assistant,
		RateLimiter: handlers.NewRateLimiter(cfg.AIRateLimit, cfg.AIRateBurst),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
