package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"legallyai-backend/schema"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RegisterValidation installs the module's custom validation tags on gin's
// binding engine
func RegisterValidation() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
			return
		}
		err = schema.Register(v)
	})
	return err
}

// RouterConfig wires services into the HTTP API
type RouterConfig struct {
	Accounts    AccountService
	Directory   DirectoryService
	Recommender LawyerRecommender
	Suggester   LawSuggester
	Assistant   LegalAssistant
	RateLimiter *RateLimiter
	Logger      *zap.Logger
}

// NewRouter builds the gin engine with every route
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if err := RegisterValidation(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	accountHandler := NewAccountHandler(cfg.Accounts, logger)
	lawyerHandler := NewLawyerHandler(cfg.Directory, logger)
	fileHandler := NewFileHandler(cfg.Directory, logger)
	aiHandler := NewAIHandler(cfg.Recommender, cfg.Suggester, cfg.Assistant, logger)

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	r.MaxMultipartMemory = 8 << 20

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	requireAuth := RequireAuth(cfg.Accounts, logger)

	api := r.Group("/api")
	{
		// Auth endpoints
		api.POST("/auth/signup", accountHandler.Signup)
		api.POST("/auth/login", accountHandler.Login)
		api.POST("/auth/logout", requireAuth, accountHandler.Logout)

		// Profile endpoints
		api.GET("/profile", requireAuth, accountHandler.GetProfile)
		api.PUT("/profile", requireAuth, accountHandler.UpdateProfile)

		// Directory endpoints
		api.GET("/lawyers", lawyerHandler.ListLawyers)
		api.GET("/lawyers/filters", lawyerHandler.GetFilters)
		api.GET("/lawyers/:id", lawyerHandler.GetLawyer)
		api.POST("/lawyers/:id/avatar", requireAuth, lawyerHandler.UploadAvatar)

		// File endpoints
		api.GET("/files/:id", fileHandler.GetFile)

		// AI endpoints
		ai := api.Group("/ai")
		if cfg.RateLimiter != nil {
			ai.Use(cfg.RateLimiter.Middleware())
		}
		ai.POST("/recommend-lawyer", aiHandler.RecommendLawyer)
		ai.POST("/suggest-law", aiHandler.SuggestLaw)
		ai.POST("/assistant", aiHandler.Assistant)
	}

	return r, nil
}
