package di

import (
	"fmt"

	"mindbloom/backend/ai"
	"mindbloom/backend/internal/repository"
	"mindbloom/backend/internal/service"
	"mindbloom/backend/pkg/cache"
	"mindbloom/backend/pkg/config"
	"mindbloom/backend/pkg/jwt"
	"mindbloom/backend/pkg/logger"
	"mindbloom/backend/pkg/observability"
	"mindbloom/backend/pkg/resilience"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB             *gorm.DB
	Logger         *logger.Logger
	JWTService     *jwt.Service
	UserService    *service.UserService
	HistoryService *service.HistoryService
	ProfileService *service.ProfileService
	Pipeline       *ai.Pipeline
	Summarizer     *ai.Summarizer
	Metrics        *observability.Metrics
	Cache          *cache.Cache
}

// New creates a new dependency injection container
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)

	userRepo := repository.NewGormUserRepository(db)
	historyRepo := repository.NewGormHistoryRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)

	chatGen, err := ai.NewOpenAIGenerator(ai.GeneratorConfig{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.ChatModel,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}
	gen := ai.NewGuardedGenerator(chatGen, resilience.NewBreaker(resilience.DefaultSettings("ai-chat"), log))

	rawClassifierGen, err := ai.NewOpenAIGenerator(ai.GeneratorConfig{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.ClassifierModel,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier generator: %w", err)
	}
	classifierGen := ai.NewGuardedGenerator(rawClassifierGen, resilience.NewBreaker(resilience.DefaultSettings("ai-classifier"), log))

	classifier, err := ai.NewClassifier(cfg.AI.CrisisStrategy, classifierGen)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	metrics, err := observability.Setup("mindbloom-backend")
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	persona := ai.DefaultPersona()
	responder := ai.NewResponder(gen, cfg.AI.MaxHistoryTurns)
	pipeline := ai.NewPipeline(classifier, responder, persona, metrics, log)
	summarizer := ai.NewSummarizer(gen, persona)

	var summaryCache *cache.Cache
	if cfg.Cache.Enabled {
		summaryCache = cache.New(cfg.Cache.TTL, cfg.Cache.PurgeWindow, cfg.Cache.MaxSize)
	}

	userService := service.NewUserService(userRepo, jwtService)
	historyService := service.NewHistoryService(historyRepo, summarizer, summaryCache)
	profileService := service.NewProfileService(profileRepo)

	return &Container{
		DB:             db,
		Logger:         log,
		JWTService:     jwtService,
		UserService:    userService,
		HistoryService: historyService,
		ProfileService: profileService,
		Pipeline:       pipeline,
		Summarizer:     summarizer,
		Metrics:        metrics,
		Cache:          summaryCache,
	}, nil
}
