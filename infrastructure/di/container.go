package di

import (
	"context"

	"socialgram-backend/application/ports"
	"socialgram-backend/application/services"
	"socialgram-backend/infrastructure/config"
	"socialgram-backend/pkg/auth"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	AccountRepo     ports.AccountRepository
	PostRepo        ports.PostRepository
	PopularityIndex ports.PopularityIndex
	MediaStore      ports.MediaStore
	EventBus        ports.EventBus
	TokenService    *auth.TokenService
	AccountService  *services.AccountService
	GraphService    *services.GraphService
	PostService     *services.PostService
	FeedService     *services.FeedService
}

// InitializeContainer wires the full dependency graph. Providers are
// called in dependency order; the first failure aborts initialization.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)
	s3Client := ProvideS3Client(awsCfg)

	accountRepo := ProvideAccountRepository(dynamoClient, cfg, logger)
	postRepo := ProvidePostRepository(dynamoClient, cfg, logger)
	eventBus := ProvideEventBus(eventBridgeClient, cfg, logger)
	mediaStore := ProvideMediaStore(s3Client, cfg, logger)

	popularity, err := ProvidePopularityIndex(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	tokenService, err := ProvideTokenService(cfg)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:          cfg,
		Logger:          logger,
		AccountRepo:     accountRepo,
		PostRepo:        postRepo,
		PopularityIndex: popularity,
		MediaStore:      mediaStore,
		EventBus:        eventBus,
		TokenService:    tokenService,
		AccountService:  ProvideAccountService(accountRepo, tokenService, eventBus, logger),
		GraphService:    ProvideGraphService(accountRepo, eventBus, logger),
		PostService:     ProvidePostService(postRepo, accountRepo, popularity, mediaStore, eventBus, logger),
		FeedService:     ProvideFeedService(postRepo, accountRepo, popularity, logger),
	}, nil
}

// Shutdown flushes the logger and releases external connections
func (c *Container) Shutdown() {
	if closer, ok := c.PopularityIndex.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	_ = c.Logger.Sync()
}
