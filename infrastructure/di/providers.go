package di

import (
	"context"

	"socialgram-backend/application/ports"
	"socialgram-backend/application/services"
	"socialgram-backend/infrastructure/config"
	s3media "socialgram-backend/infrastructure/media/s3"
	"socialgram-backend/infrastructure/messaging/eventbridge"
	"socialgram-backend/infrastructure/persistence/dynamodb"
	"socialgram-backend/infrastructure/persistence/redisindex"
	"socialgram-backend/pkg/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideAccountRepository creates an account repository
func ProvideAccountRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.AccountRepository {
	return dynamodb.NewAccountRepository(
		client,
		cfg.DynamoDBTable,
		cfg.IndexName,
		logger,
	)
}

// ProvidePostRepository creates a post repository
func ProvidePostRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PostRepository {
	return dynamodb.NewPostRepository(
		client,
		cfg.DynamoDBTable,
		cfg.IndexName,     // GSI1 for by-owner post queries
		cfg.GSI2IndexName, // GSI2 for the global timeline
		logger,
	)
}

// ProvideEventBus creates an event bus. Without a configured bus name
// events are logged and dropped so local development needs no AWS.
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	if cfg.EventBusName == "" {
		return eventbridge.NewNoopEventBus(logger)
	}
	return eventbridge.NewEventBridgePublisher(
		client,
		cfg.EventBusName,
		logger,
	)
}

// ProvidePopularityIndex creates the Redis-backed like-count ranking.
// Returns nil when Redis is not configured; callers fall back to an
// in-memory sort.
func ProvidePopularityIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.PopularityIndex, error) {
	if cfg.RedisAddr == "" {
		logger.Warn("Redis not configured, popular feed will sort in memory")
		return nil, nil
	}
	return redisindex.NewPopularityIndex(ctx, cfg.RedisAddr, cfg.RedisPassword, logger)
}

// ProvideMediaStore creates the S3-backed media store
func ProvideMediaStore(client *awss3.Client, cfg *config.Config, logger *zap.Logger) ports.MediaStore {
	return s3media.NewMediaStore(
		client,
		cfg.MediaBucket,
		cfg.MediaBaseURL,
		cfg.AWSRegion,
		logger,
	)
}

// ProvideTokenService creates the JWT token service
func ProvideTokenService(cfg *config.Config) (*auth.TokenService, error) {
	return auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.JWTSecret,
		Issuer: cfg.JWTIssuer,
	})
}

// ProvideAccountService creates the account application service
func ProvideAccountService(
	accounts ports.AccountRepository,
	tokens *auth.TokenService,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *services.AccountService {
	return services.NewAccountService(accounts, tokens, eventBus, logger)
}

// ProvideGraphService creates the follow-graph application service
func ProvideGraphService(
	accounts ports.AccountRepository,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *services.GraphService {
	return services.NewGraphService(accounts, eventBus, logger)
}

// ProvidePostService creates the post application service
func ProvidePostService(
	posts ports.PostRepository,
	accounts ports.AccountRepository,
	popularity ports.PopularityIndex,
	media ports.MediaStore,
	eventBus ports.EventBus,
	logger *zap.Logger,
) *services.PostService {
	return services.NewPostService(posts, accounts, popularity, media, eventBus, logger)
}

// ProvideFeedService creates the feed application service
func ProvideFeedService(
	posts ports.PostRepository,
	accounts ports.AccountRepository,
	popularity ports.PopularityIndex,
	logger *zap.Logger,
) *services.FeedService {
	return services.NewFeedService(posts, accounts, popularity, logger)
}
