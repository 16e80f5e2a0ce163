package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/iudanet/xbookmarks/internal/config"
)

const (
	checkTimeout      = 5 * time.Second
	boltSweepInterval = 10 * time.Minute
)

// newDynamoClient builds the DynamoDB client; replaced in tests.
var newDynamoClient = func(ctx context.Context, cfg config.SessionConfig) (DynamoAPI, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.DynamoRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.DynamoRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoEndpoint)
		}
	}), nil
}

// Open resolves the configured backend once at startup. A backend that
// cannot be reached degrades to MemoryStore with a warning; the choice is
// never revisited while the process runs.
func Open(ctx context.Context, cfg config.SessionConfig, logger *slog.Logger) Store {
	opts := Options{TTL: cfg.SessionTTL()}

	switch cfg.Backend {
	case config.BackendDynamoDB:
		store, err := openDynamo(ctx, cfg, opts)
		if err == nil {
			logger.InfoContext(ctx, "Session store ready", slog.String("backend", cfg.Backend), slog.String("table", cfg.DynamoTable))
			return store
		}
		logger.WarnContext(ctx, "Session store unavailable, falling back to memory",
			slog.String("backend", cfg.Backend),
			slog.Any("error", err),
		)

	case config.BackendBolt:
		store, err := NewBoltStore(cfg.BoltPath, boltSweepInterval, opts, logger)
		if err == nil {
			logger.InfoContext(ctx, "Session store ready", slog.String("backend", cfg.Backend), slog.String("path", cfg.BoltPath))
			return store
		}
		logger.WarnContext(ctx, "Session store unavailable, falling back to memory",
			slog.String("backend", cfg.Backend),
			slog.Any("error", err),
		)
	}

	logger.InfoContext(ctx, "Session store ready", slog.String("backend", config.BackendMemory), slog.Int("max_entries", cfg.MaxEntries))
	return NewMemoryStore(cfg.MaxEntries, opts)
}

func openDynamo(ctx context.Context, cfg config.SessionConfig, opts Options) (*DynamoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	client, err := newDynamoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := NewDynamoStore(client, cfg.DynamoTable, opts)
	if err := store.Check(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
