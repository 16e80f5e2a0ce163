// Package app wires configuration into the running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/iudanet/xbookmarks/internal/config"
	"github.com/iudanet/xbookmarks/internal/crypto"
	"github.com/iudanet/xbookmarks/internal/secret"
	"github.com/iudanet/xbookmarks/internal/server"
	"github.com/iudanet/xbookmarks/internal/server/auth"
	"github.com/iudanet/xbookmarks/internal/server/handlers"
	"github.com/iudanet/xbookmarks/internal/server/middleware"
	"github.com/iudanet/xbookmarks/internal/server/service"
	"github.com/iudanet/xbookmarks/internal/server/session"
	"github.com/iudanet/xbookmarks/internal/server/storage/sqlite"
)

// loadAWSConfig is replaced in tests
var loadAWSConfig = func(ctx context.Context) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx)
}

// App owns every long-lived resource of the process
type App struct {
	Handler  http.Handler
	logger   *slog.Logger
	storage  *sqlite.Storage
	sessions session.Store
	limiter  *middleware.RateLimiter
}

// Open builds the application from cfg. Resources opened before a failure
// are released before Open returns.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (_ *App, err error) {
	if cfg.OAuth.ClientID == "" {
		return nil, errors.New("oauth.client_id is required")
	}

	var awsCfg *aws.Config
	if cfg.SecretsFrom == "ssm" || cfg.Crypto.KMSKeyID != "" {
		c, err := loadAWSConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		awsCfg = &c
	}

	resolver := newResolver(cfg, awsCfg)

	clientSecret, err := secret.Value(ctx, resolver, cfg.OAuth.ClientSecret, cfg.OAuth.ClientSecretParam)
	if err != nil {
		return nil, fmt.Errorf("oauth client secret: %w", err)
	}
	sessionSecret, err := secret.Value(ctx, resolver, cfg.Session.Secret, cfg.Session.SecretParam)
	if err != nil {
		return nil, fmt.Errorf("session secret: %w", err)
	}

	sealer, err := newSealer(ctx, cfg.Crypto, resolver, awsCfg)
	if err != nil {
		return nil, fmt.Errorf("token sealer: %w", err)
	}

	codec, err := session.NewCookieCodec([]byte(sessionSecret), cfg.Session.SessionTTL())
	if err != nil {
		return nil, err
	}

	a := &App{logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	a.storage, err = sqlite.New(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a.sessions = session.Open(ctx, cfg.Session, logger)
	manager := session.NewManager(a.sessions, codec, session.CookieOptions{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.SessionTTL(),
		Secure: cfg.Session.CookieSecure,
	}, logger)

	providerClient := &http.Client{Timeout: cfg.OAuth.Timeout()}
	flow := auth.NewFlow(
		auth.FlowConfig{
			HTTPClient:   providerClient,
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: clientSecret,
			RedirectURL:  cfg.OAuth.CallbackURL,
			AuthURL:      cfg.OAuth.AuthURL,
			TokenURL:     cfg.OAuth.TokenURL,
			LandingPath:  cfg.OAuth.LandingPath,
			Scopes:       cfg.OAuth.Scopes,
			StateTTL:     cfg.OAuth.StateLifetime(),
		},
		a.sessions,
		a.storage,
		auth.NewXProfileClient(cfg.OAuth.ProfileURL, providerClient),
		sealer,
		session.NewID,
		logger,
	)

	if cfg.RateLimit.RequestsPerSecond > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, 10*time.Minute, logger)
	}

	a.Handler = server.NewRouter(server.Handlers{
		Auth:      handlers.NewAuthHandler(logger, flow, manager),
		Folders:   handlers.NewFolderHandler(logger, service.NewFolderService(a.storage, logger)),
		Bookmarks: handlers.NewBookmarkHandler(logger, service.NewBookmarkService(a.storage, a.storage, logger)),
		Health:    handlers.NewHealthHandler(logger, a.storage, version),
	}, server.RouterConfig{
		Sessions: manager,
		Limiter:  a.limiter,
		Logger:   logger,
	})

	return a, nil
}

// Close releases the resources in reverse order of creation
func (a *App) Close() error {
	var errs []error

	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.sessions != nil {
		if err := a.sessions.Close(); err != nil {
			errs = append(errs, fmt.Errorf("session store: %w", err))
		}
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	return errors.Join(errs...)
}

func newResolver(cfg *config.Config, awsCfg *aws.Config) secret.Resolver {
	if cfg.SecretsFrom == "ssm" && awsCfg != nil {
		return secret.NewSSMResolver(ssm.NewFromConfig(*awsCfg))
	}
	return secret.NewEnvResolver()
}

// newSealer prefers KMS; otherwise the key is derived from a passphrase
func newSealer(ctx context.Context, cfg config.CryptoConfig, resolver secret.Resolver, awsCfg *aws.Config) (crypto.Sealer, error) {
	if cfg.KMSKeyID != "" {
		if awsCfg == nil {
			return nil, errors.New("kms key configured without AWS config")
		}
		return crypto.NewKMSSealer(kms.NewFromConfig(*awsCfg), cfg.KMSKeyID), nil
	}

	passphrase, err := secret.Value(ctx, resolver, cfg.TokenKey, cfg.TokenKeyParam)
	if err != nil {
		return nil, err
	}
	key, err := crypto.DeriveKey(passphrase, []byte(cfg.TokenKeySalt))
	if err != nil {
		return nil, err
	}
	return crypto.NewLocalSealer(key)
}
