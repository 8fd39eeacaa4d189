package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/solenne/boutique/config"
	"github.com/solenne/boutique/internal/adapters/devauth"
	"github.com/solenne/boutique/internal/adapters/oidc"
	redisadapter "github.com/solenne/boutique/internal/adapters/redis"
	"github.com/solenne/boutique/internal/data"
	"github.com/solenne/boutique/internal/ports"
	"github.com/solenne/boutique/internal/service"
)

// AuthDeps groups inputs for BuildAuthService.
type AuthDeps struct {
	Config      *config.AppConfig
	RedisClient goredis.UniversalClient
	Profiles    *data.ProfileRepo
	Logger      *slog.Logger
}

// BuildAuthService wires the auth provider, session store, and profile
// bootstrap into an AuthService per the configured auth mode.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	provider, err := buildAuthProvider(deps.Config)
	if err != nil {
		return nil, err
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider:      provider,
		Sessions:      redisadapter.NewSessionStore(deps.RedisClient),
		Profiles:      deps.Profiles,
		SessionTTL:    time.Duration(deps.Config.Auth.SessionTTLSeconds) * time.Second,
		RefreshWindow: time.Duration(deps.Config.Auth.RefreshWindowSeconds) * time.Second,
		Logger:        deps.Logger,
	}), nil
}

//nolint:ireturn // the port interface is the point of this factory.
func buildAuthProvider(cfg *config.AppConfig) (ports.AuthProvider, error) {
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider, err := devauth.NewProvider(devauth.Config{
			UserID: cfg.Auth.DevAuth.UserID,
			Email:  cfg.Auth.DevAuth.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("build dev auth provider: %w", err)
		}
		return provider, nil
	case config.AuthModeOAuth:
		provider, err := oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.Auth.OAuth.ClientID,
			ClientSecret: cfg.Auth.OAuth.ClientSecret,
			RedirectURL:  cfg.Auth.OAuth.RedirectURL,
			Scope:        cfg.Auth.OAuth.Scope,
			DiscoveryURL: cfg.Auth.OAuth.DiscoveryURL,
			LogoutURL:    cfg.Auth.OAuth.LogoutURL,
		})
		if err != nil {
			return nil, fmt.Errorf("build oidc provider: %w", err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown auth mode: %q", cfg.Auth.Mode)
	}
}
