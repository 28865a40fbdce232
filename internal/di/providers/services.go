package providers

import (
	"github.com/samber/do/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/config"
	"github.com/filmarkiv/filmarkiv-server/internal/logger"
	"github.com/filmarkiv/filmarkiv-server/internal/ratelimit"
	"github.com/filmarkiv/filmarkiv-server/internal/service"
)

// ProvideMovieService provides the movie catalog service.
func ProvideMovieService(i do.Injector) (*service.MovieService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	// A nil *SearchService must not end up inside a non-nil interface.
	var indexer service.MovieIndexer
	if searchHandle.SearchService != nil {
		indexer = searchHandle.SearchService
	}

	return service.NewMovieService(storeHandle.Store, indexer, log.Logger), nil
}

// ProvideMessageService provides the contact message service.
func ProvideMessageService(i do.Injector) (*service.MessageService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMessageService(storeHandle.Store, log.Logger), nil
}

// MessageLimiterHandle holds the contact message limiter, nil when unlimited.
type MessageLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *MessageLimiterHandle) Shutdown() error {
	if h.KeyedRateLimiter == nil {
		return nil
	}
	return h.KeyedRateLimiter.Shutdown()
}

// ProvideMessageLimiter provides the per-client contact message limiter.
func ProvideMessageLimiter(i do.Injector) (*MessageLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Messages.RateLimit <= 0 {
		return &MessageLimiterHandle{}, nil
	}

	log.Info("Contact message rate limit enabled", "per_minute", cfg.Messages.RateLimit)
	return &MessageLimiterHandle{KeyedRateLimiter: ratelimit.PerMinute(cfg.Messages.RateLimit)}, nil
}
