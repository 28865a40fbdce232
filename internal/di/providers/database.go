package providers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/filmarkiv/filmarkiv-server/internal/config"
	"github.com/filmarkiv/filmarkiv-server/internal/logger"
	"github.com/filmarkiv/filmarkiv-server/internal/store"
	"github.com/filmarkiv/filmarkiv-server/internal/store/badgerstore"
	"github.com/filmarkiv/filmarkiv-server/internal/store/dynamostore"
	"github.com/filmarkiv/filmarkiv-server/internal/store/sqlstore"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the document store selected by the configuration.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := openStore(context.Background(), cfg, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "driver", st.Driver())

	return &StoreHandle{Store: st}, nil
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case store.DriverBadger:
		return badgerstore.New(cfg.BadgerPath(), log)
	case store.DriverSQLite:
		return sqlstore.OpenSQLite(cfg.Store.DatabaseURL, log)
	case store.DriverPostgres:
		return sqlstore.OpenPostgres(ctx, cfg.Store.DatabaseURL, log)
	case store.DriverDynamoDB:
		return dynamostore.Open(ctx, cfg.Store.DynamoDBTable, cfg.Store.DynamoDBEndpoint, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
