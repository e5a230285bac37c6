package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pedidos-api/internal/application/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var _ order.TxRunner = (*TxRunner)(nil)

const defaultRetryBackoff = 20 * time.Millisecond

// TxRunner ejecuta callbacks del motor de pedidos dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool       *pgxpool.Pool
	isoLevel   pgx.TxIsoLevel
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool y el aislamiento/reintentos configurados.
func NewTxRunner(pool *pgxpool.Pool, cfg config.DBConfig, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.NewNop()
	}
	return &TxRunner{
		pool:       pool,
		isoLevel:   IsoLevel(cfg.TxIsolation),
		maxRetries: cfg.TxMaxRetries,
		backoff:    defaultRetryBackoff,
		log:        log.Component("tx_runner"),
	}
}

// IsoLevel traduce el nombre configurado al nivel de pgx; read committed por defecto.
func IsoLevel(name string) pgx.TxIsoLevel {
	switch name {
	case config.IsolationSerializable:
		return pgx.Serializable
	case config.IsolationRepeatableRead:
		return pgx.RepeatableRead
	default:
		return pgx.ReadCommitted
	}
}

// Run ejecuta fn con repos atados a una transacción y hace Commit o Rollback.
// Ante 40001/40P01 repite fn completo en una transacción nueva, hasta maxRetries veces.
func (r *TxRunner) Run(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	for attempt := 0; ; attempt++ {
		err := r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || attempt >= r.maxRetries {
			return err
		}
		r.log.Warn().Int("attempt", attempt+1).Err(err).Msg("transacción abortada, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff * time.Duration(attempt+1)):
		}
	}
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	ledgerRepo repository.LedgerRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: r.isoLevel})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewOrderRepository(tx),
		NewLedgerRepository(tx),
		NewProductRepository(tx),
		NewWarehouseRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
