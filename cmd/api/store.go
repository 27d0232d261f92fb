package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/seed"
	"github.com/jhoicas/Inventario-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/Inventario-ledger/pkg/config"
	"github.com/jhoicas/Inventario-ledger/pkg/logger"
)

// store agrupa los adaptadores del backend elegido por STORE_DRIVER.
type store struct {
	movements repository.InventoryMovementRepository
	stock     repository.StockRepository
	txRunner  inventory.TxRunner
	close     func()
}

func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*store, error) {
	initial, err := loadSeed(cfg.Store.SeedFile)
	if err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		if err := postgres.SeedStock(ctx, pool, initial...); err != nil {
			pool.Close()
			return nil, err
		}
		return &store{
			movements: postgres.NewInventoryMovementRepository(pool),
			stock:     postgres.NewStockRepository(pool),
			txRunner:  postgres.NewTxRunner(pool),
			close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.OpenDB(cfg.Store.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		if err := sqlite.SeedStock(ctx, db, initial...); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &store{
			movements: sqlite.NewInventoryMovementRepository(db),
			stock:     sqlite.NewStockRepository(db),
			txRunner:  sqlite.NewTxRunner(db),
			close:     func() { _ = db.Close() },
		}, nil

	default:
		s := memory.NewStore(initial...)
		log.Warn().Int("stock_rows", len(initial)).Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &store{
			movements: memory.NewInventoryMovementRepository(s),
			stock:     memory.NewStockRepository(s),
			txRunner:  memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}
}

func loadSeed(path string) ([]entity.Stock, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir STOCK_SEED_FILE: %w", err)
	}
	defer f.Close()
	return seed.ReadStockCSV(f)
}
