package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func ConnectDB(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("création du pool de connexions impossible: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("la base de données ne répond pas: %w", err)
	}

	logger.Info("✅ Connecté à PostgreSQL")
	return dbpool, nil
}

// ConnectSchema crée le schéma s'il manque et ouvre un pool dont le search_path pointe dessus.
// Les tables et la table de version de goose sont alors isolées dans ce schéma.
func ConnectSchema(ctx context.Context, dsn, schema string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("DSN invalide: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, cfg.ConnConfig.Copy())
	if err != nil {
		return nil, fmt.Errorf("la base de données ne répond pas: %w", err)
	}
	_, err = conn.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize())
	_ = conn.Close(ctx)
	if err != nil {
		return nil, fmt.Errorf("création du schéma %s: %w", schema, err)
	}

	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	dbpool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("création du pool de connexions impossible: %w", err)
	}
	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("la base de données ne répond pas: %w", err)
	}

	logger.Info("Connecté à PostgreSQL", zap.String("schema", schema))
	return dbpool, nil
}
