package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type LocationRepositoryInterface interface {
	FindLocationID(ctx context.Context, q Querier, key entities.Location) (uint64, error)
	// InsertLocation renvoie created=false si une ligne de même clé existe déjà.
	InsertLocation(ctx context.Context, q Querier, key entities.Location) (id uint64, created bool, err error)
}

type LocationRepository struct {
	logger *zap.Logger
}

func NewLocationRepository(logger *zap.Logger) LocationRepositoryInterface {
	return &LocationRepository{logger: logger}
}

func (r *LocationRepository) FindLocationID(ctx context.Context, q Querier, key entities.Location) (uint64, error) {
	query := `
		SELECT code_localisation
		FROM localisation
		WHERE code IS NOT DISTINCT FROM $1
		  AND region IS NOT DISTINCT FROM $2
		  AND district IS NOT DISTINCT FROM $3
		  AND commune IS NOT DISTINCT FROM $4`

	var id uint64
	err := q.QueryRow(ctx, query, key.Code, key.Region, key.District, key.Commune).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("recherche de la localisation: %w", err)
	}
	return id, nil
}

func (r *LocationRepository) InsertLocation(ctx context.Context, q Querier, key entities.Location) (uint64, bool, error) {
	query := `
		INSERT INTO localisation (code, region, district, commune)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT uq_localisation DO NOTHING
		RETURNING code_localisation`

	var id uint64
	err := q.QueryRow(ctx, query, key.Code, key.Region, key.District, key.Commune).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("localisation créée entre-temps par un autre import",
				zap.String("code", key.Code.String), zap.String("commune", key.Commune.String))
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("création de la localisation: %w", err)
	}
	return id, true, nil
}
