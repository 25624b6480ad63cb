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

type PhysicalEquipmentRepositoryInterface interface {
	FindPhysicalID(ctx context.Context, q Querier, key entities.PhysicalEquipment) (uint64, error)
	InsertPhysical(ctx context.Context, q Querier, key entities.PhysicalEquipment) (id uint64, created bool, err error)
}

type PhysicalEquipmentRepository struct {
	logger *zap.Logger
}

func NewPhysicalEquipmentRepository(logger *zap.Logger) PhysicalEquipmentRepositoryInterface {
	return &PhysicalEquipmentRepository{logger: logger}
}

func (r *PhysicalEquipmentRepository) FindPhysicalID(ctx context.Context, q Querier, key entities.PhysicalEquipment) (uint64, error) {
	query := `
		SELECT id_physique
		FROM materiel_physique
		WHERE code_localisation_ref = $1
		  AND nom_materiel = $2
		  AND type IS NOT DISTINCT FROM $3`

	var id uint64
	err := q.QueryRow(ctx, query, key.LocationID, key.Name, key.Type).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrNotFound
		}
		return 0, fmt.Errorf("recherche du matériel physique: %w", err)
	}
	return id, nil
}

func (r *PhysicalEquipmentRepository) InsertPhysical(ctx context.Context, q Querier, key entities.PhysicalEquipment) (uint64, bool, error) {
	query := `
		INSERT INTO materiel_physique (code_localisation_ref, nom_materiel, type)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT uq_materiel_physique DO NOTHING
		RETURNING id_physique`

	var id uint64
	err := q.QueryRow(ctx, query, key.LocationID, key.Name, key.Type).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("matériel physique créé entre-temps par un autre import",
				zap.Uint64("locationID", key.LocationID), zap.String("nom", key.Name))
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("création du matériel physique: %w", err)
	}
	return id, true, nil
}
