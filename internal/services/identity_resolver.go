package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

type IdentityResolverInterface interface {
	ResolveLocation(ctx context.Context, q repositories.Querier, key entities.Location) (uint64, error)
	ResolvePhysical(ctx context.Context, q repositories.Querier, key entities.PhysicalEquipment) (uint64, error)
}

// IdentityResolver retrouve ou crée les identités persistantes (localisation, matériel
// physique) à partir de leur clé naturelle.
type IdentityResolver struct {
	locationRepo repositories.LocationRepositoryInterface
	physicalRepo repositories.PhysicalEquipmentRepositoryInterface
	logger       *zap.Logger
}

func NewIdentityResolver(
	locationRepo repositories.LocationRepositoryInterface,
	physicalRepo repositories.PhysicalEquipmentRepositoryInterface,
	logger *zap.Logger,
) IdentityResolverInterface {
	return &IdentityResolver{locationRepo: locationRepo, physicalRepo: physicalRepo, logger: logger}
}

// getOrCreate : recherche, puis insertion sans conflit, puis nouvelle recherche si un
// autre import a créé la même clé entre les deux.
func getOrCreate(
	find func() (uint64, error),
	insert func() (uint64, bool, error),
) (uint64, bool, error) {
	id, err := find()
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return 0, false, err
	}

	id, created, err := insert()
	if err != nil {
		return 0, false, err
	}
	if created {
		return id, true, nil
	}

	id, err = find()
	if err != nil {
		return 0, false, fmt.Errorf("identité introuvable après conflit d'insertion: %w", err)
	}
	return id, false, nil
}

func (r *IdentityResolver) ResolveLocation(ctx context.Context, q repositories.Querier, key entities.Location) (uint64, error) {
	id, created, err := getOrCreate(
		func() (uint64, error) { return r.locationRepo.FindLocationID(ctx, q, key) },
		func() (uint64, bool, error) { return r.locationRepo.InsertLocation(ctx, q, key) },
	)
	if err != nil {
		return 0, err
	}
	if created {
		r.logger.Debug("nouvelle localisation", zap.Uint64("id", id),
			zap.String("code", key.Code.String), zap.String("commune", key.Commune.String))
	}
	return id, nil
}

func (r *IdentityResolver) ResolvePhysical(ctx context.Context, q repositories.Querier, key entities.PhysicalEquipment) (uint64, error) {
	id, created, err := getOrCreate(
		func() (uint64, error) { return r.physicalRepo.FindPhysicalID(ctx, q, key) },
		func() (uint64, bool, error) { return r.physicalRepo.InsertPhysical(ctx, q, key) },
	)
	if err != nil {
		return 0, err
	}
	if created {
		r.logger.Debug("nouveau matériel physique", zap.Uint64("id", id), zap.String("nom", key.Name))
	}
	return id, nil
}
