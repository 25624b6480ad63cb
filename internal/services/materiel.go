package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/utils"
)

type MaterielServiceInterface interface {
	GetAll(ctx context.Context, query dto.MaterielsByBatchQuery) ([]dto.MaterielDTO, utils.Pagination, error)
	GetByCommune(ctx context.Context, query dto.MaterielsByCommuneQuery) ([]dto.MaterielDTO, utils.Pagination, error)
	GetNew(ctx context.Context, query dto.NewMaterielsQuery) ([]dto.MaterielDTO, utils.Pagination, error)
	SearchByCode(ctx context.Context, query dto.SearchByCodeQuery) ([]dto.MaterielDTO, utils.Pagination, error)
	FindMateriel(ctx context.Context, snapshotID uint64) (*dto.MaterielDetailDTO, error)
}

type MaterielService struct {
	materielRepo repositories.MaterielRepositoryInterface
	logger       *zap.Logger
}

func NewMaterielService(materielRepo repositories.MaterielRepositoryInterface, logger *zap.Logger) MaterielServiceInterface {
	return &MaterielService{materielRepo: materielRepo, logger: logger}
}

func toMaterielDTO(v entities.MaterielView) dto.MaterielDTO {
	return dto.MaterielDTO{
		IDSnapshot:    v.SnapshotID,
		IDPhysique:    v.PhysicalID,
		Etat:          utils.NullStringToStrPtr(v.State),
		EtatNormalise: utils.NullStringToStrPtr(v.NormalizedState),
		NomMateriel:   v.Name,
		Type:          utils.NullStringToStrPtr(v.Type),
		Code:          utils.NullStringToStrPtr(v.Code),
		Region:        utils.NullStringToStrPtr(v.Region),
		District:      utils.NullStringToStrPtr(v.District),
		Commune:       utils.NullStringToStrPtr(v.Commune),
		DateImport:    v.ImportDate.Format(time.DateOnly),
	}
}

func toPage(items []entities.MaterielView, total uint64, page dto.PaginationQuery) ([]dto.MaterielDTO, utils.Pagination) {
	res := make([]dto.MaterielDTO, 0, len(items))
	for _, item := range items {
		res = append(res, toMaterielDTO(item))
	}
	return res, utils.Paginate(total, uint64(page.Skip), uint64(page.Limit))
}

func (s *MaterielService) GetAll(ctx context.Context, query dto.MaterielsByBatchQuery) ([]dto.MaterielDTO, utils.Pagination, error) {
	items, total, err := s.materielRepo.GetByBatch(ctx, query.ImportDateID, uint64(query.Skip), uint64(query.Limit))
	if err != nil {
		return nil, utils.Pagination{}, err
	}
	res, page := toPage(items, total, query.PaginationQuery)
	return res, page, nil
}

func (s *MaterielService) GetByCommune(ctx context.Context, query dto.MaterielsByCommuneQuery) ([]dto.MaterielDTO, utils.Pagination, error) {
	items, total, err := s.materielRepo.GetByCommune(ctx, query.ImportDateID, query.Commune, uint64(query.Skip), uint64(query.Limit))
	if err != nil {
		return nil, utils.Pagination{}, err
	}
	res, page := toPage(items, total, query.PaginationQuery)
	return res, page, nil
}

// GetNew liste le matériel du lot date_nouvelle absent du lot date_ancienne.
func (s *MaterielService) GetNew(ctx context.Context, query dto.NewMaterielsQuery) ([]dto.MaterielDTO, utils.Pagination, error) {
	if query.NewDateID <= query.OldDateID {
		return nil, utils.Pagination{}, apperrors.NewBadRequestError(
			"date_nouvelle doit être postérieure à date_ancienne")
	}
	items, total, err := s.materielRepo.GetAbsentFrom(ctx, query.NewDateID, query.OldDateID, uint64(query.Skip), uint64(query.Limit))
	if err != nil {
		return nil, utils.Pagination{}, err
	}
	res, page := toPage(items, total, query.PaginationQuery)
	return res, page, nil
}

func (s *MaterielService) SearchByCode(ctx context.Context, query dto.SearchByCodeQuery) ([]dto.MaterielDTO, utils.Pagination, error) {
	items, total, err := s.materielRepo.SearchByCode(ctx, query.Code, query.ImportDateID, uint64(query.Skip), uint64(query.Limit))
	if err != nil {
		return nil, utils.Pagination{}, err
	}
	res, page := toPage(items, total, query.PaginationQuery)
	return res, page, nil
}

func (s *MaterielService) FindMateriel(ctx context.Context, snapshotID uint64) (*dto.MaterielDetailDTO, error) {
	detail, err := s.materielRepo.FindDetail(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	return &dto.MaterielDetailDTO{
		MaterielDTO:              toMaterielDTO(detail.MaterielView),
		Motif:                    utils.NullStringToStrPtr(detail.Reason),
		AchatConsommable:         utils.NullStringToStrPtr(detail.ConsumablePurchased),
		CompatibiliteConsommable: utils.NullStringToStrPtr(detail.ConsumableCompatible),
	}, nil
}
