package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/pkg/utils"
)

var (
	functionalCount    = fmt.Sprintf("COUNT(*) FILTER (WHERE mi.etat_normalise = '%s')", utils.StateFunctional)
	nonFunctionalCount = fmt.Sprintf("COUNT(*) FILTER (WHERE mi.etat_normalise = '%s')", utils.StateNonFunctional)
)

type StatisticsRepositoryInterface interface {
	GetPhysicalIDs(ctx context.Context, batchID uint64) ([]uint64, error)
	GetTopDistrictFailures(ctx context.Context, batchID uint64, limit uint64) ([]entities.DistrictFailures, error)
	GetFailuresByType(ctx context.Context, batchID uint64, skip, limit uint64) ([]entities.TypeFailures, error)
	GetRegionCounts(ctx context.Context, batchID uint64, skip, limit uint64) ([]entities.RegionCounts, error)
	GetRecentBatchStates(ctx context.Context, batchID uint64, count uint64) ([]entities.BatchStateCounts, error)
	GetGlobalCounts(ctx context.Context, batchID uint64) (*entities.GlobalCounts, error)
}

type StatisticsRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewStatisticsRepository(storage *pgxpool.Pool, logger *zap.Logger) StatisticsRepositoryInterface {
	return &StatisticsRepository{storage: storage, logger: logger}
}

func collect[T any](ctx context.Context, storage *pgxpool.Pool, b sq.SelectBuilder) ([]T, error) {
	query, args, err := b.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[T])
}

func (r *StatisticsRepository) GetPhysicalIDs(ctx context.Context, batchID uint64) ([]uint64, error) {
	query, args, err := sq.Select("DISTINCT id_physique").From("materiel_informatique").
		Where(sq.Eq{"id_date_import": batchID}).PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lecture des matériels du lot %d: %w", batchID, err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowTo[uint64])
}

func (r *StatisticsRepository) GetTopDistrictFailures(ctx context.Context, batchID uint64, limit uint64) ([]entities.DistrictFailures, error) {
	b := sq.Select(
		"l.code", "l.district",
		nonFunctionalCount+" AS nombre_pannes",
		"COUNT(*) AS total_materiels",
	).From("materiel_informatique mi").
		Join("materiel_physique mp ON mi.id_physique = mp.id_physique").
		Join("localisation l ON mp.code_localisation_ref = l.code_localisation").
		Where(sq.Eq{"mi.id_date_import": batchID}).
		GroupBy("l.code", "l.district").
		Having(nonFunctionalCount + " > 0").
		OrderBy("nombre_pannes DESC", "l.code ASC NULLS LAST", "l.district ASC NULLS LAST").
		Limit(limit)

	res, err := collect[entities.DistrictFailures](ctx, r.storage, b)
	if err != nil {
		return nil, fmt.Errorf("top des districts en panne: %w", err)
	}
	return res, nil
}

func (r *StatisticsRepository) GetFailuresByType(ctx context.Context, batchID uint64, skip, limit uint64) ([]entities.TypeFailures, error) {
	b := sq.Select("mp.type", "COUNT(*) AS nombre_pannes").
		From("materiel_informatique mi").
		Join("materiel_physique mp ON mi.id_physique = mp.id_physique").
		Where(sq.Eq{"mi.id_date_import": batchID, "mi.etat_normalise": utils.StateNonFunctional}).
		GroupBy("mp.type").
		OrderBy("nombre_pannes DESC", "mp.type ASC NULLS LAST").
		Limit(limit).Offset(skip)

	res, err := collect[entities.TypeFailures](ctx, r.storage, b)
	if err != nil {
		return nil, fmt.Errorf("pannes par type: %w", err)
	}
	return res, nil
}

func (r *StatisticsRepository) GetRegionCounts(ctx context.Context, batchID uint64, skip, limit uint64) ([]entities.RegionCounts, error) {
	b := sq.Select(
		"l.code", "l.region",
		"COUNT(*) AS total_materiels",
		functionalCount+" AS fonctionnels",
	).From("materiel_informatique mi").
		Join("materiel_physique mp ON mi.id_physique = mp.id_physique").
		Join("localisation l ON mp.code_localisation_ref = l.code_localisation").
		Where(sq.Eq{"mi.id_date_import": batchID}).
		GroupBy("l.code", "l.region").
		OrderBy("total_materiels DESC", "l.code ASC NULLS LAST", "l.region ASC NULLS LAST").
		Limit(limit).Offset(skip)

	res, err := collect[entities.RegionCounts](ctx, r.storage, b)
	if err != nil {
		return nil, fmt.Errorf("matériels par région: %w", err)
	}
	return res, nil
}

// GetRecentBatchStates renvoie les count derniers lots d'id <= batchID, du plus récent au
// plus ancien. Un lot vide apparaît avec des compteurs à zéro.
func (r *StatisticsRepository) GetRecentBatchStates(ctx context.Context, batchID uint64, count uint64) ([]entities.BatchStateCounts, error) {
	b := sq.Select(
		"di.id_date", "di.date_complet",
		functionalCount+" AS fonctionnels",
		nonFunctionalCount+" AS non_fonctionnels",
	).From("date_import di").
		LeftJoin("materiel_informatique mi ON di.id_date = mi.id_date_import").
		Where(sq.LtOrEq{"di.id_date": batchID}).
		GroupBy("di.id_date", "di.date_complet").
		OrderBy("di.id_date DESC").
		Limit(count)

	res, err := collect[entities.BatchStateCounts](ctx, r.storage, b)
	if err != nil {
		return nil, fmt.Errorf("état des derniers imports: %w", err)
	}
	return res, nil
}

func (r *StatisticsRepository) GetGlobalCounts(ctx context.Context, batchID uint64) (*entities.GlobalCounts, error) {
	b := sq.Select(
		"COUNT(*) AS total_materiels",
		functionalCount+" AS fonctionnels",
		nonFunctionalCount+" AS non_fonctionnels",
	).From("materiel_informatique mi").
		Where(sq.Eq{"mi.id_date_import": batchID})

	res, err := collect[entities.GlobalCounts](ctx, r.storage, b)
	if err != nil {
		return nil, fmt.Errorf("résumé global: %w", err)
	}
	if len(res) == 0 {
		return &entities.GlobalCounts{}, nil
	}
	return &res[0], nil
}
