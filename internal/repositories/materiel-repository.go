package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

var materielViewColumns = []string{
	"mi.id_snapshot", "mi.id_physique", "mi.etat", "mi.etat_normalise",
	"mp.nom_materiel", "mp.type",
	"l.code", "l.region", "l.district", "l.commune",
	"di.date_complet AS date_import",
}

const materielViewFrom = "materiel_informatique mi"

func materielJoins(b sq.SelectBuilder) sq.SelectBuilder {
	return b.
		Join("materiel_physique mp ON mi.id_physique = mp.id_physique").
		Join("localisation l ON mp.code_localisation_ref = l.code_localisation").
		Join("date_import di ON mi.id_date_import = di.id_date")
}

type MaterielRepositoryInterface interface {
	GetByBatch(ctx context.Context, batchID, skip, limit uint64) ([]entities.MaterielView, uint64, error)
	GetByCommune(ctx context.Context, batchID uint64, commune string, skip, limit uint64) ([]entities.MaterielView, uint64, error)
	GetAbsentFrom(ctx context.Context, batchID, previousBatchID, skip, limit uint64) ([]entities.MaterielView, uint64, error)
	SearchByCode(ctx context.Context, code string, batchID uint64, skip, limit uint64) ([]entities.MaterielView, uint64, error)
	FindDetail(ctx context.Context, snapshotID uint64) (*entities.MaterielDetail, error)
}

type MaterielRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewMaterielRepository(storage *pgxpool.Pool, logger *zap.Logger) MaterielRepositoryInterface {
	return &MaterielRepository{storage: storage, logger: logger}
}

// list compte puis lit une page de la vue matériel filtrée par where.
func (r *MaterielRepository) list(ctx context.Context, where sq.Sqlizer, skip, limit uint64) ([]entities.MaterielView, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countSQL, countArgs, err := materielJoins(psql.Select("COUNT(mi.id_snapshot)").From(materielViewFrom)).
		Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("comptage des matériels: %w", err)
	}
	if total == 0 {
		return []entities.MaterielView{}, 0, nil
	}

	query, args, err := materielJoins(psql.Select(materielViewColumns...).From(materielViewFrom)).
		Where(where).
		OrderBy("mi.id_snapshot DESC").
		Limit(limit).Offset(skip).
		ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.logger.Debug("lecture des matériels", zap.String("query", query), zap.Any("args", args))

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("lecture des matériels: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.MaterielView])
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MaterielRepository) GetByBatch(ctx context.Context, batchID, skip, limit uint64) ([]entities.MaterielView, uint64, error) {
	return r.list(ctx, sq.Eq{"mi.id_date_import": batchID}, skip, limit)
}

func (r *MaterielRepository) GetByCommune(ctx context.Context, batchID uint64, commune string, skip, limit uint64) ([]entities.MaterielView, uint64, error) {
	return r.list(ctx, sq.And{
		sq.Eq{"mi.id_date_import": batchID},
		sq.Eq{"l.commune": strings.TrimSpace(commune)},
	}, skip, limit)
}

// GetAbsentFrom liste les snapshots du lot batchID dont le matériel physique n'apparaît pas
// dans le lot previousBatchID.
func (r *MaterielRepository) GetAbsentFrom(ctx context.Context, batchID, previousBatchID, skip, limit uint64) ([]entities.MaterielView, uint64, error) {
	return r.list(ctx, sq.And{
		sq.Eq{"mi.id_date_import": batchID},
		sq.Expr(`NOT EXISTS (
			SELECT 1 FROM materiel_informatique prev
			WHERE prev.id_date_import = ? AND prev.id_physique = mi.id_physique)`, previousBatchID),
	}, skip, limit)
}

// SearchByCode filtre sur le code de localisation ; batchID == 0 cherche dans tous les lots.
func (r *MaterielRepository) SearchByCode(ctx context.Context, code string, batchID uint64, skip, limit uint64) ([]entities.MaterielView, uint64, error) {
	where := sq.And{sq.Eq{"l.code": strings.TrimSpace(code)}}
	if batchID > 0 {
		where = append(where, sq.Eq{"mi.id_date_import": batchID})
	}
	return r.list(ctx, where, skip, limit)
}

func (r *MaterielRepository) FindDetail(ctx context.Context, snapshotID uint64) (*entities.MaterielDetail, error) {
	columns := append(append([]string{}, materielViewColumns...),
		"i.motif", "i.achat_consommable", "i.compatibilite_consommable")

	query, args, err := materielJoins(sq.Select(columns...).From(materielViewFrom)).
		LeftJoin("incident i ON i.id_materiel = mi.id_snapshot").
		Where(sq.Eq{"mi.id_snapshot": snapshotID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lecture du matériel %d: %w", snapshotID, err)
	}
	defer rows.Close()

	detail, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[entities.MaterielDetail])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &detail, nil
}
