package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
)

type ImportRepositoryInterface interface {
	CreateBatch(ctx context.Context, q Querier) (*entities.ImportBatch, error)
	CreateUploadRecord(ctx context.Context, q Querier, record entities.UploadRecord) (uint64, error)
	UpdateUploadCounts(ctx context.Context, q Querier, uploadID uint64, inserted, skipped int) error
	InsertSnapshot(ctx context.Context, q Querier, snapshot entities.Snapshot) (uint64, error)
	InsertIncident(ctx context.Context, q Querier, incident entities.Incident) (uint64, error)

	FindBatch(ctx context.Context, id uint64) (*entities.ImportBatch, error)
	FindLatestBatch(ctx context.Context) (*entities.ImportBatch, error)
	FindPreviousBatch(ctx context.Context, id uint64) (*entities.ImportBatch, error)
	GetBatches(ctx context.Context) ([]entities.ImportBatch, error)
	GetUploadHistory(ctx context.Context, skip, limit uint64) ([]entities.UploadRecord, uint64, error)
}

type ImportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewImportRepository(storage *pgxpool.Pool, logger *zap.Logger) ImportRepositoryInterface {
	return &ImportRepository{storage: storage, logger: logger}
}

const batchSelectFields = "id_date, date_complet, created_at"

func scanBatch(row pgx.Row) (*entities.ImportBatch, error) {
	var b entities.ImportBatch
	if err := row.Scan(&b.ID, &b.Date, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *ImportRepository) CreateBatch(ctx context.Context, q Querier) (*entities.ImportBatch, error) {
	query := fmt.Sprintf(
		"INSERT INTO date_import (date_complet, created_at) VALUES (CURRENT_DATE, NOW()) RETURNING %s",
		batchSelectFields)
	batch, err := scanBatch(q.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("création du lot d'import: %w", err)
	}
	return batch, nil
}

func (r *ImportRepository) CreateUploadRecord(ctx context.Context, q Querier, record entities.UploadRecord) (uint64, error) {
	query := `
		INSERT INTO upload_history (filename, user_id, id_date_import, upload_date)
		VALUES ($1, $2, $3, NOW())
		RETURNING id_upload`
	var id uint64
	if err := q.QueryRow(ctx, query, record.Filename, record.UserID, record.BatchID).Scan(&id); err != nil {
		return 0, fmt.Errorf("enregistrement de l'historique d'upload: %w", err)
	}
	return id, nil
}

func (r *ImportRepository) UpdateUploadCounts(ctx context.Context, q Querier, uploadID uint64, inserted, skipped int) error {
	result, err := q.Exec(ctx,
		"UPDATE upload_history SET inserted_rows = $1, skipped_rows = $2 WHERE id_upload = $3",
		inserted, skipped, uploadID)
	if err != nil {
		return fmt.Errorf("mise à jour des compteurs d'upload: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *ImportRepository) InsertSnapshot(ctx context.Context, q Querier, snapshot entities.Snapshot) (uint64, error) {
	query := `
		INSERT INTO materiel_informatique (id_physique, etat, etat_normalise, id_date_import)
		VALUES ($1, $2, $3, $4)
		RETURNING id_snapshot`
	var id uint64
	err := q.QueryRow(ctx, query,
		snapshot.PhysicalID, snapshot.State, snapshot.NormalizedState, snapshot.BatchID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insertion du snapshot: %w", err)
	}
	return id, nil
}

func (r *ImportRepository) InsertIncident(ctx context.Context, q Querier, incident entities.Incident) (uint64, error) {
	query := `
		INSERT INTO incident (motif, achat_consommable, compatibilite_consommable, id_materiel)
		VALUES ($1, $2, $3, $4)
		RETURNING id_incident`
	var id uint64
	err := q.QueryRow(ctx, query,
		incident.Reason, incident.ConsumablePurchased, incident.ConsumableCompatible, incident.SnapshotID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insertion de l'incident: %w", err)
	}
	return id, nil
}

func (r *ImportRepository) findBatch(ctx context.Context, builder sq.SelectBuilder) (*entities.ImportBatch, error) {
	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	return scanBatch(r.storage.QueryRow(ctx, query, args...))
}

func (r *ImportRepository) FindBatch(ctx context.Context, id uint64) (*entities.ImportBatch, error) {
	return r.findBatch(ctx, sq.Select(batchSelectFields).From("date_import").Where(sq.Eq{"id_date": id}))
}

func (r *ImportRepository) FindLatestBatch(ctx context.Context) (*entities.ImportBatch, error) {
	return r.findBatch(ctx, sq.Select(batchSelectFields).From("date_import").OrderBy("id_date DESC").Limit(1))
}

// FindPreviousBatch renvoie le lot d'id immédiatement inférieur, ErrNotFound pour le premier lot.
func (r *ImportRepository) FindPreviousBatch(ctx context.Context, id uint64) (*entities.ImportBatch, error) {
	return r.findBatch(ctx, sq.Select(batchSelectFields).From("date_import").
		Where(sq.Lt{"id_date": id}).OrderBy("id_date DESC").Limit(1))
}

func (r *ImportRepository) GetBatches(ctx context.Context) ([]entities.ImportBatch, error) {
	query, args, err := sq.Select(batchSelectFields).From("date_import").
		OrderBy("date_complet DESC", "id_date DESC").PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("lecture des dates d'import: %w", err)
	}
	defer rows.Close()
	return pgx.CollectRows(rows, pgx.RowToStructByName[entities.ImportBatch])
}

func (r *ImportRepository) GetUploadHistory(ctx context.Context, skip, limit uint64) ([]entities.UploadRecord, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, "SELECT COUNT(*) FROM upload_history").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("comptage de l'historique d'upload: %w", err)
	}
	if total == 0 {
		return []entities.UploadRecord{}, 0, nil
	}

	query, args, err := sq.Select(
		"uh.id_upload", "uh.filename", "uh.user_id", "uh.id_date_import", "uh.upload_date",
		"uh.inserted_rows", "uh.skipped_rows", "u.mail AS user_mail",
	).From("upload_history uh").
		LeftJoin("users u ON uh.user_id = u.id").
		OrderBy("uh.upload_date DESC", "uh.id_upload DESC").
		Limit(limit).Offset(skip).
		PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("lecture de l'historique d'upload: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[entities.UploadRecord])
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
