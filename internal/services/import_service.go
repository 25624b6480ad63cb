package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/utils"
)

const maxFieldLength = 255

// SkipEvent décrit une ligne rejetée pendant l'import.
type SkipEvent struct {
	Row    int
	Reason string
}

type ImportResult struct {
	Filename  string
	Inserted  int
	Ignored   int
	Skipped   []SkipEvent
	BatchID   uint64
	BatchDate time.Time
}

type ImportServiceInterface interface {
	ImportWorkbook(ctx context.Context, file io.Reader, filename string, userID uint64) (*ImportResult, error)
	ImportRows(ctx context.Context, rows []ImportRow, filename string, userID uint64) (*ImportResult, error)
	GetUploadHistory(ctx context.Context, skip, limit uint64) ([]dto.UploadHistoryDTO, utils.Pagination, error)
	GetImportDates(ctx context.Context) (*dto.ImportDatesDTO, error)
}

type ImportService struct {
	txManager  repositories.TxManagerInterface
	importRepo repositories.ImportRepositoryInterface
	resolver   IdentityResolverInterface
	recorder   metrics.Recorder
	logger     *zap.Logger
	now        func() time.Time
}

func NewImportService(
	txManager repositories.TxManagerInterface,
	importRepo repositories.ImportRepositoryInterface,
	resolver IdentityResolverInterface,
	recorder metrics.Recorder,
	logger *zap.Logger,
) ImportServiceInterface {
	return &ImportService{
		txManager:  txManager,
		importRepo: importRepo,
		resolver:   resolver,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ImportService) ImportWorkbook(ctx context.Context, file io.Reader, filename string, userID uint64) (*ImportResult, error) {
	rows, err := ReadWorkbook(file)
	if err != nil {
		s.logger.Warn("classeur rejeté", zap.String("filename", filename), zap.Error(err))
		return nil, err
	}
	return s.ImportRows(ctx, rows, filename, userID)
}

// ImportRows enregistre un lot complet dans une seule transaction. Chaque ligne est
// traitée dans un savepoint : une ligne en échec est annulée seule et notée comme rejet.
func (s *ImportService) ImportRows(ctx context.Context, rows []ImportRow, filename string, userID uint64) (*ImportResult, error) {
	start := s.now()
	logger := s.logger.With(zap.String("filename", filename), zap.Uint64("userID", userID))

	var result *ImportResult
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		res := &ImportResult{Filename: filename, Skipped: []SkipEvent{}}

		batch, err := s.importRepo.CreateBatch(ctx, tx)
		if err != nil {
			return err
		}
		res.BatchID = batch.ID
		res.BatchDate = batch.Date

		uploadID, err := s.importRepo.CreateUploadRecord(ctx, tx, entities.UploadRecord{
			Filename: filename,
			UserID:   null.NewUint64(userID, userID > 0),
			BatchID:  null.Uint64From(batch.ID),
		})
		if err != nil {
			return err
		}

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !row.Name.Valid {
				res.Ignored++
				continue
			}
			if err := validateRow(row); err != nil {
				res.Skipped = append(res.Skipped, SkipEvent{Row: row.Row, Reason: err.Error()})
				logger.Warn("ligne rejetée", zap.Int("ligne", row.Row), zap.Error(err))
				continue
			}

			savepoint, err := tx.Begin(ctx)
			if err != nil {
				return fmt.Errorf("ouverture du savepoint ligne %d: %w", row.Row, err)
			}
			if err := s.importRow(ctx, savepoint, batch.ID, row); err != nil {
				if rbErr := savepoint.Rollback(ctx); rbErr != nil {
					return fmt.Errorf("annulation du savepoint ligne %d: %w", row.Row, rbErr)
				}
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("ligne rejetée", zap.Int("ligne", row.Row), zap.Error(err))
				res.Skipped = append(res.Skipped, SkipEvent{Row: row.Row, Reason: skipReason(err)})
				continue
			}
			if err := savepoint.Commit(ctx); err != nil {
				return fmt.Errorf("libération du savepoint ligne %d: %w", row.Row, err)
			}
			res.Inserted++
		}

		if err := s.importRepo.UpdateUploadCounts(ctx, tx, uploadID, res.Inserted, len(res.Skipped)); err != nil {
			return err
		}
		result = res
		return nil
	})
	elapsed := s.now().Sub(start)

	if err != nil {
		s.recorder.ImportFinished("failure", 0, 0, 0, elapsed)
		logger.Error("échec de l'import, transaction annulée", zap.Error(err))
		return nil, apperrors.NewHttpError(http.StatusInternalServerError,
			"Erreur lors du traitement du fichier", err,
			map[string]interface{}{"filename": filename})
	}

	s.recorder.ImportFinished("success", result.Inserted, result.Ignored, len(result.Skipped), elapsed)
	logger.Info("import terminé",
		zap.Uint64("id_date_import", result.BatchID),
		zap.Int("inserees", result.Inserted),
		zap.Int("ignorees", result.Ignored),
		zap.Int("rejetees", len(result.Skipped)),
		zap.Duration("duree", elapsed),
	)
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, q repositories.Querier, batchID uint64, row ImportRow) error {
	locationID, err := s.resolver.ResolveLocation(ctx, q, entities.Location{
		Code: row.Code, Region: row.Region, District: row.District, Commune: row.Commune,
	})
	if err != nil {
		return err
	}

	physicalID, err := s.resolver.ResolvePhysical(ctx, q, entities.PhysicalEquipment{
		LocationID: locationID, Name: row.Name.String, Type: row.Type,
	})
	if err != nil {
		return err
	}

	snapshotID, err := s.importRepo.InsertSnapshot(ctx, q, entities.Snapshot{
		PhysicalID:      physicalID,
		State:           row.State,
		NormalizedState: utils.StrPtrToNullString(utils.NormalizeState(row.State.Ptr())),
		BatchID:         batchID,
	})
	if err != nil {
		return err
	}

	if row.Reason.Valid {
		if _, err := s.importRepo.InsertIncident(ctx, q, entities.Incident{
			Reason:               row.Reason.String,
			ConsumablePurchased:  row.ConsumablePurchased,
			ConsumableCompatible: row.ConsumableCompatible,
			SnapshotID:           snapshotID,
		}); err != nil {
			return err
		}
	}
	return nil
}

func validateRow(row ImportRow) error {
	fields := []struct {
		name  string
		value null.String
	}{
		{colCode, row.Code}, {colRegion, row.Region}, {colDistrict, row.District}, {colCommune, row.Commune},
		{colName, row.Name}, {colState, row.State}, {colType, row.Type},
		{colConsumablePurchased, row.ConsumablePurchased}, {colConsumableCompatible, row.ConsumableCompatible},
	}
	for _, f := range fields {
		if f.value.Valid && utf8.RuneCountInString(f.value.String) > maxFieldLength {
			return apperrors.NewInvalidInputError("valeur trop longue pour '%s' (%d caractères max)", f.name, maxFieldLength)
		}
	}
	return nil
}

func skipReason(err error) string {
	var invalid *apperrors.InvalidInputError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return "erreur lors de l'enregistrement de la ligne"
}

func (s *ImportService) GetUploadHistory(ctx context.Context, skip, limit uint64) ([]dto.UploadHistoryDTO, utils.Pagination, error) {
	records, total, err := s.importRepo.GetUploadHistory(ctx, skip, limit)
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	items := make([]dto.UploadHistoryDTO, 0, len(records))
	for _, r := range records {
		item := dto.UploadHistoryDTO{
			ID:         r.ID,
			Filename:   r.Filename,
			UploadDate: r.UploadDate.Format(time.RFC3339),
			UserMail:   utils.NullStringToStrPtr(r.UserMail),
			Inserted:   r.InsertedRows,
			Rejected:   r.SkippedRows,
		}
		if r.BatchID.Valid {
			id := r.BatchID.Uint64
			item.ImportDateID = &id
		}
		items = append(items, item)
	}
	return items, utils.Paginate(total, skip, limit), nil
}

func (s *ImportService) GetImportDates(ctx context.Context) (*dto.ImportDatesDTO, error) {
	batches, err := s.importRepo.GetBatches(ctx)
	if err != nil {
		return nil, err
	}
	res := &dto.ImportDatesDTO{Total: len(batches), Dates: make([]dto.ImportDateDTO, 0, len(batches))}
	for _, b := range batches {
		res.Dates = append(res.Dates, dto.ImportDateDTO{ID: b.ID, Date: b.Date.Format(time.DateOnly)})
	}
	return res, nil
}
