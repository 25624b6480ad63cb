package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
	"inventory-system/pkg/utils"
)

const (
	topDistrictsLimit    = 5
	recentImportsCount   = 6
	dashboardLimitType   = 20
	dashboardLimitRegion = 20
)

type StatisticsServiceInterface interface {
	GetStatistics(ctx context.Context, query dto.StatisticsQuery) (*dto.StatisticsDTO, error)
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type StatisticsService struct {
	statsRepo  repositories.StatisticsRepositoryInterface
	importRepo repositories.ImportRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	recorder   metrics.Recorder
	logger     *zap.Logger
	cacheTTL   time.Duration
}

func NewStatisticsService(
	statsRepo repositories.StatisticsRepositoryInterface,
	importRepo repositories.ImportRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	recorder metrics.Recorder,
	logger *zap.Logger,
	cacheTTL time.Duration,
) StatisticsServiceInterface {
	return &StatisticsService{
		statsRepo:  statsRepo,
		importRepo: importRepo,
		cacheRepo:  cacheRepo,
		recorder:   recorder,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

func statisticsCacheKey(q dto.StatisticsQuery) string {
	return fmt.Sprintf("statistics:%d:%d:%d:%d:%d", q.ImportDateID, q.SkipType, q.LimitType, q.SkipRegion, q.LimitRegion)
}

func (s *StatisticsService) GetStatistics(ctx context.Context, query dto.StatisticsQuery) (*dto.StatisticsDTO, error) {
	if _, err := s.importRepo.FindBatch(ctx, query.ImportDateID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusNotFound, "Date d'importation non trouvée", err, nil)
		}
		return nil, err
	}

	key := statisticsCacheKey(query)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	stats, settled, err := s.compute(ctx, query)
	if err != nil {
		return nil, err
	}

	if settled {
		s.toCache(ctx, key, stats)
	}
	return stats, nil
}

func (s *StatisticsService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	latest, err := s.importRepo.FindLatestBatch(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &dto.DashboardDTO{}, nil
		}
		return nil, err
	}

	stats, err := s.GetStatistics(ctx, dto.StatisticsQuery{
		ImportDateID: latest.ID,
		LimitType:    dashboardLimitType,
		LimitRegion:  dashboardLimitRegion,
	})
	if err != nil {
		return nil, err
	}

	id := latest.ID
	date := latest.Date.Format(time.DateOnly)
	return &dto.DashboardDTO{ImportDateID: &id, ImportDate: &date, Statistics: stats}, nil
}

// compute indique aussi si le résultat est figé : voir settledHistory.
func (s *StatisticsService) compute(ctx context.Context, q dto.StatisticsQuery) (*dto.StatisticsDTO, bool, error) {
	stats := &dto.StatisticsDTO{}

	newCount, lostCount, err := s.equipmentChanges(ctx, q.ImportDateID)
	if err != nil {
		return nil, false, err
	}
	stats.NewEquipment, stats.LostEquipment = newCount, lostCount

	districts, err := s.statsRepo.GetTopDistrictFailures(ctx, q.ImportDateID, topDistrictsLimit)
	if err != nil {
		return nil, false, err
	}
	stats.TopDistricts = make([]dto.DistrictFailuresDTO, 0, len(districts))
	for _, d := range districts {
		stats.TopDistricts = append(stats.TopDistricts, dto.DistrictFailuresDTO{
			Code:        utils.NullStringToStrPtr(d.Code),
			District:    utils.NullStringToStrPtr(d.District),
			Failures:    d.Failures,
			FailureRate: utils.CalculatePercentage(d.Failures, d.Total),
			Total:       d.Total,
		})
	}

	byType, err := s.statsRepo.GetFailuresByType(ctx, q.ImportDateID, uint64(q.SkipType), uint64(q.LimitType))
	if err != nil {
		return nil, false, err
	}
	stats.FailuresByType = make([]dto.TypeFailuresDTO, 0, len(byType))
	for _, t := range byType {
		stats.FailuresByType = append(stats.FailuresByType, dto.TypeFailuresDTO{
			Type: utils.NullStringToStrPtr(t.Type), Failures: t.Failures,
		})
	}

	regions, err := s.statsRepo.GetRegionCounts(ctx, q.ImportDateID, uint64(q.SkipRegion), uint64(q.LimitRegion))
	if err != nil {
		return nil, false, err
	}
	stats.EquipmentRegions = make([]dto.RegionStatsDTO, 0, len(regions))
	for _, r := range regions {
		stats.EquipmentRegions = append(stats.EquipmentRegions, dto.RegionStatsDTO{
			Code:           utils.NullStringToStrPtr(r.Code),
			Region:         utils.NullStringToStrPtr(r.Region),
			Total:          r.Total,
			FunctionalRate: utils.CalculatePercentage(r.Functional, r.Total),
		})
	}

	recent, err := s.statsRepo.GetRecentBatchStates(ctx, q.ImportDateID, recentImportsCount)
	if err != nil {
		return nil, false, err
	}
	stats.LastImports = chronological(recent)

	global, err := s.statsRepo.GetGlobalCounts(ctx, q.ImportDateID)
	if err != nil {
		return nil, false, err
	}
	stats.Summary = summarize(global)

	return stats, settledHistory(q.ImportDateID, recent), nil
}

// equipmentChanges compare les matériels physiques du lot à ceux du lot précédent.
func (s *StatisticsService) equipmentChanges(ctx context.Context, batchID uint64) (uint64, uint64, error) {
	current, err := s.statsRepo.GetPhysicalIDs(ctx, batchID)
	if err != nil {
		return 0, 0, err
	}

	var previous []uint64
	prev, err := s.importRepo.FindPreviousBatch(ctx, batchID)
	switch {
	case err == nil:
		previous, err = s.statsRepo.GetPhysicalIDs(ctx, prev.ID)
		if err != nil {
			return 0, 0, err
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		return 0, 0, err
	}

	newCount, lostCount := diffEquipment(current, previous)
	return newCount, lostCount, nil
}

// settledHistory est vrai quand les lots récents (ordre décroissant) se suivent sans trou
// depuis batchID jusqu'au premier lot ou sur toute la fenêtre. Un trou peut être un import
// encore en cours qui changerait le lot précédent une fois validé.
func settledHistory(batchID uint64, recent []entities.BatchStateCounts) bool {
	if len(recent) == 0 {
		return false
	}
	for i, b := range recent {
		if b.BatchID != batchID-uint64(i) {
			return false
		}
	}
	return len(recent) == recentImportsCount || recent[len(recent)-1].BatchID == 1
}

// diffEquipment renvoie |current \ previous| et |previous \ current|.
func diffEquipment(current, previous []uint64) (uint64, uint64) {
	prevSet := make(map[uint64]struct{}, len(previous))
	for _, id := range previous {
		prevSet[id] = struct{}{}
	}
	currSet := make(map[uint64]struct{}, len(current))
	var newCount uint64
	for _, id := range current {
		if _, seen := currSet[id]; seen {
			continue
		}
		currSet[id] = struct{}{}
		if _, ok := prevSet[id]; !ok {
			newCount++
		}
	}
	var lostCount uint64
	for id := range prevSet {
		if _, ok := currSet[id]; !ok {
			lostCount++
		}
	}
	return newCount, lostCount
}

func chronological(states []entities.BatchStateCounts) []dto.BatchStateDTO {
	sorted := append([]entities.BatchStateCounts(nil), states...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].BatchID < sorted[j].BatchID })

	res := make([]dto.BatchStateDTO, 0, len(sorted))
	for _, st := range sorted {
		res = append(res, dto.BatchStateDTO{
			Date:          st.Date.Format(time.DateOnly),
			Functional:    st.Functional,
			NonFunctional: st.NonFunctional,
		})
	}
	return res
}

func summarize(g *entities.GlobalCounts) dto.GlobalSummaryDTO {
	return dto.GlobalSummaryDTO{
		Total:          g.Total,
		Functional:     g.Functional,
		Failed:         g.NonFunctional,
		FunctionalRate: utils.CalculatePercentage(g.Functional, g.Total),
		FailureRate:    utils.CalculatePercentage(g.NonFunctional, g.Total),
	}
}

func (s *StatisticsService) fromCache(ctx context.Context, key string) *dto.StatisticsDTO {
	if s.cacheRepo == nil {
		return nil
	}
	raw, err := s.cacheRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrCacheMiss) {
			s.recorder.StatisticsCache("miss")
		} else {
			s.recorder.StatisticsCache("error")
			s.logger.Warn("lecture du cache des statistiques impossible", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var stats dto.StatisticsDTO
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		s.recorder.StatisticsCache("error")
		s.logger.Warn("entrée de cache illisible", zap.String("key", key), zap.Error(err))
		return nil
	}
	s.recorder.StatisticsCache("hit")
	return &stats
}

func (s *StatisticsService) toCache(ctx context.Context, key string, stats *dto.StatisticsDTO) {
	if s.cacheRepo == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		s.logger.Warn("sérialisation des statistiques impossible", zap.Error(err))
		return
	}
	if err := s.cacheRepo.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logger.Warn("écriture du cache des statistiques impossible", zap.String("key", key), zap.Error(err))
	}
}
