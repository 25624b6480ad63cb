package services

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/metrics"
)

func seq(from, to uint64) []uint64 {
	res := make([]uint64, 0, to-from+1)
	for i := from; i <= to; i++ {
		res = append(res, i)
	}
	return res
}

func TestDiffEquipment(t *testing.T) {
	n, l := diffEquipment(seq(1, 50), nil)
	assert.Equal(t, uint64(50), n, "premier lot : tout est nouveau")
	assert.Equal(t, uint64(0), l)

	n, l = diffEquipment(seq(1, 120), seq(1, 100))
	assert.Equal(t, uint64(20), n)
	assert.Equal(t, uint64(0), l)

	n, l = diffEquipment(seq(1, 80), seq(1, 100))
	assert.Equal(t, uint64(0), n)
	assert.Equal(t, uint64(20), l)

	// même effectif, matériels différents : un décompte par simple différence de taille dirait 0/0
	n, l = diffEquipment(seq(11, 110), seq(1, 100))
	assert.Equal(t, uint64(10), n)
	assert.Equal(t, uint64(10), l)
}

func TestSummarize_ZeroTotal(t *testing.T) {
	s := summarize(&entities.GlobalCounts{})
	assert.Equal(t, 0.0, s.FunctionalRate)
	assert.Equal(t, 0.0, s.FailureRate)

	s = summarize(&entities.GlobalCounts{Total: 3, Functional: 2, NonFunctional: 1})
	assert.Equal(t, 66.67, s.FunctionalRate)
	assert.Equal(t, 33.33, s.FailureRate)
}

func TestChronological(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	res := chronological([]entities.BatchStateCounts{
		{BatchID: 3, Date: day(3), Functional: 3},
		{BatchID: 2, Date: day(2), Functional: 2},
		{BatchID: 1, Date: day(1), Functional: 1},
	})
	require.Len(t, res, 3)
	assert.Equal(t, "2024-01-01", res[0].Date)
	assert.Equal(t, "2024-01-03", res[2].Date)
}

type fakeStatsRepo struct {
	ids   map[uint64][]uint64
	calls int
}

func (r *fakeStatsRepo) GetPhysicalIDs(ctx context.Context, batchID uint64) ([]uint64, error) {
	r.calls++
	return r.ids[batchID], nil
}

func (r *fakeStatsRepo) GetTopDistrictFailures(ctx context.Context, batchID uint64, limit uint64) ([]entities.DistrictFailures, error) {
	return []entities.DistrictFailures{
		{Code: null.StringFrom("101"), District: null.StringFrom("Tana"), Failures: 1, Total: 4},
	}, nil
}

func (r *fakeStatsRepo) GetFailuresByType(ctx context.Context, batchID uint64, skip, limit uint64) ([]entities.TypeFailures, error) {
	return []entities.TypeFailures{{Type: null.StringFrom("Imprimante"), Failures: 1}}, nil
}

func (r *fakeStatsRepo) GetRegionCounts(ctx context.Context, batchID uint64, skip, limit uint64) ([]entities.RegionCounts, error) {
	return []entities.RegionCounts{{Code: null.StringFrom("101"), Total: 4, Functional: 3}}, nil
}

func (r *fakeStatsRepo) GetRecentBatchStates(ctx context.Context, batchID uint64, count uint64) ([]entities.BatchStateCounts, error) {
	var res []entities.BatchStateCounts
	for id := batchID; id > 0 && uint64(len(res)) < count; id-- {
		if _, ok := r.ids[id]; ok {
			res = append(res, entities.BatchStateCounts{BatchID: id, Functional: 3, NonFunctional: 1})
		}
	}
	return res, nil
}

func (r *fakeStatsRepo) GetGlobalCounts(ctx context.Context, batchID uint64) (*entities.GlobalCounts, error) {
	return &entities.GlobalCounts{Total: 4, Functional: 3, NonFunctional: 1}, nil
}

func newStatisticsFixture() (*StatisticsService, *memStore, *fakeStatsRepo, *memCache) {
	store := newMemStore()
	store.batches = []entities.ImportBatch{{ID: 1, Date: store.today}, {ID: 2, Date: store.today}}
	repo := &fakeStatsRepo{ids: map[uint64][]uint64{1: seq(1, 100), 2: seq(1, 120)}}
	cache := newMemCache()
	svc := NewStatisticsService(repo, store, cache, metrics.NewNoopRecorder(), zap.NewNop(), time.Minute).(*StatisticsService)
	return svc, store, repo, cache
}

func TestGetStatistics(t *testing.T) {
	svc, _, _, _ := newStatisticsFixture()

	stats, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{ImportDateID: 2, LimitType: 100, LimitRegion: 100})
	require.NoError(t, err)
	assert.Equal(t, uint64(20), stats.NewEquipment)
	assert.Equal(t, uint64(0), stats.LostEquipment)
	require.Len(t, stats.TopDistricts, 1)
	assert.Equal(t, 25.0, stats.TopDistricts[0].FailureRate)
	assert.Equal(t, 75.0, stats.EquipmentRegions[0].FunctionalRate)
	assert.Equal(t, 75.0, stats.Summary.FunctionalRate)
	assert.Len(t, stats.LastImports, 2)
}

func TestGetStatistics_UnknownBatch(t *testing.T) {
	svc, _, _, _ := newStatisticsFixture()

	_, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{ImportDateID: 99, LimitType: 10, LimitRegion: 10})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.StatusCode(err))
}

func TestGetStatistics_UsesCache(t *testing.T) {
	svc, _, repo, cache := newStatisticsFixture()
	q := dto.StatisticsQuery{ImportDateID: 2, LimitType: 100, LimitRegion: 100}

	first, err := svc.GetStatistics(context.Background(), q)
	require.NoError(t, err)
	calls := repo.calls
	assert.Contains(t, cache.data, statisticsCacheKey(q))
	assert.Equal(t, time.Minute, cache.ttls[statisticsCacheKey(q)])

	second, err := svc.GetStatistics(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, calls, repo.calls, "le second appel est servi par le cache")
	assert.Equal(t, first, second)
}

func TestGetStatistics_NotCachedWhileEarlierBatchMissing(t *testing.T) {
	svc, store, repo, cache := newStatisticsFixture()
	// le lot 2 n'est pas encore validé : le lot 3 a pour précédent visible le lot 1
	store.batches = []entities.ImportBatch{{ID: 1, Date: store.today}, {ID: 3, Date: store.today}}
	repo.ids = map[uint64][]uint64{1: seq(1, 100), 3: seq(1, 120)}
	q := dto.StatisticsQuery{ImportDateID: 3, LimitType: 100, LimitRegion: 100}

	stats, err := svc.GetStatistics(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), stats.NewEquipment)
	assert.NotContains(t, cache.data, statisticsCacheKey(q))

	// une fois le lot 2 visible, le résultat change puis se met en cache
	store.batches = append(store.batches, entities.ImportBatch{ID: 2, Date: store.today})
	sort.Slice(store.batches, func(i, j int) bool { return store.batches[i].ID < store.batches[j].ID })
	repo.ids[2] = seq(1, 110)

	stats, err = svc.GetStatistics(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), stats.NewEquipment)
	assert.Contains(t, cache.data, statisticsCacheKey(q))
}

func TestSettledHistory(t *testing.T) {
	states := func(ids ...uint64) []entities.BatchStateCounts {
		res := make([]entities.BatchStateCounts, 0, len(ids))
		for _, id := range ids {
			res = append(res, entities.BatchStateCounts{BatchID: id})
		}
		return res
	}

	assert.True(t, settledHistory(1, states(1)))
	assert.True(t, settledHistory(3, states(3, 2, 1)))
	assert.True(t, settledHistory(10, states(10, 9, 8, 7, 6, 5)))
	assert.False(t, settledHistory(3, states(3, 1)))
	assert.False(t, settledHistory(10, states(10, 9, 8)))
	assert.False(t, settledHistory(4, nil))
}

func TestGetStatistics_CacheErrorIsIgnored(t *testing.T) {
	svc, _, _, cache := newStatisticsFixture()
	cache.getErr = errors.New("redis: connexion refusée")

	stats, err := svc.GetStatistics(context.Background(), dto.StatisticsQuery{ImportDateID: 1, LimitType: 10, LimitRegion: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), stats.NewEquipment)
}

func TestGetDashboard(t *testing.T) {
	svc, store, _, _ := newStatisticsFixture()

	res, err := svc.GetDashboard(context.Background())
	require.NoError(t, err)
	require.NotNil(t, res.ImportDateID)
	assert.Equal(t, uint64(2), *res.ImportDateID)
	assert.NotNil(t, res.Statistics)

	store.batches = nil
	res, err = svc.GetDashboard(context.Background())
	require.NoError(t, err)
	assert.Nil(t, res.Statistics)
	assert.Nil(t, res.ImportDateID)
}
