package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/entities"
	"inventory-system/pkg/utils"
)

type statsSeed struct {
	t       *testing.T
	ctx     context.Context
	pool    *pgxpool.Pool
	imports ImportRepositoryInterface
	locs    LocationRepositoryInterface
	phys    PhysicalEquipmentRepositoryInterface
}

func (s *statsSeed) location(code, region, district, commune string) uint64 {
	id, _, err := s.locs.InsertLocation(s.ctx, s.pool, entities.Location{
		Code:     null.StringFrom(code),
		Region:   null.StringFrom(region),
		District: null.StringFrom(district),
		Commune:  null.StringFrom(commune),
	})
	require.NoError(s.t, err)
	return id
}

func (s *statsSeed) physical(locationID uint64, name string, typ null.String) uint64 {
	id, _, err := s.phys.InsertPhysical(s.ctx, s.pool, entities.PhysicalEquipment{LocationID: locationID, Name: name, Type: typ})
	require.NoError(s.t, err)
	return id
}

func (s *statsSeed) batch() uint64 {
	b, err := s.imports.CreateBatch(s.ctx, s.pool)
	require.NoError(s.t, err)
	return b.ID
}

func (s *statsSeed) snapshot(batchID, physicalID uint64, state string) {
	_, err := s.imports.InsertSnapshot(s.ctx, s.pool, entities.Snapshot{
		PhysicalID:      physicalID,
		State:           null.StringFrom(state),
		NormalizedState: null.StringFrom(state),
		BatchID:         batchID,
	})
	require.NoError(s.t, err)
}

func TestStatisticsRepository_Integration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	log := zap.NewNop()
	seed := &statsSeed{
		t: t, ctx: ctx, pool: pool,
		imports: NewImportRepository(pool, log),
		locs:    NewLocationRepository(log),
		phys:    NewPhysicalEquipmentRepository(log),
	}
	repo := NewStatisticsRepository(pool, log)

	antsirabe := seed.location("100", "Vakinankaratra", "Antsirabe", "Mahazoarivo")
	tana := seed.location("101", "Analamanga", "Tana", "Isotry")
	avaradrano := seed.location("101", "Analamanga", "Avaradrano", "Ambohimanga")
	toamasina := seed.location("102", "Atsinanana", "Toamasina", "Tanambao")
	mahajanga := seed.location("103", "Boeny", "Mahajanga", "Mahabibo")

	ordinateur, imprimante, onduleur := null.StringFrom("Ordinateur"), null.StringFrom("Imprimante"), null.StringFrom("Onduleur")
	pcA := seed.physical(antsirabe, "PC-A", ordinateur)
	impA := seed.physical(antsirabe, "IMP-A", imprimante)
	pcB := seed.physical(tana, "PC-B", ordinateur)
	pcC := seed.physical(tana, "PC-C", ordinateur)
	impB := seed.physical(avaradrano, "IMP-B", imprimante)
	ond := seed.physical(toamasina, "OND", onduleur)
	pcD := seed.physical(mahajanga, "PC-D", ordinateur)
	sansType := seed.physical(mahajanga, "PC-E", null.String{})

	// lots 1 à 9 : le lot 3 est vide, le lot 8 porte le scénario, le lot 9 lui est postérieur
	batches := make([]uint64, 9)
	for i := range batches {
		batches[i] = seed.batch()
	}
	for i, id := range batches {
		if i == 2 || i == 7 {
			continue
		}
		seed.snapshot(id, pcD, utils.StateFunctional)
	}
	target := batches[7]
	seed.snapshot(target, pcA, utils.StateNonFunctional)
	seed.snapshot(target, impA, utils.StateNonFunctional)
	seed.snapshot(target, pcB, utils.StateNonFunctional)
	seed.snapshot(target, pcC, utils.StateFunctional)
	seed.snapshot(target, impB, utils.StateNonFunctional)
	seed.snapshot(target, ond, utils.StateNonFunctional)
	seed.snapshot(target, pcD, utils.StateFunctional)
	seed.snapshot(target, sansType, utils.StateFunctional)

	t.Run("top districts: pannes décroissantes puis code puis district", func(t *testing.T) {
		top, err := repo.GetTopDistrictFailures(ctx, target, 5)
		require.NoError(t, err)

		got := make([]string, 0, len(top))
		for _, d := range top {
			got = append(got, fmt.Sprintf("%s/%s:%d/%d", d.Code.String, d.District.String, d.Failures, d.Total))
		}
		assert.Equal(t, []string{
			"100/Antsirabe:2/2",
			"101/Avaradrano:1/1",
			"101/Tana:1/2",
			"102/Toamasina:1/1",
		}, got, "Mahajanga n'a aucune panne et n'apparaît pas")

		top, err = repo.GetTopDistrictFailures(ctx, target, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "Avaradrano", top[1].District.String)
	})

	t.Run("pannes par type", func(t *testing.T) {
		byType, err := repo.GetFailuresByType(ctx, target, 0, 10)
		require.NoError(t, err)

		got := make([]string, 0, len(byType))
		for _, f := range byType {
			got = append(got, fmt.Sprintf("%s:%d", f.Type.String, f.Failures))
		}
		assert.Equal(t, []string{"Imprimante:2", "Ordinateur:2", "Onduleur:1"}, got)

		page, err := repo.GetFailuresByType(ctx, target, 1, 1)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "Ordinateur", page[0].Type.String)
	})

	t.Run("régions et taux de fonctionnement", func(t *testing.T) {
		regions, err := repo.GetRegionCounts(ctx, target, 0, 10)
		require.NoError(t, err)

		got := make([]string, 0, len(regions))
		rates := make([]float64, 0, len(regions))
		for _, r := range regions {
			got = append(got, fmt.Sprintf("%s/%s:%d/%d", r.Code.String, r.Region.String, r.Functional, r.Total))
			rates = append(rates, utils.CalculatePercentage(r.Functional, r.Total))
		}
		assert.Equal(t, []string{
			"101/Analamanga:1/3",
			"100/Vakinankaratra:0/2",
			"103/Boeny:2/2",
			"102/Atsinanana:0/1",
		}, got)
		assert.Equal(t, []float64{33.33, 0, 100, 0}, rates)
	})

	t.Run("six derniers lots d'id inférieur ou égal", func(t *testing.T) {
		states, err := repo.GetRecentBatchStates(ctx, target, 6)
		require.NoError(t, err)
		require.Len(t, states, 6)

		ids := make([]uint64, 0, len(states))
		for _, s := range states {
			ids = append(ids, s.BatchID)
		}
		assert.Equal(t, []uint64{batches[7], batches[6], batches[5], batches[4], batches[3], batches[2]}, ids)
		assert.Equal(t, uint64(3), states[0].Functional)
		assert.Equal(t, uint64(5), states[0].NonFunctional)

		empty := states[5]
		assert.Equal(t, batches[2], empty.BatchID)
		assert.Zero(t, empty.Functional, "un lot vide est compté à zéro")
		assert.Zero(t, empty.NonFunctional)

		states, err = repo.GetRecentBatchStates(ctx, batches[1], 6)
		require.NoError(t, err)
		assert.Len(t, states, 2)
	})

	t.Run("résumé global", func(t *testing.T) {
		global, err := repo.GetGlobalCounts(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, entities.GlobalCounts{Total: 8, Functional: 3, NonFunctional: 5}, *global)

		global, err = repo.GetGlobalCounts(ctx, batches[2])
		require.NoError(t, err)
		assert.Equal(t, entities.GlobalCounts{}, *global)
	})
}
