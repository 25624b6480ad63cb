package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"

	"inventory-system/internal/entities"
	"inventory-system/internal/repositories"
	apperrors "inventory-system/pkg/errors"
)

// memState est l'état complet de la base simulée ; il est copié à chaque savepoint.
type memState struct {
	locations []entities.Location
	physicals []entities.PhysicalEquipment
	batches   []entities.ImportBatch
	uploads   []entities.UploadRecord
	snapshots []entities.Snapshot
	incidents []entities.Incident
}

func (s memState) clone() memState {
	return memState{
		locations: append([]entities.Location(nil), s.locations...),
		physicals: append([]entities.PhysicalEquipment(nil), s.physicals...),
		batches:   append([]entities.ImportBatch(nil), s.batches...),
		uploads:   append([]entities.UploadRecord(nil), s.uploads...),
		snapshots: append([]entities.Snapshot(nil), s.snapshots...),
		incidents: append([]entities.Incident(nil), s.incidents...),
	}
}

// memStore implémente les dépôts utilisés par l'import, en mémoire.
type memStore struct {
	memState
	nextID uint64

	failSnapshotFor map[string]bool // noms de matériel dont l'insertion de snapshot échoue
	failSnapshotMsg string
	failSavepoint   bool
	raceOnInsert    bool // simule un import concurrent qui gagne la course à l'insertion
	today           time.Time
}

func newMemStore() *memStore {
	return &memStore{
		failSnapshotFor: map[string]bool{},
		today:           time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC),
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

type memTx struct {
	pgx.Tx
	store *memStore
	saved *memState
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) {
	if t.store.failSavepoint {
		return nil, errors.New("connexion perdue")
	}
	saved := t.store.memState.clone()
	return &memTx{store: t.store, saved: &saved}, nil
}

func (t *memTx) Commit(ctx context.Context) error { return nil }

func (t *memTx) Rollback(ctx context.Context) error {
	if t.saved != nil {
		t.store.memState = *t.saved
	}
	return nil
}

type memTxManager struct {
	store *memStore
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	saved := m.store.memState.clone()
	if err := fn(&memTx{store: m.store}); err != nil {
		m.store.memState = saved
		return err
	}
	return nil
}

func eqNull(a, b null.String) bool {
	return a.Valid == b.Valid && (!a.Valid || a.String == b.String)
}

func (s *memStore) FindLocationID(ctx context.Context, q repositories.Querier, key entities.Location) (uint64, error) {
	for _, l := range s.locations {
		if eqNull(l.Code, key.Code) &&
			eqNull(l.Region, key.Region) &&
			eqNull(l.District, key.District) &&
			eqNull(l.Commune, key.Commune) {
			return l.ID, nil
		}
	}
	return 0, apperrors.ErrNotFound
}

func (s *memStore) InsertLocation(ctx context.Context, q repositories.Querier, key entities.Location) (uint64, bool, error) {
	key.ID = s.id()
	s.locations = append(s.locations, key)
	if s.raceOnInsert {
		return 0, false, nil
	}
	return key.ID, true, nil
}

func (s *memStore) FindPhysicalID(ctx context.Context, q repositories.Querier, key entities.PhysicalEquipment) (uint64, error) {
	for _, p := range s.physicals {
		if p.LocationID == key.LocationID && p.Name == key.Name &&
			eqNull(p.Type, key.Type) {
			return p.ID, nil
		}
	}
	return 0, apperrors.ErrNotFound
}

func (s *memStore) InsertPhysical(ctx context.Context, q repositories.Querier, key entities.PhysicalEquipment) (uint64, bool, error) {
	key.ID = s.id()
	s.physicals = append(s.physicals, key)
	if s.raceOnInsert {
		return 0, false, nil
	}
	return key.ID, true, nil
}

func (s *memStore) CreateBatch(ctx context.Context, q repositories.Querier) (*entities.ImportBatch, error) {
	b := entities.ImportBatch{ID: uint64(len(s.batches) + 1), Date: s.today, CreatedAt: s.today}
	s.batches = append(s.batches, b)
	return &b, nil
}

func (s *memStore) CreateUploadRecord(ctx context.Context, q repositories.Querier, record entities.UploadRecord) (uint64, error) {
	record.ID = uint64(len(s.uploads) + 1)
	s.uploads = append(s.uploads, record)
	return record.ID, nil
}

func (s *memStore) UpdateUploadCounts(ctx context.Context, q repositories.Querier, uploadID uint64, inserted, skipped int) error {
	for i := range s.uploads {
		if s.uploads[i].ID == uploadID {
			s.uploads[i].InsertedRows = inserted
			s.uploads[i].SkippedRows = skipped
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *memStore) InsertSnapshot(ctx context.Context, q repositories.Querier, snapshot entities.Snapshot) (uint64, error) {
	for _, p := range s.physicals {
		if p.ID == snapshot.PhysicalID && s.failSnapshotFor[p.Name] {
			return 0, errors.New(s.failSnapshotMsg)
		}
	}
	snapshot.ID = s.id()
	s.snapshots = append(s.snapshots, snapshot)
	return snapshot.ID, nil
}

func (s *memStore) InsertIncident(ctx context.Context, q repositories.Querier, incident entities.Incident) (uint64, error) {
	incident.ID = s.id()
	s.incidents = append(s.incidents, incident)
	return incident.ID, nil
}

func (s *memStore) FindBatch(ctx context.Context, id uint64) (*entities.ImportBatch, error) {
	for _, b := range s.batches {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) FindLatestBatch(ctx context.Context) (*entities.ImportBatch, error) {
	if len(s.batches) == 0 {
		return nil, apperrors.ErrNotFound
	}
	b := s.batches[len(s.batches)-1]
	return &b, nil
}

func (s *memStore) FindPreviousBatch(ctx context.Context, id uint64) (*entities.ImportBatch, error) {
	var found *entities.ImportBatch
	for i := range s.batches {
		if s.batches[i].ID < id && (found == nil || s.batches[i].ID > found.ID) {
			b := s.batches[i]
			found = &b
		}
	}
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (s *memStore) GetBatches(ctx context.Context) ([]entities.ImportBatch, error) {
	res := append([]entities.ImportBatch(nil), s.batches...)
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (s *memStore) GetUploadHistory(ctx context.Context, skip, limit uint64) ([]entities.UploadRecord, uint64, error) {
	total := uint64(len(s.uploads))
	res := []entities.UploadRecord{}
	for i := int(total) - 1 - int(skip); i >= 0 && uint64(len(res)) < limit; i-- {
		res = append(res, s.uploads[i])
	}
	return res, total, nil
}

func (s *memStore) physicalByName(name string) *entities.PhysicalEquipment {
	for i := range s.physicals {
		if s.physicals[i].Name == name {
			return &s.physicals[i]
		}
	}
	return nil
}

// memCache est un cache clé/valeur en mémoire, sans gestion réelle de l'expiration.
type memCache struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	default:
		return errors.New("type de valeur non géré")
	}
	c.ttls[key] = expiration
	return nil
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		delete(c.ttls, k)
	}
	return nil
}

func (c *memCache) Incr(ctx context.Context, key string) (int64, error) {
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *memCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	if _, ok := c.data[key]; !ok {
		return false, nil
	}
	c.ttls[key] = expiration
	return true, nil
}

func (c *memCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.ttls[key], nil
}
