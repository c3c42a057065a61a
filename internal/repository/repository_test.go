package repository

import (
	"guildstore/internal/document"
	"guildstore/internal/registry"
	"guildstore/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type intelRecord struct {
	ID        string `json:"id"`
	GuildID   string `json:"guildId"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

func (intelRecord) StorageKey() string     { return "intel-items" }
func (r intelRecord) Tenant() string       { return r.GuildID }
func (r intelRecord) Identifier() string   { return r.ID }
func (r intelRecord) ISOTimestamp() string { return r.Timestamp }

type unkeyedRecord struct {
	GuildID string `json:"guildId"`
}

func (unkeyedRecord) StorageKey() string { return "" }
func (u unkeyedRecord) Tenant() string   { return u.GuildID }

type fixture struct {
	repo    *Repository
	store   *document.Store
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
	tracker *registry.Tracker
	path    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	store := document.NewStore(logger, metrics)
	tracker := registry.NewTracker()
	repo := NewRepository(store, logger, metrics, tracker)
	repo.now = func() time.Time { return testNow }
	return &fixture{
		repo:    repo,
		store:   store,
		logger:  logger,
		metrics: metrics,
		tracker: tracker,
		path:    filepath.Join(t.TempDir(), "db.json"),
	}
}

func newInitialized(t *testing.T) *fixture {
	f := newFixture(t)
	f.repo.Initialize(Config{FilePath: f.path})
	return f
}

func ago(d time.Duration) string {
	return testNow.Add(-d).Format(time.RFC3339Nano)
}

func record(guild, id string, age time.Duration) intelRecord {
	return intelRecord{ID: id, GuildID: guild, Timestamp: ago(age)}
}

func ids(items []intelRecord) []string {
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

// --- lifecycle ---

func TestRepository_StartsUninitialized(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.repo.IsInitialized())
}

func TestRepository_Initialize_LatestConfigWins(t *testing.T) {
	f := newFixture(t)
	f.repo.Initialize(Config{FilePath: f.path})
	assert.True(t, f.repo.IsInitialized())

	other := filepath.Join(t.TempDir(), "other.json")
	f.repo.Initialize(Config{FilePath: other})
	assert.True(t, f.repo.IsInitialized())

	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))
	_, err := os.Stat(other)
	assert.NoError(t, err)
}

func TestRepository_Initialize_EmptyPathStaysDisabled(t *testing.T) {
	f := newFixture(t)
	f.repo.Initialize(Config{})
	assert.False(t, f.repo.IsInitialized())
}

func TestRepository_ReinitializeKeepsStoredData(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))

	f.repo.Initialize(Config{FilePath: f.path})

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

// --- disabled repository ---

func TestRepository_Disabled_NeverErrorsAndNeverWrites(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))
	require.NoError(t, StoreCollection(f.repo, "audit", Collection[string]{GuildID: "G1", Items: []string{"a"}}))

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	require.NoError(t, ReplaceAll(f.repo, "G1", []intelRecord{record("G1", "x", 0)}))

	removed, err := PurgeStale[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	deleted, err := DeleteByID[intelRecord](f.repo, "G1", "rift-1")
	require.NoError(t, err)
	assert.False(t, deleted)

	tenants, err := f.repo.Tenants()
	require.NoError(t, err)
	assert.Nil(t, tenants)

	snapshot, err := f.repo.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	assert.False(t, f.store.IsOpen())
	assert.Equal(t, 0, f.metrics.PersistenceCalls)
	assert.Equal(t, 1, f.metrics.OperationCount("store", "disabled"))
	assert.Equal(t, 1, f.metrics.OperationCount("deleteById", "disabled"))
}

func TestRepository_Disabled_OnlyStoreOperationsWarn(t *testing.T) {
	f := newFixture(t)

	_ = ReplaceAll(f.repo, "G1", []intelRecord{})
	_, _ = PurgeStaleItems[intelRecord](f.repo, "G1", time.Hour)
	_, _ = DeleteByID[intelRecord](f.repo, "G1", "x")
	_, _ = GetAll[intelRecord](f.repo, "G1")
	assert.Empty(t, f.logger.ByLevel("warn"))

	_ = Store(f.repo, record("G1", "rift-1", 0))
	assert.Len(t, f.logger.ByLevel("warn"), 1)

	_ = StoreCollection(f.repo, "audit", Collection[int]{GuildID: "G1"})
	assert.Len(t, f.logger.ByLevel("warn"), 2)
}

func TestRepository_Disabled_SkipsSchemaCheck(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, Store(f.repo, unkeyedRecord{GuildID: "G1"}))
}

// --- store / getAll ---

func TestRepository_Store_SequentialInsertOrder(t *testing.T) {
	f := newInitialized(t)

	require.NoError(t, Store(f.repo, record("G1", "first", time.Hour)))
	require.NoError(t, Store(f.repo, record("G1", "second", time.Hour)))

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, ids(items))
}

func TestRepository_Store_NoDeduplication(t *testing.T) {
	f := newInitialized(t)
	r := record("G1", "same", time.Hour)

	require.NoError(t, Store(f.repo, r))
	require.NoError(t, Store(f.repo, r))

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRepository_TenantIsolation(t *testing.T) {
	f := newInitialized(t)

	require.NoError(t, Store(f.repo, record("A", "a-1", time.Hour)))
	require.NoError(t, Store(f.repo, record("B", "b-1", time.Hour)))
	require.NoError(t, Store(f.repo, record("A", "a-2", time.Hour)))

	a, err := GetAll[intelRecord](f.repo, "A")
	require.NoError(t, err)
	b, err := GetAll[intelRecord](f.repo, "B")
	require.NoError(t, err)

	assert.Equal(t, []string{"a-1", "a-2"}, ids(a))
	assert.Equal(t, []string{"b-1"}, ids(b))
}

func TestRepository_TenantIdsAreOpaqueStrings(t *testing.T) {
	f := newInitialized(t)
	guild := "123456789012345678901"

	require.NoError(t, Store(f.repo, record(guild, "rift-1", time.Hour)))

	items, err := GetAll[intelRecord](f.repo, guild)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, guild, items[0].GuildID)
}

func TestRepository_GetAll_UnknownTenantIsEmpty(t *testing.T) {
	f := newInitialized(t)

	items, err := GetAll[intelRecord](f.repo, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestRepository_GetAll_PointerType(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))

	items, err := GetAll[*intelRecord](f.repo, "G1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rift-1", items[0].ID)
}

func TestRepository_MissingStorageKeyIsHardError(t *testing.T) {
	f := newInitialized(t)

	err := Store(f.repo, unkeyedRecord{GuildID: "G1"})
	require.ErrorIs(t, err, ErrMissingStorageKey)
	assert.Contains(t, err.Error(), "must have a static storageKey property")

	_, err = GetAll[unkeyedRecord](f.repo, "G1")
	assert.ErrorIs(t, err, ErrMissingStorageKey)
	assert.False(t, f.store.IsOpen())
}

func TestRepository_Store_PersistenceFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	f.repo.Initialize(Config{FilePath: filepath.Join(t.TempDir(), "missing", "db.json")})

	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))
	assert.Len(t, f.logger.ByLevel("error"), 1)
	assert.Equal(t, 1, f.metrics.OperationCount("store", "error"))

	// the failed write stays in memory
	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRepository_MalformedDocument(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.path, []byte("{not json"), 0644))
	f.repo.Initialize(Config{FilePath: f.path})

	assert.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))
	assert.Len(t, f.logger.ByLevel("error"), 1)

	_, err := GetAll[intelRecord](f.repo, "G1")
	assert.ErrorIs(t, err, document.ErrMalformedDocument)

	_, err = PurgeStale[intelRecord](f.repo, "G1")
	assert.ErrorIs(t, err, document.ErrMalformedDocument)

	_, err = DeleteByID[intelRecord](f.repo, "G1", "rift-1")
	assert.ErrorIs(t, err, document.ErrMalformedDocument)

	assert.Error(t, ReplaceAll(f.repo, "G1", []intelRecord{}))
}

func TestRepository_DataSurvivesDocumentReset(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))

	f.repo.ResetDocument()
	assert.False(t, f.store.IsOpen())

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rift-1"}, ids(items))
}

func TestRepository_TracksStorageKeys(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))
	require.NoError(t, StoreCollection(f.repo, "audit", Collection[string]{GuildID: "G1", Items: []string{"x"}}))

	assert.Equal(t, []string{"audit", "intel-items"}, f.tracker.Keys())
}

// --- storeCollection ---

func TestRepository_StoreCollection_AppendsItems(t *testing.T) {
	f := newInitialized(t)

	require.NoError(t, Store(f.repo, record("G1", "one", time.Hour)))
	require.NoError(t, StoreCollection(f.repo, "intel-items", Collection[intelRecord]{
		GuildID: "G1",
		Items:   []intelRecord{record("G1", "two", time.Hour), record("G1", "three", time.Hour)},
	}))

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, ids(items))
}

func TestRepository_StoreCollection_EmptyKey(t *testing.T) {
	f := newInitialized(t)
	err := StoreCollection(f.repo, "", Collection[string]{GuildID: "G1"})
	assert.ErrorIs(t, err, ErrMissingStorageKey)
}

// --- replaceAll ---

func TestRepository_ReplaceAll_FullReplacement(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "old-1", time.Hour)))
	require.NoError(t, Store(f.repo, record("G1", "old-2", time.Hour)))

	replacement := []intelRecord{record("G1", "new-1", time.Hour), record("G1", "new-2", 2*time.Hour)}
	require.NoError(t, ReplaceAll(f.repo, "G1", replacement))

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, replacement, items)
}

func TestRepository_ReplaceAll_EmptyClears(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "old", time.Hour)))

	require.NoError(t, ReplaceAll(f.repo, "G1", []intelRecord{}))

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Empty(t, items)

	raw, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"G1":{"intel-items":[]}}`, string(raw))
}

func TestRepository_ReplaceAll_CreatesTenantBucket(t *testing.T) {
	f := newInitialized(t)

	require.NoError(t, ReplaceAll(f.repo, "G9", []intelRecord{record("G9", "x", 0)}))

	tenants, err := f.repo.Tenants()
	require.NoError(t, err)
	assert.Equal(t, []string{"G9"}, tenants)
}

func TestRepository_ReplaceAll_LeavesOtherTenantsAlone(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("A", "a-1", time.Hour)))
	require.NoError(t, Store(f.repo, record("B", "b-1", time.Hour)))

	require.NoError(t, ReplaceAll(f.repo, "A", []intelRecord{}))

	b, err := GetAll[intelRecord](f.repo, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"b-1"}, ids(b))
}

// --- purge ---

func TestRepository_Purge_DefaultWindowScenario(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "old-1", 200*time.Hour)))
	require.NoError(t, Store(f.repo, record("G1", "fresh", 1*time.Hour)))
	require.NoError(t, Store(f.repo, record("G1", "old-2", 200*time.Hour)))

	removed, err := PurgeStale[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids(items))
	assert.Equal(t, 2, f.metrics.Purged["intel-items"])
}

func TestRepository_Purge_BoundaryIsKept(t *testing.T) {
	f := newInitialized(t)
	window := 10 * time.Hour
	require.NoError(t, Store(f.repo, record("G1", "exact", window)))
	require.NoError(t, Store(f.repo, record("G1", "over", window+time.Millisecond)))
	require.NoError(t, Store(f.repo, record("G1", "under", window-time.Millisecond)))

	removed, err := PurgeStaleItems[intelRecord](f.repo, "G1", window)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"exact", "under"}, ids(items))
}

func TestRepository_Purge_CountsMatchRemaining(t *testing.T) {
	f := newInitialized(t)
	ages := []time.Duration{1, 50, 100, 169, 300, 2, 168}
	for i, h := range ages {
		require.NoError(t, Store(f.repo, record("G1", string(rune('a'+i)), h*time.Hour)))
	}

	removed, err := PurgeStale[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Len(t, items, len(ages)-removed)
	for _, item := range items {
		ts, err := time.Parse(time.RFC3339Nano, item.Timestamp)
		require.NoError(t, err)
		assert.LessOrEqual(t, testNow.Sub(ts), DefaultMaxAge)
	}
}

func TestRepository_Purge_NothingStaleDoesNotWrite(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "fresh", time.Hour)))
	persisted := f.metrics.PersistenceCalls

	removed, err := PurgeStale[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, persisted, f.metrics.PersistenceCalls)
}

func TestRepository_Purge_AbsentTenantCreatesNoBucket(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "fresh", time.Hour)))
	persisted := f.metrics.PersistenceCalls

	removed, err := PurgeStale[intelRecord](f.repo, "G9")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, persisted, f.metrics.PersistenceCalls)

	tenants, err := f.repo.Tenants()
	require.NoError(t, err)
	assert.Equal(t, []string{"G1"}, tenants)
}

func TestRepository_Purge_UnparseableTimestampIsKept(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, intelRecord{ID: "weird", GuildID: "G1", Timestamp: "yesterday"}))
	require.NoError(t, Store(f.repo, record("G1", "old", 500*time.Hour)))

	removed, err := PurgeStale[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"weird"}, ids(items))
	assert.Len(t, f.logger.ByLevel("warn"), 1)
}

func TestRepository_Purge_OnlyTouchesTenant(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("A", "a-old", 500*time.Hour)))
	require.NoError(t, Store(f.repo, record("B", "b-old", 500*time.Hour)))

	removed, err := PurgeStale[intelRecord](f.repo, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	b, err := GetAll[intelRecord](f.repo, "B")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}

// --- deleteById ---

func TestRepository_DeleteByID_Existing(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "keep", time.Hour)))
	require.NoError(t, Store(f.repo, record("G1", "drop", time.Hour)))

	deleted, err := DeleteByID[intelRecord](f.repo, "G1", "drop")
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, ids(items))
}

func TestRepository_DeleteByID_Missing(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "a", time.Hour)))
	require.NoError(t, Store(f.repo, record("G1", "b", time.Hour)))
	before, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	persisted := f.metrics.PersistenceCalls

	deleted, err := DeleteByID[intelRecord](f.repo, "G1", "nope")
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, persisted, f.metrics.PersistenceCalls)

	after, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRepository_DeleteByID_RemovesFirstMatchOnly(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, intelRecord{ID: "dup", GuildID: "G1", Note: "first"}))
	require.NoError(t, Store(f.repo, intelRecord{ID: "other", GuildID: "G1"}))
	require.NoError(t, Store(f.repo, intelRecord{ID: "dup", GuildID: "G1", Note: "second"}))

	deleted, err := DeleteByID[intelRecord](f.repo, "G1", "dup")
	require.NoError(t, err)
	assert.True(t, deleted)

	items, err := GetAll[intelRecord](f.repo, "G1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "other", items[0].ID)
	assert.Equal(t, "second", items[1].Note)
}

func TestRepository_DeleteByID_OtherTenantUntouched(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("A", "shared-id", time.Hour)))
	require.NoError(t, Store(f.repo, record("B", "shared-id", time.Hour)))

	deleted, err := DeleteByID[intelRecord](f.repo, "A", "shared-id")
	require.NoError(t, err)
	assert.True(t, deleted)

	b, err := GetAll[intelRecord](f.repo, "B")
	require.NoError(t, err)
	assert.Len(t, b, 1)
}

// --- tenants / snapshot ---

func TestRepository_Snapshot(t *testing.T) {
	f := newInitialized(t)
	require.NoError(t, Store(f.repo, record("G1", "rift-1", time.Hour)))

	data, err := f.repo.Snapshot()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rift-1"`)
}

func TestRepository_Snapshot_OpensDocument(t *testing.T) {
	f := newInitialized(t)

	data, err := f.repo.Snapshot()
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
	assert.True(t, f.store.IsOpen())
}
