package archive

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/prime-shields/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.ArchiveConfig{Dir: filepath.Join(t.TempDir(), "archive")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTerms() []types.Term {
	huge, _ := new(big.Int).SetString("27157632064325037274", 10)
	return []types.Term{
		{Index: 1, Value: big.NewInt(4), PMax: 3},
		{Index: 2, Value: big.NewInt(4), PMax: 5},
		{Index: 3, Value: big.NewInt(34), PMax: 7},
		{Index: 15, Value: huge, PMax: 53},
	}
}

// fixedClock returns successive timestamps one minute apart.
func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testSetup(t)

	for _, table := range []string{"runs", "terms"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	store, err := NewStore(types.ArchiveConfig{Dir: dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, dbFile)); os.IsNotExist(err) {
		t.Errorf("database file not created in %s", dir)
	}
	if store.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", store.Dir(), dir)
	}
}

// --- save / get ---

func TestSaveAndGet(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, 15, types.ModeSelection, sampleTerms())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Save did not assign an ID")
	}

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Requested != 15 || got.Mode != types.ModeSelection {
		t.Errorf("run = %+v, want requested 15 mode selection", got)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}

	want := sampleTerms()
	if len(got.Terms) != len(want) {
		t.Fatalf("len(Terms) = %d, want %d", len(got.Terms), len(want))
	}
	for i := range want {
		g, w := got.Terms[i], want[i]
		if g.Index != w.Index || g.PMax != w.PMax || g.Value.Cmp(w.Value) != 0 {
			t.Errorf("term %d = %v, want %v", i, g, w)
		}
	}
}

func TestSaveEmptyRun(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, -3, types.ModeBoth, nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Terms == nil || len(got.Terms) != 0 {
		t.Errorf("Terms = %v, want empty slice", got.Terms)
	}
}

func TestGetUnknownRun(t *testing.T) {
	store := testSetup(t)

	_, err := store.Get(context.Background(), "no-such-run")
	if !errors.Is(err, types.ErrRunNotFound) {
		t.Errorf("Get error = %v, want ErrRunNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	store := testSetup(t)
	store.now = fixedClock()
	ctx := context.Background()

	var ids []string
	for n := 1; n <= 3; n++ {
		run, err := store.Save(ctx, n, types.ModeSelection, sampleTerms()[:n])
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, run.ID)
	}

	runs, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	for i, run := range runs {
		if want := ids[len(ids)-1-i]; run.ID != want {
			t.Errorf("runs[%d].ID = %s, want %s", i, run.ID, want)
		}
		if run.Terms != nil {
			t.Errorf("List returned terms for run %s", run.ID)
		}
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "archive")
	ctx := context.Background()

	store, err := NewStore(types.ArchiveConfig{Dir: dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	saved, err := store.Save(ctx, 3, types.ModeNatural, sampleTerms()[:3])
	if err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = NewStore(types.ArchiveConfig{Dir: dir}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	got, err := store.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if len(got.Terms) != 3 {
		t.Errorf("len(Terms) = %d, want 3", len(got.Terms))
	}
}

// --- export ---

func TestExportYAML(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()
	if _, err := store.Save(ctx, 4, types.ModeSelection, sampleTerms()); err != nil {
		t.Fatal(err)
	}

	path, err := store.ExportYAML(ctx)
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var runs []ExportRun
	if err := yaml.Unmarshal(data, &runs); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(runs) != 1 || len(runs[0].Terms) != 4 {
		t.Fatalf("export = %+v, want 1 run with 4 terms", runs)
	}
	if got := runs[0].Terms[3].Value; got != "27157632064325037274" {
		t.Errorf("term 15 value = %q, want exact decimal", got)
	}
}

func TestExportJSON(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()
	for n := 1; n <= 2; n++ {
		if _, err := store.Save(ctx, n, types.ModeSelection, sampleTerms()[:n]); err != nil {
			t.Fatal(err)
		}
	}

	path, err := store.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if filepath.Base(path) != "export.json" {
		t.Errorf("path = %s, want export.json", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var runs []ExportRun
	if err := json.Unmarshal(data, &runs); err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("len(runs) = %d, want 2", len(runs))
	}
}
