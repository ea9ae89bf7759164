package recordstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lfarruda/ifctakeoff/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	tmpDir := t.TempDir()
	store, err := NewStore(types.StoreConfig{
		DBPath:    filepath.Join(tmpDir, "data", "takeoff.db"),
		ExportDir: filepath.Join(tmpDir, "export"),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecords(projectRef string, names ...string) []types.ColumnRecord {
	records := make([]types.ColumnRecord, len(names))
	for i, name := range names {
		records[i] = types.ColumnRecord{
			UniqueID:      name + "-guid" + name + "-PAVIMENTO1-" + projectRef,
			ProjectRef:    projectRef,
			Name:          name,
			Section:       "30x40",
			Reinforcement: "4 ø12.5",
			Floor:         "Pavimento 1",
			Status:        "A CONFERIR",
		}
	}
	return records
}

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)

	for _, table := range []string{"columns", "sync_log"} {
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

func TestUpsertRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	in := sampleRecords("OBRA01", "P1", "P2")
	in[0].Height = 300
	in[0].Volume = 0.36
	in[0].Material = "Concreto C30"

	if err := store.Upsert(ctx, "OBRA01", in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	out, err := store.Records(ctx, "OBRA01")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("round-trip mismatch:\n got %+v\nwant %+v", out[0], in[0])
	}
	if out[1].Name != "P2" {
		t.Errorf("order not preserved: got %q in position 1", out[1].Name)
	}
}

func TestUpsertReplacesProject(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, "OBRA01", sampleRecords("OBRA01", "P1", "P2", "P3")); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, "OBRA02", sampleRecords("OBRA02", "P1")); err != nil {
		t.Fatal(err)
	}

	// Re-sync OBRA01 with a smaller set; OBRA02 must be untouched.
	if err := store.Upsert(ctx, "OBRA01", sampleRecords("OBRA01", "P4")); err != nil {
		t.Fatal(err)
	}

	a, err := store.Records(ctx, "OBRA01")
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 || a[0].Name != "P4" {
		t.Errorf("OBRA01 after re-sync = %d records (first %q), want just P4", len(a), a[0].Name)
	}

	b, err := store.Records(ctx, "OBRA02")
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 1 || b[0].Name != "P1" {
		t.Errorf("OBRA02 affected by OBRA01 sync: %+v", b)
	}
}

func TestProjectsAndLastSync(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, "OBRA02", sampleRecords("OBRA02", "P1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Upsert(ctx, "OBRA01", sampleRecords("OBRA01", "P1", "P2")); err != nil {
		t.Fatal(err)
	}

	projects, err := store.Projects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0] != "OBRA01" {
		t.Errorf("Projects() = %v, want [OBRA01 OBRA02]", projects)
	}

	ts, count, err := store.LastSync(ctx, "OBRA01")
	if err != nil {
		t.Fatal(err)
	}
	if ts.IsZero() || count != 2 {
		t.Errorf("LastSync = %v, %d; want non-zero time and 2 records", ts, count)
	}

	ts, count, err = store.LastSync(ctx, "NUNCA")
	if err != nil {
		t.Fatal(err)
	}
	if !ts.IsZero() || count != 0 {
		t.Errorf("LastSync for unknown project = %v, %d; want zero values", ts, count)
	}
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Upsert(ctx, "OBRA 01/B", sampleRecords("OBRA 01/B", "P1")); err != nil {
		t.Fatal(err)
	}

	yamlPath, err := store.ExportYAML(ctx, "OBRA 01/B")
	if err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	if filepath.Base(yamlPath) != "takeoff-OBRA_01_B.yaml" {
		t.Errorf("export path = %q, want sanitized project slug", yamlPath)
	}
	if _, err := os.Stat(yamlPath); err != nil {
		t.Errorf("export file missing: %v", err)
	}

	jsonPath, err := store.ExportJSON(ctx, "OBRA 01/B")
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("JSON export is empty")
	}
}
