package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/transport-telemetry/simtelemetry/snapshot"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestWriteAndCount(t *testing.T) {
	store := openTestStore(t)

	doc := snapshot.Empty(1)
	doc.Vehicles = append(doc.Vehicles, snapshot.Vehicle{ID: 9, Passengers: 12})
	doc.Stats.Vehicles = 1
	doc.Stats.Passengers = 12
	gt := 400.5
	doc.GameTime = &gt

	if err := store.Write(doc, []byte(`{"write_count":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := store.Write(snapshot.Empty(2), []byte(`{"write_count":2}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestRowCarriesDocumentAndStats(t *testing.T) {
	store := openTestStore(t)
	doc := snapshot.Empty(7)
	doc.Stats.Vehicles = 3
	payload := []byte(`{"write_count":7}`)
	if err := store.Write(doc, payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var writeCount, vehicles int64
	var stored []byte
	err := store.conn.QueryRow(
		"SELECT write_count, vehicle_count, document FROM snapshots",
	).Scan(&writeCount, &vehicles, &stored)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if writeCount != 7 || vehicles != 3 {
		t.Errorf("row = write_count %d, vehicles %d", writeCount, vehicles)
	}
	if string(stored) != string(payload) {
		t.Errorf("document = %q, want %q", stored, payload)
	}
}

func TestPruneRemovesOldRows(t *testing.T) {
	store := openTestStore(t)
	if err := store.Write(snapshot.Empty(1), []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	old := time.Now().UTC().Add(-48 * time.Hour).Format(time.RFC3339)
	if _, err := store.conn.Exec(
		"UPDATE snapshots SET created_at_utc = ?", old,
	); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	removed, err := store.Prune(24 * time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	n, _ := store.Count()
	if n != 0 {
		t.Errorf("Count after prune = %d, want 0", n)
	}
}
