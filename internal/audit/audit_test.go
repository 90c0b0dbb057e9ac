package audit

import (
	"context"
	"testing"

	badgerstore "visearch/internal/catalog/badger"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	db, err := badgerstore.OpenDB("", true)
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	l := newTestLog(t)

	l.Record(ctx, "ADD", "product 1", "first")
	l.Record(ctx, "UPDATE", "product 1", "")
	l.Record(ctx, "QUERY", "q.png", "2 candidates")

	events, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Action != "QUERY" || events[1].Action != "UPDATE" {
		t.Fatalf("events not newest-first: %+v", events)
	}
	if events[0].ID == "" || events[0].Time.IsZero() {
		t.Fatalf("event missing id or time: %+v", events[0])
	}
}

func TestRecentAll(t *testing.T) {
	ctx := context.Background()
	l := newTestLog(t)

	l.Record(ctx, "ADD", "product 1", "")
	events, err := l.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
}
