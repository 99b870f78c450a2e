package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Record(ctx, Entry{
		OwnerID:     "@alice:example.org",
		FileName:    "report.docx",
		SourceExt:   "docx",
		TargetExt:   "pdf",
		Outcome:     OutcomeCompleted,
		InputBytes:  2048,
		OutputBytes: 4096,
		Duration:    1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if first.CreatedAt.IsZero() {
		t.Fatal("expected created_at to round-trip")
	}
	if first.Duration != 1500*time.Millisecond {
		t.Fatalf("duration = %v, want 1.5s", first.Duration)
	}

	if _, err := store.Record(ctx, Entry{
		OwnerID:   "@bob:example.org",
		FileName:  "song.wav",
		SourceExt: "wav",
		TargetExt: "mp3",
		Outcome:   OutcomeFailed,
		ErrorKind: "tool_failure",
	}); err != nil {
		t.Fatalf("Record second: %v", err)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}
	if entries[0].FileName != "song.wav" {
		t.Fatalf("List order: newest first expected, got %q", entries[0].FileName)
	}

	mine, err := store.ListByOwner(ctx, "@alice:example.org", 10)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 1 || mine[0].TargetExt != "pdf" {
		t.Fatalf("ListByOwner = %+v, want alice's pdf conversion", mine)
	}
}

func TestSummarize(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := store.Record(ctx, Entry{OwnerID: "u", FileName: "a.png", SourceExt: "png", TargetExt: "jpg", Outcome: OutcomeCompleted}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := store.Record(ctx, Entry{OwnerID: "u", FileName: "b.avi", SourceExt: "avi", TargetExt: "mkv", Outcome: OutcomeFailed, ErrorKind: "tool_failure"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.Total != 4 || summary.Completed != 3 || summary.Failed != 1 {
		t.Fatalf("Summarize = %+v, want total 4 completed 3 failed 1", summary)
	}
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, Entry{OwnerID: "u", FileName: "a.png", SourceExt: "png", TargetExt: "jpg", Outcome: OutcomeCompleted}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	removed, err := store.Prune(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 0 {
		t.Fatalf("Prune removed %d recent entries, want 0", removed)
	}

	removed, err = store.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune future cutoff: %v", err)
	}
	if removed != 1 {
		t.Fatalf("Prune removed %d entries, want 1", removed)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("List after prune returned %d entries, want 0", len(entries))
	}
}
