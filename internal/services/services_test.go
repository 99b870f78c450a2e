package services

import (
	"context"
	"errors"
	"testing"

	"morph/internal/config"
	"morph/internal/convert"
)

func TestBuildDispatcherRoutesEveryCategory(t *testing.T) {
	cfg := config.Default()
	dispatcher := BuildDispatcher(&cfg)
	if dispatcher == nil {
		t.Fatal("expected dispatcher")
	}

	// An unknown source extension must still fail classification, proving the
	// dispatcher came back fully wired rather than empty.
	_, err := dispatcher.Dispatch(context.Background(), convert.Job{
		InputPath:  "in.zzz",
		OutputPath: "out.jpg",
		SourceExt:  "zzz",
		TargetExt:  "jpg",
	})
	if !errors.Is(err, convert.ErrUnsupportedType) {
		t.Fatalf("Dispatch unknown source = %v, want unsupported type", err)
	}
}
