package audio_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"morph/internal/convert"
	"morph/internal/convert/audio"
)

type fakeExecutor struct {
	binary string
	args   []string
	err    error
	write  string
}

func (f *fakeExecutor) Run(_ context.Context, binary string, args []string) (string, error) {
	f.binary = binary
	f.args = args
	if f.err != nil {
		return "", f.err
	}
	if f.write != "" {
		if err := os.WriteFile(f.write, []byte("audio"), 0o644); err != nil {
			return "", err
		}
	}
	return "", nil
}

func TestConvertBuildsMP3Preset(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.mp3")
	exec := &fakeExecutor{write: output}
	conv := audio.New("ffmpeg", audio.WithExecutor(exec))

	path, err := conv.Convert(context.Background(), convert.Job{
		InputPath:  filepath.Join(dir, "in.ogg"),
		OutputPath: output,
		SourceExt:  "ogg",
		TargetExt:  "mp3",
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if path != output {
		t.Fatalf("Convert returned %q, want %q", path, output)
	}

	joined := strings.Join(exec.args, " ")
	for _, fragment := range []string{"-f ogg", "libmp3lame", "-b:a 320k", "-y"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("ffmpeg args %q missing %q", joined, fragment)
		}
	}
}

func TestConvertSurfacesToolFailure(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{err: errors.New("boom")}
	conv := audio.New("ffmpeg", audio.WithExecutor(exec))

	_, err := conv.Convert(context.Background(), convert.Job{
		InputPath:  filepath.Join(dir, "in.wav"),
		OutputPath: filepath.Join(dir, "out.flac"),
		SourceExt:  "wav",
		TargetExt:  "flac",
	})
	if !errors.Is(err, convert.ErrToolFailure) {
		t.Fatalf("Convert = %v, want ErrToolFailure", err)
	}
}

func TestConvertMissingOutputIsToolFailure(t *testing.T) {
	dir := t.TempDir()
	// Executor reports success but writes nothing.
	conv := audio.New("ffmpeg", audio.WithExecutor(&fakeExecutor{}))

	_, err := conv.Convert(context.Background(), convert.Job{
		InputPath:  filepath.Join(dir, "in.mp3"),
		OutputPath: filepath.Join(dir, "out.wav"),
		SourceExt:  "mp3",
		TargetExt:  "wav",
	})
	if !errors.Is(err, convert.ErrToolFailure) {
		t.Fatalf("Convert = %v, want ErrToolFailure for missing artifact", err)
	}
}
