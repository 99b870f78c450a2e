// Package audio re-encodes audio files through ffmpeg with fixed presets.
package audio

import (
	"context"

	"morph/internal/convert"
	"morph/internal/registry"
)

// demuxers maps source extensions to ffmpeg demuxer names used as decode
// hints. Extensions without an entry rely on ffmpeg's own probing.
var demuxers = map[string]string{
	"mp3":  "mp3",
	"wav":  "wav",
	"flac": "flac",
	"ogg":  "ogg",
	"oga":  "ogg",
}

// presets holds the fixed encoder arguments per target codec.
var presets = map[string][]string{
	"mp3":  {"-codec:a", "libmp3lame", "-b:a", "320k"},
	"ogg":  {"-codec:a", "libvorbis"},
	"wav":  {"-codec:a", "pcm_s16le"},
	"flac": {"-codec:a", "flac"},
}

// Option configures the converter.
type Option func(*Converter)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec convert.Executor) Option {
	return func(c *Converter) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Converter implements the audio leg of the dispatcher.
type Converter struct {
	binary string
	exec   convert.Executor
}

// New constructs an audio converter bound to an ffmpeg binary.
func New(binary string, opts ...Option) *Converter {
	c := &Converter{binary: binary, exec: convert.CommandExecutor{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert invokes ffmpeg with the source extension as a demuxer hint and the
// fixed preset for the target codec.
func (c *Converter) Convert(ctx context.Context, job convert.Job) (string, error) {
	args := []string{"-y"}
	if demuxer, ok := demuxers[registry.NormalizeExtension(job.SourceExt)]; ok {
		args = append(args, "-f", demuxer)
	}
	args = append(args, "-i", job.InputPath)
	args = append(args, presets[registry.NormalizeExtension(job.TargetExt)]...)
	args = append(args, job.OutputPath)

	if _, err := c.exec.Run(ctx, c.binary, args); err != nil {
		return "", convert.Wrap(convert.ErrToolFailure, "audio", "ffmpeg", err)
	}
	if err := convert.VerifyOutput(job.OutputPath); err != nil {
		return "", err
	}
	return job.OutputPath, nil
}
