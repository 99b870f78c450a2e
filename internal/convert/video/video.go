// Package video transcodes video files through ffmpeg with fixed codec pairs.
package video

import (
	"context"

	"morph/internal/convert"
	"morph/internal/registry"
)

type codecPair struct {
	video string
	audio string
}

// codecs maps target containers to their fixed codec pair. Targets without an
// entry fall back to stream copy.
var codecs = map[string]codecPair{
	"mp4": {video: "libx264", audio: "aac"},
	"avi": {video: "mpeg4", audio: "mp3"},
	"mkv": {video: "libx264", audio: "aac"},
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

// Converter implements the video leg of the dispatcher.
type Converter struct {
	binary string
	exec   convert.Executor
}

// New constructs a video converter bound to an ffmpeg binary.
func New(binary string, opts ...Option) *Converter {
	c := &Converter{binary: binary, exec: convert.CommandExecutor{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert invokes ffmpeg with overwrite-without-prompt semantics and the
// codec pair fixed for the target container.
func (c *Converter) Convert(ctx context.Context, job convert.Job) (string, error) {
	pair, ok := codecs[registry.NormalizeExtension(job.TargetExt)]
	if !ok {
		pair = codecPair{video: "copy", audio: "copy"}
	}

	args := []string{
		"-y",
		"-i", job.InputPath,
		"-codec:v", pair.video,
		"-codec:a", pair.audio,
		job.OutputPath,
	}
	if _, err := c.exec.Run(ctx, c.binary, args); err != nil {
		return "", convert.Wrap(convert.ErrToolFailure, "video", "ffmpeg", err)
	}
	if err := convert.VerifyOutput(job.OutputPath); err != nil {
		return "", err
	}
	return job.OutputPath, nil
}
