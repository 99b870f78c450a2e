// Package services composes the converter set shared by the daemon and the
// CLI so both run identical conversion semantics.
package services

import (
	"morph/internal/config"
	"morph/internal/convert"
	"morph/internal/convert/audio"
	"morph/internal/convert/document"
	"morph/internal/convert/image"
	"morph/internal/convert/sheet"
	"morph/internal/convert/video"
)

// BuildDispatcher wires every converter variant with the configured tool
// binaries.
func BuildDispatcher(cfg *config.Config) *convert.Dispatcher {
	return convert.NewDispatcher(
		image.New(cfg.Tools.FFmpeg),
		audio.New(cfg.Tools.FFmpeg),
		video.New(cfg.Tools.FFmpeg),
		document.New(cfg.Tools.Pandoc),
		sheet.New(),
	)
}
