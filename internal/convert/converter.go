package convert

import (
	"context"
	"os"

	"morph/internal/registry"
)

// Job carries everything one conversion attempt needs. It exists only for the
// duration of that attempt and is never persisted.
type Job struct {
	InputPath  string
	OutputPath string
	SourceExt  string
	TargetExt  string
}

// Converter transforms a file on disk from one format to another. The output
// artifact must exist at OutputPath when Convert returns nil; converters
// treat a missing artifact as a tool failure, never as silent success.
type Converter interface {
	Convert(ctx context.Context, job Job) (string, error)
}

// Dispatcher selects the converter variant for a job by file category.
type Dispatcher struct {
	image       Converter
	audio       Converter
	video       Converter
	document    Converter
	spreadsheet Converter
}

// NewDispatcher binds one converter to each category. Document, PDF, and text
// sources all route to the document converter.
func NewDispatcher(image, audio, video, document, spreadsheet Converter) *Dispatcher {
	return &Dispatcher{
		image:       image,
		audio:       audio,
		video:       video,
		document:    document,
		spreadsheet: spreadsheet,
	}
}

// Dispatch routes the job to the converter for its source category and
// returns the produced output path.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) (string, error) {
	converter, err := d.converterFor(registry.Classify(job.SourceExt))
	if err != nil {
		return "", err
	}
	return converter.Convert(ctx, job)
}

func (d *Dispatcher) converterFor(category registry.Category) (Converter, error) {
	var converter Converter
	switch category {
	case registry.CategoryImage:
		converter = d.image
	case registry.CategoryAudio:
		converter = d.audio
	case registry.CategoryVideo:
		converter = d.video
	case registry.CategoryDocument, registry.CategoryPDF, registry.CategoryText:
		converter = d.document
	case registry.CategorySpreadsheet:
		converter = d.spreadsheet
	case registry.CategoryUnknown:
	}
	if converter == nil {
		return nil, Wrap(ErrUnsupportedType, "dispatch", "no converter for category "+string(category), nil)
	}
	return converter, nil
}

// VerifyOutput confirms the converter actually produced its artifact.
// Shared by every converter as the final step before reporting success.
func VerifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return Wrap(ErrToolFailure, "verify", "output artifact missing", err)
	}
	if info.IsDir() || info.Size() == 0 {
		return Wrap(ErrToolFailure, "verify", "output artifact empty", nil)
	}
	return nil
}
