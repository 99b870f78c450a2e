// Package document converts documents through pandoc.
//
// Source and target extensions are translated into pandoc's own format
// vocabulary before invocation (txt is "plain" in pandoc terms). PDF output
// is produced by handing pandoc a .pdf output path together with the xelatex
// rendering engine; pandoc has no direct "pdf" writer.
package document

import (
	"context"

	"morph/internal/convert"
	"morph/internal/registry"
)

// vocabulary maps file extensions to pandoc format names. Extensions without
// an entry pass through unchanged.
var vocabulary = map[string]string{
	"docx": "docx",
	"doc":  "doc",
	"pdf":  "pdf",
	"txt":  "plain",
	"rtf":  "rtf",
	"odt":  "odt",
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

// Converter implements the document leg of the dispatcher. It also serves
// pdf and plain-text sources, which share pandoc as their engine.
type Converter struct {
	binary string
	exec   convert.Executor
}

// New constructs a document converter bound to a pandoc binary.
func New(binary string, opts ...Option) *Converter {
	c := &Converter{binary: binary, exec: convert.CommandExecutor{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert invokes pandoc with both formats mapped into its vocabulary.
func (c *Converter) Convert(ctx context.Context, job convert.Job) (string, error) {
	source := pandocFormat(job.SourceExt)
	target := registry.NormalizeExtension(job.TargetExt)

	args := []string{"--from", source}
	if target == "pdf" {
		args = append(args, "--pdf-engine=xelatex")
	} else {
		args = append(args, "--to", pandocFormat(target))
	}
	args = append(args, "-o", job.OutputPath, job.InputPath)

	if _, err := c.exec.Run(ctx, c.binary, args); err != nil {
		return "", convert.Wrap(convert.ErrToolFailure, "document", "pandoc", err)
	}
	if err := convert.VerifyOutput(job.OutputPath); err != nil {
		return "", err
	}
	return job.OutputPath, nil
}

func pandocFormat(ext string) string {
	normalized := registry.NormalizeExtension(ext)
	if mapped, ok := vocabulary[normalized]; ok {
		return mapped
	}
	return normalized
}
