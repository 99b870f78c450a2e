// Package convert routes conversion jobs to type-specific converters.
//
// The Dispatcher holds one converter per file category and selects it with an
// exhaustive switch, so adding a category is a compile-time concern rather
// than a runtime dictionary miss. Converters share a uniform contract: they
// take an input path, source and target extensions, and an output path, and
// either produce the output artifact or fail with a classified error.
//
// The package also defines the error taxonomy every caller classifies
// against, and the Executor abstraction converters use to run external tools.
package convert
