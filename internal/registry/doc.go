// Package registry maps file extensions to conversion capabilities.
//
// It classifies an incoming extension into a category (image, audio, video,
// document, pdf, text, spreadsheet), and reports the ordered list of target
// formats a file of that extension may legally be converted to. The source
// extension and its aliases (jpg/jpeg) are never offered as targets.
//
// The registry is immutable and safe for concurrent use. Lookups never fail:
// an unknown extension yields the zero category and an empty target list, and
// callers branch on emptiness.
package registry
