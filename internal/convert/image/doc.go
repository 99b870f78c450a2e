// Package image converts raster images between jpg, png, webp, bmp, and pdf.
//
// Decoding and encoding run in-process. Targets without an alpha channel
// (jpg, bmp, pdf) get transparency composited onto a white background before
// encoding; targets that keep alpha pass the color data through unchanged.
// Quality presets are fixed per target encoding. HEIC sources are decoded
// through ffmpeg first, since no native decoder exists.
package image
