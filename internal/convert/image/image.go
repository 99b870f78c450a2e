package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"golang.org/x/image/bmp"

	"morph/internal/convert"
	"morph/internal/registry"
)

const (
	jpegQuality = 95
	webpQuality = 90
	// Pixel-to-millimeter scale for PDF pages, assuming 96 DPI sources.
	pdfMMPerPixel = 25.4 / 96.0
)

// Option configures the converter.
type Option func(*Converter)

// WithExecutor injects a custom executor for the HEIC pre-decode step.
func WithExecutor(exec convert.Executor) Option {
	return func(c *Converter) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Converter implements the image leg of the dispatcher.
type Converter struct {
	ffmpegBinary string
	exec         convert.Executor
}

// New constructs an image converter. ffmpegBinary is only exercised for HEIC
// sources.
func New(ffmpegBinary string, opts ...Option) *Converter {
	c := &Converter{
		ffmpegBinary: ffmpegBinary,
		exec:         convert.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert decodes the source image, adjusts the color mode for the target,
// and encodes with the target's fixed preset.
func (c *Converter) Convert(ctx context.Context, job convert.Job) (string, error) {
	img, err := c.decode(ctx, job.InputPath, job.SourceExt)
	if err != nil {
		return "", convert.Wrap(convert.ErrToolFailure, "image", "decode "+job.SourceExt, err)
	}

	if err := c.encode(img, job.TargetExt, job.OutputPath); err != nil {
		return "", err
	}
	if err := convert.VerifyOutput(job.OutputPath); err != nil {
		return "", err
	}
	return job.OutputPath, nil
}

func (c *Converter) decode(ctx context.Context, path, sourceExt string) (image.Image, error) {
	switch registry.NormalizeExtension(sourceExt) {
	case "jpg", "jpeg":
		return decodeWith(path, jpeg.Decode)
	case "png":
		return decodeWith(path, png.Decode)
	case "webp":
		return decodeWith(path, webp.Decode)
	case "bmp":
		return decodeWith(path, bmp.Decode)
	case "heic":
		return c.decodeHEIC(ctx, path)
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		img, _, err := image.Decode(file)
		return img, err
	}
}

func decodeWith(path string, decode func(r io.Reader) (image.Image, error)) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return decode(file)
}

// decodeHEIC shells out to ffmpeg for a one-frame PNG render, then decodes
// that. The intermediate lives next to the input and is removed immediately.
func (c *Converter) decodeHEIC(ctx context.Context, path string) (image.Image, error) {
	if c.ffmpegBinary == "" {
		return nil, fmt.Errorf("heic decode requires ffmpeg")
	}
	intermediate := filepath.Join(filepath.Dir(path), filepath.Base(path)+".decode.png")
	defer os.Remove(intermediate)

	args := []string{"-y", "-i", path, "-frames:v", "1", intermediate}
	if _, err := c.exec.Run(ctx, c.ffmpegBinary, args); err != nil {
		return nil, err
	}
	return decodeWith(intermediate, png.Decode)
}

func (c *Converter) encode(img image.Image, targetExt, outputPath string) error {
	switch registry.NormalizeExtension(targetExt) {
	case "jpg", "jpeg":
		return encodeTo(outputPath, "image", func(f *os.File) error {
			return jpeg.Encode(f, flattenOntoWhite(img), &jpeg.Options{Quality: jpegQuality})
		})
	case "png":
		return encodeTo(outputPath, "image", func(f *os.File) error {
			encoder := png.Encoder{CompressionLevel: png.BestCompression}
			return encoder.Encode(f, img)
		})
	case "webp":
		return encodeTo(outputPath, "image", func(f *os.File) error {
			return webp.Encode(f, img, &webp.Options{Quality: webpQuality})
		})
	case "bmp":
		return encodeTo(outputPath, "image", func(f *os.File) error {
			return bmp.Encode(f, flattenOntoWhite(img))
		})
	case "pdf":
		return c.encodePDF(img, outputPath)
	default:
		return convert.Wrap(convert.ErrUnsupportedType, "image", "no encoder for "+targetExt, nil)
	}
}

func encodeTo(path, component string, write func(f *os.File) error) error {
	file, err := os.Create(path)
	if err != nil {
		return convert.Wrap(convert.ErrToolFailure, component, "create output", err)
	}
	if err := write(file); err != nil {
		file.Close()
		os.Remove(path)
		return convert.Wrap(convert.ErrToolFailure, component, "encode", err)
	}
	if err := file.Close(); err != nil {
		return convert.Wrap(convert.ErrToolFailure, component, "close output", err)
	}
	return nil
}

// encodePDF embeds the flattened image as a single full-bleed PDF page.
func (c *Converter) encodePDF(img image.Image, outputPath string) error {
	flattened := flattenOntoWhite(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flattened, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return convert.Wrap(convert.ErrToolFailure, "image", "pdf page encode", err)
	}

	bounds := flattened.Bounds()
	pageW := float64(bounds.Dx()) * pdfMMPerPixel
	pageH := float64(bounds.Dy()) * pdfMMPerPixel

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	doc.AddPage()
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	doc.RegisterImageOptionsReader("page", opts, &buf)
	doc.ImageOptions("page", 0, 0, pageW, pageH, false, opts, 0, "")
	if err := doc.OutputFileAndClose(outputPath); err != nil {
		os.Remove(outputPath)
		return convert.Wrap(convert.ErrToolFailure, "image", "pdf write", err)
	}
	return nil
}

// flattenOntoWhite composites transparency onto a white background so
// alpha-less encodings do not render black where pixels were transparent.
func flattenOntoWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}
