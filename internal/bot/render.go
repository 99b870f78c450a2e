package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"morph/internal/convert"
	"morph/internal/registry"
	"morph/internal/session"
)

// selectionPrefix is the wire form of a format choice. The token carries only
// the target code; the source comes from the stored request.
const selectionPrefix = "cvt:"

func renderOffer(fileName string, offer session.Offer) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s — pick a target format:\n", offer.Emoji, fileName)
	for _, target := range offer.Targets {
		fmt.Fprintf(&b, "  %s%s → %s\n", selectionPrefix, target.Code, target.DisplayName)
	}
	b.WriteString("Reply with one of the cvt: codes, or \"cancel\".")
	return b.String()
}

func renderError(err error, maxFileBytes int64) string {
	switch {
	case errors.Is(err, convert.ErrSizeExceeded):
		return fmt.Sprintf("That file is too large. The limit is %s.", humanize.IBytes(uint64(maxFileBytes)))
	case errors.Is(err, convert.ErrUnsupportedFormat), errors.Is(err, convert.ErrUnsupportedType):
		return "I can't convert that file type. Send \"formats\" to see what I support."
	case errors.Is(err, convert.ErrStaleSelection):
		return "That choice no longer applies. Send the file again and pick a format."
	case errors.Is(err, convert.ErrToolFailure):
		return "The conversion failed on this file. It may be corrupt or use an unsupported codec."
	default:
		return "Something went wrong on my side. Please try again."
	}
}

func renderFormats() string {
	var b strings.Builder
	b.WriteString("Supported conversions:\n")
	for _, category := range registry.Categories() {
		targets := capabilityTargets(category)
		if len(targets) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s %s: %s\n", registry.Emoji(category), category, strings.Join(targets, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func capabilityTargets(category registry.Category) []string {
	seen := map[string]struct{}{}
	var codes []string
	for _, ext := range registry.SupportedExtensions() {
		if registry.Classify(ext) != category {
			continue
		}
		for _, target := range registry.LegalTargets(ext) {
			if _, ok := seen[target.Code]; ok {
				continue
			}
			seen[target.Code] = struct{}{}
			codes = append(codes, target.Code)
		}
	}
	return codes
}

func renderHelp() string {
	return strings.Join([]string{
		"Send me a file and I will offer conversion targets for it.",
		"Commands:",
		"  formats — list supported conversions",
		"  cancel  — drop your pending file",
		"  " + selectionPrefix + "<code> — convert the pending file to <code>",
	}, "\n")
}

func renderWorking(fileName, targetExt string) string {
	return fmt.Sprintf("Converting %s to %s…", fileName, targetExt)
}

func renderDone(fileName, targetExt string, outputBytes int64) string {
	return fmt.Sprintf("Done: %s → %s (%s).", fileName, targetExt, humanize.IBytes(uint64(outputBytes)))
}

// outputName swaps the extension of the source file name for the target.
func outputName(fileName, targetExt string) string {
	base := fileName
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		base = "converted"
	}
	return base + "." + targetExt
}

// parseSelection extracts the target code from a cvt: reply. The second
// return reports whether the message was a selection at all.
func parseSelection(body string) (string, bool) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, selectionPrefix) {
		return "", false
	}
	code := strings.TrimSpace(strings.TrimPrefix(trimmed, selectionPrefix))
	return strings.ToLower(code), code != ""
}

var mimeByExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"heic": "image/heic",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"doc":  "application/msword",
	"rtf":  "application/rtf",
	"odt":  "application/vnd.oasis.opendocument.text",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xls":  "application/vnd.ms-excel",
	"csv":  "text/csv",
	"mp3":  "audio/mpeg",
	"ogg":  "audio/ogg",
	"oga":  "audio/ogg",
	"wav":  "audio/wav",
	"flac": "audio/flac",
	"mp4":  "video/mp4",
	"avi":  "video/x-msvideo",
	"mov":  "video/quicktime",
	"mkv":  "video/x-matroska",
}

func mimeForExt(ext string) string {
	if mime, ok := mimeByExt[registry.NormalizeExtension(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
