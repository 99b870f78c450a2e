package registry

import (
	"sort"
	"strings"
)

// Category identifies the converter family responsible for a file type.
type Category string

const (
	CategoryUnknown     Category = ""
	CategoryImage       Category = "image"
	CategoryAudio       Category = "audio"
	CategoryVideo       Category = "video"
	CategoryDocument    Category = "document"
	CategoryPDF         Category = "pdf"
	CategoryText        Category = "text"
	CategorySpreadsheet Category = "spreadsheet"
)

// Known reports whether the category is one of the fixed converter families.
func (c Category) Known() bool {
	switch c {
	case CategoryImage, CategoryAudio, CategoryVideo, CategoryDocument, CategoryPDF, CategoryText, CategorySpreadsheet:
		return true
	}
	return false
}

// Format describes a conversion target as presented to the user.
type Format struct {
	Code        string
	DisplayName string
	Emoji       string
}

type capability struct {
	emoji   string
	targets []Format
}

var extensionCategories = map[string]Category{
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"webp": CategoryImage, "bmp": CategoryImage, "heic": CategoryImage,

	"docx": CategoryDocument, "doc": CategoryDocument, "rtf": CategoryDocument,
	"odt": CategoryDocument,

	"pdf": CategoryPDF,
	"txt": CategoryText,

	"xlsx": CategorySpreadsheet, "xls": CategorySpreadsheet, "csv": CategorySpreadsheet,

	"mp3": CategoryAudio, "ogg": CategoryAudio, "oga": CategoryAudio,
	"wav": CategoryAudio, "flac": CategoryAudio,

	"mp4": CategoryVideo, "avi": CategoryVideo, "mov": CategoryVideo,
	"mkv": CategoryVideo,
}

var capabilities = map[Category]capability{
	CategoryImage: {
		emoji: "🖼️",
		targets: []Format{
			{Code: "jpg", DisplayName: "JPEG"},
			{Code: "png", DisplayName: "PNG"},
			{Code: "webp", DisplayName: "WebP"},
			{Code: "bmp", DisplayName: "BMP"},
			{Code: "pdf", DisplayName: "PDF"},
		},
	},
	CategoryDocument: {
		emoji: "📄",
		targets: []Format{
			{Code: "pdf", DisplayName: "PDF"},
			{Code: "txt", DisplayName: "TXT"},
			{Code: "docx", DisplayName: "DOCX"},
		},
	},
	CategoryPDF: {
		emoji: "📑",
		targets: []Format{
			{Code: "txt", DisplayName: "TXT"},
			{Code: "docx", DisplayName: "DOCX"},
		},
	},
	CategoryText: {
		emoji: "📝",
		targets: []Format{
			{Code: "pdf", DisplayName: "PDF"},
			{Code: "docx", DisplayName: "DOCX"},
		},
	},
	CategorySpreadsheet: {
		emoji: "📊",
		targets: []Format{
			{Code: "csv", DisplayName: "CSV"},
			{Code: "xlsx", DisplayName: "Excel XLSX"},
		},
	},
	CategoryAudio: {
		emoji: "🎵",
		targets: []Format{
			{Code: "mp3", DisplayName: "MP3"},
			{Code: "ogg", DisplayName: "OGG"},
			{Code: "wav", DisplayName: "WAV"},
			{Code: "flac", DisplayName: "FLAC"},
		},
	},
	CategoryVideo: {
		emoji: "🎬",
		targets: []Format{
			{Code: "mp4", DisplayName: "MP4"},
			{Code: "avi", DisplayName: "AVI"},
			{Code: "mkv", DisplayName: "MKV"},
		},
	},
}

// aliasSets groups extensions that refer to the same encoding, so a source
// never sees its own format offered under another name.
var aliasSets = [][]string{
	{"jpg", "jpeg"},
	{"ogg", "oga"},
}

// NormalizeExtension lowercases an extension and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// Classify returns the category for an extension, or CategoryUnknown when the
// extension is not supported.
func Classify(ext string) Category {
	return extensionCategories[NormalizeExtension(ext)]
}

// IsSupported reports whether the extension maps to any category.
func IsSupported(ext string) bool {
	return Classify(ext).Known()
}

// Emoji returns the display emoji for a category, or empty for unknown ones.
func Emoji(category Category) string {
	return capabilities[category].emoji
}

// LegalTargets lists the target formats a file with the given extension may be
// converted to, in presentation order. The source extension and its aliases
// are excluded. Unsupported extensions yield nil.
func LegalTargets(ext string) []Format {
	normalized := NormalizeExtension(ext)
	category := extensionCategories[normalized]
	cap, ok := capabilities[category]
	if !ok {
		return nil
	}

	excluded := map[string]struct{}{normalized: {}}
	for _, set := range aliasSets {
		for _, member := range set {
			if member == normalized {
				for _, alias := range set {
					excluded[alias] = struct{}{}
				}
				break
			}
		}
	}

	targets := make([]Format, 0, len(cap.targets))
	for _, target := range cap.targets {
		if _, skip := excluded[target.Code]; skip {
			continue
		}
		targets = append(targets, target)
	}
	return targets
}

// IsLegalTarget reports whether targetCode is a legal conversion target for a
// file with the given source extension.
func IsLegalTarget(sourceExt, targetCode string) bool {
	code := NormalizeExtension(targetCode)
	for _, target := range LegalTargets(sourceExt) {
		if target.Code == code {
			return true
		}
	}
	return false
}

// SupportedExtensions returns every extension the registry recognizes, sorted.
func SupportedExtensions() []string {
	extensions := make([]string, 0, len(extensionCategories))
	for ext := range extensionCategories {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// Categories returns the fixed converter families in presentation order.
func Categories() []Category {
	return []Category{
		CategoryImage,
		CategoryDocument,
		CategoryPDF,
		CategoryText,
		CategorySpreadsheet,
		CategoryAudio,
		CategoryVideo,
	}
}
