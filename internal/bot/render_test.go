package bot

import (
	"strings"
	"testing"

	"morph/internal/convert"
	"morph/internal/registry"
	"morph/internal/session"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		body string
		code string
		ok   bool
	}{
		{"cvt:jpg", "jpg", true},
		{"  cvt:PDF  ", "pdf", true},
		{"cvt: webp", "webp", true},
		{"cvt:", "", false},
		{"convert to jpg", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		code, ok := parseSelection(tc.body)
		if code != tc.code || ok != tc.ok {
			t.Fatalf("parseSelection(%q) = (%q, %v), want (%q, %v)", tc.body, code, ok, tc.code, tc.ok)
		}
	}
}

func TestRenderOfferListsTargets(t *testing.T) {
	offer := session.Offer{
		Category: registry.CategoryImage,
		Emoji:    registry.Emoji(registry.CategoryImage),
		Targets:  registry.LegalTargets("png"),
	}
	text := renderOffer("photo.png", offer)

	if !strings.Contains(text, "photo.png") {
		t.Fatalf("offer text missing file name: %q", text)
	}
	for _, code := range []string{"cvt:jpg", "cvt:webp", "cvt:bmp", "cvt:pdf"} {
		if !strings.Contains(text, code) {
			t.Fatalf("offer text missing %s: %q", code, text)
		}
	}
	if strings.Contains(text, "cvt:png") {
		t.Fatalf("offer must not include the source format itself: %q", text)
	}
}

func TestRenderErrorByKind(t *testing.T) {
	limit := int64(20 << 20)
	tests := []struct {
		err     error
		snippet string
	}{
		{convert.Wrap(convert.ErrSizeExceeded, "session", "big.bin", nil), "too large"},
		{convert.Wrap(convert.ErrUnsupportedFormat, "session", "odd.xyz", nil), "can't convert"},
		{convert.Wrap(convert.ErrStaleSelection, "session", "no pending request", nil), "no longer applies"},
		{convert.Wrap(convert.ErrToolFailure, "audio", "transcode", nil), "failed on this file"},
		{convert.Wrap(convert.ErrUnexpectedFault, "workflow", "panic", nil), "my side"},
	}
	for _, tc := range tests {
		text := renderError(tc.err, limit)
		if !strings.Contains(text, tc.snippet) {
			t.Fatalf("renderError(%v) = %q, want substring %q", tc.err, text, tc.snippet)
		}
	}

	if text := renderError(convert.Wrap(convert.ErrSizeExceeded, "session", "", nil), limit); !strings.Contains(text, "20 MiB") {
		t.Fatalf("size message should name the limit: %q", text)
	}
}

func TestRenderFormatsCoversCategories(t *testing.T) {
	text := renderFormats()
	for _, category := range registry.Categories() {
		if !strings.Contains(text, string(category)) {
			t.Fatalf("formats text missing category %s: %q", category, text)
		}
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		in     string
		target string
		want   string
	}{
		{"photo.png", "jpg", "photo.jpg"},
		{"archive.tar.gz", "pdf", "archive.tar.pdf"},
		{"noext", "txt", "noext.txt"},
		{".hidden", "pdf", ".hidden.pdf"},
	}
	for _, tc := range tests {
		if got := outputName(tc.in, tc.target); got != tc.want {
			t.Fatalf("outputName(%q, %q) = %q, want %q", tc.in, tc.target, got, tc.want)
		}
	}
}

func TestMimeForExt(t *testing.T) {
	if got := mimeForExt("JPG"); got != "image/jpeg" {
		t.Fatalf("mimeForExt(JPG) = %q", got)
	}
	if got := mimeForExt("xyz"); got != "application/octet-stream" {
		t.Fatalf("mimeForExt(xyz) = %q", got)
	}
}
