package extract

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Package extract converts uploaded documents into plain text for
// downstream prompting. Extraction is strictly best-effort: a file the
// engine cannot read yields an empty string, never an error to the caller.

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Extractor dispatches text extraction by file extension, falling back to
// content-type sniffing for unknown extensions.
type Extractor struct {
	log *zap.Logger
}

// New creates an Extractor.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// Text extracts text from the file at path. contentType is an optional
// hint used only when the extension is not recognized. Any internal
// failure is logged and degrades to "".
func (e *Extractor) Text(path, contentType string) string {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case ext == ".pdf":
		return e.fromPDF(path)
	case ext == ".docx" || ext == ".doc":
		return e.fromDocx(path)
	case ext == ".txt":
		return e.fromTxt(path)
	case imageExts[ext]:
		return e.fromImage(path)
	}

	// Unknown extension: sniff the content type hint.
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "pdf"):
		return e.fromPDF(path)
	case strings.Contains(ct, "word"), strings.Contains(ct, "document"):
		return e.fromDocx(path)
	case strings.Contains(ct, "text"):
		return e.fromTxt(path)
	case strings.Contains(ct, "image"):
		return e.fromImage(path)
	}

	// Last resort: try reading as plain text.
	return e.fromTxt(path)
}
