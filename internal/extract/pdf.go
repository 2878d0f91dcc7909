package extract

import (
	"bytes"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Structural extraction shorter than this is treated as a likely scan or
// layout-heavy PDF and retried with the layout-aware reader.
const minPDFTextLen = 100

// fromPDF extracts text from a PDF. The fast structural reader runs first;
// when it yields too little text the MuPDF-based reader retries and its
// output wins if non-empty.
func (e *Extractor) fromPDF(path string) string {
	text := e.pdfStructural(path)

	if len(strings.TrimSpace(text)) < minPDFTextLen {
		if layout := e.pdfLayout(path); strings.TrimSpace(layout) != "" {
			text = layout
		}
	}

	return strings.TrimSpace(text)
}

func (e *Extractor) pdfStructural(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		e.log.Warn("pdf structural open failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer f.Close()

	var buf bytes.Buffer
	plain, err := r.GetPlainText()
	if err != nil {
		e.log.Warn("pdf structural extraction failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		e.log.Warn("pdf structural read failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return buf.String()
}

func (e *Extractor) pdfLayout(path string) string {
	doc, err := fitz.New(path)
	if err != nil {
		e.log.Warn("pdf layout open failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err != nil {
			e.log.Warn("pdf layout page failed", zap.String("path", path), zap.Int("page", n), zap.Error(err))
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
