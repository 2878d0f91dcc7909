package extract

import (
	"strings"

	"github.com/otiai10/gosseract/v2"
	"go.uber.org/zap"
)

// fromImage runs OCR on an image file. The engine is configured for
// English plus Simplified Chinese since transcripts and certificates mix
// both. A missing or broken tesseract installation degrades to "".
func (e *Extractor) fromImage(path string) string {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng", "chi_sim"); err != nil {
		e.log.Warn("ocr language setup failed", zap.Error(err))
		return ""
	}
	if err := client.SetImage(path); err != nil {
		e.log.Warn("ocr image setup failed", zap.String("path", path), zap.Error(err))
		return ""
	}

	text, err := client.Text()
	if err != nil {
		e.log.Warn("ocr extraction failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}
