package extract

import (
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"go.uber.org/zap"
)

// fromDocx extracts text from a Word document, paragraph by paragraph.
func (e *Extractor) fromDocx(path string) string {
	f, err := os.Open(path)
	if err != nil {
		e.log.Warn("docx open failed", zap.String("path", path), zap.Error(err))
		return ""
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		e.log.Warn("docx stat failed", zap.String("path", path), zap.Error(err))
		return ""
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		e.log.Warn("docx parse failed", zap.String("path", path), zap.Error(err))
		return ""
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if p, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, p.String())
		}
	}
	return strings.Join(paragraphs, "\n")
}
