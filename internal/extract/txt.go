package extract

import (
	"os"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Fallback decoders tried in order when a .txt file is not valid UTF-8.
// Latin-1 and ISO 8859-1 are the same table but the list mirrors the
// documented fallback order.
var txtFallbacks = []*charmap.Charmap{
	charmap.ISO8859_1,
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// fromTxt reads a plain text file as UTF-8, falling back through a fixed
// list of legacy encodings when the bytes are not valid UTF-8.
func (e *Extractor) fromTxt(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		e.log.Warn("txt read failed", zap.String("path", path), zap.Error(err))
		return ""
	}

	if utf8.Valid(data) {
		return string(data)
	}

	for _, cm := range txtFallbacks {
		decoded, err := decodeWith(cm.NewDecoder(), data)
		if err == nil {
			return decoded
		}
	}

	e.log.Warn("txt decoding failed for all encodings", zap.String("path", path))
	return ""
}

func decodeWith(dec *encoding.Decoder, data []byte) (string, error) {
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
