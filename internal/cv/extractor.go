package cv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// maxCVRunes bounds how much extracted text enters analysis prompts.
const maxCVRunes = 20000

// ExtractText pulls plain text out of an uploaded CV. PDF and Word
// family documents go through docconv; plain text and markdown are read
// as-is. Anything else is rejected.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".doc", ".docx", ".rtf", ".odt":
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("cv: extract %s: %w", filepath.Base(path), err)
		}
		return clamp(res.Body), nil
	case ".txt", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("cv: read %s: %w", filepath.Base(path), err)
		}
		return clamp(string(b)), nil
	default:
		return "", fmt.Errorf("cv: unsupported file type %q", filepath.Ext(path))
	}
}

func clamp(s string) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxCVRunes {
		return s
	}
	return string(r[:maxCVRunes])
}
