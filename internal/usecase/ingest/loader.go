package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"campusvibe/internal/domain/entity"

	"github.com/karrick/godirwalk"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

// ErrNoData is reported when the source directory is missing or holds no
// readable documents. Ingestion stops before touching existing storage.
var ErrNoData = errors.New("no documents found in data directory")

// LoadDocuments reads every supported file under dataDir, one document per
// file. Walk order is lexical, so document order is stable between runs.
func LoadDocuments(dataDir string) ([]entity.Document, error) {
	if fi, err := os.Stat(dataDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoData, dataDir)
	}

	var docs []entity.Document
	err := godirwalk.Walk(dataDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(dataDir, path)
			if err != nil {
				rel = de.Name()
			}

			ext := strings.ToLower(filepath.Ext(path))
			var text string
			switch ext {
			case ".txt", ".md":
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", rel, err)
				}
				text = string(data)
			case ".pdf":
				text, err = extractPDFText(path)
				if err != nil {
					return fmt.Errorf("extract %s: %w", rel, err)
				}
			default:
				log.Debug().Str("file", rel).Msg("skipping unsupported file type")
				return nil
			}

			docs = append(docs, entity.Document{
				ID:     rel,
				Path:   path,
				Text:   text,
				Source: strings.TrimPrefix(ext, "."),
			})
			return nil
		},
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, dataDir)
	}
	return docs, nil
}

func extractPDFText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
