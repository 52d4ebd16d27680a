// Package backup implements the export/import boundary: the whole document
// travels as one JSON file, optionally gzipped. Import checks only the
// minimal top-level shape; nested records are accepted as-is.
package backup

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/claude/setlog/internal/models"
)

// ErrInvalidImport is returned for payloads that are not a recognizable
// document. The caller's current data is left untouched.
var ErrInvalidImport = errors.New("invalid import payload")

// gzipMagic is the two-byte gzip stream header.
var gzipMagic = []byte{0x1f, 0x8b}

// Export serializes the document for download.
func Export(doc *models.Document) ([]byte, error) {
	return doc.Encode()
}

// ExportGzip serializes and gzips the document.
func ExportGzip(doc *models.Document) ([]byte, error) {
	data, err := doc.Encode()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing export: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing export: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses a backup payload into a document. The payload must be JSON
// (optionally gzipped) with a top-level "exercises" field; anything else is
// rejected with ErrInvalidImport. No deep validation is performed.
func Import(data []byte) (*models.Document, error) {
	if bytes.HasPrefix(data, gzipMagic) {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: bad gzip stream: %v", ErrInvalidImport, err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("%w: bad gzip stream: %v", ErrInvalidImport, err)
		}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidImport, err)
	}
	if _, ok := top["exercises"]; !ok {
		return nil, fmt.Errorf("%w: missing exercises field", ErrInvalidImport)
	}

	doc, err := models.DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return doc, nil
}
