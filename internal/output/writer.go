// Package output serializes import job documents and writes them to disk.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"importjob/internal/importjob"
	"importjob/internal/logging"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755
)

// Encode renders doc as indented JSON with a trailing newline.
// Section text is emitted as-is, so '<', '>' and '&' are not escaped.
func Encode(doc *importjob.Document, indent int) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	if indent < 1 {
		indent = 2
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDocument encodes doc and replaces path atomically. The parent
// directory is created when missing. Nothing is written when encoding fails.
func WriteDocument(path string, doc *importjob.Document, indent int) error {
	data, err := Encode(doc, indent)
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return err
	}
	logging.Output("Wrote %s (%d bytes, %d service rule sets)", path, len(data), len(doc.Rules))
	return nil
}

// WriteFileAtomic writes data to a temp file beside path and renames it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, filePerm)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	logging.OutputDebug("Renamed %s to %s", tmpPath, path)
	return nil
}

// Compare reports whether the file at path already holds exactly data.
// A missing file counts as different.
func Compare(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	return bytes.Equal(existing, data), nil
}
