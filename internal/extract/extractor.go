// Package extract pulls ordered plain text out of the two document
// formats a chapter pair consists of: the scanned source PDF and the
// rendered HTML/XHTML produced by the conversion pipeline.
package extract

import (
    "fmt"
    "path/filepath"
    "strings"
)

// Extractor converts one document into a single ordered text string in
// reading order. Implementations are selected by file type; they must
// be deterministic and must not write anything.
type Extractor interface {
    Extract(path string) (string, error)
}

// Error reports a document that could not be read or parsed. It covers
// exactly one document; callers skip the pair and continue the batch.
type Error struct {
    Path string
    Err  error
}

func (e *Error) Error() string {
    return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ForPath selects an extractor by file extension. The second return is
// false when the extension is not a supported document type.
func ForPath(path string) (Extractor, bool) {
    switch strings.ToLower(filepath.Ext(path)) {
    case ".pdf":
        return PDF{}, true
    case ".html", ".xhtml", ".htm":
        return HTML{}, true
    }
    return nil, false
}
