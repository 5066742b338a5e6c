package extract

import (
    "errors"
    "fmt"
    "strings"
    "unicode/utf8"

    "github.com/ledongthuc/pdf"
)

// PDF extracts plain text from a PDF file, page 1 through page N, in
// the text layer's reading order within each page.
type PDF struct{}

func (PDF) Extract(path string) (text string, err error) {
    // The pdf package panics on some malformed cross-reference tables
    // and font dictionaries; a corrupt document must fail this document
    // only, never the batch.
    defer func() {
        if r := recover(); r != nil {
            text = ""
            err = &Error{Path: path, Err: fmt.Errorf("malformed pdf: %v", r)}
        }
    }()

    f, reader, err := pdf.Open(path)
    if err != nil {
        return "", &Error{Path: path, Err: err}
    }
    defer f.Close()

    var b strings.Builder
    pages := reader.NumPage()
    for i := 1; i <= pages; i++ {
        page := reader.Page(i)
        if page.V.IsNull() {
            continue
        }
        pageText, err := page.GetPlainText(nil)
        if err != nil {
            // Image-only or undecodable pages carry no comparable text.
            continue
        }
        pageText = strings.TrimSpace(pageText)
        if pageText == "" {
            continue
        }
        if b.Len() > 0 {
            b.WriteString("\n")
        }
        b.WriteString(pageText)
    }

    out := b.String()
    if out == "" {
        return "", &Error{Path: path, Err: errors.New("no text content")}
    }
    if !utf8.ValidString(out) {
        // Re-encode so invalid sequences become U+FFFD instead of
        // poisoning downstream tokenization.
        var sb strings.Builder
        sb.Grow(len(out))
        for _, r := range out {
            sb.WriteRune(r)
        }
        out = sb.String()
    }
    return out, nil
}
