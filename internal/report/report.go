// Package report serializes comparison results: one CSV per pair, plus
// optional batch-level Markdown and JSON summaries.
package report

import (
    "encoding/csv"
    "encoding/json"
    "fmt"
    "os"
    "strings"
    "unicode/utf8"

    "github.com/hyperifyio/gofidelity/internal/align"
    "github.com/hyperifyio/gofidelity/internal/severity"
)

// WriteError reports a report file that could not be persisted. Like
// extraction failures it is scoped to one pair.
type WriteError struct {
    Path string
    Err  error
}

func (e *WriteError) Error() string {
    return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Finding is one reportable discrepancy for the batch-level formats.
type Finding struct {
    Type     string
    Text     string
    Severity severity.Level
    Source   string // "algorithmic" or "llm"
}

// PairResult carries the findings of one successfully processed pair.
type PairResult struct {
    Basename string
    Findings []Finding
}

// KindLabel is the human-facing column value for a run kind.
func KindLabel(k align.Kind) string {
    if k == align.AddedToRendered {
        return "Added to HTML"
    }
    return "Missing from HTML"
}

// WriteCSV writes the per-pair report: a Type,Text header followed by
// one row per run. Zero runs still produce the header-only file; that
// is how a clean pair is represented.
func WriteCSV(path string, runs []align.Run) error {
    f, err := os.Create(path)
    if err != nil {
        return &WriteError{Path: path, Err: err}
    }
    w := csv.NewWriter(f)
    if err := w.Write([]string{"Type", "Text"}); err != nil {
        f.Close()
        return &WriteError{Path: path, Err: err}
    }
    for _, r := range runs {
        if err := w.Write([]string{KindLabel(r.Kind), r.Text}); err != nil {
            f.Close()
            return &WriteError{Path: path, Err: err}
        }
    }
    w.Flush()
    if err := w.Error(); err != nil {
        f.Close()
        return &WriteError{Path: path, Err: err}
    }
    if err := f.Close(); err != nil {
        return &WriteError{Path: path, Err: err}
    }
    return nil
}

// WriteMarkdown writes a batch summary report: totals by severity, then
// one table per pair in batch order.
func WriteMarkdown(path string, results []PairResult) error {
    var b strings.Builder
    b.WriteString("# Fidelity Check Report\n\n")

    var low, medium, high int
    for _, res := range results {
        for _, fd := range res.Findings {
            switch fd.Severity {
            case severity.High:
                high++
            case severity.Medium:
                medium++
            default:
                low++
            }
        }
    }
    b.WriteString("## Summary\n\n")
    fmt.Fprintf(&b, "- Pairs checked: %d\n", len(results))
    fmt.Fprintf(&b, "- Total discrepancies: %d\n", low+medium+high)
    fmt.Fprintf(&b, "  - HIGH: %d\n", high)
    fmt.Fprintf(&b, "  - MEDIUM: %d\n", medium)
    fmt.Fprintf(&b, "  - LOW: %d\n", low)
    b.WriteString("\n")

    for _, res := range results {
        fmt.Fprintf(&b, "## %s\n\n", res.Basename)
        if len(res.Findings) == 0 {
            b.WriteString("No discrepancies found.\n\n")
            continue
        }
        b.WriteString("| Severity | Type | Text | Source |\n")
        b.WriteString("| :------- | :--- | :--- | :----- |\n")
        for _, fd := range res.Findings {
            fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
                fd.Severity, fd.Type, mdCell(fd.Text), fd.Source)
        }
        b.WriteString("\n")
    }

    if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
        return &WriteError{Path: path, Err: err}
    }
    return nil
}

type jsonFinding struct {
    Severity string `json:"severity"`
    Type     string `json:"type"`
    Text     string `json:"text"`
    Source   string `json:"source"`
}

// WriteJSON writes the batch results keyed by basename.
func WriteJSON(path string, results []PairResult) error {
    out := make(map[string][]jsonFinding, len(results))
    for _, res := range results {
        findings := make([]jsonFinding, 0, len(res.Findings))
        for _, fd := range res.Findings {
            findings = append(findings, jsonFinding{
                Severity: fd.Severity.String(),
                Type:     fd.Type,
                Text:     fd.Text,
                Source:   fd.Source,
            })
        }
        out[res.Basename] = findings
    }
    data, err := json.MarshalIndent(out, "", "  ")
    if err != nil {
        return &WriteError{Path: path, Err: err}
    }
    if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
        return &WriteError{Path: path, Err: err}
    }
    return nil
}

const mdCellMax = 120

func mdCell(s string) string {
    s = strings.ReplaceAll(s, "|", `\|`)
    s = strings.ReplaceAll(s, "\n", " ")
    if len(s) > mdCellMax {
        // Back up to a rune boundary so truncation never emits a
        // partial multibyte sequence.
        cut := mdCellMax - 3
        for cut > 0 && !utf8.RuneStart(s[cut]) {
            cut--
        }
        s = s[:cut] + "..."
    }
    return s
}
