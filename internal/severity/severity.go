// Package severity grades discrepancy runs by how likely they are to be
// genuine content errors rather than extraction artifacts, so reviewers
// can triage long reports.
package severity

import (
    "regexp"
    "strings"

    "github.com/hyperifyio/gofidelity/internal/align"
)

// Level orders from least to most likely a real content problem.
type Level int

const (
    Low Level = iota
    Medium
    High
)

func (l Level) String() string {
    switch l {
    case Low:
        return "LOW"
    case Medium:
        return "MEDIUM"
    case High:
        return "HIGH"
    }
    return "UNKNOWN"
}

// Parse maps a level name back to a Level. Unknown input is Medium,
// the same default Classify falls back to.
func Parse(s string) Level {
    switch strings.ToUpper(strings.TrimSpace(s)) {
    case "LOW":
        return Low
    case "HIGH":
        return High
    }
    return Medium
}

var (
    punctOnlyRe = regexp.MustCompile(`^[.,;:!?()\[\]"'-]+$`)
    // Bare section-number delimiters such as ".202" or "204.3".
    sectionNumRe = regexp.MustCompile(`^\.?\d{1,4}(\.\d+)?\.?$`)
    dotLeaderRe  = regexp.MustCompile(`^\.{2,}$`)
    digitRe      = regexp.MustCompile(`\d`)
    // TOC-like text: several section numbers each followed by a
    // capitalized title word, e.g. "201 What ... 202 Purposes ...".
    tocRe = regexp.MustCompile(`(\d{3,4}(\.\d+)?\s+[A-Z][a-z]+.*?){3,}`)
)

// Substantial text threshold: a dropped or invented span of this many
// words is reported High regardless of content.
const substantialRunTokens = 8

// Classify grades one run. Rules, in priority order, follow the manual
// triage practice for scanned-chapter QA:
//
//  1. dot leaders and TOC-style number/title listings -> Low
//     (layout artifacts of the PDF that the HTML legitimately omits)
//  2. punctuation-only or bare section-number runs -> Medium
//  3. runs containing digits -> High (a changed reference or number)
//  4. runs of substantialRunTokens or more words -> High
//  5. anything else -> Medium
func Classify(r align.Run) Level {
    text := strings.TrimSpace(r.Text)
    if text == "" {
        return Low
    }
    if allTokensMatch(r, dotLeaderRe) || tocRe.MatchString(text) {
        return Low
    }
    if allTokensMatch(r, punctOnlyRe) || allTokensMatch(r, sectionNumRe) {
        return Medium
    }
    if digitRe.MatchString(text) {
        return High
    }
    if len(r.Tokens) >= substantialRunTokens {
        return High
    }
    return Medium
}

// Highest returns the maximum level among the classified runs, Low when
// there are none.
func Highest(runs []align.Run) Level {
    max := Low
    for _, r := range runs {
        if l := Classify(r); l > max {
            max = l
        }
    }
    return max
}

func allTokensMatch(r align.Run, re *regexp.Regexp) bool {
    for _, t := range r.Tokens {
        if !re.MatchString(t.Text) {
            return false
        }
    }
    return len(r.Tokens) > 0
}
