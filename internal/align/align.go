// Package align computes an order-preserving alignment between the
// token sequence extracted from a source PDF and the one extracted from
// its rendered HTML, and classifies every unmatched span.
package align

import (
    "github.com/hyperifyio/gofidelity/internal/normalize"
)

// Kind tags a run of unmatched tokens by which side it belongs to.
type Kind int

const (
    // MissingFromRendered marks source tokens absent from the HTML.
    MissingFromRendered Kind = iota
    // AddedToRendered marks HTML tokens absent from the source.
    AddedToRendered
)

func (k Kind) String() string {
    switch k {
    case MissingFromRendered:
        return "missing_from_rendered"
    case AddedToRendered:
        return "added_to_rendered"
    }
    return "unknown"
}

// Run is a maximal contiguous span of unmatched tokens from one side of
// the alignment. Text is the space-joined literal token text.
type Run struct {
    Kind   Kind
    Tokens []normalize.Token
    Text   string
}

// Diff aligns the two sequences on a longest common subsequence of
// token text and returns the unmatched runs in reading order. The
// alignment maximizes the number of matched tokens; ties are broken by
// matching as early as possible in both sequences, so output is
// deterministic. Together with the matched spans the returned runs
// partition both inputs exactly: every token is either matched or
// inside exactly one run.
//
// Where a source run and a rendered run meet at the same alignment gap
// (a replacement), the missing-from-rendered run is emitted first.
func Diff(source, rendered []normalize.Token) []Run {
    a := texts(source)
    b := texts(rendered)
    pairs := lcsPairs(a, b)

    var runs []Run
    i, j := 0, 0
    emit := func(endA, endB int) {
        if endA > i {
            runs = append(runs, newRun(MissingFromRendered, source[i:endA]))
        }
        if endB > j {
            runs = append(runs, newRun(AddedToRendered, rendered[j:endB]))
        }
    }
    for _, p := range pairs {
        emit(p[0], p[1])
        i, j = p[0]+1, p[1]+1
    }
    emit(len(source), len(rendered))
    return runs
}

// MatchedCount reports how many token pairs the alignment in Diff
// matches for the given sequences. Exposed so callers can account for
// every token: len(source) == matched + missing, len(rendered) ==
// matched + added.
func MatchedCount(source, rendered []normalize.Token) int {
    return len(lcsPairs(texts(source), texts(rendered)))
}

func newRun(kind Kind, tokens []normalize.Token) Run {
    cp := make([]normalize.Token, len(tokens))
    copy(cp, tokens)
    return Run{Kind: kind, Tokens: cp, Text: normalize.Join(cp)}
}

func texts(tokens []normalize.Token) []string {
    out := make([]string, len(tokens))
    for i, t := range tokens {
        out[i] = t.Text
    }
    return out
}

// lcsPairs returns the matched index pairs (i into a, j into b) of a
// longest common subsequence, in ascending order on both sides. It uses
// Hirschberg's divide-and-conquer so memory stays linear in the shorter
// sequence even for book-length chapters. A final pass shifts every
// match to its earliest valid position, which yields the earliest-match
// tie-break.
func lcsPairs(a, b []string) [][2]int {
    // Trim common prefix and suffix first; chapters are mostly equal and
    // this keeps the quadratic part small.
    pre := 0
    for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
        pre++
    }
    suf := 0
    for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
        suf++
    }

    pairs := make([][2]int, 0, pre+suf)
    for i := 0; i < pre; i++ {
        pairs = append(pairs, [2]int{i, i})
    }
    mid := hirschberg(a[pre:len(a)-suf], b[pre:len(b)-suf], pre, pre)
    pairs = append(pairs, mid...)
    for i := suf; i > 0; i-- {
        pairs = append(pairs, [2]int{len(a) - i, len(b) - i})
    }
    earliest(pairs, a, b)
    return pairs
}

// earliest shifts each matched pair to the smallest indices, after the
// previous pair, where the same token occurs. The common-suffix trim
// above anchors its matches as late as possible; this pass restores the
// earliest-match tie-break without changing which tokens are matched.
func earliest(pairs [][2]int, a, b []string) {
    prevI, prevJ := -1, -1
    for k, p := range pairs {
        t := a[p[0]]
        for i := prevI + 1; i < p[0]; i++ {
            if a[i] == t {
                p[0] = i
                break
            }
        }
        for j := prevJ + 1; j < p[1]; j++ {
            if b[j] == t {
                p[1] = j
                break
            }
        }
        pairs[k] = p
        prevI, prevJ = p[0], p[1]
    }
}

func hirschberg(a, b []string, offA, offB int) [][2]int {
    if len(a) == 0 || len(b) == 0 {
        return nil
    }
    if len(a) == 1 {
        for j, s := range b {
            if s == a[0] {
                return [][2]int{{offA, offB + j}}
            }
        }
        return nil
    }
    mid := len(a) / 2
    left := lcsLengths(a[:mid], b)
    right := lcsLengths(reverse(a[mid:]), reverse(b))

    split, best := 0, -1
    for k := 0; k <= len(b); k++ {
        if v := left[k] + right[len(b)-k]; v > best {
            best, split = v, k
        }
    }
    out := hirschberg(a[:mid], b[:split], offA, offB)
    return append(out, hirschberg(a[mid:], b[split:], offA+mid, offB+split)...)
}

// lcsLengths returns the final row of the LCS length table for a vs b:
// out[j] is the LCS length of a and b[:j].
func lcsLengths(a, b []string) []int {
    prev := make([]int, len(b)+1)
    cur := make([]int, len(b)+1)
    for i := range a {
        cur[0] = 0
        for j := range b {
            if a[i] == b[j] {
                cur[j+1] = prev[j] + 1
            } else if prev[j+1] >= cur[j] {
                cur[j+1] = prev[j+1]
            } else {
                cur[j+1] = cur[j]
            }
        }
        prev, cur = cur, prev
    }
    return prev
}

func reverse(s []string) []string {
    out := make([]string, len(s))
    for i, v := range s {
        out[len(s)-1-i] = v
    }
    return out
}
