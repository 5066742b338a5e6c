package align

import (
    "reflect"
    "testing"

    "github.com/hyperifyio/gofidelity/internal/normalize"
)

func toks(s string) []normalize.Token {
    return normalize.Policy{}.Tokens(s)
}

func TestDiff_Identical(t *testing.T) {
    runs := Diff(toks("The quick brown fox"), toks("The quick brown fox"))
    if len(runs) != 0 {
        t.Fatalf("expected no runs for identical input, got %v", runs)
    }
}

func TestDiff_MissingWord(t *testing.T) {
    runs := Diff(toks("The quick brown fox"), toks("The quick fox"))
    if len(runs) != 1 {
        t.Fatalf("expected exactly one run, got %v", runs)
    }
    if runs[0].Kind != MissingFromRendered || runs[0].Text != "brown" {
        t.Fatalf("expected missing run 'brown', got %v %q", runs[0].Kind, runs[0].Text)
    }
}

func TestDiff_AddedWord(t *testing.T) {
    runs := Diff(toks("Section 1"), toks("Section 1 Introduction"))
    if len(runs) != 1 {
        t.Fatalf("expected exactly one run, got %v", runs)
    }
    if runs[0].Kind != AddedToRendered || runs[0].Text != "Introduction" {
        t.Fatalf("expected added run 'Introduction', got %v %q", runs[0].Kind, runs[0].Text)
    }
}

func TestDiff_ReplacementEmitsMissingFirst(t *testing.T) {
    runs := Diff(toks("alpha beta gamma"), toks("alpha delta gamma"))
    if len(runs) != 2 {
        t.Fatalf("expected two runs, got %v", runs)
    }
    if runs[0].Kind != MissingFromRendered || runs[0].Text != "beta" {
        t.Fatalf("first run should be missing 'beta', got %v %q", runs[0].Kind, runs[0].Text)
    }
    if runs[1].Kind != AddedToRendered || runs[1].Text != "delta" {
        t.Fatalf("second run should be added 'delta', got %v %q", runs[1].Kind, runs[1].Text)
    }
}

func TestDiff_OrderPreserved(t *testing.T) {
    source := toks("one two three four five six")
    rendered := toks("one three four extra five six")
    runs := Diff(source, rendered)
    if len(runs) != 2 {
        t.Fatalf("expected two runs, got %v", runs)
    }
    if runs[0].Text != "two" || runs[0].Kind != MissingFromRendered {
        t.Fatalf("expected 'two' missing first, got %v", runs)
    }
    if runs[1].Text != "extra" || runs[1].Kind != AddedToRendered {
        t.Fatalf("expected 'extra' added second, got %v", runs)
    }
}

func TestDiff_Coverage(t *testing.T) {
    cases := []struct{ source, rendered string }{
        {"", ""},
        {"only source text here", ""},
        {"", "only rendered text here"},
        {"a b c d e f g", "a x b c y z g"},
        {"the cat sat on the mat", "the dog sat on a mat today"},
        {"completely different words", "nothing shared at all"},
        {"repeat repeat repeat end", "repeat end repeat"},
    }
    for _, tc := range cases {
        source, rendered := toks(tc.source), toks(tc.rendered)
        runs := Diff(source, rendered)
        matched := MatchedCount(source, rendered)
        missing, added := 0, 0
        for _, r := range runs {
            switch r.Kind {
            case MissingFromRendered:
                missing += len(r.Tokens)
            case AddedToRendered:
                added += len(r.Tokens)
            }
        }
        if matched+missing != len(source) {
            t.Fatalf("%q vs %q: matched %d + missing %d != source %d",
                tc.source, tc.rendered, matched, missing, len(source))
        }
        if matched+added != len(rendered) {
            t.Fatalf("%q vs %q: matched %d + added %d != rendered %d",
                tc.source, tc.rendered, matched, added, len(rendered))
        }
    }
}

func TestDiff_Deterministic(t *testing.T) {
    source := toks("a b a b a c a b")
    rendered := toks("b a b c b a")
    first := Diff(source, rendered)
    for n := 0; n < 5; n++ {
        if got := Diff(source, rendered); !reflect.DeepEqual(got, first) {
            t.Fatalf("alignment not deterministic: %v vs %v", got, first)
        }
    }
}

func TestDiff_RunsAreMaximal(t *testing.T) {
    // Consecutive unmatched tokens on one side must land in one run.
    runs := Diff(toks("start middle words dropped here end"), toks("start end"))
    if len(runs) != 1 {
        t.Fatalf("expected a single maximal run, got %v", runs)
    }
    if runs[0].Text != "middle words dropped here" {
        t.Fatalf("got %q", runs[0].Text)
    }
}

func TestDiff_TrailingRepeatMatchesEarliest(t *testing.T) {
    // The repeated trailing token must match at its first rendered
    // occurrence, splitting the extra tokens into two runs. A latest
    // match would merge them into one "a b" run.
    runs := Diff(toks("b"), toks("a b b"))
    if len(runs) != 2 {
        t.Fatalf("expected two runs, got %v", runs)
    }
    if runs[0].Kind != AddedToRendered || runs[0].Text != "a" {
        t.Fatalf("first run should be added 'a', got %v %q", runs[0].Kind, runs[0].Text)
    }
    if runs[1].Kind != AddedToRendered || runs[1].Text != "b" {
        t.Fatalf("second run should be added 'b', got %v %q", runs[1].Kind, runs[1].Text)
    }
}

func TestDiff_TrailingRepeatInSourceMatchesEarliest(t *testing.T) {
    runs := Diff(toks("a b b"), toks("b"))
    if len(runs) != 2 {
        t.Fatalf("expected two runs, got %v", runs)
    }
    if runs[0].Kind != MissingFromRendered || runs[0].Text != "a" {
        t.Fatalf("first run should be missing 'a', got %v %q", runs[0].Kind, runs[0].Text)
    }
    if runs[1].Kind != MissingFromRendered || runs[1].Text != "b" {
        t.Fatalf("second run should be missing 'b', got %v %q", runs[1].Kind, runs[1].Text)
    }
}

func TestMatchedCount_MaximizesMatches(t *testing.T) {
    // A greedy first-match strategy would pair the leading "b" of the
    // rendered side and lose the longer tail; LCS must keep 3 matches.
    source := toks("a b c")
    rendered := toks("b a b c")
    if got := MatchedCount(source, rendered); got != 3 {
        t.Fatalf("expected 3 matched tokens, got %d", got)
    }
}
