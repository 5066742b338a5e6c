package normalize

import (
    "reflect"
    "testing"
)

func TestText_Idempotent(t *testing.T) {
    inputs := []string{
        "",
        "The quick brown fox",
        "  leading and trailing  ",
        "tabs\tand\nnewlines\r\nand  runs   of spaces",
        "non breaking spaces",
        "curly ‘quotes’ and “doubles” and… an ellipsis",
        "exam-\nple of hyphen-\nbreaks",
        "What This Chapter Covers ......... 3",
    }
    policies := []Policy{
        {},
        {CaseFold: true},
        {StripPunct: true},
        {StripArtifacts: true},
        {CaseFold: true, StripPunct: true, StripArtifacts: true},
    }
    for _, p := range policies {
        for _, in := range inputs {
            once := p.Text(in)
            twice := p.Text(once)
            if once != twice {
                t.Fatalf("not idempotent for %+v on %q: %q != %q", p, in, once, twice)
            }
        }
    }
}

func TestTokens_HyphenRejoin(t *testing.T) {
    tokens := Policy{}.Tokens("exam-\nple")
    if len(tokens) != 1 || tokens[0].Text != "example" {
        t.Fatalf("expected single token 'example', got %v", tokens)
    }
}

func TestTokens_HyphenNotRejoinedBeforeUppercase(t *testing.T) {
    // An uppercase continuation is not a broken word; the hyphen stays.
    tokens := Policy{}.Tokens("intra-\nEuropean")
    if len(tokens) != 2 || tokens[0].Text != "intra-" || tokens[1].Text != "European" {
        t.Fatalf("expected ['intra-' 'European'], got %v", tokens)
    }
}

func TestTokens_WhitespaceCollapse(t *testing.T) {
    tokens := Policy{}.Tokens("  a \t b  c \r\n d  ")
    got := make([]string, len(tokens))
    for i, tok := range tokens {
        got[i] = tok.Text
    }
    want := []string{"a", "b", "c", "d"}
    if !reflect.DeepEqual(got, want) {
        t.Fatalf("expected %v, got %v", want, got)
    }
    for i, tok := range tokens {
        if tok.Pos != i {
            t.Fatalf("token %d has Pos %d", i, tok.Pos)
        }
    }
}

func TestText_LiteralDefaultPreservesCaseAndPunct(t *testing.T) {
    got := Policy{}.Text("Section 1. The End?")
    if got != "Section 1. The End?" {
        t.Fatalf("default policy must preserve case and punctuation, got %q", got)
    }
}

func TestText_CaseFoldAndStripPunct(t *testing.T) {
    p := Policy{CaseFold: true, StripPunct: true}
    got := p.Text("Section 1. The End?")
    if got != "section 1 the end" {
        t.Fatalf("got %q", got)
    }
}

func TestText_StripArtifacts(t *testing.T) {
    p := Policy{StripArtifacts: true}
    in := "What This Chapter Covers ......... 3 Chapter 200 : 3 01/28/2021 body text"
    got := p.Text(in)
    if got != "What This Chapter Covers body text" {
        t.Fatalf("got %q", got)
    }
}

func TestJoin_RoundTrip(t *testing.T) {
    p := Policy{}
    text := p.Text("some   ordinary\n input text")
    if Join(p.Tokens(text)) != text {
        t.Fatalf("Join(Tokens(text)) != text for %q", text)
    }
}
