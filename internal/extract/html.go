package extract

import (
    "bytes"
    "os"
    "strings"

    "golang.org/x/net/html"
)

// HTML extracts the visible text of an HTML or XHTML document in
// document order. Parsing is tolerant: malformed markup still yields
// whatever text the parser can recover.
type HTML struct{}

// Elements whose subtree never contributes visible text. The last three
// are the structural tags the chapter source markup uses for navigation
// scaffolding rather than content.
var skipElements = map[string]struct{}{
    "script":   {},
    "style":    {},
    "noscript": {},
    "head":     {},
    "title":    {},
    "iframe":   {},
    "template": {},
    "toc":      {},
    "tocitem":  {},
    "page":     {},
}

// Elements that start a new visual block; a boundary keeps text from
// adjacent blocks from fusing into a single word.
var blockElements = map[string]struct{}{
    "p": {}, "div": {}, "section": {}, "article": {},
    "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
    "li": {}, "ul": {}, "ol": {}, "table": {}, "tr": {}, "td": {}, "th": {},
    "br": {}, "hr": {}, "blockquote": {}, "pre": {},
}

func (HTML) Extract(path string) (string, error) {
    raw, err := os.ReadFile(path)
    if err != nil {
        return "", &Error{Path: path, Err: err}
    }
    node, err := html.Parse(bytes.NewReader(raw))
    if err != nil || node == nil {
        return "", &Error{Path: path, Err: err}
    }
    var b strings.Builder
    collectText(&b, node)
    return b.String(), nil
}

// collectText walks the tree depth-first so the collected text matches
// visual reading order, skipping non-content subtrees entirely.
func collectText(b *strings.Builder, n *html.Node) {
    if n.Type == html.ElementNode {
        name := strings.ToLower(n.Data)
        if _, skip := skipElements[name]; skip {
            return
        }
        if _, block := blockElements[name]; block {
            b.WriteString("\n")
        }
    }
    if n.Type == html.TextNode {
        b.WriteString(n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        collectText(b, c)
    }
    if n.Type == html.ElementNode {
        if _, block := blockElements[strings.ToLower(n.Data)]; block {
            b.WriteString("\n")
        }
    }
}
