package cloze

import (
	"errors"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var errNoBody = errors.New("parsed document has no body")

// AnchorAttr is the attribute carrying the token position on widget anchors
// inserted by ScanDocument.
const AnchorAttr = "data-cloze"

// ScanDocument walks the parsed markup tree and splits placeholder tokens out
// of text nodes only, leaving surrounding element structure (notably table
// rows and cells) intact. Each token is replaced in place with an empty
// <span data-cloze="N"> anchor, N being the document-order scan position.
// Returns the rewritten markup and the ordered token list.
//
// Markup without placeholders is returned unchanged. If the markup cannot be
// parsed as a document tree the whole string is split linearly instead, which
// flattens nothing for plain paragraph content but loses robustness against
// malformed structural markup.
func ScanDocument(markup string) (string, []Token) {
	if !ContainsToken(markup) {
		return markup, nil
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return scanLinear(markup)
	}

	var textNodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && ContainsToken(n.Data) {
			textNodes = append(textNodes, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var tokens []Token
	for _, textNode := range textNodes {
		segments := Split(textNode.Data, len(tokens))
		parent := textNode.Parent
		for _, seg := range segments {
			var node *html.Node
			if seg.Token != nil {
				tokens = append(tokens, *seg.Token)
				node = anchorNode(seg.Token.Position)
			} else {
				node = &html.Node{Type: html.TextNode, Data: seg.Literal}
			}
			parent.InsertBefore(node, textNode)
		}
		parent.RemoveChild(textNode)
	}

	rendered, err := renderBody(doc)
	if err != nil {
		return scanLinear(markup)
	}
	return rendered, tokens
}

// scanLinear is the whole-string split strategy: literal runs are emitted
// verbatim with anchors interleaved, no tree awareness.
func scanLinear(markup string) (string, []Token) {
	segments := Split(markup, 0)
	var sb strings.Builder
	var tokens []Token
	for _, seg := range segments {
		if seg.Token == nil {
			sb.WriteString(seg.Literal)
			continue
		}
		tokens = append(tokens, *seg.Token)
		sb.WriteString(`<span ` + AnchorAttr + `="` + strconv.Itoa(seg.Token.Position) + `"></span>`)
	}
	return sb.String(), tokens
}

func anchorNode(position int) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr:     []html.Attribute{{Key: AnchorAttr, Val: strconv.Itoa(position)}},
	}
}

// renderBody serializes the children of <body>, i.e. the markup fragment
// without the html/head/body wrapper html.Parse adds.
func renderBody(doc *html.Node) (string, error) {
	body := findBody(doc)
	if body == nil {
		return "", errNoBody
	}
	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if body := findBody(c); body != nil {
			return body
		}
	}
	return nil
}
