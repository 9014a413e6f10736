// Package markup preprocesses question markup before cloze scanning.
package markup

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var errNoBody = errors.New("parsed document has no body")

// PluginFileMarker is the reserved src prefix for images that must be
// resolved from the side-channel image manifest instead of fetched directly.
const PluginFileMarker = "@@PLUGINFILE@@/"

// imageRecord accepts the three payload field names seen from the pipeline;
// the first non-empty one wins.
type imageRecord struct {
	ImgBase64   string `json:"img_base64"`
	ImageBase64 string `json:"image_base64"`
	Base64      string `json:"base64"`
}

func (r imageRecord) payload() string {
	if r.ImgBase64 != "" {
		return r.ImgBase64
	}
	if r.ImageBase64 != "" {
		return r.ImageBase64
	}
	return r.Base64
}

var (
	extRe = regexp.MustCompile(`\.([a-zA-Z0-9]+)(?:\?|$)`)
	// Fallback-path matchers, used only when tree parsing fails.
	imgTagRe = regexp.MustCompile(`<img\b[^>]*src="` + regexp.QuoteMeta(PluginFileMarker) + `[^"]+"[^>]*>`)
	srcRe    = regexp.MustCompile(`src="[^"]+"`)
)

// mimeFromExt derives the inline MIME type from the extension embedded in
// the original src. The pipeline emits jpeg most of the time, so that is the
// default.
func mimeFromExt(src string) string {
	ext := ""
	if m := extRe.FindStringSubmatch(src); m != nil {
		ext = strings.ToLower(m[1])
	}
	switch ext {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ReplacePluginImages rewrites marker-prefixed image references in markup to
// inline data URIs. The i-th marked image element in document order is paired
// with the i-th record of imagesJSON — alignment is positional, not
// content-based. Records without a payload and elements beyond the record
// count are left untouched. Absent, empty or malformed imagesJSON returns the
// markup unchanged; the transform never fails.
func ReplacePluginImages(markup, imagesJSON string) string {
	if markup == "" || imagesJSON == "" {
		return markup
	}
	var images []imageRecord
	if err := json.Unmarshal([]byte(imagesJSON), &images); err != nil || len(images) == 0 {
		return markup
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return replaceSequential(markup, images)
	}

	idx := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			if src, ok := attr(n, "src"); ok && strings.HasPrefix(src, PluginFileMarker) {
				if idx < len(images) {
					if data := images[idx].payload(); data != "" {
						setAttr(n, "src", "data:"+mimeFromExt(src)+";base64,"+data)
					}
				}
				idx++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	rendered, err := renderBody(doc)
	if err != nil {
		return replaceSequential(markup, images)
	}
	return rendered
}

// replaceSequential achieves the same positional alignment with plain string
// matching, accepting reduced robustness against malformed markup.
func replaceSequential(markup string, images []imageRecord) string {
	idx := 0
	return imgTagRe.ReplaceAllStringFunc(markup, func(tag string) string {
		i := idx
		idx++
		if i >= len(images) {
			return tag
		}
		data := images[i].payload()
		if data == "" {
			return tag
		}
		src := strings.TrimSuffix(strings.TrimPrefix(srcRe.FindString(tag), `src="`), `"`)
		return srcRe.ReplaceAllString(tag, `src="data:`+mimeFromExt(src)+";base64,"+data+`"`)
	})
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// renderBody serializes the children of <body>, dropping the wrapper
// elements html.Parse adds around fragments.
func renderBody(doc *html.Node) (string, error) {
	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
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
