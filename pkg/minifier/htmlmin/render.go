package htmlmin

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/htmlmin/pkg/dom"
)

// RenderOptions controls the serializer.
type RenderOptions struct {
	// CollapseEmptyAttributes writes `preload` instead of `preload=""`.
	CollapseEmptyAttributes bool

	// UnquoteAttributes writes `type=email` instead of `type="email"` when
	// the value contains no character that needs quoting.
	UnquoteAttributes bool
}

var voidElements = map[atom.Atom]bool{
	atom.Area:   true,
	atom.Base:   true,
	atom.Br:     true,
	atom.Col:    true,
	atom.Embed:  true,
	atom.Hr:     true,
	atom.Img:    true,
	atom.Input:  true,
	atom.Keygen: true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Param:  true,
	atom.Source: true,
	atom.Track:  true,
	atom.Wbr:    true,
}

// Text children of these elements are written verbatim.
var rawTextElements = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Noscript:  true,
	atom.Plaintext: true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Xmp:       true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;")
)

// Render writes the compact HTML serialization of n to w.
func Render(w io.Writer, n *html.Node, opts RenderOptions) error {
	if bw, ok := w.(*bufio.Writer); ok {
		return render(bw, n, opts)
	}
	bw := bufio.NewWriter(w)
	if err := render(bw, n, opts); err != nil {
		return err
	}
	return bw.Flush()
}

func render(w *bufio.Writer, n *html.Node, opts RenderOptions) error {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := render(w, c, opts); err != nil {
				return err
			}
		}
		return nil
	case html.DoctypeNode:
		return html.Render(w, n)
	case html.CommentNode:
		_, err := w.WriteString("<!--" + n.Data + "-->")
		return err
	case html.TextNode:
		_, err := textEscaper.WriteString(w, n.Data)
		return err
	case html.RawNode:
		_, err := w.WriteString(n.Data)
		return err
	case html.ElementNode:
		return renderElement(w, n, opts)
	default:
		return fmt.Errorf("htmlmin: unknown node type %d", n.Type)
	}
}

func renderElement(w *bufio.Writer, n *html.Node, opts RenderOptions) error {
	selfClosing := n.Namespace != "" && n.FirstChild == nil

	w.WriteByte('<')
	w.WriteString(n.Data)
	for i, a := range n.Attr {
		w.WriteByte(' ')
		if a.Namespace != "" {
			w.WriteString(a.Namespace)
			w.WriteByte(':')
		}
		w.WriteString(a.Key)

		// An unquoted value would absorb the '/' of "/>".
		valueOpts := opts
		if selfClosing && i == len(n.Attr)-1 {
			valueOpts.UnquoteAttributes = false
		}
		writeAttrValue(w, a.Val, valueOpts)
	}

	tag := dom.Tag(n)
	if n.Namespace == "" && voidElements[tag] {
		if n.FirstChild != nil {
			return fmt.Errorf("htmlmin: void element <%s> has child nodes", n.Data)
		}
		return w.WriteByte('>')
	}
	if selfClosing {
		_, err := w.WriteString("/>")
		return err
	}
	w.WriteByte('>')

	// A single leading newline is dropped by the parser in these elements.
	if c := n.FirstChild; c != nil && c.Type == html.TextNode && strings.HasPrefix(c.Data, "\n") {
		switch n.Data {
		case "pre", "listing", "textarea":
			w.WriteByte('\n')
		}
	}

	raw := n.Namespace == "" && rawTextElements[tag]
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if raw && c.Type == html.TextNode {
			w.WriteString(c.Data)
			continue
		}
		if err := render(w, c, opts); err != nil {
			return err
		}
	}

	w.WriteString("</")
	w.WriteString(n.Data)
	return w.WriteByte('>')
}

func writeAttrValue(w *bufio.Writer, val string, opts RenderOptions) {
	switch {
	case val == "" && opts.CollapseEmptyAttributes:
		return
	case opts.UnquoteAttributes && canUnquote(val):
		w.WriteByte('=')
		attrEscaper.WriteString(w, val)
	default:
		w.WriteString(`="`)
		attrEscaper.WriteString(w, val)
		w.WriteByte('"')
	}
}

// canUnquote reports whether val is a valid unquoted attribute value.
func canUnquote(val string) bool {
	return val != "" && !strings.ContainsAny(val, " \t\n\f\r\"'=<>`")
}
