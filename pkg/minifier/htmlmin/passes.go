package htmlmin

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/htmlmin/pkg/dom"
	"github.com/jmylchreest/htmlmin/pkg/minifier/redundant"
)

// whitespaceRegex matches runs of whitespace characters.
var whitespaceRegex = regexp.MustCompile(`\s+`)

// booleanAttributes are attributes whose presence alone carries meaning.
// hidden is left out since hidden="until-found" is not boolean.
var booleanAttributes = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"inert":           true,
	"ismap":           true,
	"itemscope":       true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"nomodule":        true,
	"novalidate":      true,
	"open":            true,
	"playsinline":     true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

// emptyRemovable are attributes where an empty value means the same as no
// attribute at all.
var emptyRemovable = map[string]bool{
	"class": true,
	"id":    true,
	"style": true,
	"dir":   true,
}

// Text inside these elements is whitespace-sensitive or not text at all.
// noscript, noembed, noframes and iframe hold raw markup when parsed with
// scripting enabled.
var preserveWhitespace = map[atom.Atom]bool{
	atom.Pre:       true,
	atom.Textarea:  true,
	atom.Script:    true,
	atom.Style:     true,
	atom.Plaintext: true,
	atom.Xmp:       true,
	atom.Listing:   true,
	atom.Noscript:  true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Iframe:    true,
}

// removeBySelectors removes elements matching the configured selectors.
func (m *Minifier) removeBySelectors(doc *goquery.Document, result *Result) {
	for _, selector := range m.config.RemoveSelectors {
		selection := doc.Find(selector)
		count := selection.Length()
		if count == 0 {
			continue
		}
		result.Stats.RecordSelectorMatch(selector, count)
		selection.Each(func(_ int, s *goquery.Selection) {
			result.Stats.RecordRemoval(goquery.NodeName(s))
			s.Remove()
		})
	}
}

// removeComments drops comment nodes, optionally keeping conditional
// comments.
func (m *Minifier) removeComments(root *html.Node, result *Result) {
	dom.Walk(root, func(n *html.Node) *html.Node {
		if n.Type != html.CommentNode {
			return n
		}
		if m.config.KeepConditionalComments && isConditionalComment(n.Data) {
			return n
		}
		result.Stats.CommentsRemoved++
		return nil
	})
}

func isConditionalComment(data string) bool {
	data = strings.TrimSpace(data)
	return strings.HasPrefix(data, "[if") || strings.HasPrefix(data, "<![endif]") || strings.HasPrefix(data, "[endif]")
}

// stripRedundantAttributes runs the redundant attribute rules and folds
// their tally into the result.
func (m *Minifier) stripRedundantAttributes(root *html.Node, result *Result) {
	_, stats := redundant.StripWithStats(root)
	result.Stats.AttributesRemoved += stats.Removed
	result.Stats.AttributesNormalized += stats.Normalized
	for rule, count := range stats.ByRule {
		result.Stats.RuleHits[rule] += count
	}
}

// collapseBooleanAttributes blanks boolean attribute values on HTML
// elements.
func (m *Minifier) collapseBooleanAttributes(root *html.Node, result *Result) {
	dom.Walk(root, func(n *html.Node) *html.Node {
		if !dom.IsElement(n) || n.Namespace != "" {
			return n
		}
		for i := range n.Attr {
			a := &n.Attr[i]
			if a.Namespace != "" || a.Val == "" || !booleanAttributes[strings.ToLower(a.Key)] {
				continue
			}
			a.Val = ""
			result.Stats.BooleanAttributesCollapsed++
		}
		return n
	})
}

// removeEmptyAttributes removes attributes whose empty value is equivalent
// to their absence.
func (m *Minifier) removeEmptyAttributes(root *html.Node, result *Result) {
	dom.Walk(root, func(n *html.Node) *html.Node {
		if !dom.IsElement(n) || len(n.Attr) == 0 {
			return n
		}
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Namespace == "" && strings.TrimSpace(a.Val) == "" && isEmptyRemovable(a.Key) {
				result.Stats.EmptyAttributesRemoved++
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
		return n
	})
}

func isEmptyRemovable(key string) bool {
	key = strings.ToLower(key)
	return emptyRemovable[key] || (strings.HasPrefix(key, "on") && len(key) > 2)
}

// collapseWhitespace replaces whitespace runs in text nodes with a single
// space, skipping whitespace-sensitive elements.
func (m *Minifier) collapseWhitespace(root *html.Node, result *Result) {
	dom.Walk(root, func(n *html.Node) *html.Node {
		if n.Type != html.TextNode || inPreservedElement(n) {
			return n
		}
		collapsed := whitespaceRegex.ReplaceAllString(n.Data, " ")
		if collapsed != n.Data {
			n.Data = collapsed
			result.Stats.TextNodesCollapsed++
		}
		return n
	})
}

func inPreservedElement(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Namespace == "" && preserveWhitespace[dom.Tag(p)] {
			return true
		}
	}
	return false
}
