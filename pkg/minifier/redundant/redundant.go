// Package redundant removes HTML attributes that restate an element's
// implicit default, and blanks attributes whose default is equivalent to an
// empty value so a serializer can drop their value entirely.
//
// Every element goes through two tables. Removal rules always run before
// empty-default rules on the same element: an attribute that appears in both
// (button[type=submit], input[type=text]) is deleted, never blanked, because
// the empty-default lookup no longer finds it.
package redundant

import (
	"golang.org/x/net/html"

	"github.com/jmylchreest/htmlmin/pkg/dom"
)

// Stats tallies the changes made by StripWithStats.
type Stats struct {
	Removed    int            `json:"removed"`
	Normalized int            `json:"normalized"`
	ByRule     map[string]int `json:"by_rule"` // "tag[attr]" -> count
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{ByRule: make(map[string]int)}
}

func (s *Stats) record(tag, attr string, removed bool) {
	if s == nil {
		return
	}
	if removed {
		s.Removed++
	} else {
		s.Normalized++
	}
	s.ByRule[tag+"["+attr+"]"]++
}

// Strip applies both rule tables to every element under root, mutating
// attributes in place. The tree structure is never changed. It returns root.
func Strip(root *html.Node) *html.Node {
	return dom.Walk(root, StripNode)
}

// StripWithStats is Strip that also reports what changed.
func StripWithStats(root *html.Node) (*html.Node, *Stats) {
	stats := NewStats()
	out := dom.Walk(root, func(n *html.Node) *html.Node {
		return stripNode(n, stats)
	})
	return out, stats
}

// StripNode applies both rule tables to a single node and returns it.
// Non-element nodes are returned untouched.
func StripNode(n *html.Node) *html.Node {
	return stripNode(n, nil)
}

func stripNode(n *html.Node, stats *Stats) *html.Node {
	tag := dom.Tag(n)
	if tag == 0 {
		return n
	}

	// Removal must precede normalization, see the package comment.
	for _, r := range removalRules[tag] {
		// Only the attribute the rule looked at is deleted. A repeated key
		// is then checked again, so a later redundant duplicate goes too
		// while a meaningful one (type="module") stays.
		for {
			i := dom.AttrIndex(n, r.attr, r.fold)
			if i < 0 || !r.rule.Matches(n, n.Attr[i].Val) {
				break
			}
			dom.RemoveAttrAt(n, i)
			stats.record(n.Data, r.attr, true)
		}
	}

	for _, r := range emptyDefaultRules[tag] {
		for i := range n.Attr {
			a := &n.Attr[i]
			if a.Namespace != "" || a.Key != r.attr || a.Val != r.rule.literal {
				continue
			}
			a.Val = ""
			stats.record(n.Data, r.attr, false)
		}
	}

	return n
}
