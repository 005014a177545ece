// Package dom provides tree walking and attribute helpers over
// golang.org/x/net/html nodes.
package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Visitor receives a node and returns the node that should take its place.
// Returning the same node leaves the tree unchanged. Returning nil detaches
// the node (and its subtree) from its parent.
type Visitor func(n *html.Node) *html.Node

// Walk visits root and every descendant exactly once, depth-first in
// document order. Children are walked after their parent has been visited,
// so they belong to whatever node the visitor returned.
// It returns the node that replaced root (root itself in the common case).
func Walk(root *html.Node, visit Visitor) *html.Node {
	if root == nil {
		return nil
	}

	repl := visit(root)
	if repl != root {
		replace(root, repl)
	}
	if repl == nil {
		return nil
	}

	for c := repl.FirstChild; c != nil; {
		// Captured before the visit in case c is detached.
		next := c.NextSibling
		Walk(c, visit)
		c = next
	}
	return repl
}

// replace swaps old for repl in old's parent. A nil repl detaches old.
func replace(old, repl *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	if repl != nil {
		if repl.Parent != nil {
			repl.Parent.RemoveChild(repl)
		}
		parent.InsertBefore(repl, old)
	}
	parent.RemoveChild(old)
}

// IsElement reports whether n is an element node.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// Tag returns the atom of an element node. Hand-built nodes often leave
// DataAtom unset, so the tag name is looked up as a fallback. Non-element
// nodes and unknown tags return 0.
func Tag(n *html.Node) atom.Atom {
	if !IsElement(n) {
		return 0
	}
	if n.DataAtom != 0 {
		return n.DataAtom
	}
	return atom.Lookup([]byte(n.Data))
}

// Attr returns the value of the attribute with exactly the given key.
func Attr(n *html.Node, key string) (string, bool) {
	if i := AttrIndex(n, key, false); i >= 0 {
		return n.Attr[i].Val, true
	}
	return "", false
}

// AttrFold is Attr with a case-insensitive key match. The first matching
// attribute wins.
func AttrFold(n *html.Node, key string) (string, bool) {
	if i := AttrIndex(n, key, true); i >= 0 {
		return n.Attr[i].Val, true
	}
	return "", false
}

// AttrIndex returns the position in n.Attr of the first non-namespaced
// attribute named key, or -1. With fold set the key matches
// case-insensitively.
func AttrIndex(n *html.Node, key string, fold bool) int {
	if n == nil {
		return -1
	}
	for i, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		if a.Key == key || (fold && strings.EqualFold(a.Key, key)) {
			return i
		}
	}
	return -1
}

// RemoveAttrAt deletes n.Attr[i], keeping the order of the rest.
// Out of range indexes are ignored.
func RemoveAttrAt(n *html.Node, i int) bool {
	if n == nil || i < 0 || i >= len(n.Attr) {
		return false
	}
	n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
	return true
}

// HasAttr reports whether n carries an attribute with exactly the given key.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets key to val, adding the attribute if it is missing.
func SetAttr(n *html.Node, key, val string) {
	if n == nil {
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes every attribute with exactly the given key and reports
// whether anything was removed.
func RemoveAttr(n *html.Node, key string) bool {
	return removeAttrs(n, func(k string) bool { return k == key })
}

// RemoveAttrFold deletes every attribute whose key matches case-insensitively.
func RemoveAttrFold(n *html.Node, key string) bool {
	return removeAttrs(n, func(k string) bool { return strings.EqualFold(k, key) })
}

func removeAttrs(n *html.Node, match func(string) bool) bool {
	if n == nil || len(n.Attr) == 0 {
		return false
	}
	kept := n.Attr[:0]
	removed := false
	for _, a := range n.Attr {
		if a.Namespace == "" && match(a.Key) {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
	return removed
}
