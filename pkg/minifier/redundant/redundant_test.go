package redundant

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/jmylchreest/htmlmin/pkg/dom"
)

// element builds a detached element with the given attributes in order.
func element(tag string, kv ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return n
}

func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func findFirst(root *html.Node, tag string) *html.Node {
	var found *html.Node
	dom.Walk(root, func(n *html.Node) *html.Node {
		if found == nil && n.Type == html.ElementNode && n.Data == tag {
			found = n
		}
		return n
	})
	return found
}

func TestStripNodeRemoval(t *testing.T) {
	tests := []struct {
		name string
		node *html.Node
		gone []string
		kept map[string]string
	}{
		{
			name: "form method get",
			node: element("form", "method", "get", "action", "/s"),
			gone: []string{"method"},
			kept: map[string]string{"action": "/s"},
		},
		{
			name: "form method post kept",
			node: element("form", "method", "post"),
			kept: map[string]string{"method": "post"},
		},
		{
			name: "input type text",
			node: element("input", "type", "text", "name", "q"),
			gone: []string{"type"},
			kept: map[string]string{"name": "q"},
		},
		{
			name: "input type checkbox kept",
			node: element("input", "type", "checkbox"),
			kept: map[string]string{"type": "checkbox"},
		},
		{
			name: "script language javascript",
			node: element("script", "language", "javascript"),
			gone: []string{"language"},
		},
		{
			name: "script type text/javascript",
			node: element("script", "type", "text/javascript", "src", "a.js"),
			gone: []string{"type"},
			kept: map[string]string{"src": "a.js"},
		},
		{
			name: "script type module kept",
			node: element("script", "type", "module"),
			kept: map[string]string{"type": "module"},
		},
		{
			name: "script type compared case-sensitively",
			node: element("script", "type", "Text/JavaScript"),
			kept: map[string]string{"type": "Text/JavaScript"},
		},
		{
			name: "script charset without src",
			node: element("script", "charset", "utf-8"),
			gone: []string{"charset"},
		},
		{
			name: "script charset with src kept",
			node: element("script", "charset", "utf-8", "src", "a.js"),
			kept: map[string]string{"charset": "utf-8", "src": "a.js"},
		},
		{
			name: "style media all and type text/css",
			node: element("style", "media", "all", "type", "text/css"),
			gone: []string{"media", "type"},
		},
		{
			name: "style media print kept",
			node: element("style", "media", "print"),
			kept: map[string]string{"media": "print"},
		},
		{
			name: "link stylesheet text/css",
			node: element("link", "rel", "stylesheet", "type", "text/css", "href", "a.css"),
			gone: []string{"type"},
			kept: map[string]string{"rel": "stylesheet", "href": "a.css"},
		},
		{
			name: "link icon text/css kept",
			node: element("link", "rel", "icon", "type", "text/css"),
			kept: map[string]string{"rel": "icon", "type": "text/css"},
		},
		{
			name: "link media all",
			node: element("link", "rel", "stylesheet", "media", "all"),
			gone: []string{"media"},
		},
		{
			name: "img loading eager",
			node: element("img", "loading", "eager", "src", "a.png"),
			gone: []string{"loading"},
		},
		{
			name: "img loading lazy kept",
			node: element("img", "loading", "lazy"),
			kept: map[string]string{"loading": "lazy"},
		},
		{
			name: "iframe loading eager",
			node: element("iframe", "loading", "eager"),
			gone: []string{"loading"},
		},
		{
			name: "uncovered tag untouched",
			node: element("div", "method", "get", "type", "text"),
			kept: map[string]string{"method": "get", "type": "text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := StripNode(tt.node)
			if out != tt.node {
				t.Fatal("expected the same node to be returned")
			}
			for _, key := range tt.gone {
				if dom.HasAttr(out, key) {
					t.Errorf("expected %s to be removed", key)
				}
			}
			for key, want := range tt.kept {
				got, ok := dom.Attr(out, key)
				if !ok {
					t.Errorf("expected %s to be kept", key)
					continue
				}
				if got != want {
					t.Errorf("expected %s=%q, got %q", key, want, got)
				}
			}
		})
	}
}

func TestStripNodeScriptTypeAnyCaseKey(t *testing.T) {
	n := element("script", "TYPE", "application/javascript")
	StripNode(n)

	if _, ok := dom.AttrFold(n, "type"); ok {
		t.Errorf("expected type to be removed regardless of key case, got %v", n.Attr)
	}
}

func TestStripNodeRepeatedTypeKeys(t *testing.T) {
	tests := []struct {
		name  string
		node  *html.Node
		want  []html.Attribute
		count int
	}{
		{
			name:  "module script keeps its type",
			node:  element("script", "TYPE", "text/javascript", "type", "module"),
			want:  []html.Attribute{{Key: "type", Val: "module"}},
			count: 1,
		},
		{
			name:  "meaningful first key shields later ones",
			node:  element("script", "type", "module", "TYPE", "text/javascript"),
			want:  []html.Attribute{{Key: "type", Val: "module"}, {Key: "TYPE", Val: "text/javascript"}},
			count: 0,
		},
		{
			name:  "every redundant duplicate removed",
			node:  element("script", "Type", "text/javascript", "type", "application/javascript", "src", "a.js"),
			want:  []html.Attribute{{Key: "src", Val: "a.js"}},
			count: 2,
		},
		{
			name:  "link keeps a non css type",
			node:  element("link", "rel", "stylesheet", "TYPE", "text/css", "type", "text/less"),
			want:  []html.Attribute{{Key: "rel", Val: "stylesheet"}, {Key: "type", Val: "text/less"}},
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stats := StripWithStats(tt.node)

			if len(tt.node.Attr) != len(tt.want) {
				t.Fatalf("got attrs %v, want %v", tt.node.Attr, tt.want)
			}
			for i := range tt.want {
				if tt.node.Attr[i] != tt.want[i] {
					t.Errorf("attr %d = %v, want %v", i, tt.node.Attr[i], tt.want[i])
				}
			}
			if stats.Removed != tt.count {
				t.Errorf("expected %d removals, got %d", tt.count, stats.Removed)
			}

			// Already minimal: a second run changes nothing.
			before := append([]html.Attribute(nil), tt.node.Attr...)
			StripNode(tt.node)
			if len(before) != len(tt.node.Attr) {
				t.Errorf("second run changed attrs: %v -> %v", before, tt.node.Attr)
			}
		})
	}
}

func TestStripNodeEmptyDefaults(t *testing.T) {
	tests := []struct {
		tag  string
		attr string
		val  string
	}{
		{"audio", "preload", "auto"},
		{"video", "preload", "auto"},
		{"form", "autocomplete", "on"},
		{"img", "decoding", "auto"},
		{"track", "kind", "subtitles"},
		{"textarea", "wrap", "soft"},
		{"area", "shape", "rect"},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"["+tt.attr+"]", func(t *testing.T) {
			n := element(tt.tag, tt.attr, tt.val)
			StripNode(n)

			got, ok := dom.Attr(n, tt.attr)
			if !ok {
				t.Fatalf("expected %s to be kept", tt.attr)
			}
			if got != "" {
				t.Errorf("expected %s to be blanked, got %q", tt.attr, got)
			}
		})
	}

	t.Run("non-default value kept", func(t *testing.T) {
		n := element("audio", "preload", "none")
		StripNode(n)
		if v, _ := dom.Attr(n, "preload"); v != "none" {
			t.Errorf("expected preload=none, got %q", v)
		}
	})

	t.Run("absent attribute not created", func(t *testing.T) {
		n := element("audio", "src", "a.mp3")
		StripNode(n)
		if dom.HasAttr(n, "preload") {
			t.Error("expected preload to stay absent")
		}
	})
}

func TestStripNodeRemovalWinsOverNormalization(t *testing.T) {
	tests := []struct {
		tag string
		val string
	}{
		{"button", "submit"},
		{"input", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			n := element(tt.tag, "type", tt.val)
			StripNode(n)

			if _, ok := dom.Attr(n, "type"); ok {
				t.Errorf("expected type to be removed, not blanked: %v", n.Attr)
			}
		})
	}
}

func TestStripNodeNonElements(t *testing.T) {
	nodes := []*html.Node{
		{Type: html.TextNode, Data: "form"},
		{Type: html.CommentNode, Data: "script"},
		{Type: html.DocumentNode},
	}

	for _, n := range nodes {
		if StripNode(n) != n {
			t.Error("expected the same node back")
		}
		if n.Attr != nil {
			t.Error("expected attrs to stay untouched")
		}
	}

	// Element with no attrs at all.
	n := &html.Node{Type: html.ElementNode, Data: "form"}
	StripNode(n)
	if len(n.Attr) != 0 {
		t.Errorf("expected no attrs, got %v", n.Attr)
	}
}

func TestStrip(t *testing.T) {
	doc := parseBody(t, `<!DOCTYPE html><html><head>
<script type="text/javascript" charset="utf-8">var a;</script>
<link rel="stylesheet" type="text/css" href="a.css" media="all">
<style media="print">p{}</style>
</head><body>
<form method="get" autocomplete="on"><input type="text"><button type="submit">Go</button></form>
<audio preload="auto"></audio>
</body></html>`)

	out, stats := StripWithStats(doc)
	if out != doc {
		t.Fatal("expected the same tree to be returned")
	}

	script := findFirst(doc, "script")
	if len(script.Attr) != 0 {
		t.Errorf("expected script attrs removed, got %v", script.Attr)
	}
	link := findFirst(doc, "link")
	if dom.HasAttr(link, "type") || dom.HasAttr(link, "media") {
		t.Errorf("expected link type and media removed, got %v", link.Attr)
	}
	style := findFirst(doc, "style")
	if v, _ := dom.Attr(style, "media"); v != "print" {
		t.Errorf("expected style media=print kept, got %q", v)
	}
	form := findFirst(doc, "form")
	if dom.HasAttr(form, "method") {
		t.Error("expected form method removed")
	}
	if v, ok := dom.Attr(form, "autocomplete"); !ok || v != "" {
		t.Errorf("expected autocomplete blanked, got %q %v", v, ok)
	}
	if dom.HasAttr(findFirst(doc, "button"), "type") {
		t.Error("expected button type removed")
	}
	if v, ok := dom.Attr(findFirst(doc, "audio"), "preload"); !ok || v != "" {
		t.Errorf("expected preload blanked, got %q %v", v, ok)
	}

	// script type, script charset, link type, link media, form method,
	// input type, button type
	if stats.Removed != 7 {
		t.Errorf("expected 7 removals, got %d", stats.Removed)
	}
	// form autocomplete, audio preload
	if stats.Normalized != 2 {
		t.Errorf("expected 2 normalizations, got %d", stats.Normalized)
	}
	if stats.ByRule["script[type]"] != 1 {
		t.Errorf("expected script[type] hit once, got %d", stats.ByRule["script[type]"])
	}
	if stats.ByRule["button[type]"] != 1 {
		t.Errorf("expected button[type] hit once, got %d", stats.ByRule["button[type]"])
	}
}

func TestStripIdempotent(t *testing.T) {
	src := `<form method="get" autocomplete="on"><input type="text" name="q">` +
		`<button type="submit"></button><textarea wrap="soft"></textarea></form>` +
		`<video preload="auto"></video><img loading="eager" decoding="auto">` +
		`<script type="text/jscript" charset="utf-8"></script>`

	doc := parseBody(t, src)
	Strip(doc)

	var first strings.Builder
	if err := html.Render(&first, doc); err != nil {
		t.Fatal(err)
	}

	_, stats := StripWithStats(doc)
	if stats.Removed != 0 || stats.Normalized != 0 {
		t.Errorf("expected no changes on second run, got %+v", stats)
	}

	var second strings.Builder
	if err := html.Render(&second, doc); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Errorf("expected fixed point:\n%s\n%s", first.String(), second.String())
	}
}

func TestStripNil(t *testing.T) {
	if Strip(nil) != nil {
		t.Error("expected nil")
	}
}

func TestRedundantScriptTypes(t *testing.T) {
	types := RedundantScriptTypes()
	if len(types) != 16 {
		t.Errorf("expected 16 types, got %d", len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Errorf("expected sorted output, %q before %q", types[i-1], types[i])
		}
	}

	// Callers get a copy.
	types[0] = "text/plain"
	if IsRedundantScriptType("text/plain") {
		t.Error("expected table to be unaffected by caller mutation")
	}

	if !IsRedundantScriptType("text/javascript") {
		t.Error("expected text/javascript to be redundant")
	}
	if IsRedundantScriptType("module") {
		t.Error("expected module not to be redundant")
	}
}

func TestRules(t *testing.T) {
	rules := Rules()

	var removals, normalizations int
	seenNormalize := false
	for _, r := range rules {
		switch r.Action {
		case ActionRemove:
			if seenNormalize {
				t.Fatal("expected removal rules to be listed first")
			}
			removals++
		case ActionNormalize:
			seenNormalize = true
			normalizations++
		}
		if r.Condition == "" {
			t.Errorf("expected condition for %s[%s]", r.Tag, r.Attribute)
		}
	}

	if removals != 12 {
		t.Errorf("expected 12 removal rules, got %d", removals)
	}
	if normalizations != 9 {
		t.Errorf("expected 9 empty-default rules, got %d", normalizations)
	}
}

func TestRuleVariant(t *testing.T) {
	lit := Literal("get")
	if lit.IsPredicate() {
		t.Error("expected literal rule")
	}
	if !lit.Matches(nil, "get") || lit.Matches(nil, "GET") {
		t.Error("expected exact literal match")
	}
	if lit.String() != `value == "get"` {
		t.Errorf("unexpected description %q", lit.String())
	}

	pred := Predicate("always", func(*html.Node) bool { return true })
	if !pred.IsPredicate() {
		t.Error("expected predicate rule")
	}
	if !pred.Matches(element("x"), "anything") {
		t.Error("expected predicate to decide")
	}
}
