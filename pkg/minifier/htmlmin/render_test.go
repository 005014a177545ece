package htmlmin

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func renderBody(t *testing.T, src string, opts RenderOptions) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var body *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			body = n
			return
		}
		for c := n.FirstChild; c != nil && body == nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := Render(&sb, c, opts); err != nil {
			t.Fatalf("render: %v", err)
		}
	}
	return sb.String()
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts RenderOptions
		want string
	}{
		{
			name: "void elements have no end tag",
			src:  `<p>a<br>b<img src="x.png"></p>`,
			want: `<p>a<br>b<img src="x.png"></p>`,
		},
		{
			name: "empty attribute quoted by default",
			src:  `<input disabled>`,
			want: `<input disabled="">`,
		},
		{
			name: "empty attribute collapsed",
			src:  `<input disabled value="">`,
			opts: RenderOptions{CollapseEmptyAttributes: true},
			want: `<input disabled value>`,
		},
		{
			name: "attribute values escaped",
			src:  `<a title='say "hi" &amp; go' href="?a=1&amp;b=2">x</a>`,
			want: `<a title="say &quot;hi&quot; &amp; go" href="?a=1&amp;b=2">x</a>`,
		},
		{
			name: "unquoted only when safe",
			src:  `<a href="/a/b" title="two words" data-x="a=b" class="c">x</a>`,
			opts: RenderOptions{UnquoteAttributes: true},
			want: `<a href=/a/b title="two words" data-x="a=b" class=c>x</a>`,
		},
		{
			name: "leading newline in pre survives",
			src:  "<pre>\n\nx</pre>",
			want: "<pre>\n\nx</pre>",
		},
		{
			name: "foreign elements self-close",
			src:  `<svg><use xlink:href="#a"></use></svg>`,
			want: `<svg><use xlink:href="#a"/></svg>`,
		},
		{
			name: "last attribute of a self-closing element stays quoted",
			src:  `<svg><circle r="5" cx="1"/><path d="M0"/><g hidden=""/></svg>`,
			opts: RenderOptions{UnquoteAttributes: true, CollapseEmptyAttributes: true},
			want: `<svg><circle r=5 cx="1"/><path d="M0"/><g hidden/></svg>`,
		},
		{
			name: "unquoted attributes on foreign elements with children",
			src:  `<svg viewBox="0 0 1 1" id="s"><g id="g"><rect x="1"/></g></svg>`,
			opts: RenderOptions{UnquoteAttributes: true},
			want: `<svg viewBox="0 0 1 1" id=s><g id=g><rect x="1"/></g></svg>`,
		},
		{
			name: "style text is raw",
			src:  `<p>x</p><style>a > b { content: "&" }</style>`,
			want: `<p>x</p><style>a > b { content: "&" }</style>`,
		},
		{
			name: "comments written verbatim",
			src:  `<p>x</p><!-- keep me -->`,
			want: `<p>x</p><!-- keep me -->`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderBody(t, tt.src, tt.opts); got != tt.want {
				t.Errorf("Render() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderDoctype(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<!DOCTYPE html><title>t</title>`))
	if err != nil {
		t.Fatal(err)
	}

	var sb strings.Builder
	if err := Render(&sb, doc, RenderOptions{}); err != nil {
		t.Fatal(err)
	}

	want := `<!DOCTYPE html><html><head><title>t</title></head><body></body></html>`
	if sb.String() != want {
		t.Errorf("Render() = %s, want %s", sb.String(), want)
	}
}

func TestRenderVoidWithChildren(t *testing.T) {
	img := &html.Node{Type: html.ElementNode, Data: "img"}
	img.AppendChild(&html.Node{Type: html.TextNode, Data: "oops"})

	var sb strings.Builder
	if err := Render(&sb, img, RenderOptions{}); err == nil {
		t.Error("expected an error for a void element with children")
	}
}

func TestCanUnquote(t *testing.T) {
	tests := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"email", true},
		{"/path/to?x=1", false},
		{"a b", false},
		{`say"`, false},
		{"it's", false},
		{"a`b", false},
		{"https://example.com/x", true},
	}

	for _, tt := range tests {
		if got := canUnquote(tt.val); got != tt.want {
			t.Errorf("canUnquote(%q) = %v, want %v", tt.val, got, tt.want)
		}
	}
}
