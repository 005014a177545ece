package redundant

import (
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/htmlmin/pkg/dom"
)

// Rule decides whether an attribute value is redundant. It is either a
// literal value compared by exact string equality or a predicate over the
// whole element, for defaults that depend on sibling attributes.
type Rule struct {
	literal   string
	predicate func(n *html.Node) bool
	condition string
}

// Literal returns a rule matching exactly value.
func Literal(value string) Rule {
	return Rule{literal: value, condition: `value == "` + value + `"`}
}

// Predicate returns a rule that defers to fn. condition is a human readable
// description used when listing rules.
func Predicate(condition string, fn func(n *html.Node) bool) Rule {
	return Rule{predicate: fn, condition: condition}
}

// IsPredicate reports whether the rule inspects the node instead of
// comparing a literal.
func (r Rule) IsPredicate() bool {
	return r.predicate != nil
}

// Matches reports whether the rule holds for n given the current value of
// the attribute it is keyed on.
func (r Rule) Matches(n *html.Node, value string) bool {
	if r.predicate != nil {
		return r.predicate(n)
	}
	return value == r.literal
}

// String describes the condition under which the rule holds.
func (r Rule) String() string {
	return r.condition
}

// attrRule binds a rule to an attribute name. When fold is set the attribute
// is located and deleted with a case-insensitive key match.
type attrRule struct {
	attr string
	rule Rule
	fold bool
}

// scriptTypes are MIME types that make a <script> plain JavaScript, which is
// what a script without a type attribute already is.
var scriptTypes = map[string]struct{}{
	"application/ecmascript":   {},
	"application/javascript":   {},
	"application/x-ecmascript": {},
	"application/x-javascript": {},
	"text/ecmascript":          {},
	"text/javascript":          {},
	"text/javascript1.0":       {},
	"text/javascript1.1":       {},
	"text/javascript1.2":       {},
	"text/javascript1.3":       {},
	"text/javascript1.4":       {},
	"text/javascript1.5":       {},
	"text/jscript":             {},
	"text/livescript":          {},
	"text/x-ecmascript":        {},
	"text/x-javascript":        {},
}

// IsRedundantScriptType reports whether mime is one of the JavaScript MIME
// types that can be dropped from a <script>. The match is case-sensitive.
func IsRedundantScriptType(mime string) bool {
	_, ok := scriptTypes[mime]
	return ok
}

// RedundantScriptTypes returns the redundant JavaScript MIME types, sorted.
func RedundantScriptTypes() []string {
	types := make([]string, 0, len(scriptTypes))
	for t := range scriptTypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func scriptTypeRedundant(n *html.Node) bool {
	v, ok := dom.AttrFold(n, "type")
	return ok && IsRedundantScriptType(v)
}

// charset only applies to external scripts.
func scriptCharsetRedundant(n *html.Node) bool {
	return !dom.HasAttr(n, "src")
}

func linkTypeRedundant(n *html.Node) bool {
	rel, _ := dom.Attr(n, "rel")
	typ, _ := dom.AttrFold(n, "type")
	return rel == "stylesheet" && typ == "text/css"
}

// removalRules lists attributes whose value equals the element's implicit
// default. Matching attributes are deleted.
var removalRules = map[atom.Atom][]attrRule{
	atom.Form: {
		{attr: "method", rule: Literal("get")},
	},
	atom.Input: {
		{attr: "type", rule: Literal("text")},
	},
	atom.Button: {
		{attr: "type", rule: Literal("submit")},
	},
	atom.Script: {
		{attr: "language", rule: Literal("javascript")},
		{attr: "type", rule: Predicate("value is a redundant JavaScript MIME type", scriptTypeRedundant), fold: true},
		{attr: "charset", rule: Predicate("element has no src", scriptCharsetRedundant)},
	},
	atom.Style: {
		{attr: "media", rule: Literal("all")},
		{attr: "type", rule: Literal("text/css")},
	},
	atom.Link: {
		{attr: "media", rule: Literal("all")},
		{attr: "type", rule: Predicate(`rel == "stylesheet" && value == "text/css"`, linkTypeRedundant), fold: true},
	},
	atom.Img: {
		{attr: "loading", rule: Literal("eager")},
	},
	atom.Iframe: {
		{attr: "loading", rule: Literal("eager")},
	},
}

// emptyDefaultRules lists attributes whose default is what an empty value
// already means. Matching values are replaced with "" and never removed.
var emptyDefaultRules = map[atom.Atom][]attrRule{
	atom.Audio:    {{attr: "preload", rule: Literal("auto")}},
	atom.Video:    {{attr: "preload", rule: Literal("auto")}},
	atom.Form:     {{attr: "autocomplete", rule: Literal("on")}},
	atom.Img:      {{attr: "decoding", rule: Literal("auto")}},
	atom.Track:    {{attr: "kind", rule: Literal("subtitles")}},
	atom.Textarea: {{attr: "wrap", rule: Literal("soft")}},
	atom.Area:     {{attr: "shape", rule: Literal("rect")}},
	atom.Button:   {{attr: "type", rule: Literal("submit")}},
	atom.Input:    {{attr: "type", rule: Literal("text")}},
}

// Action is what the stripper does to a matching attribute.
type Action string

const (
	ActionRemove    Action = "remove"
	ActionNormalize Action = "normalize"
)

// RuleInfo describes one table entry.
type RuleInfo struct {
	Tag       string `json:"tag" yaml:"tag"`
	Attribute string `json:"attribute" yaml:"attribute"`
	Action    Action `json:"action" yaml:"action"`
	Condition string `json:"condition" yaml:"condition"`
}

// Rules lists both tables, removal rules first, sorted by tag then in
// declaration order.
func Rules() []RuleInfo {
	var infos []RuleInfo
	infos = appendInfos(infos, removalRules, ActionRemove)
	infos = appendInfos(infos, emptyDefaultRules, ActionNormalize)
	return infos
}

func appendInfos(infos []RuleInfo, table map[atom.Atom][]attrRule, action Action) []RuleInfo {
	tags := make([]atom.Atom, 0, len(table))
	for tag := range table {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].String() < tags[j].String() })

	for _, tag := range tags {
		for _, r := range table[tag] {
			infos = append(infos, RuleInfo{
				Tag:       tag.String(),
				Attribute: r.attr,
				Action:    action,
				Condition: r.rule.String(),
			})
		}
	}
	return infos
}
