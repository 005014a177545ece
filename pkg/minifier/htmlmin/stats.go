package htmlmin

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Stats captures metrics about what the minifier did.
type Stats struct {
	// Size metrics
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`

	// Node removals
	ElementsRemoved map[string]int `json:"elements_removed" yaml:"elements_removed"` // tag -> count
	SelectorMatches map[string]int `json:"selector_matches" yaml:"selector_matches"` // selector -> count
	CommentsRemoved int            `json:"comments_removed" yaml:"comments_removed"`

	// Attribute passes
	AttributesRemoved          int            `json:"attributes_removed" yaml:"attributes_removed"`
	AttributesNormalized       int            `json:"attributes_normalized" yaml:"attributes_normalized"`
	BooleanAttributesCollapsed int            `json:"boolean_attributes_collapsed" yaml:"boolean_attributes_collapsed"`
	EmptyAttributesRemoved     int            `json:"empty_attributes_removed" yaml:"empty_attributes_removed"`
	RuleHits                   map[string]int `json:"rule_hits" yaml:"rule_hits"` // "tag[attr]" -> count

	// Whitespace
	TextNodesCollapsed int `json:"text_nodes_collapsed" yaml:"text_nodes_collapsed"`

	// Timing
	ParseDuration     time.Duration `json:"parse_duration_ns" yaml:"parse_duration_ns"`
	TransformDuration time.Duration `json:"transform_duration_ns" yaml:"transform_duration_ns"`
	OutputDuration    time.Duration `json:"output_duration_ns" yaml:"output_duration_ns"`
	TotalDuration     time.Duration `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		ElementsRemoved: make(map[string]int),
		SelectorMatches: make(map[string]int),
		RuleHits:        make(map[string]int),
	}
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// SavedBytes returns how many bytes the minifier removed.
func (s *Stats) SavedBytes() int {
	return s.InputBytes - s.OutputBytes
}

// TotalElementsRemoved returns the sum of all removed elements.
func (s *Stats) TotalElementsRemoved() int {
	total := 0
	for _, count := range s.ElementsRemoved {
		total += count
	}
	return total
}

// TotalAttributeChanges returns the number of attributes removed or
// rewritten by any attribute pass.
func (s *Stats) TotalAttributeChanges() int {
	return s.AttributesRemoved + s.AttributesNormalized +
		s.BooleanAttributesCollapsed + s.EmptyAttributesRemoved
}

// RecordRemoval records that an element was removed.
func (s *Stats) RecordRemoval(tag string) {
	s.ElementsRemoved[strings.ToLower(tag)]++
}

// RecordSelectorMatch records that a selector matched elements.
func (s *Stats) RecordSelectorMatch(selector string, count int) {
	s.SelectorMatches[selector] += count
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	if s.AttributesRemoved > 0 || s.AttributesNormalized > 0 {
		sb.WriteString(fmt.Sprintf("Redundant attributes: %d removed, %d normalized\n",
			s.AttributesRemoved, s.AttributesNormalized))
	}

	if len(s.RuleHits) > 0 {
		sb.WriteString("Rule hits: ")
		sb.WriteString(joinCounts(s.RuleHits))
		sb.WriteString("\n")
	}

	if s.BooleanAttributesCollapsed > 0 {
		sb.WriteString(fmt.Sprintf("Boolean attributes collapsed: %d\n", s.BooleanAttributesCollapsed))
	}

	if s.EmptyAttributesRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Empty attributes removed: %d\n", s.EmptyAttributesRemoved))
	}

	if s.CommentsRemoved > 0 {
		sb.WriteString(fmt.Sprintf("Comments removed: %d\n", s.CommentsRemoved))
	}

	if len(s.ElementsRemoved) > 0 {
		sb.WriteString(fmt.Sprintf("Elements removed: %d (%s)\n",
			s.TotalElementsRemoved(), joinCounts(s.ElementsRemoved)))
	}

	if s.TextNodesCollapsed > 0 {
		sb.WriteString(fmt.Sprintf("Text nodes collapsed: %d\n", s.TextNodesCollapsed))
	}

	sb.WriteString(fmt.Sprintf("Timing: parse=%v, transform=%v, output=%v, total=%v\n",
		s.ParseDuration.Round(time.Microsecond),
		s.TransformDuration.Round(time.Microsecond),
		s.OutputDuration.Round(time.Microsecond),
		s.TotalDuration.Round(time.Microsecond)))

	return sb.String()
}

// joinCounts renders a count map as "k=v, k=v" with keys sorted.
func joinCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

// Warning represents a non-fatal issue encountered during minification.
type Warning struct {
	Phase   string `json:"phase" yaml:"phase"`     // "parse", "transform", "output"
	Message string `json:"message" yaml:"message"` // Human-readable description
	Context string `json:"context" yaml:"context"` // Selector or node that caused the issue
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Phase, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Phase, w.Message)
}

// Result contains the output of a minification.
type Result struct {
	// Content is the minified output. On failure it holds the original input.
	Content string `json:"content" yaml:"content"`

	// Stats contains metrics about what was done.
	Stats *Stats `json:"stats" yaml:"stats"`

	// Warnings contains non-fatal issues encountered.
	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(phase, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Phase:   phase,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if any warnings were recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
