package htmlmin

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jmylchreest/htmlmin/internal/logger"
)

// Minifier is a configurable HTML minifier.
// It implements the minifier.Minifier interface.
type Minifier struct {
	config *Config
	stats  *Stats
}

// New creates a new Minifier with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(config *Config) *Minifier {
	if config == nil {
		config = DefaultConfig()
	}
	return &Minifier{
		config: config,
	}
}

// Name returns the minifier name for logging.
func (m *Minifier) Name() string {
	return "htmlmin"
}

// Config returns the configuration in use.
func (m *Minifier) Config() *Config {
	return m.config
}

// Minify transforms HTML content according to the configuration.
// Failures are reported as warnings and the original content is returned,
// so the error is always nil.
func (m *Minifier) Minify(html string) (string, error) {
	return m.MinifyWithStats(html).Content, nil
}

// MinifyWithStats performs minification and returns detailed stats.
func (m *Minifier) MinifyWithStats(input string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}
	result.Stats.InputBytes = len(input)

	parseStart := time.Now()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	result.Stats.ParseDuration = time.Since(parseStart)

	if err != nil {
		// Graceful degradation: return original content with warning
		result.Content = input
		result.AddWarning("parse", "HTML parse failed, returning original", err.Error())
		result.Stats.OutputBytes = len(input)
		result.Stats.TotalDuration = time.Since(startTime)
		return result
	}

	transformStart := time.Now()
	m.transform(doc, result)
	result.Stats.TransformDuration = time.Since(transformStart)

	outputStart := time.Now()
	output, err := m.generateOutput(doc)
	result.Stats.OutputDuration = time.Since(outputStart)

	if err != nil {
		result.Content = input
		result.AddWarning("output", "Output generation failed, returning original", err.Error())
		result.Stats.OutputBytes = len(input)
	} else {
		result.Content = output
		result.Stats.OutputBytes = len(output)
	}

	result.Stats.TotalDuration = time.Since(startTime)
	m.stats = result.Stats
	m.logResult(result)

	return result
}

// MinifyNode runs the configured tree passes on an already-parsed document
// and returns what changed. The tree is modified in place.
func (m *Minifier) MinifyNode(root *html.Node) *Stats {
	result := &Result{Stats: NewStats()}
	m.transform(goquery.NewDocumentFromNode(root), result)
	return result.Stats
}

// Stats returns the stats from the last MinifyWithStats call.
func (m *Minifier) Stats() *Stats {
	return m.stats
}

// transform applies all configured passes to the document.
func (m *Minifier) transform(doc *goquery.Document, result *Result) {
	// Order matters: drop whole subtrees first, then rewrite attributes.
	// Redundant attribute stripping precedes boolean collapsing so every
	// later pass sees the normalized empty defaults.
	if len(m.config.RemoveSelectors) > 0 {
		m.removeBySelectors(doc, result)
	}

	for _, root := range doc.Nodes {
		if m.config.RemoveComments {
			m.removeComments(root, result)
		}
		if m.config.RemoveRedundantAttributes {
			m.stripRedundantAttributes(root, result)
		}
		if m.config.CollapseBooleanAttributes {
			m.collapseBooleanAttributes(root, result)
		}
		if m.config.RemoveEmptyAttributes {
			m.removeEmptyAttributes(root, result)
		}
		if m.config.CollapseWhitespace {
			m.collapseWhitespace(root, result)
		}
	}
}

// generateOutput serializes the document in the configured shape.
func (m *Minifier) generateOutput(doc *goquery.Document) (string, error) {
	opts := RenderOptions{
		CollapseEmptyAttributes: m.config.CollapseEmptyAttributes,
		UnquoteAttributes:       m.config.UnquoteAttributes,
	}

	var sb strings.Builder
	if m.config.Fragment {
		if body := doc.Find("body"); body.Length() > 0 {
			for c := body.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
				if err := Render(&sb, c, opts); err != nil {
					return "", err
				}
			}
			return m.finish(sb.String()), nil
		}
	}

	for _, root := range doc.Nodes {
		if err := Render(&sb, root, opts); err != nil {
			return "", err
		}
	}
	return m.finish(sb.String()), nil
}

func (m *Minifier) finish(out string) string {
	if m.config.TrimOutput {
		return strings.TrimSpace(out)
	}
	return out
}

func (m *Minifier) logResult(result *Result) {
	log := logger.For(m.Name())
	log.Debug("minified document",
		slog.Int("input_bytes", result.Stats.InputBytes),
		slog.Int("output_bytes", result.Stats.OutputBytes),
		slog.Int("attributes_removed", result.Stats.AttributesRemoved),
		slog.Int("attributes_normalized", result.Stats.AttributesNormalized),
		slog.Duration("duration", result.Stats.TotalDuration),
	)
	if !m.config.Debug {
		return
	}
	for rule, count := range result.Stats.RuleHits {
		log.Debug("rule applied", slog.String("rule", rule), slog.Int("count", count))
	}
	for _, w := range result.Warnings {
		log.Warn("minify warning", slog.String("warning", w.String()))
	}
}
