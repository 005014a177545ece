// Package htmlmin provides a configurable HTML minifier built from tree
// passes over a parsed document: redundant attribute stripping, boolean and
// empty attribute collapsing, comment and whitespace removal, and a compact
// serializer.
package htmlmin

import (
	"errors"
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/go-playground/validator/v10"
)

// ErrUnknownPreset is returned by PresetByName for names it does not know.
var ErrUnknownPreset = errors.New("unknown preset")

// Config defines all configuration options for the minifier.
type Config struct {
	// === Attribute Passes ===

	// RemoveRedundantAttributes drops attributes that restate the element's
	// default (form method="get", script type="text/javascript") and blanks
	// attributes whose default equals an empty value (audio preload="auto").
	RemoveRedundantAttributes bool `json:"remove_redundant_attributes" yaml:"remove_redundant_attributes" mapstructure:"remove_redundant_attributes"`

	// CollapseBooleanAttributes blanks the value of boolean attributes
	// (disabled="disabled" -> disabled="").
	CollapseBooleanAttributes bool `json:"collapse_boolean_attributes" yaml:"collapse_boolean_attributes" mapstructure:"collapse_boolean_attributes"`

	// RemoveEmptyAttributes removes class, id, style, dir and on* attributes
	// whose value is empty or whitespace.
	RemoveEmptyAttributes bool `json:"remove_empty_attributes" yaml:"remove_empty_attributes" mapstructure:"remove_empty_attributes"`

	// === Node Passes ===

	// RemoveComments removes HTML comments.
	RemoveComments bool `json:"remove_comments" yaml:"remove_comments" mapstructure:"remove_comments"`

	// KeepConditionalComments keeps <!--[if ...]> comments when
	// RemoveComments is set.
	KeepConditionalComments bool `json:"keep_conditional_comments" yaml:"keep_conditional_comments" mapstructure:"keep_conditional_comments"`

	// RemoveSelectors is a list of CSS selectors whose matches are removed.
	RemoveSelectors []string `json:"remove_selectors" yaml:"remove_selectors" mapstructure:"remove_selectors" validate:"omitempty,dive,required,selector"`

	// === Whitespace ===

	// CollapseWhitespace collapses runs of whitespace in text to a single
	// space, except inside pre, textarea, script and style.
	CollapseWhitespace bool `json:"collapse_whitespace" yaml:"collapse_whitespace" mapstructure:"collapse_whitespace"`

	// TrimOutput trims leading and trailing whitespace from the output.
	TrimOutput bool `json:"trim_output" yaml:"trim_output" mapstructure:"trim_output"`

	// === Output ===

	// CollapseEmptyAttributes writes attributes with an empty value without
	// the ="" part.
	CollapseEmptyAttributes bool `json:"collapse_empty_attributes" yaml:"collapse_empty_attributes" mapstructure:"collapse_empty_attributes"`

	// UnquoteAttributes omits quotes around values that do not need them.
	UnquoteAttributes bool `json:"unquote_attributes" yaml:"unquote_attributes" mapstructure:"unquote_attributes"`

	// Fragment outputs only the children of <body> instead of the full
	// document.
	Fragment bool `json:"fragment" yaml:"fragment" mapstructure:"fragment"`

	// Debug enables verbose logging of what each pass changed.
	Debug bool `json:"debug" yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns a configuration that only applies transformations
// which cannot change how a browser renders the document.
func DefaultConfig() *Config {
	return &Config{
		RemoveRedundantAttributes: true,
		CollapseBooleanAttributes: true,
		RemoveEmptyAttributes:     true,

		RemoveComments:          true,
		KeepConditionalComments: true,

		// Whitespace between inline elements is significant, only runs are
		// collapsed.
		CollapseWhitespace: true,
		TrimOutput:         true,

		CollapseEmptyAttributes: true,
		UnquoteAttributes:       false,
	}
}

// PresetMinimal only strips redundant attributes and writes empty
// attributes bare. Comments and whitespace are left alone.
func PresetMinimal() *Config {
	return &Config{
		RemoveRedundantAttributes: true,
		CollapseEmptyAttributes:   true,
	}
}

// PresetAggressive enables everything, including unquoted attribute values
// and removal of conditional comments.
func PresetAggressive() *Config {
	cfg := DefaultConfig()
	cfg.KeepConditionalComments = false
	cfg.UnquoteAttributes = true
	return cfg
}

// PresetByName resolves "default", "minimal" or "aggressive". An empty name
// selects the default preset.
func PresetByName(name string) (*Config, error) {
	switch name {
	case "", "default":
		return DefaultConfig(), nil
	case "minimal":
		return PresetMinimal(), nil
	case "aggressive":
		return PresetAggressive(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// PresetNames lists the names accepted by PresetByName.
func PresetNames() []string {
	return []string{"default", "minimal", "aggressive"}
}

// Merge merges another config into this one.
// Options enabled in other are enabled in the result. Selectors are
// appended, not replaced.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	merged := *c
	merged.RemoveSelectors = append([]string(nil), c.RemoveSelectors...)

	merged.RemoveRedundantAttributes = c.RemoveRedundantAttributes || other.RemoveRedundantAttributes
	merged.CollapseBooleanAttributes = c.CollapseBooleanAttributes || other.CollapseBooleanAttributes
	merged.RemoveEmptyAttributes = c.RemoveEmptyAttributes || other.RemoveEmptyAttributes
	merged.RemoveComments = c.RemoveComments || other.RemoveComments
	merged.KeepConditionalComments = c.KeepConditionalComments || other.KeepConditionalComments
	merged.CollapseWhitespace = c.CollapseWhitespace || other.CollapseWhitespace
	merged.TrimOutput = c.TrimOutput || other.TrimOutput
	merged.CollapseEmptyAttributes = c.CollapseEmptyAttributes || other.CollapseEmptyAttributes
	merged.UnquoteAttributes = c.UnquoteAttributes || other.UnquoteAttributes
	merged.Fragment = c.Fragment || other.Fragment
	merged.Debug = c.Debug || other.Debug

	// Append selectors (deduplicated)
	if len(other.RemoveSelectors) > 0 {
		seen := make(map[string]bool)
		for _, s := range merged.RemoveSelectors {
			seen[s] = true
		}
		for _, s := range other.RemoveSelectors {
			if !seen[s] {
				merged.RemoveSelectors = append(merged.RemoveSelectors, s)
				seen[s] = true
			}
		}
	}

	return &merged
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("selector", func(fl validator.FieldLevel) bool {
		_, err := cascadia.ParseGroup(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks the configuration. Every selector must be non-empty and
// parse as a CSS selector group.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
