package minifier

import (
	"fmt"
	"strings"
)

// ChainMinifier applies multiple minifiers in sequence.
type ChainMinifier struct {
	steps []Minifier
}

// NewChain creates a minifier that applies steps in the order provided.
//
// Example:
//
//	chain := minifier.NewChain(
//	    htmlmin.New(htmlmin.PresetMinimal()),
//	    minifier.NewNoop(),
//	)
func NewChain(steps ...Minifier) *ChainMinifier {
	return &ChainMinifier{
		steps: steps,
	}
}

// Minify runs every step, feeding each the previous output. The first error
// stops the chain.
func (c *ChainMinifier) Minify(content string) (string, error) {
	var err error
	for _, step := range c.steps {
		content, err = step.Minify(content)
		if err != nil {
			return "", fmt.Errorf("%s: %w", step.Name(), err)
		}
	}
	return content, nil
}

// Name returns the names of all chained minifiers.
func (c *ChainMinifier) Name() string {
	names := make([]string, len(c.steps))
	for i, step := range c.steps {
		names[i] = step.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
