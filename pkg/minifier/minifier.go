// Package minifier defines the interface shared by HTML minification steps
// and helpers for composing them.
package minifier

// Minifier transforms HTML into a smaller equivalent document.
type Minifier interface {
	// Minify returns the minified form of the input HTML.
	Minify(html string) (string, error)

	// Name returns the minifier type for logging/debugging.
	Name() string
}
