package minifier

// NoopMinifier passes content through without modification.
type NoopMinifier struct{}

// NewNoop creates a new no-op minifier.
func NewNoop() *NoopMinifier {
	return &NoopMinifier{}
}

// Minify returns the input unchanged.
func (m *NoopMinifier) Minify(html string) (string, error) {
	return html, nil
}

// Name returns the minifier type.
func (m *NoopMinifier) Name() string {
	return "noop"
}
