package preview

import (
	"fmt"
	"strings"
)

// Registry maps format names to preview encoders.
type Registry struct {
	encoders map[string]Encoder
}

// order is the priority used by Available and the fallback in Resolve.
var order = []string{"png", "jpeg", "gif"}

// NewRegistry creates a registry with every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}
	for _, enc := range []Encoder{PNG(), JPEG(0), GIF()} {
		r.encoders[enc.Format()] = enc
	}
	return r
}

// Get returns an encoder for the given format, or nil if unknown.
// "jpg" is accepted as an alias for "jpeg".
func (r *Registry) Get(format string) Encoder {
	format = strings.ToLower(format)
	if format == "jpg" {
		format = "jpeg"
	}
	return r.encoders[format]
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range order {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// Resolve returns the encoder for format, falling back to the first
// available one when format is empty or unknown.
func (r *Registry) Resolve(format string) (Encoder, error) {
	if enc := r.Get(format); enc != nil {
		return enc, nil
	}
	for _, f := range order {
		if enc := r.encoders[f]; enc != nil {
			return enc, nil
		}
	}
	return nil, fmt.Errorf("no preview encoder for %q", format)
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no preview encoders available"
	}
	return fmt.Sprintf("preview encoders: %s", strings.Join(avail, ", "))
}
