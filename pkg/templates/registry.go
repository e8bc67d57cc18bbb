package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

var (
	ErrTypeRequired     = errors.New("templates: type is required")
	ErrRendererRequired = errors.New("templates: renderer is required")
)

// Registry maps section types to their schema and renderer. Authoring and
// the public loader share one registry so both sides agree on the schema.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Template
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Template)}
}

// Register adds or replaces the template for its type.
func (r *Registry) Register(t Template) error {
	key := normalizeType(t.Type)
	if key == "" {
		return ErrTypeRequired
	}
	if t.Renderer == nil {
		return fmt.Errorf("%w: %s", ErrRendererRequired, key)
	}
	for field := range t.Schema.Arrays {
		if !t.Schema.IsShared(field) {
			return fmt.Errorf("templates: %s: array field %q must be listed as shared", key, field)
		}
	}
	t.Type = key
	if t.Label == "" {
		t.Label = key
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = t
	return nil
}

// Get returns the field schema for a type.
func (r *Registry) Get(typ string) (Schema, bool) {
	t, ok := r.Template(typ)
	if !ok {
		return Schema{}, false
	}
	return t.Schema, true
}

func (r *Registry) Template(typ string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.entries[normalizeType(typ)]
	return t, ok
}

// Types returns the registered types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) List() []Template {
	types := r.Types()
	out := make([]Template, 0, len(types))
	for _, typ := range types {
		if t, ok := r.Template(typ); ok {
			out = append(out, t)
		}
	}
	return out
}

// Render writes the markup of one content-document entry. Entries with an
// unknown type are rendered with the fallback markup instead of failing.
func (r *Registry) Render(w io.Writer, entry map[string]any) error {
	f := Fields(entry)
	t, ok := r.Template(f.String("type"))
	if !ok {
		return renderFallback(w, f)
	}
	return t.Renderer(w, f)
}

// RenderAll renders entries in order. A section that fails to render is
// replaced by the fallback markup and the remaining sections still render;
// the returned error joins every failure.
func (r *Registry) RenderAll(w io.Writer, entries []map[string]any) error {
	var errs []error
	for i, entry := range entries {
		var buf bytes.Buffer
		if err := r.Render(&buf, entry); err != nil {
			errs = append(errs, fmt.Errorf("section %d (%s): %w", i, Fields(entry).String("type"), err))
			buf.Reset()
			if ferr := renderFallback(&buf, Fields(entry)); ferr != nil {
				return errors.Join(append(errs, ferr)...)
			}
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return errors.Join(append(errs, err)...)
		}
	}
	return errors.Join(errs...)
}

func normalizeType(typ string) string {
	return strings.ToLower(strings.TrimSpace(typ))
}
