package recognition

import (
	"context"
	"fmt"
	"sort"
)

// Registry maps provider types to recognizers.
type Registry struct {
	recognizers map[ProviderType]Recognizer
	fallback    ProviderType
}

// NewRegistry builds a registry. fallback is returned by FromKey for unknown keys
// and must be one of the given recognizers.
func NewRegistry(fallback ProviderType, recognizers ...Recognizer) (*Registry, error) {
	r := &Registry{recognizers: make(map[ProviderType]Recognizer, len(recognizers)), fallback: fallback}
	for _, rec := range recognizers {
		r.recognizers[rec.Type()] = rec
	}
	if _, ok := r.recognizers[fallback]; !ok {
		return nil, fmt.Errorf("fallback recognizer %q not registered", fallback)
	}
	return r, nil
}

func (r *Registry) Get(t ProviderType) (Recognizer, bool) {
	rec, ok := r.recognizers[t]
	return rec, ok
}

// FromKey resolves a persisted provider key, falling back to the default.
func (r *Registry) FromKey(key string) Recognizer {
	if rec, ok := r.recognizers[ProviderType(key)]; ok {
		return rec
	}
	return r.recognizers[r.fallback]
}

func (r *Registry) Types() []ProviderType {
	types := make([]ProviderType, 0, len(r.recognizers))
	for t := range r.recognizers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Languages lists the languages of provider t with selectedCode marked.
func (r *Registry) Languages(ctx context.Context, t ProviderType, selectedCode string) ([]Language, error) {
	rec, ok := r.recognizers[t]
	if !ok {
		return nil, fmt.Errorf("unknown recognizer %q", t)
	}
	langs, err := rec.SupportedLanguages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s languages: %w", t, err)
	}
	return MarkSelected(langs, selectedCode), nil
}
