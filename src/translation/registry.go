package translation

import (
	"sort"

	"github.com/samber/lo"
)

// Registry maps provider types to translators.
type Registry struct {
	translators map[ProviderType]Translator
}

func NewRegistry(translators ...Translator) *Registry {
	r := &Registry{translators: make(map[ProviderType]Translator, len(translators))}
	for _, t := range translators {
		r.translators[t.Type()] = t
	}
	return r
}

func (r *Registry) Get(t ProviderType) (Translator, bool) {
	tr, ok := r.translators[t]
	return tr, ok
}

// FromKey resolves a persisted provider key. Unknown keys resolve to
// DefaultProvider, or to any registered translator when that is missing.
func (r *Registry) FromKey(key string) Translator {
	if tr, ok := r.translators[ProviderType(key)]; ok {
		return tr
	}
	if tr, ok := r.translators[DefaultProvider]; ok {
		return tr
	}
	types := r.types()
	if len(types) == 0 {
		return nil
	}
	return r.translators[types[0]]
}

// Providers lists registered providers by index with selectedKey marked.
func (r *Registry) Providers(selectedKey string) []Provider {
	selected := r.FromKey(selectedKey)
	return lo.Map(r.types(), func(t ProviderType, _ int) Provider {
		return ProviderFromType(t, selected != nil && selected.Type() == t)
	})
}

func (r *Registry) types() []ProviderType {
	types := lo.Keys(r.translators)
	sort.Slice(types, func(i, j int) bool {
		return providerInfos[types[i]].index < providerInfos[types[j]].index
	})
	return types
}
