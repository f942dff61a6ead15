package recognition

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Entry is a raw catalog row before normalization.
type Entry struct {
	Code      string
	Name      string
	InnerCode string
}

// Normalize drops historical variants ("Old ...", "Middle ..."), keeps the
// first entry per display name and sorts by display name.
func Normalize(entries []Entry, provider ProviderType, downloaded func(Entry) bool) []Language {
	kept := lo.Filter(entries, func(e Entry, _ int) bool {
		name := strings.ToLower(e.Name)
		return !strings.HasPrefix(name, "old ") && !strings.HasPrefix(name, "middle ")
	})
	kept = lo.UniqBy(kept, func(e Entry) string { return e.Name })

	langs := lo.Map(kept, func(e Entry, _ int) Language {
		inner := e.InnerCode
		if inner == "" {
			inner = e.Code
		}
		return Language{
			Code:        e.Code,
			DisplayName: e.Name,
			Downloaded:  downloaded == nil || downloaded(e),
			Provider:    provider,
			InnerCode:   inner,
		}
	})
	sort.SliceStable(langs, func(i, j int) bool { return langs[i].DisplayName < langs[j].DisplayName })
	return langs
}

// MarkSelected returns a copy of langs where only the entry matching code is
// selected. If nothing matches, nothing is selected.
func MarkSelected(langs []Language, code string) []Language {
	return lo.Map(langs, func(l Language, _ int) Language {
		l.Selected = l.Code == code
		return l
	})
}

// Find returns the language with the given code.
func Find(langs []Language, code string) (Language, bool) {
	return lo.Find(langs, func(l Language) bool { return l.Code == code })
}
