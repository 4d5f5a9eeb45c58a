package archetype

import "github.com/soupgym/soupgym/internal/gen"

// DefaultRegistry builds the static archetype table in one explicit
// step. New archetypes are added here and nowhere else.
func DefaultRegistry() (*gen.Registry, error) {
	return gen.NewRegistry(
		NewProductSpan(),
		NewSpecTable(),
		NewTagList(),
		NewJSRendered(),
		NewTruncatedDoc(),
		NewAuthWalled(),
	)
}
