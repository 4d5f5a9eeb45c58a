package archetype

import (
	"fmt"
	"strings"

	"github.com/soupgym/soupgym/internal/domain"
	"github.com/soupgym/soupgym/internal/gen"
)

// ArchetypeTagList is a solvable list extraction: all entries of one
// <ul> among decoy lists, compared order-insensitively.
const ArchetypeTagList = "tag-list"

// TagList generates product pages with a tag list and decoy lists.
type TagList struct{}

func NewTagList() *TagList { return &TagList{} }

func (a *TagList) ID() string            { return ArchetypeTagList }
func (a *TagList) OptimalCalls() float64 { return 2 }

func (a *TagList) Generate(seed uint64) (*domain.TaskInstance, error) {
	r := gen.NewRand(a.ID(), seed)

	name := productName(r)
	tags := sample(r, tagWords, 4+r.IntN(3))

	// Decoy list drawn from the words the tag list did not use.
	used := map[string]bool{}
	for _, t := range tags {
		used[t] = true
	}
	var rest []string
	for _, w := range tagWords {
		if !used[w] {
			rest = append(rest, w)
		}
	}
	related := sample(r, rest, 3)

	// Render the tag list in shuffled order; comparison sorts anyway.
	shuffled := make([]string, len(tags))
	copy(shuffled, tags)
	r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var frag strings.Builder
	fmt.Fprintf(&frag, "  <h1>%s</h1>\n", esc(name))
	frag.WriteString("  <ul class=\"tags\">\n")
	for _, t := range shuffled {
		fmt.Fprintf(&frag, "    <li>%s</li>\n", esc(t))
	}
	frag.WriteString("  </ul>\n")
	frag.WriteString("  <ul class=\"related\">\n")
	for _, t := range related {
		fmt.Fprintf(&frag, "    <li>%s</li>\n", esc(t))
	}
	frag.WriteString("  </ul>\n")

	return &domain.TaskInstance{
		ArchetypeID: a.ID(),
		Seed:        seed,
		Artifact:    renderPage(name+" — tags", frag.String()),
		Query:       `Extract every tag from the <ul class="tags"> list. Respond with a JSON array of strings; order does not matter.`,
		Solvable:    true,
		AnswerSchema: domain.AnswerSchema{Kind: domain.SchemaList},
		Normalization: domain.NormalizationRules{
			CollapseWhitespace: true,
			Unicode:            domain.UnicodeNFC,
			OrderSensitive:     false,
		},
		GroundTruth:  tags,
		SafetyRules:  defaultSafetyRules(),
		OptimalCalls: a.OptimalCalls(),
	}, nil
}
