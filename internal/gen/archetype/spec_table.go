package archetype

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soupgym/soupgym/internal/domain"
	"github.com/soupgym/soupgym/internal/gen"
)

// ArchetypeSpecTable is a solvable record extraction: named fields out
// of a key/value specification table with decoy rows and HTML-escaped
// values.
const ArchetypeSpecTable = "spec-table"

// SpecTable generates specification tables with entity-escaped values.
type SpecTable struct{}

func NewSpecTable() *SpecTable { return &SpecTable{} }

func (a *SpecTable) ID() string            { return ArchetypeSpecTable }
func (a *SpecTable) OptimalCalls() float64 { return 3 }

func (a *SpecTable) Generate(seed uint64) (*domain.TaskInstance, error) {
	r := gen.NewRand(a.ID(), seed)

	// Content model: every row the table will carry, raw (unescaped).
	name := productName(r)
	rows := map[string]string{
		"brand":    pick(r, brands),
		"model":    skuValue(r),
		"weight":   fmt.Sprintf("%d.%d kg", 1+r.IntN(9), r.IntN(10)),
		"color":    pick(r, colors),
		"material": pick(r, materials),
	}

	// The query asks for a subset; the rest are decoy rows.
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	wanted := sample(r, keys, 2+r.IntN(2))
	sort.Strings(wanted)

	truth := make(map[string]string, len(wanted))
	fields := make([]domain.FieldSpec, 0, len(wanted))
	for _, k := range wanted {
		truth[k] = rows[k]
		fields = append(fields, domain.FieldSpec{Name: k, Kind: domain.SchemaString})
	}

	// Render in shuffled row order. Values go through entity escaping
	// here; the ground truth stays raw, which is exactly why it must
	// come from the model and not from re-parsing the artifact.
	order := make([]string, len(keys))
	copy(order, keys)
	r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var frag strings.Builder
	fmt.Fprintf(&frag, "  <h1>%s</h1>\n", esc(name))
	frag.WriteString("  <table class=\"specs\">\n")
	for _, k := range order {
		fmt.Fprintf(&frag, "    <tr><th>%s</th><td>%s</td></tr>\n", esc(k), esc(rows[k]))
	}
	frag.WriteString("  </table>\n")

	return &domain.TaskInstance{
		ArchetypeID: a.ID(),
		Seed:        seed,
		Artifact:    renderPage(name+" — specifications", frag.String()),
		Query: fmt.Sprintf(
			"Extract the following fields from the specification table: %s. Respond with a JSON object holding exactly these keys, values as plain strings.",
			strings.Join(wanted, ", ")),
		Solvable:     true,
		AnswerSchema: domain.AnswerSchema{Kind: domain.SchemaRecord, Fields: fields},
		Normalization: domain.NormalizationRules{
			CollapseWhitespace: true,
			Unicode:            domain.UnicodeNFC,
		},
		GroundTruth:  truth,
		SafetyRules:  defaultSafetyRules(),
		OptimalCalls: a.OptimalCalls(),
	}, nil
}
