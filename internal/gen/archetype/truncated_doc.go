package archetype

import (
	"fmt"
	"strings"

	"github.com/soupgym/soupgym/internal/domain"
	"github.com/soupgym/soupgym/internal/gen"
)

// ArchetypeTruncatedDoc is an unsolvable limitation task: the document
// is cut off mid-element before the requested value completes, so no
// full answer is extractable. Correct behavior is abstention with
// reason "truncated_document".
const ArchetypeTruncatedDoc = "truncated-doc"

// TruncatedDoc generates pages that break off inside the target span.
type TruncatedDoc struct{}

func NewTruncatedDoc() *TruncatedDoc { return &TruncatedDoc{} }

func (a *TruncatedDoc) ID() string            { return ArchetypeTruncatedDoc }
func (a *TruncatedDoc) OptimalCalls() float64 { return 2 }

func (a *TruncatedDoc) Generate(seed uint64) (*domain.TaskInstance, error) {
	r := gen.NewRand(a.ID(), seed)

	name := productName(r)
	value := skuValue(r)

	// Render the intact page first, then cut it a few bytes into the
	// target value. The dangling open tag at end-of-document is the
	// verifiable truncation evidence.
	var frag strings.Builder
	fmt.Fprintf(&frag, "  <h1>%s</h1>\n", esc(name))
	frag.WriteString("  <div class=\"product-detail\">\n")
	fmt.Fprintf(&frag, "    <span id=\"sku\">%s</span>\n", esc(value))
	frag.WriteString("  </div>\n")

	full := renderPage(name, frag.String())
	marker := `<span id="sku">`
	at := strings.Index(full, marker)
	keep := 1 + r.IntN(3) // bytes of the value that survive the cut
	artifact := full[:at+len(marker)+keep]

	return &domain.TaskInstance{
		ArchetypeID: a.ID(),
		Seed:        seed,
		Artifact:    artifact,
		Query:       `Extract the text content of the <span> element with id="sku". Respond with a plain string.`,
		Solvable:    false,
		AnswerSchema: domain.AnswerSchema{Kind: domain.SchemaString},
		Normalization: domain.NormalizationRules{
			CollapseWhitespace: true,
			Unicode:            domain.UnicodeNFC,
		},
		Limitation: &domain.LimitationSpec{
			Reasons: []domain.LimitReason{
				{
					Reason: "truncated_document",
					Signatures: []domain.EvidenceSignature{
						{Literal: marker},
						// The span opens and the document ends before
						// it closes.
						{Pattern: `(?s)<span id="sku">[^<]*$`},
					},
				},
			},
		},
		SafetyRules:  defaultSafetyRules(),
		OptimalCalls: a.OptimalCalls(),
	}, nil
}
