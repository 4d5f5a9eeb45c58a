package archetype

import (
	"fmt"
	"strings"

	"github.com/soupgym/soupgym/internal/domain"
	"github.com/soupgym/soupgym/internal/gen"
)

// ArchetypeAuthWalled is an unsolvable limitation task: the requested
// content sits behind a login wall and the artifact only carries the
// form. Correct behavior is abstention with reason "login_required".
const ArchetypeAuthWalled = "auth-walled"

// AuthWalled generates pages whose detail section is a login form.
type AuthWalled struct{}

func NewAuthWalled() *AuthWalled { return &AuthWalled{} }

func (a *AuthWalled) ID() string            { return ArchetypeAuthWalled }
func (a *AuthWalled) OptimalCalls() float64 { return 2 }

func (a *AuthWalled) Generate(seed uint64) (*domain.TaskInstance, error) {
	r := gen.NewRand(a.ID(), seed)

	name := productName(r)

	var frag strings.Builder
	fmt.Fprintf(&frag, "  <h1>%s</h1>\n", esc(name))
	frag.WriteString("  <div class=\"gated\">\n")
	frag.WriteString("    <p>Sign in to view pricing and availability.</p>\n")
	frag.WriteString("    <form class=\"login-form\" action=\"/login\" method=\"post\">\n")
	frag.WriteString("      <input name=\"email\" type=\"email\" placeholder=\"Email\">\n")
	frag.WriteString("      <input name=\"password\" type=\"password\" placeholder=\"Password\">\n")
	frag.WriteString("      <button type=\"submit\">Sign in</button>\n")
	frag.WriteString("    </form>\n")
	frag.WriteString("  </div>\n")

	return &domain.TaskInstance{
		ArchetypeID: a.ID(),
		Seed:        seed,
		Artifact:    renderPage(name, frag.String()),
		Query:       "Extract the listed price of the product. Respond with a plain string.",
		Solvable:    false,
		AnswerSchema: domain.AnswerSchema{Kind: domain.SchemaString},
		Normalization: domain.NormalizationRules{
			CollapseWhitespace: true,
			Unicode:            domain.UnicodeNFC,
		},
		Limitation: &domain.LimitationSpec{
			Reasons: []domain.LimitReason{
				{
					Reason: "login_required",
					Signatures: []domain.EvidenceSignature{
						{Literal: `class="login-form"`},
						{Literal: "Sign in to view"},
					},
				},
			},
		},
		SafetyRules:  defaultSafetyRules(),
		OptimalCalls: a.OptimalCalls(),
	}, nil
}
