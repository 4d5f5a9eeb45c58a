package domain

import (
	"regexp"
	"strings"
)

// PresentIn reports whether the signature provably occurs in the
// artifact text: literal signatures by substring, pattern signatures by
// regexp match. An invalid pattern is a generator bug and is returned
// as an error.
func (s EvidenceSignature) PresentIn(artifact string) (bool, error) {
	if s.Literal != "" {
		return strings.Contains(artifact, s.Literal), nil
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return false, err
		}
		return re.MatchString(artifact), nil
	}
	return false, nil
}

// AcceptsEvidence reports whether a claimed evidence string justifies
// the signature: literal signatures accept any claim containing the
// literal, pattern signatures accept any claim the pattern matches.
func (s EvidenceSignature) AcceptsEvidence(evidence string) bool {
	if s.Literal != "" {
		return strings.Contains(evidence, s.Literal)
	}
	if s.Pattern != "" {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(evidence)
	}
	return false
}
