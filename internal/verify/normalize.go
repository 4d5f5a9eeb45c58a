// Package verify turns a final answer plus a tool trace into a reward.
// It hosts the output validator and the anti-hacking reward engine.
package verify

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/soupgym/soupgym/internal/domain"
)

// normalizeString applies the task's canonicalization rules to one
// scalar value.
func normalizeString(s string, rules domain.NormalizationRules) string {
	switch rules.Unicode {
	case domain.UnicodeNFC:
		s = norm.NFC.String(s)
	case domain.UnicodeNFKC:
		s = norm.NFKC.String(s)
	}
	if rules.CollapseWhitespace {
		s = strings.Join(strings.Fields(s), " ")
	}
	if rules.CaseFold {
		s = strings.ToLower(s)
	}
	return s
}

// normalizeKey canonicalizes record keys: trimmed and lowercased,
// independent of the value rules.
func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// normalizeList canonicalizes a string list; order-insensitive lists
// are sorted so comparison is set-like.
func normalizeList(vals []string, rules domain.NormalizationRules) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = normalizeString(v, rules)
	}
	if !rules.OrderSensitive {
		sort.Strings(out)
	}
	return out
}

// normalizeRecord canonicalizes a record's keys and values.
func normalizeRecord(m map[string]string, rules domain.NormalizationRules) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[normalizeKey(k)] = normalizeString(v, rules)
	}
	return out
}

// NormalizedGroundTruth canonicalizes the task's expected value with
// the same rules applied to submissions, so equality is exact.
func NormalizedGroundTruth(task *domain.TaskInstance) any {
	rules := task.Normalization
	switch gt := task.GroundTruth.(type) {
	case string:
		return normalizeString(gt, rules)
	case []string:
		return normalizeList(gt, rules)
	case map[string]string:
		return normalizeRecord(gt, rules)
	default:
		return nil
	}
}
