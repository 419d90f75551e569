package bank

import "strings"

// MatchStrength grades how well a resolved account name lines up with the
// seller's registered name.
type MatchStrength int

const (
	MatchNone MatchStrength = iota
	MatchLoose
	MatchStrict
)

const (
	strictThreshold = 0.8
	looseThreshold  = 0.5
)

// MatchName compares the bank's account name against the seller's registered
// full name. Banks return names in inconsistent order and casing, often with
// extra middle names or honorifics, so the comparison works on the overlap of
// name tokens rather than the raw strings.
func MatchName(accountName, registeredName string) MatchStrength {
	accountTokens := tokenize(accountName)
	registeredTokens := tokenize(registeredName)
	if len(accountTokens) == 0 || len(registeredTokens) == 0 {
		return MatchNone
	}

	ratio := overlapRatio(accountTokens, registeredTokens)
	switch {
	case ratio >= strictThreshold:
		return MatchStrict
	case ratio >= looseThreshold:
		return MatchLoose
	default:
		return MatchNone
	}
}

// overlapRatio is the share of tokens in the smaller name that appear in the
// other one. Measuring against the smaller side keeps an extra middle name on
// either record from dragging a genuine match below threshold.
func overlapRatio(a, b map[string]bool) float64 {
	smaller, larger := a, b
	if len(b) < len(a) {
		smaller, larger = b, a
	}

	matched := 0
	for token := range smaller {
		if larger[token] {
			matched++
		}
	}
	return float64(matched) / float64(len(smaller))
}

func tokenize(name string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(normalize(name)) {
		// Single letters are usually initials; too ambiguous to count
		if len(field) < 2 {
			continue
		}
		tokens[field] = true
	}
	return tokens
}

func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
