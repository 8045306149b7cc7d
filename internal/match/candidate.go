package match

import (
	"cmp"
	"slices"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

const (
	// DefaultSuggestScore is the minimum score for a suggestion.
	DefaultSuggestScore = 0.6
	// DefaultSuggestLimit is the number of suggestions reported per token.
	DefaultSuggestLimit = 2

	minPrefixLen = 3
)

// Candidate is a known name scored against an unknown token.
type Candidate struct {
	Name string
	// Score is the similarity to the token, from 0 to 1.
	Score float64
}

// CandidateList is a list of candidates, best first.
type CandidateList []Candidate

// RankCandidates scores every known name against token, best first. Ties
// are broken by name.
func RankCandidates(token string, names []string) CandidateList {
	candidates := make(CandidateList, 0, len(names))

	for _, name := range names {
		candidates = append(candidates, Candidate{Name: name, Score: Similarity(name, token)})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return candidates
}

// Similarity scores two identifiers after normalization. It is the
// edit distance similarity, raised for a shared prefix of at least
// minPrefixLen runes, e.g. "str" against "string".
func Similarity(a, b string) float64 {
	a, b = NormalizeIdent(a), NormalizeIdent(b)

	return max(editSimilarity(a, b), prefixSimilarity(a, b))
}

// Suggest returns at most limit known names whose score reaches
// DefaultSuggestScore, best first.
func Suggest(token string, names []string, limit int) []string {
	ranked := RankCandidates(token, names).AboveThreshold(DefaultSuggestScore).Top(limit)

	out := make([]string, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.Name)
	}

	return out
}

// Top returns the first n candidates. A negative n returns all of them.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates with score at or above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

func editSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}

	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func prefixSimilarity(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	if len(short) < minPrefixLen || string(long[:len(short)]) != string(short) {
		return 0
	}

	return DefaultSuggestScore + (1-DefaultSuggestScore)*float64(len(short))/float64(len(long))
}
