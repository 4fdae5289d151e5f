package titles

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts sequence numbers from titles (e.g., "2", "3")
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence represents the confidence level of a title match.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Match is the best candidate for a typed title.
type Match struct {
	Index      int // index into the candidates, -1 when none matched
	Title      string
	Score      float64
	Confidence MatchConfidence
}

// BestMatch finds the candidate closest to query using Jaro-Winkler
// similarity on cleaned titles, with a bonus when sequence numbers agree
// and a penalty when they differ ("Show 2" vs "Show 3").
func BestMatch(query string, candidates []string) Match {
	best := Match{Index: -1}
	if len(candidates) == 0 {
		return best
	}

	q := CleanTitle(query)
	qNums := numberRegex.FindAllString(q, -1)

	for i, candidate := range candidates {
		c := CleanTitle(candidate)
		score := float64(edlib.JaroWinklerSimilarity(q, c))
		score = adjustForNumbers(score, qNums, numberRegex.FindAllString(c, -1))
		if score > best.Score {
			best = Match{Index: i, Title: candidate, Score: score}
		}
	}

	switch {
	case best.Score >= 0.95:
		best.Confidence = ConfidenceHigh
	case best.Score >= 0.85:
		best.Confidence = ConfidenceMedium
	case best.Score >= 0.70:
		best.Confidence = ConfidenceLow
	default:
		return Match{Index: -1, Score: best.Score}
	}
	return best
}

func adjustForNumbers(score float64, queryNums, candidateNums []string) float64 {
	if len(queryNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}
	have := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		have[n] = true
	}
	for _, n := range queryNums {
		if have[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
