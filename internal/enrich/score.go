package enrich

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

type scorePattern struct {
	re    *regexp.Regexp
	scale func(float64) float64
}

// Patterns are tried in order; the first match wins.
var scorePatterns = []scorePattern{
	{regexp.MustCompile(`(?i)(?:rating|score|punteggio)[:\s]*?(\d{1,2}(?:[.,]\d{1,2})?)\s*/\s*10`), identity},
	{regexp.MustCompile(`(?i)(?:rating|score|punteggio)[:\s]*?(\d(?:[.,]\d{1,2})?)\s*/\s*5`), func(v float64) float64 { return v * 2 }},
	{regexp.MustCompile(`(\d{1,3})\s*%`), func(v float64) float64 { return v / 10 }},
	{regexp.MustCompile(`(?i)(\d{1,2}(?:[.,]\d{1,2})?)\s*out of\s*10`), identity},
}

func identity(v float64) float64 { return v }

// NormalizeScore finds a review score in text and returns it on a 0-10
// scale. Recognised forms are "rating 8.5/10", "score: 4/5", "92%" and
// "8 out of 10"; comma decimals are accepted. Results are capped at 10.
func NormalizeScore(text string) (float64, bool) {
	for _, p := range scorePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		if err != nil || math.IsNaN(v) {
			continue
		}
		return math.Min(p.scale(v), 10), true
	}
	return 0, false
}
