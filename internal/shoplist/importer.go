package shoplist

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// MinConfidence is the lowest match confidence accepted on import
const MinConfidence = 0.5

// ParsedLine is one line of a pasted shopping list
type ParsedLine struct {
	LineNumber int    `json:"line_number"`
	Raw        string `json:"raw"`
	Quantity   int    `json:"quantity"`
	Name       string `json:"name"`
	Supplier   string `json:"supplier,omitempty"`
}

// Match is a catalog product proposed for a parsed line
type Match struct {
	Product    models.Product `json:"product"`
	Confidence float64        `json:"confidence"`
}

// unicodeFractions covers the vulgar fractions recipe apps export
var unicodeFractions = map[rune]float64{
	'¼': 0.25, '½': 0.5, '¾': 0.75, '⅓': 1.0 / 3, '⅔': 2.0 / 3, '⅛': 0.125,
}

var (
	checkboxPattern = regexp.MustCompile(`^\s*[-*]\s*\[[ xX]?\]\s*(.+)$`)
	bulletPattern   = regexp.MustCompile(`^\s*[-*•]\s+(.+)$`)
	// "2x", "2 x", "2", "1.5", "1/2"
	quantityPattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?|\d+/\d+)\s*(?:[xX]\s+|[xX]$|\s)\s*`)
	// "un", "unid", "pct" and similar count words after the quantity
	unitPattern = regexp.MustCompile(`(?i)^(?:unidades?|unid|un|pacotes?|pct|caixas?|cx|potes?|garrafas?)\b\.?\s*(?:de\s+)?`)
	// trailing "(Mundo Verde)"
	parenSupplier = regexp.MustCompile(`\s*\(([^)]+)\)\s*$`)
)

// ParseText splits pasted text into list lines. It accepts the format produced
// by ShareText ("2x Product - Supplier"), markdown checkboxes and plain
// bullets. Blank lines and markdown headings are skipped.
func ParseText(text string) []ParsedLine {
	var lines []ParsedLine
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := checkboxPattern.FindStringSubmatch(line); m != nil {
			line = m[1]
		} else if m := bulletPattern.FindStringSubmatch(line); m != nil {
			line = m[1]
		}

		parsed := ParsedLine{LineNumber: i + 1, Raw: raw, Quantity: 1}
		line, parsed.Quantity = extractQuantity(line)
		line = unitPattern.ReplaceAllString(line, "")
		parsed.Name, parsed.Supplier = splitSupplier(line)
		if parsed.Name == "" {
			continue
		}
		lines = append(lines, parsed)
	}
	return lines
}

// extractQuantity strips a leading quantity. Fractional quantities round up
// since the list counts whole units.
func extractQuantity(s string) (string, int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return s, 1
	}

	r := []rune(s)
	if v, ok := unicodeFractions[r[0]]; ok {
		return strings.TrimSpace(strings.TrimPrefix(string(r[1:]), "x")), roundUp(v)
	}

	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return s, 1
	}
	rest := strings.TrimSpace(s[len(m[0]):])

	if num, denom, ok := strings.Cut(m[1], "/"); ok {
		n, _ := strconv.ParseFloat(num, 64)
		d, _ := strconv.ParseFloat(denom, 64)
		if d == 0 {
			return rest, 1
		}
		return rest, roundUp(n / d)
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return rest, 1
	}
	return rest, roundUp(v)
}

func roundUp(v float64) int {
	if v >= MaxQuantity {
		return MaxQuantity
	}
	q := int(math.Ceil(v))
	if q < 1 {
		return 1
	}
	return q
}

// splitSupplier separates "Name - Supplier" or "Name (Supplier)"
func splitSupplier(s string) (name, supplier string) {
	s = strings.TrimSpace(s)
	if m := parenSupplier.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(s[:len(s)-len(m[0])]), strings.TrimSpace(m[1])
	}
	if i := strings.LastIndex(s, " - "); i > 0 {
		return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+3:])
	}
	return s, ""
}

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips accents and collapses whitespace so that
// "Açaí  natural" and "acai Natural" compare equal
func Normalize(s string) string {
	folded, _, err := transform.String(foldAccents, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// stopwords carry no meaning when comparing product names
var stopwords = map[string]bool{"de": true, "da": true, "do": true, "com": true, "e": true}

func tokens(s string) []string {
	var out []string
	for _, t := range strings.Fields(Normalize(s)) {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

// Similarity scores how well query names product, from 0 to 1. An exact
// normalized match scores 1; otherwise the score is the share of query
// words found in the name, discounted by the name's extra words.
func Similarity(query, product string) float64 {
	q, p := Normalize(query), Normalize(product)
	if q == "" || p == "" {
		return 0
	}
	if q == p {
		return 1
	}

	qt, pt := tokens(query), tokens(product)
	if len(qt) == 0 || len(pt) == 0 {
		return 0
	}
	inName := make(map[string]bool, len(pt))
	for _, t := range pt {
		inName[t] = true
	}
	hits := 0
	for _, t := range qt {
		if inName[t] {
			hits++
		}
	}
	if hits == 0 {
		if strings.Contains(p, q) {
			return 0.5
		}
		return 0
	}
	recall := float64(hits) / float64(len(qt))
	precision := float64(hits) / float64(len(pt))
	return 0.7*recall + 0.3*precision
}

// FindMatches returns up to limit products ranked by similarity to name,
// ignoring products below MinConfidence
func FindMatches(name string, products []models.Product, limit int) []Match {
	var matches []Match
	for _, p := range products {
		if c := Similarity(name, p.Name); c >= MinConfidence {
			matches = append(matches, Match{Product: p, Confidence: c})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Product.Rating > matches[j].Product.Rating
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ConfidenceLevel returns a human-readable confidence level
func ConfidenceLevel(confidence float64) string {
	switch {
	case confidence >= 0.9:
		return "high"
	case confidence >= 0.7:
		return "medium"
	case confidence >= MinConfidence:
		return "low"
	default:
		return "none"
	}
}

// ImportLine reports what an import did with one parsed line. Lines without
// a Match were not added; Suggestions holds the closest products, if any.
type ImportLine struct {
	ParsedLine
	Match       *Match  `json:"match,omitempty"`
	Confidence  string  `json:"confidence"`
	Suggestions []Match `json:"suggestions,omitempty"`
	ItemID      string  `json:"item_id,omitempty"`
}

// Resolve matches each parsed line against products. A line is matched when
// its best candidate is at least "medium" confidence; weaker candidates are
// returned only as suggestions.
func Resolve(lines []ParsedLine, products []models.Product) []ImportLine {
	out := make([]ImportLine, len(lines))
	for i, l := range lines {
		res := ImportLine{ParsedLine: l, Confidence: ConfidenceLevel(0)}
		candidates := FindMatches(l.Name, products, 3)
		if len(candidates) > 0 {
			res.Confidence = ConfidenceLevel(candidates[0].Confidence)
			if candidates[0].Confidence >= 0.7 {
				best := candidates[0]
				res.Match = &best
				candidates = candidates[1:]
			}
		}
		if len(candidates) > 0 {
			res.Suggestions = candidates
		}
		out[i] = res
	}
	return out
}
