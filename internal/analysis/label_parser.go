package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/foxxcyber/healthy-food/internal/models"
)

// LabelParser extracts ingredients, allergens and nutrition facts from the
// OCR text of a Brazilian food label
type LabelParser struct {
	ingredientsStart *regexp.Regexp
	sectionEnd       *regexp.Regexp
	negations        *regexp.Regexp
	plantMilk        *regexp.Regexp
	calories         *regexp.Regexp
	protein          *regexp.Regexp
	carbs            *regexp.Regexp
	fat              *regexp.Regexp
	sodium           *regexp.Regexp
	highIn           *regexp.Regexp
	allergens        []allergenKeywords
}

type allergenKeywords struct {
	name     string
	keywords []string
}

// NewLabelParser creates a new label parser
func NewLabelParser() *LabelParser {
	return &LabelParser{
		ingredientsStart: regexp.MustCompile(`(?i)ingredientes?\s*:\s*`),
		sectionEnd:       regexp.MustCompile(`(?i)^\s*(al[ée]rgicos|cont[ée]m|n[ãa]o cont[ée]m|informa[çc][ãa]o nutricional|valor energ[ée]tico|conservar|validade)`),
		// "NÃO CONTÉM GLÚTEN" and "sem lactose" must not flag the allergen
		negations: regexp.MustCompile(`(?i)\b(n[ãa]o cont[ée]m|sem|zero)\s+[\p{L}]+`),
		plantMilk: regexp.MustCompile(`(?i)leite de (coco|am[êe]ndoas?|aveia|arroz|soja|castanhas?)`),
		calories:  regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*kcal`),
		protein:   regexp.MustCompile(`(?i)prote[íi]nas?\D*?(\d+(?:[.,]\d+)?)\s*g`),
		carbs:     regexp.MustCompile(`(?i)carboidratos?(?:\s+totais)?\D*?(\d+(?:[.,]\d+)?)\s*g`),
		fat:       regexp.MustCompile(`(?i)gorduras?\s+totais\D*?(\d+(?:[.,]\d+)?)\s*g`),
		sodium:    regexp.MustCompile(`(?i)s[óo]dio\D*?(\d+(?:[.,]\d+)?)\s*mg`),
		highIn:    regexp.MustCompile(`(?i)alto em (a[çc][úu]car(?: adicionado)?|gordura saturada|s[óo]dio)`),
		allergens: []allergenKeywords{
			{"Glúten", []string{"glúten", "gluten", "trigo", "cevada", "centeio", "malte"}},
			{"Lactose", []string{"lactose", "leite", "soro de leite", "manteiga", "creme de leite"}},
			{"Nozes", []string{"nozes", "castanha", "amêndoa", "avelã", "amendoim", "macadâmia", "pistache"}},
			{"Soja", []string{"soja", "lecitina de soja"}},
			{"Ovos", []string{"ovo", "ovos", "albumina"}},
			{"Peixe", []string{"peixe", "atum", "sardinha", "salmão"}},
			{"Crustáceos", []string{"camarão", "caranguejo", "lagosta", "crustáceo"}},
		},
	}
}

// Parse reads OCR text into an AnalysisResult. Fields that cannot be found
// are left empty.
func (p *LabelParser) Parse(text string) *models.AnalysisResult {
	result := &models.AnalysisResult{
		Ingredients: p.extractIngredients(text),
		Warnings:    []string{},
		RawText:     strings.TrimSpace(text),
	}
	result.Allergens = p.extractAllergens(text)
	result.Nutrition = p.extractNutrition(text)
	result.Warnings = p.warnings(text, result)
	result.HealthScore = healthScore(result)
	return result
}

// extractIngredients reads the comma separated list after "Ingredientes:"
func (p *LabelParser) extractIngredients(text string) []string {
	loc := p.ingredientsStart.FindStringIndex(text)
	if loc == nil {
		return []string{}
	}

	var section []string
	for i, line := range strings.Split(text[loc[1]:], "\n") {
		line = strings.TrimSpace(line)
		if line == "" || (i > 0 && p.sectionEnd.MatchString(line)) {
			break
		}
		section = append(section, line)
		if strings.HasSuffix(line, ".") {
			break
		}
	}

	joined := strings.Join(section, " ")
	ingredients := []string{}
	for _, part := range strings.FieldsFunc(joined, func(r rune) bool { return r == ',' || r == ';' }) {
		name := cleanIngredient(part)
		if name != "" {
			ingredients = append(ingredients, name)
		}
	}
	return ingredients
}

func cleanIngredient(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimRight(s, ".:-_ ")
	s = strings.TrimLeft(s, "*-• ")
	return strings.TrimSpace(s)
}

// extractAllergens scans the text for allergen keywords, ignoring negated
// mentions such as "não contém glúten"
func (p *LabelParser) extractAllergens(text string) []string {
	lowered := strings.ToLower(text)
	lowered = p.negations.ReplaceAllString(lowered, " ")
	lowered = p.plantMilk.ReplaceAllString(lowered, "$1")

	found := []string{}
	for _, a := range p.allergens {
		for _, kw := range a.keywords {
			if strings.Contains(lowered, kw) {
				found = append(found, a.name)
				break
			}
		}
	}
	return found
}

func (p *LabelParser) extractNutrition(text string) models.LabelNutrition {
	return models.LabelNutrition{
		Calories: firstNumber(p.calories, text),
		Protein:  firstNumber(p.protein, text),
		Carbs:    firstNumber(p.carbs, text),
		Fat:      firstNumber(p.fat, text),
		Sodium:   firstNumber(p.sodium, text),
	}
}

// firstNumber returns the first captured number, accepting a decimal comma
func firstNumber(re *regexp.Regexp, text string) float64 {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func (p *LabelParser) warnings(text string, r *models.AnalysisResult) []string {
	warnings := []string{}
	seen := make(map[string]bool)
	add := func(w string) {
		if !seen[w] {
			seen[w] = true
			warnings = append(warnings, w)
		}
	}

	for _, a := range r.Allergens {
		add("Contém " + strings.ToLower(a))
	}
	if r.Nutrition.Sodium >= 300 {
		add("Alto teor de sódio")
	}
	if r.Nutrition.Fat >= 15 {
		add("Alto teor de gordura")
	}
	for i, ing := range r.Ingredients {
		if i < 3 && strings.Contains(strings.ToLower(ing), "açúcar") {
			add("Alto teor de açúcar")
		}
	}
	for _, m := range p.highIn.FindAllStringSubmatch(text, -1) {
		switch strings.ToLower(m[1][:1]) {
		case "a":
			add("Alto teor de açúcar")
		case "g":
			add("Alto teor de gordura")
		case "s":
			add("Alto teor de sódio")
		}
	}
	return warnings
}

// healthScore rates a label from 0 to 10. Each warning costs 1.5, more than
// 400 kcal costs 1 and at least 10 g of protein adds 0.5.
func healthScore(r *models.AnalysisResult) float64 {
	score := 10.0
	score -= 1.5 * float64(len(r.Warnings))
	if r.Nutrition.Calories > 400 {
		score--
	}
	if r.Nutrition.Protein >= 10 {
		score += 0.5
	}
	score = math.Max(0, math.Min(10, score))
	return math.Round(score*10) / 10
}
