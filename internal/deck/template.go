package deck

import (
	"regexp"
	"strconv"
	"strings"
)

// Cloze deletion syntax: {{c1::hidden text}} or {{c1::hidden::hint}}.
// Formula syntax: {{f::name::formula}}.
// Package-level compiled regexps are immutable, so parsing here is pure.
var (
	clozeRE   = regexp.MustCompile(`\{\{c(\d+)::([^}]+?)(?:::([^}]+))?\}\}`)
	formulaRE = regexp.MustCompile(`\{\{f::([^:]+?)::([\s\S]+?)\}\}`)
)

type ClozeDeletion struct {
	Index int
	Text  string
	Hint  string
}

// ParseCloze extracts every cloze deletion from a template. MaxIndex is the
// highest deletion index seen, which is also the number of cards a template
// expands to.
func ParseCloze(template string) (deletions []ClozeDeletion, maxIndex int) {
	for _, m := range clozeRE.FindAllStringSubmatch(template, -1) {
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		deletions = append(deletions, ClozeDeletion{Index: idx, Text: m[2], Hint: m[3]})
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	return deletions, maxIndex
}

func HasCloze(text string) bool {
	return clozeRE.MatchString(text)
}

// CountClozeDeletions returns the number of distinct deletion indexes a
// template expands to.
func CountClozeDeletions(template string) int {
	_, maxIndex := ParseCloze(template)
	return maxIndex
}

// RenderClozeFront shows [...] (or [hint]) for the target deletion and
// reveals all others.
func RenderClozeFront(template string, targetIndex int) string {
	return clozeRE.ReplaceAllStringFunc(template, func(match string) string {
		m := clozeRE.FindStringSubmatch(match)
		idx, _ := strconv.Atoi(m[1])
		if idx == targetIndex {
			if m[3] != "" {
				return "[" + m[3] + "]"
			}
			return "[...]"
		}
		return m[2]
	})
}

// RenderClozeBack highlights the target deletion's answer and reveals all
// others.
func RenderClozeBack(template string, targetIndex int) string {
	return clozeRE.ReplaceAllStringFunc(template, func(match string) string {
		m := clozeRE.FindStringSubmatch(match)
		idx, _ := strconv.Atoi(m[1])
		if idx == targetIndex {
			return "**" + m[2] + "**"
		}
		return m[2]
	})
}

type ClozeCard struct {
	Front      string
	Back       string
	ClozeIndex int
}

// GenerateClozeCards expands a template into one front/back pair per
// deletion index.
func GenerateClozeCards(template string) []ClozeCard {
	_, maxIndex := ParseCloze(template)
	cards := make([]ClozeCard, 0, maxIndex)
	for i := 1; i <= maxIndex; i++ {
		cards = append(cards, ClozeCard{
			Front:      RenderClozeFront(template, i),
			Back:       RenderClozeBack(template, i),
			ClozeIndex: i,
		})
	}
	return cards
}

type FormulaPair struct {
	Name    string
	Formula string
}

// ParseFormula returns the first formula pair in a template, or nil.
func ParseFormula(template string) *FormulaPair {
	m := formulaRE.FindStringSubmatch(template)
	if m == nil {
		return nil
	}
	return &FormulaPair{
		Name:    strings.TrimSpace(m[1]),
		Formula: strings.TrimSpace(m[2]),
	}
}

func HasFormula(text string) bool {
	return formulaRE.MatchString(text)
}

type FormulaCard struct {
	Front     string
	Back      string
	IsReverse bool
}

// GenerateFormulaCards expands a formula template into a forward
// (name -> formula) and reverse (formula -> name) pair. The formula side is
// wrapped in $...$ for math rendering unless the template already did so.
func GenerateFormulaCards(template string) []FormulaCard {
	pair := ParseFormula(template)
	if pair == nil {
		return nil
	}

	display := pair.Formula
	if !strings.HasPrefix(display, "$") {
		display = "$" + display + "$"
	}

	return []FormulaCard{
		{Front: pair.Name, Back: display},
		{Front: display, Back: pair.Name, IsReverse: true},
	}
}
