package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCloze(t *testing.T) {
	deletions, maxIndex := ParseCloze("The {{c1::mitochondria}} is the {{c2::powerhouse::organelle role}} of the cell")
	assert.Equal(t, 2, maxIndex)
	assert.Equal(t, []ClozeDeletion{
		{Index: 1, Text: "mitochondria"},
		{Index: 2, Text: "powerhouse", Hint: "organelle role"},
	}, deletions)
}

func TestParseClozeRepeatedIndex(t *testing.T) {
	// Two deletions sharing an index still test as one card.
	deletions, maxIndex := ParseCloze("{{c1::alpha}} and {{c1::beta}}")
	assert.Equal(t, 1, maxIndex)
	assert.Len(t, deletions, 2)
}

func TestParseClozeNone(t *testing.T) {
	deletions, maxIndex := ParseCloze("no deletions here")
	assert.Equal(t, 0, maxIndex)
	assert.Empty(t, deletions)
	assert.False(t, HasCloze("no deletions here"))
	assert.True(t, HasCloze("{{c3::yes}}"))
}

func TestRenderClozeFront(t *testing.T) {
	template := "{{c1::Paris}} is the capital of {{c2::France::country}}"
	assert.Equal(t, "[...] is the capital of France", RenderClozeFront(template, 1))
	assert.Equal(t, "Paris is the capital of [country]", RenderClozeFront(template, 2))
}

func TestRenderClozeBack(t *testing.T) {
	template := "{{c1::Paris}} is the capital of {{c2::France}}"
	assert.Equal(t, "**Paris** is the capital of France", RenderClozeBack(template, 1))
	assert.Equal(t, "Paris is the capital of **France**", RenderClozeBack(template, 2))
}

func TestGenerateClozeCards(t *testing.T) {
	template := "{{c1::Oxygen}} has atomic number {{c2::8}}"
	cards := GenerateClozeCards(template)
	assert.Len(t, cards, 2)
	assert.Equal(t, ClozeCard{
		Front:      "[...] has atomic number 8",
		Back:       "**Oxygen** has atomic number 8",
		ClozeIndex: 1,
	}, cards[0])
	assert.Equal(t, 2, cards[1].ClozeIndex)
	assert.Equal(t, 2, CountClozeDeletions(template))
}

func TestParseFormula(t *testing.T) {
	pair := ParseFormula("{{f::Euler's identity::e^{i\\pi} + 1 = 0}}")
	assert.NotNil(t, pair)
	assert.Equal(t, "Euler's identity", pair.Name)
	assert.Equal(t, "e^{i\\pi} + 1 = 0", pair.Formula)

	assert.Nil(t, ParseFormula("just text"))
	assert.False(t, HasFormula("just text"))
	assert.True(t, HasFormula("{{f::name::x+y}}"))
}

func TestGenerateFormulaCards(t *testing.T) {
	cards := GenerateFormulaCards("{{f::Determinant 2x2::ad - bc}}")
	assert.Len(t, cards, 2)
	assert.Equal(t, FormulaCard{Front: "Determinant 2x2", Back: "$ad - bc$"}, cards[0])
	assert.Equal(t, FormulaCard{Front: "$ad - bc$", Back: "Determinant 2x2", IsReverse: true}, cards[1])
}

func TestGenerateFormulaCardsAlreadyWrapped(t *testing.T) {
	cards := GenerateFormulaCards("{{f::Quadratic formula::$x = \\frac{-b}{2a}$}}")
	assert.Len(t, cards, 2)
	// Pre-wrapped formulas are not double-wrapped.
	assert.Equal(t, "$x = \\frac{-b}{2a}$", cards[0].Back)
}

func TestGenerateFormulaCardsNoMatch(t *testing.T) {
	assert.Empty(t, GenerateFormulaCards("nothing to see"))
}
