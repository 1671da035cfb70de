package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"promptifyr/internal/model"
)

var defaultRubric = model.Rubric{Clarity: 30, Correctness: 50, HallucinationFree: 20}

func TestCombineWeightedTotal(t *testing.T) {
	calc := NewScoreCalculator()

	score := calc.Combine(defaultRubric, &PromptEvaluation{
		Clarity:           80,
		Correctness:       90,
		HallucinationFree: 70,
	})

	// 80*0.3 + 90*0.5 + 70*0.2 = 24 + 45 + 14 = 83
	assert.Equal(t, 83, score.Total)
	assert.Equal(t, 80, score.Clarity)
	assert.Equal(t, 90, score.Correctness)
	assert.Equal(t, 70, score.HallucinationFree)
}

func TestCombineRoundsToNearest(t *testing.T) {
	calc := NewScoreCalculator()

	// 85*0.3 + 85*0.5 + 86*0.2 = 25.5 + 42.5 + 17.2 = 85.2 -> 85
	score := calc.Combine(defaultRubric, &PromptEvaluation{Clarity: 85, Correctness: 85, HallucinationFree: 86})
	assert.Equal(t, 85, score.Total)

	// 85*0.3 + 86*0.5 + 86*0.2 = 25.5 + 43 + 17.2 = 85.7 -> 86
	score = calc.Combine(defaultRubric, &PromptEvaluation{Clarity: 85, Correctness: 86, HallucinationFree: 86})
	assert.Equal(t, 86, score.Total)
}

func TestCombineClampsSubScores(t *testing.T) {
	calc := NewScoreCalculator()

	score := calc.Combine(defaultRubric, &PromptEvaluation{
		Clarity:           150,
		Correctness:       -20,
		HallucinationFree: 100,
	})

	assert.Equal(t, 100, score.Clarity)
	assert.Equal(t, 0, score.Correctness)
	assert.Equal(t, 100, score.HallucinationFree)
	// 100*0.3 + 0*0.5 + 100*0.2 = 50
	assert.Equal(t, 50, score.Total)
}

func TestCombinePerfectAndZero(t *testing.T) {
	calc := NewScoreCalculator()

	perfect := calc.Combine(defaultRubric, &PromptEvaluation{Clarity: 100, Correctness: 100, HallucinationFree: 100})
	assert.Equal(t, 100, perfect.Total)

	zero := calc.Combine(defaultRubric, &PromptEvaluation{})
	assert.Equal(t, 0, zero.Total)
}

func TestCombineNeutralFallbackScoresFifty(t *testing.T) {
	calc := NewScoreCalculator()

	score := calc.Combine(defaultRubric, neutralFallbackEvaluation())
	assert.Equal(t, 50, score.Total)
}
