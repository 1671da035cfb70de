package service

import (
	"math"

	"promptifyr/internal/model"
)

// ScoreCalculator combines the oracle's sub-scores into the weighted
// total using a challenge rubric.
type ScoreCalculator interface {
	Combine(rubric model.Rubric, eval *PromptEvaluation) model.Score
}

type scoreCalculatorImpl struct{}

func NewScoreCalculator() ScoreCalculator {
	return &scoreCalculatorImpl{}
}

// clampScore pins a raw sub-score into [0, 100]. The oracle is asked
// for that range but is not trusted to honor it.
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Combine clamps each sub-score, applies the rubric weights as
// percentages, and rounds the weighted sum to the nearest integer.
// Weights are taken as-is; the admin catalog endpoints guarantee they
// sum to 100 before a rubric ever reaches here.
func (s *scoreCalculatorImpl) Combine(rubric model.Rubric, eval *PromptEvaluation) model.Score {
	clarity := clampScore(eval.Clarity)
	correctness := clampScore(eval.Correctness)
	hallucinationFree := clampScore(eval.HallucinationFree)

	weighted := float64(clarity)*float64(rubric.Clarity)/100.0 +
		float64(correctness)*float64(rubric.Correctness)/100.0 +
		float64(hallucinationFree)*float64(rubric.HallucinationFree)/100.0

	return model.Score{
		Total:             int(math.Round(weighted)),
		Clarity:           clarity,
		Correctness:       correctness,
		HallucinationFree: hallucinationFree,
	}
}
