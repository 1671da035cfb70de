package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeLetter(t *testing.T) {
	cases := []struct {
		total int
		grade string
	}{
		{95, "A"},
		{90, "A"},
		{89, "B"},
		{80, "B"},
		{79, "C"},
		{70, "C"},
		{69, "D"},
		{60, "D"},
		{59, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		pv := PromptVersion{Score: Score{Total: tc.total}}
		assert.Equal(t, tc.grade, pv.GradeLetter(), "total=%d", tc.total)
	}
}

func TestPerformanceLevel(t *testing.T) {
	cases := []struct {
		total int
		label string
	}{
		{92, "Excellent"},
		{85, "Good"},
		{73, "Fair"},
		{61, "Poor"},
		{40, "Needs Improvement"},
	}
	for _, tc := range cases {
		pv := PromptVersion{Score: Score{Total: tc.total}}
		assert.Equal(t, tc.label, pv.PerformanceLevel(), "total=%d", tc.total)
	}
}

func TestRubricWeightsSum(t *testing.T) {
	assert.Equal(t, 100, Rubric{Clarity: 30, Correctness: 50, HallucinationFree: 20}.WeightsSum())
	assert.Equal(t, 90, Rubric{Clarity: 30, Correctness: 40, HallucinationFree: 20}.WeightsSum())
}

func TestDefaultPoints(t *testing.T) {
	assert.Equal(t, 10, DefaultPoints("beginner"))
	assert.Equal(t, 20, DefaultPoints("intermediate"))
	assert.Equal(t, 30, DefaultPoints("advanced"))
	assert.Equal(t, 10, DefaultPoints("unknown"))
}
