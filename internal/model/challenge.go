package model

import (
	"time"

	"gorm.io/gorm"
)

// CompletionThreshold is the minimum weighted total a submitted prompt
// must reach for a challenge to count as completed.
const CompletionThreshold = 60

// Rubric holds the weights used to combine the three sub-scores into a
// weighted total. The weights are percentages intended to sum to 100;
// the admin catalog endpoints validate that, the calculator does not.
type Rubric struct {
	Clarity           int `json:"clarity" gorm:"not null;default:30"`
	Correctness       int `json:"correctness" gorm:"not null;default:50"`
	HallucinationFree int `json:"hallucination_free" gorm:"not null;default:20"`
}

// WeightsSum returns the sum of the three rubric weights.
func (r Rubric) WeightsSum() int {
	return r.Clarity + r.Correctness + r.HallucinationFree
}

type Challenge struct {
	ID                  uint           `gorm:"primarykey" json:"id"`
	Title               string         `json:"title" gorm:"not null"`
	Slug                string         `json:"slug" gorm:"not null;uniqueIndex"`
	Description         string         `json:"description" gorm:"not null"`
	Task                string         `json:"task" gorm:"type:text;not null"`
	Difficulty          string         `json:"difficulty" gorm:"not null;default:'beginner'"` // "beginner", "intermediate", "advanced"
	Category            string         `json:"category" gorm:"not null;index"`
	Icon                string         `json:"icon" gorm:"default:'🎯'"`
	InputContent        string         `json:"input_content" gorm:"type:text;not null"`
	ExpectedOutput      string         `json:"expected_output" gorm:"type:text;not null"`
	Rubric              Rubric         `json:"rubric" gorm:"embedded;embeddedPrefix:rubric_"`
	Points              int            `json:"points" gorm:"not null"`
	Threshold           int            `json:"threshold" gorm:"not null;default:60"`
	IsActive            bool           `json:"is_active" gorm:"default:true;index"`
	DisplayOrder        int            `json:"order" gorm:"not null;default:0"`
	Hints               []string       `json:"hints,omitempty" gorm:"serializer:json"`
	FlawedPromptExample *string        `json:"flawed_prompt_example,omitempty" gorm:"type:text"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// DefaultPoints maps a difficulty tier to its base point value.
func DefaultPoints(difficulty string) int {
	switch difficulty {
	case "beginner":
		return 10
	case "intermediate":
		return 20
	case "advanced":
		return 30
	default:
		return 10
	}
}
