package model

import (
	"time"
)

// Score holds the oracle's sub-scores and the weighted total computed
// from the challenge rubric. All values are in [0, 100].
type Score struct {
	Total             int `json:"total" gorm:"not null;default:0"`
	Clarity           int `json:"clarity" gorm:"not null;default:0"`
	Correctness       int `json:"correctness" gorm:"not null;default:0"`
	HallucinationFree int `json:"hallucination_free" gorm:"not null;default:0"`
}

// PromptVersion is one user's one attempt at one challenge. Rows are
// append-only: a version is scored exactly once, at creation, and never
// mutated afterwards. For a fixed (user, challenge) pair the version
// numbers form a contiguous sequence starting at 1; the unique index
// backs the ledger's allocate-and-append guarantee.
type PromptVersion struct {
	ID                 uint       `gorm:"primarykey" json:"id"`
	UserID             uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_user_challenge_version,priority:1"`
	ChallengeID        uint       `json:"challenge_id" gorm:"not null;uniqueIndex:idx_user_challenge_version,priority:2"`
	Version            int        `json:"version" gorm:"not null;uniqueIndex:idx_user_challenge_version,priority:3"`
	PromptText         string     `json:"prompt_text" gorm:"type:text;not null"`
	Response           string     `json:"response" gorm:"type:text"`
	Score              Score      `json:"score" gorm:"embedded;embeddedPrefix:score_"`
	Feedback           string     `json:"feedback" gorm:"type:text"`
	HallucinationFlags []string   `json:"hallucination_flags,omitempty" gorm:"serializer:json"`
	Submitted          bool       `json:"submitted" gorm:"not null;default:false;index"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// GradeLetter derives a letter grade from the weighted total.
func (p *PromptVersion) GradeLetter() string {
	switch {
	case p.Score.Total >= 90:
		return "A"
	case p.Score.Total >= 80:
		return "B"
	case p.Score.Total >= 70:
		return "C"
	case p.Score.Total >= 60:
		return "D"
	default:
		return "F"
	}
}

// PerformanceLevel derives a human-readable performance label.
func (p *PromptVersion) PerformanceLevel() string {
	switch {
	case p.Score.Total >= 90:
		return "Excellent"
	case p.Score.Total >= 80:
		return "Good"
	case p.Score.Total >= 70:
		return "Fair"
	case p.Score.Total >= 60:
		return "Poor"
	default:
		return "Needs Improvement"
	}
}
