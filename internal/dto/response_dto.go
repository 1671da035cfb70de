package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO is the public view of a user. Level and PointsToNextLevel are
// derived from the point total, never stored.
type UserDTO struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Avatar            *string    `json:"avatar,omitempty"`
	Points            int        `json:"points"`
	Level             int        `json:"level"`
	PointsToNextLevel int        `json:"points_to_next_level"`
	Badges            []BadgeDTO `json:"badges"`
	JoinedAt          time.Time  `json:"joined_at"`
}

type BadgeDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Points      int        `json:"points"`
	AwardedAt   *time.Time `json:"awarded_at,omitempty"`
}

type ChallengeSummaryDTO struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Difficulty   string    `json:"difficulty"`
	Category     string    `json:"category"`
	Icon         string    `json:"icon"`
	Points       int       `json:"points"`
	DisplayOrder int       `json:"order"`
	CreatedAt    time.Time `json:"created_at"`
}

type RubricDTO struct {
	Clarity           int `json:"clarity"`
	Correctness       int `json:"correctness"`
	HallucinationFree int `json:"hallucination_free"`
}

type ChallengeDetailDTO struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Task           string    `json:"task"`
	Difficulty     string    `json:"difficulty"`
	Category       string    `json:"category"`
	Icon           string    `json:"icon"`
	InputContent   string    `json:"input_content"`
	ExpectedOutput string    `json:"expected_output"`
	Rubric         RubricDTO `json:"rubric"`
	Points         int       `json:"points"`
	Threshold      int       `json:"threshold"`
	Hints          []string  `json:"hints,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ScoreDTO struct {
	Total             int `json:"total"`
	Clarity           int `json:"clarity"`
	Correctness       int `json:"correctness"`
	HallucinationFree int `json:"hallucination_free"`
}

type PromptVersionDTO struct {
	ID                 uint       `json:"id"`
	ChallengeID        uint       `json:"challenge_id"`
	Version            int        `json:"version"`
	PromptText         string     `json:"prompt_text"`
	Response           string     `json:"response"`
	Score              ScoreDTO   `json:"score"`
	GradeLetter        string     `json:"grade_letter"`
	PerformanceLevel   string     `json:"performance_level"`
	Feedback           string     `json:"feedback,omitempty"`
	HallucinationFlags []string   `json:"hallucination_flags,omitempty"`
	Submitted          bool       `json:"submitted"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// SubmissionResultDTO is the response of a scored submission: the
// persisted version plus whatever the submission unlocked.
type SubmissionResultDTO struct {
	PromptVersion     PromptVersionDTO `json:"prompt_version"`
	CompletionGranted bool             `json:"completion_granted"`
	PointsAwarded     int              `json:"points_awarded"`
	BadgesAwarded     []BadgeDTO       `json:"badges_awarded,omitempty"`
	Suggestions       []string         `json:"suggestions,omitempty"`
}

// DraftResultDTO is the response of an unscored draft run.
type DraftResultDTO struct {
	Response string `json:"response"`
	Version  int    `json:"version"`
}

type QuizDTO struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	FlawedPrompt  string   `json:"flawed_prompt"`
}

type LeaderboardEntryDTO struct {
	Rank      int    `json:"rank"`
	UserID    uint   `json:"user_id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	Level     int    `json:"level"`
	Badges    int    `json:"badges"`
	Completed int    `json:"completed_challenges"`
}

type CompletedChallengeDTO struct {
	ChallengeID uint      `json:"challenge_id"`
	Title       string    `json:"title"`
	Difficulty  string    `json:"difficulty"`
	Category    string    `json:"category"`
	Points      int       `json:"points"`
	CompletedAt time.Time `json:"completed_at"`
}

type ProfileDTO struct {
	User      UserDTO                 `json:"user"`
	Completed []CompletedChallengeDTO `json:"completed_challenges"`
}
