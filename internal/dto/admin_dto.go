package dto

// RubricCreateDTO carries rubric weights for catalog management. The
// three weights must sum to 100; the challenge service enforces it.
type RubricCreateDTO struct {
	Clarity           int `json:"clarity" binding:"required,min=0,max=100"`
	Correctness       int `json:"correctness" binding:"required,min=0,max=100"`
	HallucinationFree int `json:"hallucination_free" binding:"min=0,max=100"`
}

// ChallengeCreateDTO is for admins adding a challenge to the catalog.
type ChallengeCreateDTO struct {
	Title               string          `json:"title" binding:"required,max=100"`
	Description         string          `json:"description" binding:"required,max=500"`
	Task                string          `json:"task" binding:"required"`
	Difficulty          string          `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Category            string          `json:"category" binding:"required"`
	Icon                string          `json:"icon"`
	InputContent        string          `json:"input_content" binding:"required"`
	ExpectedOutput      string          `json:"expected_output" binding:"required"`
	Rubric              RubricCreateDTO `json:"rubric" binding:"required"`
	Points              int             `json:"points" binding:"min=0"` // 0 means: use difficulty default
	DisplayOrder        int             `json:"order"`
	Hints               []string        `json:"hints"`
	FlawedPromptExample *string         `json:"flawed_prompt_example"`
}

// ChallengeUpdateDTO mirrors ChallengeCreateDTO for catalog edits.
type ChallengeUpdateDTO struct {
	Title               string          `json:"title" binding:"required,max=100"`
	Description         string          `json:"description" binding:"required,max=500"`
	Task                string          `json:"task" binding:"required"`
	Difficulty          string          `json:"difficulty" binding:"required,oneof=beginner intermediate advanced"`
	Category            string          `json:"category" binding:"required"`
	Icon                string          `json:"icon"`
	InputContent        string          `json:"input_content" binding:"required"`
	ExpectedOutput      string          `json:"expected_output" binding:"required"`
	Rubric              RubricCreateDTO `json:"rubric" binding:"required"`
	Points              int             `json:"points" binding:"min=0"`
	DisplayOrder        int             `json:"order"`
	Hints               []string        `json:"hints"`
	FlawedPromptExample *string         `json:"flawed_prompt_example"`
	IsActive            *bool           `json:"is_active"`
}
