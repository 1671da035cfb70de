package dto

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SubmitPromptRequest carries one prompt attempt, for both the scored
// submit endpoint and the unscored draft ("test") endpoint.
type SubmitPromptRequest struct {
	Prompt string `json:"prompt" binding:"required,min=10,max=5000"`
}
