package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"promptifyr/internal/dto"
	"promptifyr/internal/middleware"
	"promptifyr/internal/service"
)

type PromptController struct {
	submissionSvc service.SubmissionService
}

func NewPromptController(submissionSvc service.SubmissionService) *PromptController {
	return &PromptController{submissionSvc: submissionSvc}
}

// SubmitPrompt godoc
// @Summary Submit a prompt for scoring
// @Description Run the prompt against the challenge input, score it, and apply any completion credit, points and badges it earns
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path int true "Challenge ID"
// @Param submission body dto.SubmitPromptRequest true "Prompt text"
// @Success 200 {object} dto.SubmissionResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or prompt length"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent submission conflict, retry"
// @Failure 503 {object} dto.ErrorResponse "Evaluation service unavailable, retry"
// @Router /challenges/{id}/submit [post]
func (ctrl *PromptController) SubmitPrompt(c *gin.Context) {
	challengeID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitPromptRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctrl.submissionSvc.Submit(c.Request.Context(), middleware.UserID(c), challengeID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TestPrompt godoc
// @Summary Try a prompt without scoring
// @Description Run the prompt against the challenge input and return the response. The draft takes a version number but is never scored.
// @Tags prompts
// @Accept json
// @Produce json
// @Param id path int true "Challenge ID"
// @Param draft body dto.SubmitPromptRequest true "Prompt text"
// @Success 200 {object} dto.DraftResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or prompt length"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Failure 503 {object} dto.ErrorResponse "Evaluation service unavailable, retry"
// @Router /challenges/{id}/test [post]
func (ctrl *PromptController) TestPrompt(c *gin.Context) {
	challengeID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitPromptRequest for draft")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctrl.submissionSvc.TestPrompt(c.Request.Context(), middleware.UserID(c), challengeID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetHistory godoc
// @Summary Get the caller's version history for a challenge
// @Description All prompt versions the caller created for the challenge, newest first, drafts included
// @Tags prompts
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {array} dto.PromptVersionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /challenges/{id}/versions [get]
func (ctrl *PromptController) GetHistory(c *gin.Context) {
	challengeID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	history, err := ctrl.submissionSvc.History(middleware.UserID(c), challengeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetVersion godoc
// @Summary Get one prompt version
// @Description One specific version from the caller's history for the challenge
// @Tags prompts
// @Produce json
// @Param id path int true "Challenge ID"
// @Param version path int true "Version number"
// @Success 200 {object} dto.PromptVersionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or version format"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Version not found"
// @Router /challenges/{id}/versions/{version} [get]
func (ctrl *PromptController) GetVersion(c *gin.Context) {
	challengeID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid version format"})
		return
	}

	pv, err := ctrl.submissionSvc.GetVersion(middleware.UserID(c), challengeID, version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pv)
}

// GetQuiz godoc
// @Summary Get a spot-the-flaw quiz for a challenge
// @Description A multiple-choice question about a flawed prompt for the challenge's task
// @Tags prompts
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {object} dto.QuizDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Router /challenges/{id}/quiz [get]
func (ctrl *PromptController) GetQuiz(c *gin.Context) {
	challengeID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	quiz, err := ctrl.submissionSvc.Quiz(c.Request.Context(), challengeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}
