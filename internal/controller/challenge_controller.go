package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptifyr/internal/service"
)

type ChallengeController struct {
	challengeSvc service.ChallengeService
}

func NewChallengeController(challengeSvc service.ChallengeService) *ChallengeController {
	return &ChallengeController{challengeSvc: challengeSvc}
}

// ListChallenges godoc
// @Summary List active challenges
// @Description Get the catalog of active challenges, optionally filtered by difficulty and category
// @Tags challenges
// @Produce json
// @Param difficulty query string false "Filter by difficulty (beginner, intermediate, advanced)"
// @Param category query string false "Filter by category"
// @Success 200 {array} dto.ChallengeSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges [get]
func (ctrl *ChallengeController) ListChallenges(c *gin.Context) {
	challenges, err := ctrl.challengeSvc.ListActive(c.Query("difficulty"), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenges)
}

// GetChallenge godoc
// @Summary Get a challenge by ID
// @Description Get the full detail of one active challenge, including its task, input content and rubric
// @Tags challenges
// @Produce json
// @Param id path int true "Challenge ID"
// @Success 200 {object} dto.ChallengeDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /challenges/{id} [get]
func (ctrl *ChallengeController) GetChallenge(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	challenge, err := ctrl.challengeSvc.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}
