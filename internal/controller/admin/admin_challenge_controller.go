package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/service"
)

type AdminChallengeController struct {
	challengeSvc service.ChallengeService
}

func NewAdminChallengeController(challengeSvc service.ChallengeService) *AdminChallengeController {
	return &AdminChallengeController{challengeSvc: challengeSvc}
}

func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Admin request failed")
		c.JSON(status, dto.ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

// CreateChallenge godoc
// @Summary (Admin) Create a challenge
// @Description Add a challenge to the catalog. Rubric weights must sum to 100. Points default from the difficulty tier when omitted.
// @Tags Admin - Challenges
// @Accept json
// @Produce json
// @Param challenge body dto.ChallengeCreateDTO true "Challenge data"
// @Success 201 {object} dto.ChallengeDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or rubric weights"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/challenges [post]
func (ctrl *AdminChallengeController) CreateChallenge(c *gin.Context) {
	var req dto.ChallengeCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ChallengeCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	challenge, err := ctrl.challengeSvc.AdminCreate(&req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, challenge)
}

// UpdateChallenge godoc
// @Summary (Admin) Update a challenge
// @Description Modify an existing catalog entry, including its rubric and active flag
// @Tags Admin - Challenges
// @Accept json
// @Produce json
// @Param id path int true "Challenge ID"
// @Param challenge body dto.ChallengeUpdateDTO true "Updated challenge data"
// @Success 200 {object} dto.ChallengeDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or rubric weights"
// @Failure 404 {object} dto.ErrorResponse "Challenge not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/challenges/{id} [put]
func (ctrl *AdminChallengeController) UpdateChallenge(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid challenge ID format"})
		return
	}

	var req dto.ChallengeUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind ChallengeUpdateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	challenge, err := ctrl.challengeSvc.AdminUpdate(uint(id), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, challenge)
}
