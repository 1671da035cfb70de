package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"promptifyr/internal/middleware"
	"promptifyr/internal/model"
	"promptifyr/internal/service"
)

type UserController struct {
	userSvc service.UserService
}

func NewUserController(userSvc service.UserService) *UserController {
	return &UserController{userSvc: userSvc}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description The caller's account, points, level, badges and completed challenges
// @Tags users
// @Produce json
// @Success 200 {object} dto.ProfileDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (ctrl *UserController) GetProfile(c *gin.Context) {
	profile, err := ctrl.userSvc.Profile(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetBadges godoc
// @Summary Get the caller's badges
// @Tags users
// @Produce json
// @Success 200 {array} dto.BadgeDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /users/me/badges [get]
func (ctrl *UserController) GetBadges(c *gin.Context) {
	badges, err := ctrl.userSvc.Badges(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, badges)
}

// GetBadgeCatalog godoc
// @Summary List all badges that can be earned
// @Tags users
// @Produce json
// @Success 200 {array} model.Badge
// @Router /badges [get]
func (ctrl *UserController) GetBadgeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, model.BadgeCatalog())
}

// GetLeaderboard godoc
// @Summary Get the leaderboard
// @Description Top users ranked by points. Ties rank the earlier joiner first.
// @Tags users
// @Produce json
// @Success 200 {array} dto.LeaderboardEntryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /leaderboard [get]
func (ctrl *UserController) GetLeaderboard(c *gin.Context) {
	entries, err := ctrl.userSvc.Leaderboard()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
