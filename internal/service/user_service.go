package service

import (
	"errors"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"promptifyr/config"
	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/model"
	"promptifyr/internal/repository"
)

// UserService serves profiles, badge progress and the leaderboard.
type UserService interface {
	Profile(userID uint) (*dto.ProfileDTO, error)
	Badges(userID uint) ([]dto.BadgeDTO, error)
	Leaderboard() ([]dto.LeaderboardEntryDTO, error)
}

type userService struct {
	userRepo repository.UserRepository
	pageSize int
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) UserService {
	return &userService{userRepo: userRepo, pageSize: cfg.Leaderboard.PageSize}
}

func toUserDTO(user *model.User) dto.UserDTO {
	var out dto.UserDTO
	if err := copier.Copy(&out, user); err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Failed to map user to DTO")
	}
	out.Level = user.Level()
	out.PointsToNextLevel = user.PointsToNextLevel()
	out.Badges = make([]dto.BadgeDTO, 0, len(user.Badges))
	for _, held := range user.Badges {
		badge, ok := model.BadgeByID(held.BadgeID)
		if !ok {
			log.Warn().Str("badgeID", held.BadgeID).Msg("User holds a badge absent from the catalog")
			continue
		}
		awardedAt := held.AwardedAt
		out.Badges = append(out.Badges, dto.BadgeDTO{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Icon:        badge.Icon,
			Points:      badge.Points,
			AwardedAt:   &awardedAt,
		})
	}
	return out
}

func (s *userService) Profile(userID uint) (*dto.ProfileDTO, error) {
	user, err := s.userRepo.FindByIDWithProgress(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user %d", userID)
		}
		return nil, err
	}

	profile := &dto.ProfileDTO{
		User:      toUserDTO(user),
		Completed: make([]dto.CompletedChallengeDTO, 0, len(user.Completed)),
	}
	for _, c := range user.Completed {
		profile.Completed = append(profile.Completed, dto.CompletedChallengeDTO{
			ChallengeID: c.ChallengeID,
			Title:       c.Challenge.Title,
			Difficulty:  c.Challenge.Difficulty,
			Category:    c.Challenge.Category,
			Points:      c.Challenge.Points,
			CompletedAt: c.CompletedAt,
		})
	}
	return profile, nil
}

func (s *userService) Badges(userID uint) ([]dto.BadgeDTO, error) {
	user, err := s.userRepo.FindByIDWithProgress(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("user %d", userID)
		}
		return nil, err
	}
	return toUserDTO(user).Badges, nil
}

// Leaderboard returns the top users by points. Ties break toward the
// earlier joiner, then the lower ID, so ranks are stable across reads.
func (s *userService) Leaderboard() ([]dto.LeaderboardEntryDTO, error) {
	users, err := s.userRepo.Leaderboard(s.pageSize)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.LeaderboardEntryDTO, 0, len(users))
	for i := range users {
		u := &users[i]
		entries = append(entries, dto.LeaderboardEntryDTO{
			Rank:      i + 1,
			UserID:    u.ID,
			Name:      u.Name,
			Points:    u.Points,
			Level:     u.Level(),
			Badges:    len(u.Badges),
			Completed: len(u.Completed),
		})
	}
	return entries, nil
}
