package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"promptifyr/internal/apperror"
	"promptifyr/internal/model"
	"promptifyr/internal/repository"
)

// maxApplyRetries bounds how many times Apply re-runs the progression
// transaction after losing a race on the user aggregate.
const maxApplyRetries = 3

// ProgressionService applies a scored submission to the user aggregate:
// completion credit, badge unlocks and point awards, all in one
// transaction or not at all.
type ProgressionService interface {
	Apply(challenge *model.Challenge, pv *model.PromptVersion) (*Decision, error)
}

// progressionService holds the raw DB handle rather than repositories:
// every read it performs must run on the same transaction that applies
// the award, so badge predicates never see state the award will not be
// committed against.
type progressionService struct {
	db *gorm.DB
}

func NewProgressionService(db *gorm.DB) ProgressionService {
	return &progressionService{db: db}
}

func (s *progressionService) Apply(challenge *model.Challenge, pv *model.PromptVersion) (*Decision, error) {
	var decision Decision

	for attempt := 0; attempt < maxApplyRetries; attempt++ {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			// Lock the user row first. All concurrent submissions for the
			// same user serialize here, so the stats snapshot and the
			// awards derived from it cannot interleave.
			var user model.User
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, pv.UserID).Error; err != nil {
				return err
			}

			var priorSubmitted int64
			if err := tx.Model(&model.PromptVersion{}).
				Where("user_id = ? AND challenge_id = ? AND submitted = ? AND id <> ?",
					pv.UserID, pv.ChallengeID, true, pv.ID).
				Count(&priorSubmitted).Error; err != nil {
				return err
			}

			var completed int64
			if err := tx.Model(&model.Completion{}).
				Where("user_id = ? AND challenge_id = ?", pv.UserID, pv.ChallengeID).
				Count(&completed).Error; err != nil {
				return err
			}

			var held []model.UserBadge
			if err := tx.Where("user_id = ?", pv.UserID).Find(&held).Error; err != nil {
				return err
			}
			heldBadges := make(map[string]bool, len(held))
			for _, b := range held {
				heldBadges[b.BadgeID] = true
			}

			stats, err := repository.CollectAggregateStats(tx, pv.UserID)
			if err != nil {
				return err
			}

			decision = DecideProgression(challenge, pv, priorSubmitted > 0, completed > 0, heldBadges, stats)

			if decision.CompletionGranted {
				completion := model.Completion{UserID: pv.UserID, ChallengeID: pv.ChallengeID}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
					return err
				}
			}

			for _, badge := range decision.Badges {
				award := model.UserBadge{UserID: pv.UserID, BadgeID: badge.ID}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&award).Error; err != nil {
					return err
				}
			}

			if decision.PointsDelta != 0 {
				if err := tx.Model(&model.User{}).
					Where("id = ?", pv.UserID).
					UpdateColumn("points", gorm.Expr("points + ?", decision.PointsDelta)).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if err == nil {
			return &decision, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn().
				Uint("userID", pv.UserID).
				Uint("challengeID", pv.ChallengeID).
				Msg("Progression race lost, retrying")
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: could not apply progression for user %d", apperror.ErrConcurrency, pv.UserID)
}
