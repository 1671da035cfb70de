package repository

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"promptifyr/internal/apperror"
	"promptifyr/internal/model"
)

// maxAppendRetries bounds how many times Append re-runs the
// allocate-and-append transaction after losing a version race.
const maxAppendRetries = 3

// PromptVersionRepository is the append-only ledger of prompt attempts.
type PromptVersionRepository interface {
	// Append allocates the next version number for the record's
	// (user, challenge) pair and persists it, as one atomic step.
	Append(pv *model.PromptVersion) error
	// NextVersion returns one greater than the highest existing version
	// for the pair, or 1 if none exist. Read-only; Append re-computes
	// the number inside its own transaction.
	NextVersion(userID, challengeID uint) (int, error)
	// History returns all versions for the pair, newest first.
	History(userID, challengeID uint) ([]model.PromptVersion, error)
	FindVersion(userID, challengeID uint, version int) (*model.PromptVersion, error)
	// HasPriorSubmission reports whether any submitted version other
	// than excludeID exists for the pair.
	HasPriorSubmission(userID, challengeID, excludeID uint) (bool, error)
}

type promptVersionRepository struct {
	db *gorm.DB
}

func NewPromptVersionRepository(db *gorm.DB) PromptVersionRepository {
	return &promptVersionRepository{db: db}
}

func (r *promptVersionRepository) nextVersion(tx *gorm.DB, userID, challengeID uint) (int, error) {
	var maxVersion int
	err := tx.Model(&model.PromptVersion{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Select("COALESCE(MAX(version), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}

func (r *promptVersionRepository) NextVersion(userID, challengeID uint) (int, error) {
	return r.nextVersion(r.db, userID, challengeID)
}

// Append computes max+1 and inserts within one transaction. Two
// concurrent submissions for the same pair can still compute the same
// number; the unique (user_id, challenge_id, version) index rejects the
// loser and the whole transaction is retried with a fresh number. After
// maxAppendRetries the race surfaces as a retryable conflict.
func (r *promptVersionRepository) Append(pv *model.PromptVersion) error {
	for attempt := 0; attempt < maxAppendRetries; attempt++ {
		err := r.db.Transaction(func(tx *gorm.DB) error {
			next, err := r.nextVersion(tx, pv.UserID, pv.ChallengeID)
			if err != nil {
				return err
			}
			pv.Version = next
			return tx.Create(pv).Error
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			log.Warn().
				Uint("userID", pv.UserID).
				Uint("challengeID", pv.ChallengeID).
				Int("version", pv.Version).
				Msg("Version allocation race lost, retrying")
			pv.ID = 0
			continue
		}
		return err
	}
	return fmt.Errorf("%w: could not allocate version for user %d, challenge %d",
		apperror.ErrConflict, pv.UserID, pv.ChallengeID)
}

func (r *promptVersionRepository) History(userID, challengeID uint) ([]model.PromptVersion, error) {
	var versions []model.PromptVersion
	err := r.db.
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Order("version DESC").
		Find(&versions).Error
	return versions, err
}

func (r *promptVersionRepository) FindVersion(userID, challengeID uint, version int) (*model.PromptVersion, error) {
	var pv model.PromptVersion
	err := r.db.
		Where("user_id = ? AND challenge_id = ? AND version = ?", userID, challengeID, version).
		First(&pv).Error
	if err != nil {
		return nil, err
	}
	return &pv, nil
}

func (r *promptVersionRepository) HasPriorSubmission(userID, challengeID, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.PromptVersion{}).
		Where("user_id = ? AND challenge_id = ? AND submitted = ? AND id <> ?", userID, challengeID, true, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CollectAggregateStats gathers the badge-predicate counters for a user.
// Callers that award badges run it on their own transaction handle so
// the counts and the award commit or roll back together.
func CollectAggregateStats(tx *gorm.DB, userID uint) (model.AggregateStats, error) {
	var stats model.AggregateStats

	var completed int64
	if err := tx.Model(&model.Completion{}).Where("user_id = ?", userID).Count(&completed).Error; err != nil {
		return stats, err
	}
	var high int64
	if err := tx.Model(&model.PromptVersion{}).
		Where("user_id = ? AND submitted = ? AND score_total >= ?", userID, true, 80).
		Count(&high).Error; err != nil {
		return stats, err
	}
	var excellent int64
	if err := tx.Model(&model.PromptVersion{}).
		Where("user_id = ? AND submitted = ? AND score_total >= ?", userID, true, 90).
		Count(&excellent).Error; err != nil {
		return stats, err
	}
	var total int64
	if err := tx.Model(&model.PromptVersion{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return stats, err
	}

	stats.CompletedChallenges = int(completed)
	stats.HighScoreSubmissions = int(high)
	stats.ExcellentSubmissions = int(excellent)
	stats.TotalVersions = int(total)
	return stats, nil
}
