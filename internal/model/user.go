package model

import (
	"time"

	"gorm.io/gorm"
)

// Level thresholds over the user's point total. A user is at the highest
// level whose threshold their points have reached.
var levelThresholds = []int{0, 101, 301, 601, 1001}

const MaxLevel = 5

type User struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Email      string         `json:"email" gorm:"not null;uniqueIndex"`
	Password   string         `json:"-" gorm:"not null"`
	Name       string         `json:"name" gorm:"not null"`
	Avatar     *string        `json:"avatar,omitempty"`
	Points     int            `json:"points" gorm:"not null;default:0"`
	JoinedAt   time.Time      `json:"joined_at" gorm:"autoCreateTime"`
	LastActive time.Time      `json:"last_active"`
	Badges     []UserBadge    `json:"badges,omitempty" gorm:"foreignKey:UserID"`
	Completed  []Completion   `json:"completed_challenges,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Level derives the user's level from their point total. Never persisted.
func (u *User) Level() int {
	level := 1
	for i := 1; i < len(levelThresholds); i++ {
		if u.Points >= levelThresholds[i] {
			level = i + 1
		}
	}
	return level
}

// PointsToNextLevel returns how many points are missing for the next
// level, or 0 at the level cap.
func (u *User) PointsToNextLevel() int {
	level := u.Level()
	if level >= MaxLevel {
		return 0
	}
	remaining := levelThresholds[level] - u.Points
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasBadge reports whether the user already holds the given badge.
func (u *User) HasBadge(badgeID string) bool {
	for _, b := range u.Badges {
		if b.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// UserBadge records one badge held by one user. The composite primary
// key makes a second award of the same badge a conflict, which the
// progression transaction turns into a no-op.
type UserBadge struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	BadgeID   string    `gorm:"primaryKey;type:varchar(64)" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at" gorm:"autoCreateTime"`
}

// Completion records that a user completed a challenge. At most one row
// per (user, challenge) pair.
type Completion struct {
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	ChallengeID uint      `gorm:"primaryKey" json:"challenge_id"`
	Challenge   Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`
}
