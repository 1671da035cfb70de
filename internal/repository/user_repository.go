package repository

import (
	"time"

	"gorm.io/gorm"

	"promptifyr/internal/model"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	// FindByIDWithProgress preloads badges and completed challenges
	// (with challenge details) for profile views.
	FindByIDWithProgress(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	TouchLastActive(id uint) error
	// Leaderboard orders users by points descending with a stable
	// tie-break on join time then id, truncated to limit rows.
	Leaderboard(limit int) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDWithProgress(id uint) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("Badges").
		Preload("Completed.Challenge").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) TouchLastActive(id uint) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Update("last_active", time.Now()).Error
}

func (r *userRepository) Leaderboard(limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Preload("Badges").
		Preload("Completed").
		Order("points DESC, joined_at ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
