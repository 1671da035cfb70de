package repository

import (
	"gorm.io/gorm"

	"promptifyr/internal/model"
)

type ChallengeRepository interface {
	Create(ch *model.Challenge) error
	Update(ch *model.Challenge) error
	FindByID(id uint) (*model.Challenge, error)
	// FindAllActive lists active challenges grouped by difficulty in
	// catalog order, optionally filtered by difficulty and/or category.
	FindAllActive(difficulty, category string) ([]model.Challenge, error)
}

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ch *model.Challenge) error {
	return r.db.Create(ch).Error
}

func (r *challengeRepository) Update(ch *model.Challenge) error {
	return r.db.Save(ch).Error
}

func (r *challengeRepository) FindByID(id uint) (*model.Challenge, error) {
	var ch model.Challenge
	if err := r.db.First(&ch, id).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *challengeRepository) FindAllActive(difficulty, category string) ([]model.Challenge, error) {
	query := r.db.Where("is_active = ?", true)
	if difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var challenges []model.Challenge
	err := query.Order("difficulty ASC, display_order ASC, id ASC").Find(&challenges).Error
	return challenges, err
}
