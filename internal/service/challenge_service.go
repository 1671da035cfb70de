package service

import (
	"errors"

	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/model"
	"promptifyr/internal/repository"
)

// ChallengeService serves the public catalog views and the admin
// catalog management behind them.
type ChallengeService interface {
	ListActive(difficulty, category string) ([]dto.ChallengeSummaryDTO, error)
	GetByID(id uint) (*dto.ChallengeDetailDTO, error)
	AdminCreate(req *dto.ChallengeCreateDTO) (*dto.ChallengeDetailDTO, error)
	AdminUpdate(id uint, req *dto.ChallengeUpdateDTO) (*dto.ChallengeDetailDTO, error)
}

type challengeService struct {
	repo repository.ChallengeRepository
}

func NewChallengeService(repo repository.ChallengeRepository) ChallengeService {
	return &challengeService{repo: repo}
}

func toChallengeSummaryDTO(ch *model.Challenge) dto.ChallengeSummaryDTO {
	var out dto.ChallengeSummaryDTO
	if err := copier.Copy(&out, ch); err != nil {
		log.Error().Err(err).Uint("challengeID", ch.ID).Msg("Failed to map challenge to summary DTO")
	}
	return out
}

func toChallengeDetailDTO(ch *model.Challenge) dto.ChallengeDetailDTO {
	var out dto.ChallengeDetailDTO
	if err := copier.Copy(&out, ch); err != nil {
		log.Error().Err(err).Uint("challengeID", ch.ID).Msg("Failed to map challenge to detail DTO")
	}
	return out
}

func (s *challengeService) ListActive(difficulty, category string) ([]dto.ChallengeSummaryDTO, error) {
	challenges, err := s.repo.FindAllActive(difficulty, category)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ChallengeSummaryDTO, 0, len(challenges))
	for i := range challenges {
		out = append(out, toChallengeSummaryDTO(&challenges[i]))
	}
	return out, nil
}

func (s *challengeService) GetByID(id uint) (*dto.ChallengeDetailDTO, error) {
	challenge, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("challenge %d", id)
		}
		return nil, err
	}
	if !challenge.IsActive {
		return nil, apperror.NotFoundf("challenge %d", id)
	}
	out := toChallengeDetailDTO(challenge)
	return &out, nil
}

func rubricFromDTO(r dto.RubricCreateDTO) (model.Rubric, error) {
	rubric := model.Rubric{
		Clarity:           r.Clarity,
		Correctness:       r.Correctness,
		HallucinationFree: r.HallucinationFree,
	}
	if sum := rubric.WeightsSum(); sum != 100 {
		return rubric, apperror.Validationf("rubric weights must sum to 100, got %d", sum)
	}
	return rubric, nil
}

func (s *challengeService) AdminCreate(req *dto.ChallengeCreateDTO) (*dto.ChallengeDetailDTO, error) {
	rubric, err := rubricFromDTO(req.Rubric)
	if err != nil {
		return nil, err
	}

	points := req.Points
	if points == 0 {
		points = model.DefaultPoints(req.Difficulty)
	}

	challenge := &model.Challenge{
		Title:               req.Title,
		Slug:                slug.Make(req.Title),
		Description:         req.Description,
		Task:                req.Task,
		Difficulty:          req.Difficulty,
		Category:            req.Category,
		Icon:                req.Icon,
		InputContent:        req.InputContent,
		ExpectedOutput:      req.ExpectedOutput,
		Rubric:              rubric,
		Points:              points,
		Threshold:           model.CompletionThreshold,
		IsActive:            true,
		DisplayOrder:        req.DisplayOrder,
		Hints:               req.Hints,
		FlawedPromptExample: req.FlawedPromptExample,
	}
	if challenge.Icon == "" {
		challenge.Icon = "🎯"
	}

	if err := s.repo.Create(challenge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validationf("a challenge titled %q already exists", req.Title)
		}
		return nil, err
	}

	log.Info().Uint("challengeID", challenge.ID).Str("slug", challenge.Slug).Msg("Challenge created")
	out := toChallengeDetailDTO(challenge)
	return &out, nil
}

func (s *challengeService) AdminUpdate(id uint, req *dto.ChallengeUpdateDTO) (*dto.ChallengeDetailDTO, error) {
	rubric, err := rubricFromDTO(req.Rubric)
	if err != nil {
		return nil, err
	}

	challenge, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("challenge %d", id)
		}
		return nil, err
	}

	challenge.Title = req.Title
	challenge.Slug = slug.Make(req.Title)
	challenge.Description = req.Description
	challenge.Task = req.Task
	challenge.Difficulty = req.Difficulty
	challenge.Category = req.Category
	if req.Icon != "" {
		challenge.Icon = req.Icon
	}
	challenge.InputContent = req.InputContent
	challenge.ExpectedOutput = req.ExpectedOutput
	challenge.Rubric = rubric
	if req.Points != 0 {
		challenge.Points = req.Points
	}
	challenge.DisplayOrder = req.DisplayOrder
	challenge.Hints = req.Hints
	challenge.FlawedPromptExample = req.FlawedPromptExample
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	if err := s.repo.Update(challenge); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Validationf("a challenge titled %q already exists", req.Title)
		}
		return nil, err
	}

	log.Info().Uint("challengeID", challenge.ID).Msg("Challenge updated")
	out := toChallengeDetailDTO(challenge)
	return &out, nil
}
