package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/model"
	"promptifyr/internal/repository"
)

const (
	minPromptLength = 10
	maxPromptLength = 5000

	// suggestionThreshold is the score below which a submission comes
	// back with improvement suggestions attached.
	suggestionThreshold = 80
)

// SubmissionService runs the prompt pipeline: drafts, scored
// submissions and the version history they accumulate.
type SubmissionService interface {
	Submit(ctx context.Context, userID, challengeID uint, promptText string) (*dto.SubmissionResultDTO, error)
	TestPrompt(ctx context.Context, userID, challengeID uint, promptText string) (*dto.DraftResultDTO, error)
	History(userID, challengeID uint) ([]dto.PromptVersionDTO, error)
	GetVersion(userID, challengeID uint, version int) (*dto.PromptVersionDTO, error)
	Quiz(ctx context.Context, challengeID uint) (*dto.QuizDTO, error)
}

type submissionService struct {
	challengeRepo repository.ChallengeRepository
	versionRepo   repository.PromptVersionRepository
	llm           LLMService
	scores        ScoreCalculator
	progression   ProgressionService
}

func NewSubmissionService(
	challengeRepo repository.ChallengeRepository,
	versionRepo repository.PromptVersionRepository,
	llm LLMService,
	scores ScoreCalculator,
	progression ProgressionService,
) SubmissionService {
	return &submissionService{
		challengeRepo: challengeRepo,
		versionRepo:   versionRepo,
		llm:           llm,
		scores:        scores,
		progression:   progression,
	}
}

func validatePromptText(promptText string) error {
	// Rune count, to agree with the binding validators on the request DTO.
	length := utf8.RuneCountInString(promptText)
	if length < minPromptLength {
		return apperror.Validationf("prompt must be at least %d characters", minPromptLength)
	}
	if length > maxPromptLength {
		return apperror.Validationf("prompt must be at most %d characters", maxPromptLength)
	}
	return nil
}

func (s *submissionService) findActiveChallenge(challengeID uint) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("challenge %d", challengeID)
		}
		return nil, err
	}
	if !challenge.IsActive {
		return nil, apperror.NotFoundf("challenge %d", challengeID)
	}
	return challenge, nil
}

func toPromptVersionDTO(pv *model.PromptVersion) dto.PromptVersionDTO {
	var out dto.PromptVersionDTO
	if err := copier.Copy(&out, pv); err != nil {
		log.Error().Err(err).Uint("promptVersionID", pv.ID).Msg("Failed to map prompt version to DTO")
	}
	out.GradeLetter = pv.GradeLetter()
	out.PerformanceLevel = pv.PerformanceLevel()
	return out
}

// Submit runs the full scored pipeline: generate the response, evaluate
// it, persist the version, then apply progression. A transport failure
// of the oracle aborts before anything is persisted; a malformed oracle
// answer degrades to neutral scores and proceeds.
func (s *submissionService) Submit(ctx context.Context, userID, challengeID uint, promptText string) (*dto.SubmissionResultDTO, error) {
	if err := validatePromptText(promptText); err != nil {
		return nil, err
	}
	challenge, err := s.findActiveChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	response, err := s.llm.GenerateResponse(ctx, challenge, promptText)
	if err != nil {
		return nil, err
	}
	eval, err := s.llm.EvaluatePrompt(ctx, challenge, promptText, response)
	if err != nil {
		return nil, err
	}
	if eval.Malformed {
		log.Warn().
			Uint("userID", userID).
			Uint("challengeID", challengeID).
			Msg("Evaluation was malformed, scoring with neutral defaults")
	}

	score := s.scores.Combine(challenge.Rubric, eval)

	now := time.Now()
	pv := &model.PromptVersion{
		UserID:             userID,
		ChallengeID:        challengeID,
		PromptText:         promptText,
		Response:           response,
		Score:              score,
		Feedback:           eval.Feedback,
		HallucinationFlags: eval.HallucinationFlags,
		Submitted:          true,
		SubmittedAt:        &now,
	}
	if err := s.versionRepo.Append(pv); err != nil {
		return nil, err
	}

	decision, err := s.progression.Apply(challenge, pv)
	if err != nil {
		return nil, err
	}

	result := &dto.SubmissionResultDTO{
		PromptVersion:     toPromptVersionDTO(pv),
		CompletionGranted: decision.CompletionGranted,
		PointsAwarded:     decision.PointsDelta,
	}
	for _, badge := range decision.Badges {
		result.BadgesAwarded = append(result.BadgesAwarded, dto.BadgeDTO{
			ID:          badge.ID,
			Name:        badge.Name,
			Description: badge.Description,
			Icon:        badge.Icon,
			Points:      badge.Points,
		})
	}

	if score.Total < suggestionThreshold {
		result.Suggestions = s.llm.GenerateSuggestions(ctx, challenge, promptText, eval)
	}

	log.Info().
		Uint("userID", userID).
		Uint("challengeID", challengeID).
		Int("version", pv.Version).
		Int("total", score.Total).
		Bool("completed", decision.CompletionGranted).
		Int("points", decision.PointsDelta).
		Msg("Prompt submitted")

	return result, nil
}

// TestPrompt runs the prompt against the challenge input without
// scoring. The draft still occupies a version number, so iteration
// counts include it.
func (s *submissionService) TestPrompt(ctx context.Context, userID, challengeID uint, promptText string) (*dto.DraftResultDTO, error) {
	if err := validatePromptText(promptText); err != nil {
		return nil, err
	}
	challenge, err := s.findActiveChallenge(challengeID)
	if err != nil {
		return nil, err
	}

	response, err := s.llm.GenerateResponse(ctx, challenge, promptText)
	if err != nil {
		return nil, err
	}

	pv := &model.PromptVersion{
		UserID:      userID,
		ChallengeID: challengeID,
		PromptText:  promptText,
		Response:    response,
		Submitted:   false,
	}
	if err := s.versionRepo.Append(pv); err != nil {
		return nil, err
	}

	return &dto.DraftResultDTO{Response: response, Version: pv.Version}, nil
}

func (s *submissionService) History(userID, challengeID uint) ([]dto.PromptVersionDTO, error) {
	versions, err := s.versionRepo.History(userID, challengeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromptVersionDTO, 0, len(versions))
	for i := range versions {
		out = append(out, toPromptVersionDTO(&versions[i]))
	}
	return out, nil
}

func (s *submissionService) GetVersion(userID, challengeID uint, version int) (*dto.PromptVersionDTO, error) {
	pv, err := s.versionRepo.FindVersion(userID, challengeID, version)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFoundf("version %d for challenge %d", version, challengeID)
		}
		return nil, err
	}
	out := toPromptVersionDTO(pv)
	return &out, nil
}

func (s *submissionService) Quiz(ctx context.Context, challengeID uint) (*dto.QuizDTO, error) {
	challenge, err := s.findActiveChallenge(challengeID)
	if err != nil {
		return nil, err
	}
	return s.llm.GenerateQuiz(ctx, challenge)
}
