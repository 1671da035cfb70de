package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/model"
)

const validPrompt = "Summarize the article in exactly three bullet points."

type fakeChallengeRepo struct {
	nextID     uint
	challenges map[uint]*model.Challenge
}

func newFakeChallengeRepo(challenges ...*model.Challenge) *fakeChallengeRepo {
	repo := &fakeChallengeRepo{challenges: map[uint]*model.Challenge{}}
	for _, ch := range challenges {
		repo.challenges[ch.ID] = ch
		if ch.ID > repo.nextID {
			repo.nextID = ch.ID
		}
	}
	return repo
}

func (f *fakeChallengeRepo) Create(ch *model.Challenge) error {
	f.nextID++
	ch.ID = f.nextID
	f.challenges[ch.ID] = ch
	return nil
}

func (f *fakeChallengeRepo) Update(ch *model.Challenge) error {
	f.challenges[ch.ID] = ch
	return nil
}

func (f *fakeChallengeRepo) FindByID(id uint) (*model.Challenge, error) {
	ch, ok := f.challenges[id]
	if !ok {
		return nil, errNotFoundRecord
	}
	return ch, nil
}

func (f *fakeChallengeRepo) FindAllActive(difficulty, category string) ([]model.Challenge, error) {
	var out []model.Challenge
	for _, ch := range f.challenges {
		if ch.IsActive {
			out = append(out, *ch)
		}
	}
	return out, nil
}

// fakeVersionRepo is a mutex-backed in-memory ledger that mirrors the
// real one's allocate-and-append atomicity.
type fakeVersionRepo struct {
	mu       sync.Mutex
	nextID   uint
	versions []*model.PromptVersion
}

func (f *fakeVersionRepo) Append(pv *model.PromptVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, existing := range f.versions {
		if existing.UserID == pv.UserID && existing.ChallengeID == pv.ChallengeID && existing.Version > max {
			max = existing.Version
		}
	}
	pv.Version = max + 1
	f.nextID++
	pv.ID = f.nextID
	stored := *pv
	f.versions = append(f.versions, &stored)
	return nil
}

func (f *fakeVersionRepo) NextVersion(userID, challengeID uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := 0
	for _, pv := range f.versions {
		if pv.UserID == userID && pv.ChallengeID == challengeID && pv.Version > max {
			max = pv.Version
		}
	}
	return max + 1, nil
}

func (f *fakeVersionRepo) History(userID, challengeID uint) ([]model.PromptVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.PromptVersion
	for _, pv := range f.versions {
		if pv.UserID == userID && pv.ChallengeID == challengeID {
			out = append(out, *pv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (f *fakeVersionRepo) FindVersion(userID, challengeID uint, version int) (*model.PromptVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pv := range f.versions {
		if pv.UserID == userID && pv.ChallengeID == challengeID && pv.Version == version {
			found := *pv
			return &found, nil
		}
	}
	return nil, errNotFoundRecord
}

func (f *fakeVersionRepo) HasPriorSubmission(userID, challengeID, excludeID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, pv := range f.versions {
		if pv.UserID == userID && pv.ChallengeID == challengeID && pv.Submitted && pv.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVersionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.versions)
}

type fakeLLM struct {
	mu            sync.Mutex
	generateErr   error
	evaluateErr   error
	evaluation    *PromptEvaluation
	generateCalls int
	evaluateCalls int
	suggestCalls  int
	suggestions   []string
}

func (f *fakeLLM) GenerateResponse(ctx context.Context, challenge *model.Challenge, promptText string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return "generated response", nil
}

func (f *fakeLLM) EvaluatePrompt(ctx context.Context, challenge *model.Challenge, promptText, response string) (*PromptEvaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evaluateCalls++
	if f.evaluateErr != nil {
		return nil, f.evaluateErr
	}
	if f.evaluation != nil {
		eval := *f.evaluation
		return &eval, nil
	}
	return &PromptEvaluation{Clarity: 80, Correctness: 90, HallucinationFree: 70, Feedback: "solid prompt"}, nil
}

func (f *fakeLLM) GenerateSuggestions(ctx context.Context, challenge *model.Challenge, promptText string, eval *PromptEvaluation) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls++
	if f.suggestions != nil {
		return f.suggestions
	}
	return []string{"be more specific"}
}

func (f *fakeLLM) GenerateQuiz(ctx context.Context, challenge *model.Challenge) (*dto.QuizDTO, error) {
	return staticQuiz(challenge), nil
}

type fakeProgression struct {
	mu       sync.Mutex
	calls    int
	decision Decision
	err      error
}

func (f *fakeProgression) Apply(challenge *model.Challenge, pv *model.PromptVersion) (*Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	d := f.decision
	return &d, nil
}

// The fakes stand in for GORM repositories, so their miss error must
// classify the same way.
var errNotFoundRecord = gorm.ErrRecordNotFound

func newPipeline(challenges ...*model.Challenge) (SubmissionService, *fakeVersionRepo, *fakeLLM, *fakeProgression) {
	if len(challenges) == 0 {
		ch := beginnerChallenge()
		ch.IsActive = true
		challenges = []*model.Challenge{ch}
	}
	versions := &fakeVersionRepo{}
	llm := &fakeLLM{}
	progression := &fakeProgression{}
	svc := NewSubmissionService(newFakeChallengeRepo(challenges...), versions, llm, NewScoreCalculator(), progression)
	return svc, versions, llm, progression
}

func TestSubmitHappyPath(t *testing.T) {
	svc, versions, llm, progression := newPipeline()
	progression.decision = Decision{CompletionGranted: true, PointsDelta: 20, Badges: []model.Badge{mustBadge(t, "prompt_novice")}}

	result, err := svc.Submit(context.Background(), 7, 1, validPrompt)
	require.NoError(t, err)

	assert.Equal(t, 1, result.PromptVersion.Version)
	assert.Equal(t, 83, result.PromptVersion.Score.Total)
	assert.Equal(t, "B", result.PromptVersion.GradeLetter)
	assert.Equal(t, "generated response", result.PromptVersion.Response)
	assert.True(t, result.PromptVersion.Submitted)
	assert.True(t, result.CompletionGranted)
	assert.Equal(t, 20, result.PointsAwarded)
	require.Len(t, result.BadgesAwarded, 1)
	assert.Equal(t, "prompt_novice", result.BadgesAwarded[0].ID)

	assert.Equal(t, 1, versions.count())
	assert.Equal(t, 1, llm.generateCalls)
	assert.Equal(t, 1, llm.evaluateCalls)
	assert.Equal(t, 1, progression.calls)
}

func TestSubmitVersionsAreSequential(t *testing.T) {
	svc, _, _, _ := newPipeline()
	ctx := context.Background()

	draft, err := svc.TestPrompt(ctx, 7, 1, validPrompt)
	require.NoError(t, err)
	assert.Equal(t, 1, draft.Version)

	result, err := svc.Submit(ctx, 7, 1, validPrompt)
	require.NoError(t, err)
	assert.Equal(t, 2, result.PromptVersion.Version)

	draft, err = svc.TestPrompt(ctx, 7, 1, validPrompt)
	require.NoError(t, err)
	assert.Equal(t, 3, draft.Version)
}

func TestDraftSkipsScoringAndProgression(t *testing.T) {
	svc, versions, llm, progression := newPipeline()

	draft, err := svc.TestPrompt(context.Background(), 7, 1, validPrompt)
	require.NoError(t, err)

	assert.Equal(t, "generated response", draft.Response)
	assert.Equal(t, 0, llm.evaluateCalls)
	assert.Equal(t, 0, llm.suggestCalls)
	assert.Equal(t, 0, progression.calls)

	stored, err := versions.FindVersion(7, 1, draft.Version)
	require.NoError(t, err)
	assert.False(t, stored.Submitted)
	assert.Nil(t, stored.SubmittedAt)
	assert.Equal(t, 0, stored.Score.Total)
}

func TestSubmitMalformedEvaluationDegradesToNeutral(t *testing.T) {
	svc, versions, llm, _ := newPipeline()
	llm.evaluation = neutralFallbackEvaluation()

	result, err := svc.Submit(context.Background(), 7, 1, validPrompt)
	require.NoError(t, err)

	assert.Equal(t, 50, result.PromptVersion.Score.Total)
	assert.Equal(t, 1, versions.count())
	// 50 is below the suggestion threshold.
	assert.NotEmpty(t, result.Suggestions)
}

func TestSubmitTransportFailurePersistsNothing(t *testing.T) {
	svc, versions, llm, progression := newPipeline()
	llm.generateErr = fmt.Errorf("%w: connection refused", apperror.ErrEvaluationUnavailable)

	_, err := svc.Submit(context.Background(), 7, 1, validPrompt)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrEvaluationUnavailable)
	assert.Equal(t, 0, versions.count())
	assert.Equal(t, 0, progression.calls)
}

func TestSubmitEvaluationFailurePersistsNothing(t *testing.T) {
	svc, versions, llm, progression := newPipeline()
	llm.evaluateErr = fmt.Errorf("%w: timeout", apperror.ErrEvaluationUnavailable)

	_, err := svc.Submit(context.Background(), 7, 1, validPrompt)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrEvaluationUnavailable)
	assert.Equal(t, 0, versions.count())
	assert.Equal(t, 0, progression.calls)
}

func TestSubmitSuggestionsOnlyBelowThreshold(t *testing.T) {
	svc, _, llm, _ := newPipeline()
	llm.evaluation = &PromptEvaluation{Clarity: 80, Correctness: 80, HallucinationFree: 80, Feedback: "good"}

	result, err := svc.Submit(context.Background(), 7, 1, validPrompt)
	require.NoError(t, err)
	assert.Equal(t, 80, result.PromptVersion.Score.Total)
	assert.Empty(t, result.Suggestions)
	assert.Equal(t, 0, llm.suggestCalls)

	llm.evaluation = &PromptEvaluation{Clarity: 79, Correctness: 79, HallucinationFree: 79, Feedback: "meh"}
	result, err = svc.Submit(context.Background(), 7, 1, validPrompt)
	require.NoError(t, err)
	assert.Equal(t, 79, result.PromptVersion.Score.Total)
	assert.NotEmpty(t, result.Suggestions)
	assert.Equal(t, 1, llm.suggestCalls)
}

func TestSubmitRejectsShortAndLongPrompts(t *testing.T) {
	svc, versions, llm, _ := newPipeline()
	ctx := context.Background()

	_, err := svc.Submit(ctx, 7, 1, "too short")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	long := make([]byte, maxPromptLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Submit(ctx, 7, 1, string(long))
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.TestPrompt(ctx, 7, 1, "short")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Equal(t, 0, versions.count())
	assert.Equal(t, 0, llm.generateCalls)
}

func TestPromptLengthCountsRunesNotBytes(t *testing.T) {
	svc, versions, _, _ := newPipeline()
	ctx := context.Background()

	// 5000 two-byte runes: 10000 bytes, but exactly the character cap.
	atCap := strings.Repeat("é", maxPromptLength)
	_, err := svc.Submit(ctx, 7, 1, atCap)
	require.NoError(t, err)
	assert.Equal(t, 1, versions.count())

	// 9 two-byte runes: 18 bytes, but below the character floor.
	_, err = svc.Submit(ctx, 7, 1, strings.Repeat("é", minPromptLength-1))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, 1, versions.count())
}

func TestSubmitUnknownOrInactiveChallenge(t *testing.T) {
	inactive := beginnerChallenge()
	inactive.ID = 2
	inactive.IsActive = false
	active := beginnerChallenge()
	active.IsActive = true
	svc, _, _, _ := newPipeline(active, inactive)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 7, 99, validPrompt)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Submit(ctx, 7, 2, validPrompt)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, _, _, _ := newPipeline()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Submit(ctx, 7, 1, validPrompt)
		require.NoError(t, err)
	}

	history, err := svc.History(7, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, 3, history[0].Version)
	assert.Equal(t, 2, history[1].Version)
	assert.Equal(t, 1, history[2].Version)
}

func TestGetVersionMiss(t *testing.T) {
	svc, _, _, _ := newPipeline()

	_, err := svc.GetVersion(7, 1, 5)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestConcurrentSubmissionsGetUniqueContiguousVersions(t *testing.T) {
	svc, versions, _, _ := newPipeline()
	const workers = 16

	var wg sync.WaitGroup
	results := make([]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := svc.Submit(context.Background(), 7, 1, validPrompt)
			errs[i] = err
			if err == nil {
				results[i] = result.PromptVersion.Version
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, workers)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[results[i]], "duplicate version %d", results[i])
		seen[results[i]] = true
	}
	for v := 1; v <= workers; v++ {
		assert.True(t, seen[v], "missing version %d", v)
	}
	assert.Equal(t, workers, versions.count())
}

func mustBadge(t *testing.T, id string) model.Badge {
	t.Helper()
	badge, ok := model.BadgeByID(id)
	require.True(t, ok)
	return badge
}
