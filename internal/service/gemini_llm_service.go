package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"promptifyr/config"
	"promptifyr/internal/apperror"
	"promptifyr/internal/dto"
	"promptifyr/internal/model"
)

// PromptEvaluation is the oracle's verdict on one prompt/response pair.
// Sub-scores are raw, unclamped values as returned by the model; the
// score calculator clamps them to [0, 100] before weighting. Malformed
// is set when the model answered but its output could not be parsed, in
// which case the sub-scores carry the neutral fallback.
type PromptEvaluation struct {
	Clarity            int      `json:"clarity"`
	Correctness        int      `json:"correctness"`
	HallucinationFree  int      `json:"hallucination_free"`
	Feedback           string   `json:"feedback"`
	HallucinationFlags []string `json:"hallucination_flags"`
	Malformed          bool     `json:"-"`
}

// LLMService is the evaluation oracle. Transport-level failures come
// back wrapped in apperror.ErrEvaluationUnavailable; a reachable model
// that produced garbage instead yields a Malformed evaluation so the
// pipeline can degrade rather than fail.
type LLMService interface {
	GenerateResponse(ctx context.Context, challenge *model.Challenge, promptText string) (string, error)
	EvaluatePrompt(ctx context.Context, challenge *model.Challenge, promptText, response string) (*PromptEvaluation, error)
	GenerateSuggestions(ctx context.Context, challenge *model.Challenge, promptText string, eval *PromptEvaluation) []string
	GenerateQuiz(ctx context.Context, challenge *model.Challenge) (*dto.QuizDTO, error)
}

type geminiLLMService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (LLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. LLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.GeminiModel)
	return &geminiLLMService{client: model, cfg: cfg}, nil
}

// neutralFallbackEvaluation is used when the model responded but its
// output could not be parsed. Mid-scale scores, never zero: a parsing
// failure on our side must not wipe out the user's attempt.
func neutralFallbackEvaluation() *PromptEvaluation {
	return &PromptEvaluation{
		Clarity:           50,
		Correctness:       50,
		HallucinationFree: 50,
		Feedback:          "The evaluation could not be fully processed. Your prompt was scored with neutral defaults; please try submitting again for detailed feedback.",
		Malformed:         true,
	}
}

// stripJSONFences removes markdown code fences the model likes to wrap
// JSON payloads in, then trims to the outermost object braces.
func stripJSONFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func (s *geminiLLMService) generateText(ctx context.Context, prompt string) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: gemini client not initialized", apperror.ErrEvaluationUnavailable)
	}
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error")
		return "", fmt.Errorf("%w: %s", apperror.ErrEvaluationUnavailable, err.Error())
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", fmt.Errorf("%w: model returned no content", apperror.ErrEvaluationUnavailable)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: model returned no text content", apperror.ErrEvaluationUnavailable)
	}
	return b.String(), nil
}

// GenerateResponse runs the user's prompt against the challenge input,
// producing the output the prompt would elicit from an assistant.
func (s *geminiLLMService) GenerateResponse(ctx context.Context, challenge *model.Challenge, promptText string) (string, error) {
	var b strings.Builder
	b.WriteString("You are an AI assistant. A user has written the following prompt to instruct you:\n\n")
	b.WriteString("--- USER PROMPT ---\n")
	b.WriteString(promptText)
	b.WriteString("\n--- END USER PROMPT ---\n\n")
	b.WriteString("Apply that prompt to the following input content and produce the result:\n\n")
	b.WriteString("--- INPUT CONTENT ---\n")
	b.WriteString(challenge.InputContent)
	b.WriteString("\n--- END INPUT CONTENT ---\n\n")
	b.WriteString("Respond with only the result of applying the prompt. Do not add commentary about the prompt itself.\n")

	out, err := s.generateText(ctx, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// EvaluatePrompt scores the prompt/response pair against the challenge
// rubric. The returned evaluation is typed; callers never see raw model
// text on the happy path.
func (s *geminiLLMService) EvaluatePrompt(ctx context.Context, challenge *model.Challenge, promptText, response string) (*PromptEvaluation, error) {
	var b strings.Builder
	b.WriteString("You are an expert prompt engineering instructor evaluating a student's prompt.\n\n")
	b.WriteString(fmt.Sprintf("CHALLENGE TASK:\n%s\n\n", challenge.Task))
	b.WriteString(fmt.Sprintf("INPUT CONTENT the prompt was applied to:\n%s\n\n", challenge.InputContent))
	b.WriteString(fmt.Sprintf("EXPECTED OUTPUT characteristics:\n%s\n\n", challenge.ExpectedOutput))
	b.WriteString(fmt.Sprintf("STUDENT'S PROMPT:\n%s\n\n", promptText))
	b.WriteString(fmt.Sprintf("RESPONSE the prompt produced:\n%s\n\n", response))
	b.WriteString("Evaluate the prompt on three dimensions, each scored 0-100:\n")
	b.WriteString("- clarity: Is the prompt specific, unambiguous, and well structured?\n")
	b.WriteString("- correctness: Does the produced response fulfil the task and match the expected output characteristics?\n")
	b.WriteString("- hallucination_free: Is the response free of fabricated facts not supported by the input content? List any fabrications found.\n\n")
	b.WriteString("Respond with ONLY a JSON object, no markdown fences, in exactly this shape:\n")
	b.WriteString(`{"clarity": 0, "correctness": 0, "hallucination_free": 0, "feedback": "2-4 sentences of constructive feedback", "hallucination_flags": ["each fabricated claim, if any"]}`)
	b.WriteString("\n")

	raw, err := s.generateText(ctx, b.String())
	if err != nil {
		return nil, err
	}

	var eval PromptEvaluation
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &eval); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse evaluation JSON, using neutral fallback")
		return neutralFallbackEvaluation(), nil
	}
	if eval.Feedback == "" {
		log.Warn().Str("raw", raw).Msg("Evaluation JSON parsed but carried no feedback, using neutral fallback")
		return neutralFallbackEvaluation(), nil
	}
	return &eval, nil
}

var staticSuggestions = []string{
	"State the desired output format explicitly (list, table, word count).",
	"Tell the model what to do when the input lacks the information it needs, instead of letting it guess.",
	"Add one concrete example of the output you expect.",
}

// GenerateSuggestions returns improvement tips for a low-scoring
// prompt. Suggestions are best-effort: any model failure falls back to
// the static list rather than failing the submission that already
// succeeded.
func (s *geminiLLMService) GenerateSuggestions(ctx context.Context, challenge *model.Challenge, promptText string, eval *PromptEvaluation) []string {
	var b strings.Builder
	b.WriteString("You are a prompt engineering coach. A student's prompt scored poorly.\n\n")
	b.WriteString(fmt.Sprintf("CHALLENGE TASK:\n%s\n\n", challenge.Task))
	b.WriteString(fmt.Sprintf("STUDENT'S PROMPT:\n%s\n\n", promptText))
	b.WriteString(fmt.Sprintf("EVALUATION FEEDBACK:\n%s\n\n", eval.Feedback))
	b.WriteString("Give exactly 3 short, specific suggestions for improving this prompt.\n")
	b.WriteString("Respond with ONLY a JSON array of 3 strings, no markdown fences.\n")

	raw, err := s.generateText(ctx, b.String())
	if err != nil {
		log.Warn().Err(err).Msg("Suggestion generation failed, using static suggestions")
		return staticSuggestions
	}

	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	var suggestions []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &suggestions); err != nil || len(suggestions) == 0 {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse suggestions, using static suggestions")
		return staticSuggestions
	}
	return suggestions
}

// staticQuiz is the fallback spot-the-flaw exercise used when the model
// cannot produce one for the challenge.
func staticQuiz(challenge *model.Challenge) *dto.QuizDTO {
	flawed := "Do the thing with the text."
	if challenge.FlawedPromptExample != nil && *challenge.FlawedPromptExample != "" {
		flawed = *challenge.FlawedPromptExample
	}
	return &dto.QuizDTO{
		Question:      "What is the biggest weakness of this prompt?",
		Options:       []string{"It is too long", "It is vague about the task and the expected output", "It uses too many examples", "It specifies the output format too strictly"},
		CorrectAnswer: 1,
		Explanation:   "The prompt never says what operation to perform or what the result should look like, so the model has to guess.",
		FlawedPrompt:  flawed,
	}
}

// GenerateQuiz produces a spot-the-flaw quiz for a challenge.
func (s *geminiLLMService) GenerateQuiz(ctx context.Context, challenge *model.Challenge) (*dto.QuizDTO, error) {
	var b strings.Builder
	b.WriteString("You are a prompt engineering instructor creating a spot-the-flaw quiz.\n\n")
	b.WriteString(fmt.Sprintf("CHALLENGE TASK:\n%s\n\n", challenge.Task))
	if challenge.FlawedPromptExample != nil && *challenge.FlawedPromptExample != "" {
		b.WriteString(fmt.Sprintf("FLAWED PROMPT to build the quiz around:\n%s\n\n", *challenge.FlawedPromptExample))
	} else {
		b.WriteString("First invent a short, realistically flawed prompt for this task, then build the quiz around it.\n\n")
	}
	b.WriteString("Write one multiple-choice question asking what is wrong with the flawed prompt, with 4 options and exactly one correct answer.\n")
	b.WriteString("Respond with ONLY a JSON object, no markdown fences, in exactly this shape:\n")
	b.WriteString(`{"question": "...", "options": ["...", "...", "...", "..."], "correct_answer": 0, "explanation": "...", "flawed_prompt": "..."}`)
	b.WriteString("\n")

	raw, err := s.generateText(ctx, b.String())
	if err != nil {
		log.Warn().Err(err).Uint("challengeID", challenge.ID).Msg("Quiz generation failed, using static quiz")
		return staticQuiz(challenge), nil
	}

	var quiz dto.QuizDTO
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &quiz); err != nil || quiz.Question == "" || len(quiz.Options) != 4 {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse quiz, using static quiz")
		return staticQuiz(challenge), nil
	}
	if quiz.CorrectAnswer < 0 || quiz.CorrectAnswer >= len(quiz.Options) {
		quiz.CorrectAnswer = 0
	}
	return &quiz, nil
}
