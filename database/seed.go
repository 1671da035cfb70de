package database

import (
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"promptifyr/internal/model"
)

func str(s string) *string { return &s }

var seedChallenges = []model.Challenge{
	{
		Title:        "News Article Summarizer",
		Description:  "Learn to create concise, accurate summaries of news content",
		Task:         "Summarize the given news article in exactly 50 words, maintaining key facts and objectivity.",
		Difficulty:   "beginner",
		Category:     "Summarization",
		Icon:         "🤖",
		InputContent: `Scientists at Stanford University have developed a new type of solar panel that can generate electricity even in complete darkness. The innovative panels use a process called "reverse solar cell technology" that captures heat radiating from the Earth at night. In laboratory tests, the panels produced up to 50 milliwatts of power per square meter during nighttime hours. While this is significantly less than traditional solar panels produce during the day, researchers believe this technology could provide continuous power in remote locations. The team plans to improve efficiency and make the technology commercially viable within the next five years.`,
		ExpectedOutput: `Stanford scientists created solar panels generating electricity in darkness using reverse solar cell technology that captures Earth's nighttime heat radiation. Laboratory tests produced 50 milliwatts per square meter. Though less than daytime solar output, this breakthrough could enable continuous renewable power, with commercial viability expected within five years.`,
		Rubric:       model.Rubric{Clarity: 30, Correctness: 50, HallucinationFree: 20},
		Points:       10,
		DisplayOrder: 1,
		Hints: []string{
			"Focus on the key scientific breakthrough",
			"Include specific numbers and timeframes",
			"Maintain objectivity and accuracy",
		},
		FlawedPromptExample: str("Tell me about the solar panels"),
	},
	{
		Title:        "Python Function Generator",
		Description:  "Master the art of generating clean, efficient code through prompting",
		Task:         "Generate a Python function that reverses a string with proper documentation and error handling.",
		Difficulty:   "beginner",
		Category:     "Code Generation",
		Icon:         "🧪",
		InputContent: "Create a function that takes a string as input and returns the reversed string",
		ExpectedOutput: `def reverse_string(input_string):
    """Reverses the input string.

    Raises:
        TypeError: If input is not a string
    """
    if not isinstance(input_string, str):
        raise TypeError("Input must be a string")

    return input_string[::-1]`,
		Rubric:       model.Rubric{Clarity: 25, Correctness: 60, HallucinationFree: 15},
		Points:       15,
		DisplayOrder: 2,
		Hints: []string{
			"Specify the programming language clearly",
			"Request documentation and error handling",
			"Be specific about function name and parameters",
		},
		FlawedPromptExample: str("Write code to reverse something"),
	},
	{
		Title:          "Simple Science Explainer",
		Description:    "Learn to adapt complex concepts for different audiences",
		Task:           "Explain photosynthesis in simple terms that a 5-year-old child would understand.",
		Difficulty:     "beginner",
		Category:       "Educational",
		Icon:           "🌱",
		InputContent:   "Photosynthesis - the process by which plants convert sunlight into energy",
		ExpectedOutput: `Photosynthesis is like plants eating sunshine! Plants have special green parts in their leaves that can "eat" sunlight. When the sun shines on the leaves, these green parts mix the sunlight with water and air to make sugar food that helps the plant grow big and strong. And while plants are making their food, they also make fresh, clean air for us to breathe!`,
		Rubric:         model.Rubric{Clarity: 40, Correctness: 40, HallucinationFree: 20},
		Points:         15,
		DisplayOrder:   3,
		Hints: []string{
			"Use simple analogies and metaphors",
			"Keep sentences short and clear",
			"Make it engaging and fun",
		},
		FlawedPromptExample: str("Explain photosynthesis using scientific terminology"),
	},
	{
		Title:          "Creative Story Writer",
		Description:    "Generate engaging narratives with specific constraints",
		Task:           "Write a short story (150-200 words) about a robot learning to paint, with a heartwarming ending.",
		Difficulty:     "intermediate",
		Category:       "Creative Writing",
		Icon:           "📝",
		InputContent:   "A robot discovers an old paintbrush in an abandoned art studio",
		ExpectedOutput: `In the dusty corner of the forgotten studio, ALEX-7 discovered something extraordinary: a paintbrush, its bristles stiff with dried paint. At first, the robot's attempts were clumsy. But with each stroke, something magical happened. ALEX-7 began to understand color. When the studio's elderly owner returned, she found walls covered in beautiful paintings. "You've brought life back to this place," she whispered. ALEX-7 looked at its paint-stained hands and understood: art wasn't about perfection, it was about connection.`,
		Rubric:         model.Rubric{Clarity: 30, Correctness: 45, HallucinationFree: 25},
		Points:         20,
		DisplayOrder:   4,
		Hints: []string{
			"Specify word count limits",
			"Define the emotional tone clearly",
			"Include character development",
		},
		FlawedPromptExample: str("Write a story about robots"),
	},
	{
		Title:          "Ethical Dilemma Analyzer",
		Description:    "Navigate complex moral questions with balanced reasoning",
		Task:           "Analyze the ethical implications of AI in hiring decisions, presenting multiple perspectives.",
		Difficulty:     "advanced",
		Category:       "Critical Analysis",
		Icon:           "⚖️",
		InputContent:   "Companies increasingly use AI systems to screen job applicants and make hiring decisions",
		ExpectedOutput: `The use of AI in hiring presents complex ethical challenges. Arguments for: efficiency, consistency, objectivity, cost-effectiveness. Arguments against: bias amplification from historical training data, lack of context for unconventional backgrounds, black-box transparency issues, reduction of individuals to data points. A balanced approach uses AI as a screening tool rather than a final decision-maker, with algorithmic transparency, regular bias audits, and human oversight of final decisions.`,
		Rubric:         model.Rubric{Clarity: 25, Correctness: 50, HallucinationFree: 25},
		Points:         30,
		DisplayOrder:   5,
		Hints: []string{
			"Request multiple perspectives",
			"Ask for structured analysis",
			"Emphasize balanced reasoning",
		},
		FlawedPromptExample: str("Is AI hiring good or bad?"),
	},
}

// SeedChallenges inserts the starter challenge catalog when the table
// is empty. Safe to call on every startup.
func SeedChallenges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Challenge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Int64("challenges", count).Msg("Challenge catalog already seeded, skipping")
		return nil
	}

	for i := range seedChallenges {
		ch := seedChallenges[i]
		ch.Slug = slug.Make(ch.Title)
		ch.Threshold = model.CompletionThreshold
		ch.IsActive = true
		if err := db.Create(&ch).Error; err != nil {
			log.Error().Err(err).Str("title", ch.Title).Msg("Failed to seed challenge")
			return err
		}
	}
	log.Info().Int("challenges", len(seedChallenges)).Msg("Challenge catalog seeded")
	return nil
}
