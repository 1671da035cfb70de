package service

import (
	"promptifyr/internal/model"
)

// Decision is the pure outcome of scoring one submitted version: what
// the user earns from it, before anything touches the database.
type Decision struct {
	CompletionGranted bool
	PointsDelta       int
	Badges            []model.Badge
}

// DecideProgression decides completion credit, point awards and badge
// unlocks for one freshly scored submission.
//
// Completion credit requires the score to reach the challenge threshold
// AND this to be the user's first submitted attempt at the challenge:
// any prior submitted version, whatever it scored, forfeits the credit.
// Re-completing an already completed challenge never pays again.
//
// Badge predicates run against the post-completion stats, so a badge
// whose condition is satisfied by this very completion unlocks in the
// same submission. Held badges never unlock twice. Badges are returned
// in catalog order.
func DecideProgression(
	challenge *model.Challenge,
	pv *model.PromptVersion,
	priorSubmitted bool,
	alreadyCompleted bool,
	heldBadges map[string]bool,
	stats model.AggregateStats,
) Decision {
	var d Decision

	threshold := challenge.Threshold
	if threshold <= 0 {
		threshold = model.CompletionThreshold
	}

	if pv.Score.Total >= threshold && !priorSubmitted && !alreadyCompleted {
		d.CompletionGranted = true
		d.PointsDelta += challenge.Points
		stats.CompletedChallenges++
	}

	for _, badge := range model.BadgeCatalog() {
		if heldBadges[badge.ID] {
			continue
		}
		if badge.Criteria(stats) {
			d.Badges = append(d.Badges, badge)
			d.PointsDelta += badge.Points
		}
	}

	return d
}
