package simulation

import (
	"math"

	"codespark/internal/catalog"
	"codespark/internal/models"
	"codespark/internal/scoring"
)

const (
	minSteps       = 6
	minTimeSeconds = 20
	maxEfficiency  = 120.0
	efficiencyRate = 140.0
	scorePerItem   = 6.0

	// meetsGoal tolerates up to 30% over the time goal
	timeGoalSlack = 1.3
)

// directions is the fixed walk cycle: right, down, right, up, left
var directions = []models.Point{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: 1, Y: 0},
	{X: 0, Y: -1},
	{X: -1, Y: 0},
}

// BuildPath turns construct counts into a deterministic grid walk starting at the origin
func BuildPath(counts scoring.Counts) []models.Point {
	totalSteps := counts.Lines + counts.Assignments + counts.Conditionals +
		counts.Loops*2 + counts.ListComprehensions*3
	if totalSteps < minSteps {
		totalSteps = minSteps
	}

	path := make([]models.Point, 0, totalSteps+1)
	current := models.Point{}
	path = append(path, current)
	for i := 0; i < totalSteps; i++ {
		delta := directions[i%len(directions)]
		current = models.Point{X: current.X + delta.X, Y: current.Y + delta.Y}
		path = append(path, current)
	}
	return path
}

// AutomationScore is the weighted sum of constructs used to estimate collected resources
func AutomationScore(counts scoring.Counts) int {
	return counts.Assignments*4 +
		counts.Conditionals*6 +
		counts.Loops*9 +
		counts.Functions*5 +
		counts.ListComprehensions*10 +
		counts.Datasets*3 +
		counts.Comments
}

// Run scores code against a challenge
func Run(challenge catalog.Challenge, code string) models.SimulationResult {
	counts := scoring.Analyze(code)

	resources := roundHalfUp(float64(AutomationScore(counts)) / scorePerItem)
	if resources < 1 {
		resources = 1
	}
	if resources > challenge.Goals.Resources {
		resources = challenge.Goals.Resources
	}

	seconds := challenge.Goals.MaxTime - counts.Loops*4 - counts.Conditionals*2 - counts.Functions
	if seconds < minTimeSeconds {
		seconds = minTimeSeconds
	}

	efficiency := math.Min(maxEfficiency, float64(resources)/float64(seconds)*efficiencyRate)

	return models.SimulationResult{
		ChallengeID:        challenge.ID,
		Time:               seconds,
		ResourcesCollected: resources,
		Efficiency:         roundTenth(efficiency),
		Path:               BuildPath(counts),
		LoopsUsed:          counts.Loops,
		Insights: models.Insights{
			Assignments:  counts.Assignments,
			Conditionals: counts.Conditionals,
			Loops:        counts.Loops,
		},
	}
}

// MeetsGoal reports whether a result is good enough to unlock the challenge's checkpoint
func MeetsGoal(challenge catalog.Challenge, result models.SimulationResult) bool {
	return result.ResourcesCollected >= challenge.Goals.Resources &&
		float64(result.Time) <= float64(challenge.Goals.MaxTime)*timeGoalSlack
}

// roundHalfUp rounds .5 towards positive infinity
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
