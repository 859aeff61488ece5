package simulation

import (
	"encoding/json"
	"testing"

	"codespark/internal/catalog"
	"codespark/internal/models"
	"codespark/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func automationLab() catalog.Challenge {
	return catalog.Challenge{
		ID:           catalog.ChallengeAutomation,
		CheckpointID: catalog.CheckpointFoundation,
		Goals:        catalog.Goals{Resources: 12, MaxTime: 75},
	}
}

func TestBuildPathMinimumWalk(t *testing.T) {
	path := BuildPath(scoring.Counts{})

	want := []models.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 2, Y: 1},
		{X: 2, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
	}
	assert.Equal(t, want, path)
}

func TestBuildPathStepCount(t *testing.T) {
	tests := []struct {
		name   string
		counts scoring.Counts
		points int
	}{
		{"below minimum uses six steps", scoring.Counts{Lines: 2, Assignments: 1}, 7},
		{"lines and assignments", scoring.Counts{Lines: 5, Assignments: 3}, 9},
		{"loops weigh double", scoring.Counts{Lines: 3, Loops: 2}, 8},
		{"comprehensions weigh triple", scoring.Counts{Lines: 1, Conditionals: 1, ListComprehensions: 2}, 9},
		{"functions and comments do not add steps", scoring.Counts{Functions: 10, Comments: 10, Datasets: 10}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := BuildPath(tt.counts)
			require.Len(t, path, tt.points)
			assert.Equal(t, models.Point{}, path[0])
		})
	}
}

func TestBuildPathIsDeterministic(t *testing.T) {
	counts := scoring.Counts{Lines: 11, Assignments: 4, Loops: 3, ListComprehensions: 1}
	assert.Equal(t, BuildPath(counts), BuildPath(counts))
}

func TestRunWorkedExample(t *testing.T) {
	code := "x = 1\nif x > 0:\n    print(x)\n"

	result := Run(automationLab(), code)

	assert.Equal(t, 10, AutomationScore(scoring.Analyze(code)))
	assert.Equal(t, catalog.ChallengeAutomation, result.ChallengeID)
	assert.Equal(t, 2, result.ResourcesCollected)
	assert.Equal(t, 73, result.Time)
	assert.Equal(t, 3.8, result.Efficiency)
	assert.Equal(t, 0, result.LoopsUsed)
	assert.Equal(t, models.Insights{Assignments: 1, Conditionals: 1, Loops: 0}, result.Insights)
	assert.Len(t, result.Path, 7)
}

func TestRunEmptyCodeCollectsAtLeastOne(t *testing.T) {
	result := Run(automationLab(), "")

	assert.Equal(t, 1, result.ResourcesCollected)
	assert.Equal(t, 75, result.Time)
	assert.Equal(t, 1.9, result.Efficiency)
}

func TestRunCapsResourcesAndFloorsTime(t *testing.T) {
	code := ""
	for i := 0; i < 20; i++ {
		code += "for item in items:\n    if item:\n        total = [v for v in item]\n"
	}

	result := Run(automationLab(), code)

	assert.Equal(t, 12, result.ResourcesCollected, "never exceeds the challenge target")
	assert.Equal(t, 20, result.Time, "never faster than twenty seconds")
	assert.Equal(t, 84.0, result.Efficiency)
}

func TestRunEfficiencyCap(t *testing.T) {
	challenge := catalog.Challenge{ID: "fast", Goals: catalog.Goals{Resources: 50, MaxTime: 20}}
	code := ""
	for i := 0; i < 30; i++ {
		code += "data = [1, 2, 3]  # sample\n"
	}

	result := Run(challenge, code)

	assert.Equal(t, 20, result.Time)
	assert.Equal(t, 120.0, result.Efficiency)
}

func TestRunIsDeterministic(t *testing.T) {
	code := "readings = [3, 9, 12]\nfor r in readings:\n    if r > 10:\n        print('alert')\n"

	first, err := json.Marshal(Run(automationLab(), code))
	require.NoError(t, err)
	second, err := json.Marshal(Run(automationLab(), code))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestMeetsGoal(t *testing.T) {
	challenge := automationLab()

	tests := []struct {
		name   string
		result models.SimulationResult
		want   bool
	}{
		{"all resources within time", models.SimulationResult{ResourcesCollected: 12, Time: 60}, true},
		{"slack allows thirty percent over", models.SimulationResult{ResourcesCollected: 12, Time: 97}, true},
		{"too slow", models.SimulationResult{ResourcesCollected: 12, Time: 98}, false},
		{"missing resources", models.SimulationResult{ResourcesCollected: 11, Time: 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MeetsGoal(challenge, tt.result))
		})
	}
}

func TestRank(t *testing.T) {
	assert.Nil(t, Rank(nil))

	tests := []struct {
		time     int
		position int
	}{
		{time: 73, position: 4765},
		{time: 20, position: 4500},
		{time: 120, position: 5000},
		{time: 200, position: 5000},
	}

	for _, tt := range tests {
		best := &models.BestResult{SimulationResult: models.SimulationResult{Time: tt.time}}
		ranking := Rank(best)
		require.NotNil(t, ranking)
		assert.Equal(t, tt.position, ranking.Position, "time %d", tt.time)
		assert.Equal(t, 15000, ranking.TotalPlayers)
	}
}
