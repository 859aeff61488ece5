package models

import "time"

// Point is a cell on the simulation grid
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Insights summarizes the constructs that drove a simulation
type Insights struct {
	Assignments  int `json:"assignments"`
	Conditionals int `json:"conditionals"`
	Loops        int `json:"loops"`
}

// SimulationResult is the outcome of running a submission against a challenge
type SimulationResult struct {
	ChallengeID        string   `json:"challengeId"`
	Time               int      `json:"time"`
	ResourcesCollected int      `json:"resourcesCollected"`
	Efficiency         float64  `json:"efficiency"`
	Path               []Point  `json:"path"`
	LoopsUsed          int      `json:"loopsUsed"`
	Insights           Insights `json:"insights"`
}

// BestResult is the lowest-time simulation kept for a challenge
type BestResult struct {
	SimulationResult
	Code        string    `json:"code"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Ranking is a synthetic leaderboard position derived from a best result
type Ranking struct {
	Position     int `json:"position"`
	TotalPlayers int `json:"totalPlayers"`
}
