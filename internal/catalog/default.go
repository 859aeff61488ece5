package catalog

// Ids used by the built-in catalog
const (
	LessonHello          = "lesson-python-hello"
	LessonVariables      = "lesson-python-variables"
	LessonTypes          = "lesson-python-types"
	LessonOperations     = "lesson-python-operations"
	LessonConditionals   = "lesson-python-conditionals"
	CheckpointFoundation = "checkpoint-python-foundations"
	ChallengeAutomation  = "challenge-automation-lab"
)

// Default returns the built-in Python foundations catalog
func Default() *Catalog {
	c, err := New(defaultPath(), defaultLessons(), defaultChallenges())
	if err != nil {
		panic("catalog: invalid built-in catalog: " + err.Error())
	}
	return c
}

func defaultPath() []PathNode {
	return []PathNode{
		{ID: LessonHello, Type: NodeLesson, Title: "First contact", Skill: "print & comments", Icon: "circle", RewardXP: 10},
		{ID: LessonVariables, Type: NodeLesson, Title: "Variables that tell stories", Skill: "variables", Icon: "circle", RewardXP: 15},
		{ID: LessonTypes, Type: NodeLesson, Title: "Useful types and strings", Skill: "types", Icon: "circle", RewardXP: 20},
		{ID: LessonOperations, Type: NodeLesson, Title: "Operations and input", Skill: "expressions", Icon: "circle", RewardXP: 25},
		{ID: LessonConditionals, Type: NodeLesson, Title: "Making decisions", Skill: "if/else", Icon: "circle", RewardXP: 30},
		{
			ID:               CheckpointFoundation,
			Type:             NodeCheckpoint,
			Title:            "Python foundations unlocked",
			Skill:            "Arena",
			Icon:             "checkpoint",
			RewardXP:         80,
			UnlocksChallenge: ChallengeAutomation,
		},
	}
}

func defaultLessons() map[string]LessonContent {
	return map[string]LessonContent{
		LessonHello: {
			DurationMinutes: 2,
			Cards: []Card{
				ConceptCard{
					Title: "Python speaks in text",
					Body:  "Picture a coach cheering every step. In Python that job belongs to print(): it narrates what your automation is doing and keeps the player confident.",
				},
				CodeCard{
					Title:       "First run",
					Snippet:     "# automation status\nprint('Starting sensor sweep...')",
					Explanation: "Lines starting with # are comments. Use them to narrate what the robot is doing.",
				},
				QuizCard{
					Prompt:   "How do you print the text 'Ready to automate'?",
					Choices:  []string{"echo('Ready to automate')", "print('Ready to automate')", "console.log('Ready to automate')"},
					Answer:   "print('Ready to automate')",
					Feedback: "Python uses print(). The other commands belong to other shells and languages.",
				},
			},
		},
		LessonVariables: {
			DurationMinutes: 3,
			Cards: []Card{
				ConceptCard{
					Title: "Variables keep context",
					Body:  "Every variable is a slot in the player's backpack. Clear names let you combine items and earn productivity combos.",
				},
				CodeCard{
					Title:       "Capturing state",
					Snippet:     "average_temp = 28\nalert_active = False\nmessage = f'Temp: {average_temp}C'",
					Explanation: "Every assignment uses =. f-strings interpolate variables quickly.",
				},
				QuizCard{
					Prompt:     "Complete the code to store the operator's name.",
					CodeBefore: "operator = ",
					Choices:    []string{"name", "'name'", "user.name"},
					Answer:     "'name'",
					Feedback:   "Literal text values must be wrapped in quotes.",
				},
			},
		},
		LessonTypes: {
			DurationMinutes: 3,
			Cards: []Card{
				ConceptCard{
					Title: "Mix numbers and strings",
					Body:  "Sensors send data in every flavour. Converting types early keeps you from losing lives to silly bugs.",
				},
				CodeCard{
					Title:       "Normalizing data",
					Snippet:     "reading = '42'\ncounter = int(reading)\nstatus = f\"Active sensors: {counter}\"",
					Explanation: "Convert before you operate. str + int raises an error, but int('42') turns the text into a number.",
				},
				ArrangeCard{
					Prompt:   "Arrange the lines to build a formatted report.",
					Blocks:   []string{"f'Battery: {level}%'", "level = int(raw)", "raw = '78'"},
					Solution: []string{"raw = '78'", "level = int(raw)", "f'Battery: {level}%'"},
					Feedback: "Convert before interpolating so the value is a number, not a doubled string.",
				},
			},
		},
		LessonOperations: {
			DurationMinutes: 3,
			Cards: []Card{
				ConceptCard{
					Title: "Expressions automate math",
					Body:  "Operators are power-ups: with them you estimate time, add up resources and unlock decisions in seconds.",
				},
				CodeCard{
					Title:       "Planning cycles",
					Snippet:     "cycles = int(input('How many cycles? '))\nestimated_time = cycles * 8\nprint(f'The round will take {estimated_time} seconds')",
					Explanation: "Turn user input into an integer before multiplying.",
				},
				QuizCard{
					Prompt:   "Which expression computes the average?",
					Choices:  []string{"value1 + value2 / 2", "(value1 + value2) / 2", "value1 + value2 * 2"},
					Answer:   "(value1 + value2) / 2",
					Feedback: "Use parentheses to force the right order of operations.",
				},
			},
		},
		LessonConditionals: {
			DurationMinutes: 4,
			Cards: []Card{
				ConceptCard{
					Title: "If/else prevents breakdowns",
					Body:  "If/else is the moment of judgement: like a checkpoint, you decide whether to move on or start over before losing your streak.",
				},
				CodeCard{
					Title:       "Choosing actions",
					Snippet:     "if average_temp > 30:\n    print('Start cooling')\nelse:\n    print('All stable')",
					Explanation: "Always align the indentation. The else block only runs when the condition is false.",
				},
				QuizCard{
					Prompt:   "Which condition checks whether a log starts with 'ALERT'?",
					Choices:  []string{"log.startsWith('ALERT')", "log.startswith('ALERT')", "log.first('ALERT')"},
					Answer:   "log.startswith('ALERT')",
					Feedback: "startswith is the Python string method.",
				},
				ArrangeCard{
					Prompt:   "Order the flow that checks the battery level.",
					Blocks:   []string{"    print('Recharge now')", "if battery < 20:", "else:", "    print('Level is safe')"},
					Solution: []string{"if battery < 20:", "    print('Recharge now')", "else:", "    print('Level is safe')"},
					Feedback: "Keep 4 spaces inside every block.",
				},
			},
		},
	}
}

func defaultChallenges() []Challenge {
	return []Challenge{
		{
			ID:           ChallengeAutomation,
			Title:        "AI Automation Lab",
			Description:  "Build a script that walks sensor readings, validates limits and fires smart alerts.",
			CheckpointID: CheckpointFoundation,
			Goals:        Goals{Resources: 12, MaxTime: 75},
			Scenario:     "You received a spreadsheet of production-line sensors. Your script must clean the data, classify risk and regroup the machines that are out of spec.",
			Tips:         "Clear variables plus if/else cover the rules. For efficiency, wrap lists in for loops so you iterate without repeating code.",
		},
	}
}
