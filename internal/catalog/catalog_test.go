package catalog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	path := c.Path()
	require.Len(t, path, 6)
	assert.Equal(t, LessonHello, path[0].ID)
	assert.Equal(t, NodeCheckpoint, path[5].Type)
	assert.Equal(t, ChallengeAutomation, path[5].UnlocksChallenge)

	challenge, err := c.Challenge(ChallengeAutomation)
	require.NoError(t, err)
	assert.Equal(t, Goals{Resources: 12, MaxTime: 75}, challenge.Goals)
	assert.Equal(t, CheckpointFoundation, challenge.CheckpointID)
}

func TestLookupsReturnNotFound(t *testing.T) {
	c := Default()

	_, err := c.LessonNode(CheckpointFoundation)
	assert.True(t, errors.Is(err, ErrNotFound), "checkpoint id is not a lesson")

	_, err = c.CheckpointNode(LessonHello)
	assert.True(t, errors.Is(err, ErrNotFound), "lesson id is not a checkpoint")

	_, err = c.Lesson("lesson-missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Challenge("challenge-missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPathIsACopy(t *testing.T) {
	c := Default()
	path := c.Path()
	path[0].RewardXP = 9999

	node, ok := c.Node(LessonHello)
	require.True(t, ok)
	assert.Equal(t, 10, node.RewardXP)
}

func TestValidateRejectsBrokenCatalogs(t *testing.T) {
	lesson := PathNode{ID: "l1", Type: NodeLesson, RewardXP: 5}
	checkpoint := PathNode{ID: "c1", Type: NodeCheckpoint, RewardXP: 5}
	content := map[string]LessonContent{"l1": {DurationMinutes: 1, Cards: []Card{ConceptCard{Body: "b"}}}}

	tests := []struct {
		name       string
		path       []PathNode
		lessons    map[string]LessonContent
		challenges []Challenge
	}{
		{
			name:    "duplicate node",
			path:    []PathNode{lesson, lesson},
			lessons: content,
		},
		{
			name: "unknown node type",
			path: []PathNode{{ID: "x", Type: "boss"}},
		},
		{
			name: "lesson without content",
			path: []PathNode{lesson},
		},
		{
			name:       "challenge references a lesson",
			path:       []PathNode{lesson, checkpoint},
			lessons:    content,
			challenges: []Challenge{{ID: "ch", CheckpointID: "l1", Goals: Goals{Resources: 1, MaxTime: 10}}},
		},
		{
			name: "quiz answer not among choices",
			path: []PathNode{lesson},
			lessons: map[string]LessonContent{"l1": {Cards: []Card{
				QuizCard{Prompt: "?", Choices: []string{"a", "b"}, Answer: "c"},
			}}},
		},
		{
			name: "arrange solution is not a permutation",
			path: []PathNode{lesson},
			lessons: map[string]LessonContent{"l1": {Cards: []Card{
				ArrangeCard{Blocks: []string{"a", "b"}, Solution: []string{"a", "a"}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.path, tt.lessons, tt.challenges)
			assert.Error(t, err)
		})
	}
}

func TestCardJSONCarriesDiscriminator(t *testing.T) {
	content, err := Default().Lesson(LessonTypes)
	require.NoError(t, err)

	data, err := json.Marshal(content)
	require.NoError(t, err)

	var decoded struct {
		DurationMinutes int               `json:"durationMinutes"`
		Cards           []json.RawMessage `json:"cards"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Cards, 3)

	kinds := make([]CardType, 0, len(decoded.Cards))
	for _, raw := range decoded.Cards {
		card, err := DecodeCardJSON(raw)
		require.NoError(t, err)
		kinds = append(kinds, card.Type())
	}
	assert.Equal(t, []CardType{CardConcept, CardCode, CardArrange}, kinds)
}

func TestDecodeCardJSONRejectsUnknownType(t *testing.T) {
	_, err := DecodeCardJSON([]byte(`{"type":"video","title":"x"}`))
	assert.Error(t, err)
}

func TestCardChecks(t *testing.T) {
	quiz := QuizCard{Choices: []string{"a", "b"}, Answer: "b"}
	assert.True(t, quiz.Check("b"))
	assert.False(t, quiz.Check("a"))

	arrange := ArrangeCard{Blocks: []string{"y", "x"}, Solution: []string{"x", "y"}}
	assert.True(t, arrange.Check([]string{"x", "y"}))
	assert.False(t, arrange.Check([]string{"y", "x"}))
	assert.False(t, arrange.Check([]string{"x"}))
}

const yamlCatalog = `
path:
  - id: l1
    type: lesson
    title: Hello
    skill: print
    rewardXp: 10
  - id: cp
    type: checkpoint
    title: Gate
    skill: Arena
    rewardXp: 50
    unlocksChallenge: ch
lessons:
  l1:
    durationMinutes: 2
    cards:
      - type: concept
        title: Intro
        body: Python prints text.
      - type: quiz
        prompt: Pick print
        choices: ["print()", "echo()"]
        answer: "print()"
        feedback: Use print.
challenges:
  - id: ch
    title: Lab
    checkpointId: cp
    goals:
      resources: 4
      maxTime: 40
`

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlCatalog), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	node, err := c.CheckpointNode("cp")
	require.NoError(t, err)
	assert.Equal(t, 50, node.RewardXP)

	content, err := c.Lesson("l1")
	require.NoError(t, err)
	require.Len(t, content.Cards, 2)
	quiz, ok := content.Cards[1].(QuizCard)
	require.True(t, ok)
	assert.Equal(t, "print()", quiz.Answer)

	challenge, err := c.Challenge("ch")
	require.NoError(t, err)
	assert.Equal(t, 40, challenge.Goals.MaxTime)
}

func TestLoadFileJSON(t *testing.T) {
	doc := `{
		"path": [{"id": "l1", "type": "lesson", "title": "Hello", "rewardXp": 3}],
		"lessons": {"l1": {"durationMinutes": 1, "cards": [{"type": "code", "snippet": "print(1)"}]}},
		"challenges": []
	}`
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)

	content, err := c.Lesson("l1")
	require.NoError(t, err)
	assert.Equal(t, CardCode, content.Cards[0].Type())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "catalog.txt")
	require.NoError(t, os.WriteFile(txt, []byte("path: []"), 0o600))
	_, err = LoadFile(txt)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("path:\n  - id: l1\n    type: lesson\nlessons:\n  l1:\n    cards:\n      - type: hologram\n"), 0o600))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
