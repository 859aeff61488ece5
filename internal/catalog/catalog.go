package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lesson, checkpoint or challenge id is not in the catalog.
var ErrNotFound = errors.New("not found")

// NodeType distinguishes lessons from checkpoints on the learning path
type NodeType string

const (
	NodeLesson     NodeType = "lesson"
	NodeCheckpoint NodeType = "checkpoint"
)

// PathNode is one step of the linear learning path
type PathNode struct {
	ID               string   `json:"id" yaml:"id"`
	Type             NodeType `json:"type" yaml:"type"`
	Title            string   `json:"title" yaml:"title"`
	Skill            string   `json:"skill" yaml:"skill"`
	Icon             string   `json:"icon,omitempty" yaml:"icon"`
	RewardXP         int      `json:"rewardXp" yaml:"rewardXp"`
	UnlocksChallenge string   `json:"unlocksChallenge,omitempty" yaml:"unlocksChallenge"`
}

// LessonContent holds the cards shown for a lesson node
type LessonContent struct {
	DurationMinutes int    `json:"durationMinutes"`
	Cards           []Card `json:"cards"`
}

// Goals are the targets a challenge submission is measured against
type Goals struct {
	Resources int `json:"resources" yaml:"resources"`
	MaxTime   int `json:"maxTime" yaml:"maxTime"`
}

// Challenge is an arena challenge gated behind a checkpoint
type Challenge struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Description  string `json:"description" yaml:"description"`
	CheckpointID string `json:"checkpointId" yaml:"checkpointId"`
	Goals        Goals  `json:"goals" yaml:"goals"`
	Scenario     string `json:"scenario" yaml:"scenario"`
	Tips         string `json:"tips" yaml:"tips"`
}

// Catalog is the immutable set of path nodes, lesson content and challenges.
// Accessors return copies so callers cannot mutate the catalog.
type Catalog struct {
	path       []PathNode
	lessons    map[string]LessonContent
	challenges []Challenge
}

// New validates the given definitions and builds a catalog from them
func New(path []PathNode, lessons map[string]LessonContent, challenges []Challenge) (*Catalog, error) {
	c := &Catalog{
		path:       append([]PathNode(nil), path...),
		lessons:    make(map[string]LessonContent, len(lessons)),
		challenges: append([]Challenge(nil), challenges...),
	}
	for id, content := range lessons {
		c.lessons[id] = content
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the learning path in its fixed order
func (c *Catalog) Path() []PathNode {
	return append([]PathNode(nil), c.path...)
}

// Node looks up a path node of any type
func (c *Catalog) Node(id string) (PathNode, bool) {
	for _, node := range c.path {
		if node.ID == id {
			return node, true
		}
	}
	return PathNode{}, false
}

// LessonNode returns the path node for a lesson id
func (c *Catalog) LessonNode(id string) (PathNode, error) {
	node, ok := c.Node(id)
	if !ok || node.Type != NodeLesson {
		return PathNode{}, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
	}
	return node, nil
}

// CheckpointNode returns the path node for a checkpoint id
func (c *Catalog) CheckpointNode(id string) (PathNode, error) {
	node, ok := c.Node(id)
	if !ok || node.Type != NodeCheckpoint {
		return PathNode{}, fmt.Errorf("checkpoint %q: %w", id, ErrNotFound)
	}
	return node, nil
}

// Lesson returns the content of a lesson
func (c *Catalog) Lesson(id string) (LessonContent, error) {
	content, ok := c.lessons[id]
	if !ok {
		return LessonContent{}, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
	}
	content.Cards = append([]Card(nil), content.Cards...)
	return content, nil
}

// Challenges returns all arena challenges in catalog order
func (c *Catalog) Challenges() []Challenge {
	return append([]Challenge(nil), c.challenges...)
}

// Challenge looks up an arena challenge by id
func (c *Catalog) Challenge(id string) (Challenge, error) {
	for _, challenge := range c.challenges {
		if challenge.ID == id {
			return challenge, nil
		}
	}
	return Challenge{}, fmt.Errorf("challenge %q: %w", id, ErrNotFound)
}

// Validate checks the cross references between path, lessons and challenges
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.path))
	for _, node := range c.path {
		if node.ID == "" {
			return errors.New("path node without id")
		}
		if seen[node.ID] {
			return fmt.Errorf("duplicate path node %q", node.ID)
		}
		seen[node.ID] = true

		switch node.Type {
		case NodeLesson:
			content, ok := c.lessons[node.ID]
			if !ok {
				return fmt.Errorf("lesson %q has no content", node.ID)
			}
			if err := validateCards(node.ID, content.Cards); err != nil {
				return err
			}
		case NodeCheckpoint:
		default:
			return fmt.Errorf("path node %q has unknown type %q", node.ID, node.Type)
		}
		if node.RewardXP < 0 {
			return fmt.Errorf("path node %q has negative reward", node.ID)
		}
	}

	for _, challenge := range c.challenges {
		node, ok := c.Node(challenge.CheckpointID)
		if !ok || node.Type != NodeCheckpoint {
			return fmt.Errorf("challenge %q references unknown checkpoint %q", challenge.ID, challenge.CheckpointID)
		}
		if challenge.Goals.Resources < 1 || challenge.Goals.MaxTime < 1 {
			return fmt.Errorf("challenge %q has invalid goals", challenge.ID)
		}
	}

	return nil
}

func validateCards(lessonID string, cards []Card) error {
	for i, card := range cards {
		if err := card.validate(); err != nil {
			return fmt.Errorf("lesson %q card %d: %w", lessonID, i, err)
		}
	}
	return nil
}
