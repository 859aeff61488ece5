package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileDocument represents the on-disk structure of a catalog file
type fileDocument struct {
	Path       []PathNode                `json:"path" yaml:"path"`
	Lessons    map[string]lessonDocument `json:"lessons" yaml:"lessons"`
	Challenges []Challenge               `json:"challenges" yaml:"challenges"`
}

type lessonDocument struct {
	DurationMinutes int            `json:"durationMinutes" yaml:"durationMinutes"`
	Cards           []cardDocument `json:"cards" yaml:"cards"`
}

// LoadFile reads a catalog from a YAML (.yaml, .yml) or JSON (.json) file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var doc fileDocument
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	lessons := make(map[string]LessonContent, len(doc.Lessons))
	for id, lesson := range doc.Lessons {
		cards := make([]Card, 0, len(lesson.Cards))
		for i, cd := range lesson.Cards {
			card, err := cd.card()
			if err != nil {
				return nil, fmt.Errorf("lesson %q card %d: %w", id, i, err)
			}
			cards = append(cards, card)
		}
		lessons[id] = LessonContent{DurationMinutes: lesson.DurationMinutes, Cards: cards}
	}

	c, err := New(doc.Path, lessons, doc.Challenges)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}
