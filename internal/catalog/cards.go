package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CardType is the discriminator written to the "type" field of a card
type CardType string

const (
	CardConcept CardType = "concept"
	CardCode    CardType = "code"
	CardQuiz    CardType = "quiz"
	CardArrange CardType = "arrange"
)

// Card is one of ConceptCard, CodeCard, QuizCard or ArrangeCard.
// The interface is sealed; switch on the concrete type to handle every variant.
type Card interface {
	Type() CardType
	validate() error
}

// ConceptCard explains an idea in prose
type ConceptCard struct {
	Title string
	Body  string
}

// CodeCard shows a snippet with an explanation
type CodeCard struct {
	Title       string
	Snippet     string
	Explanation string
}

// QuizCard is a multiple-choice question
type QuizCard struct {
	Prompt     string
	CodeBefore string
	CodeAfter  string
	Choices    []string
	Answer     string
	Feedback   string
}

// ArrangeCard asks the learner to put code blocks in order
type ArrangeCard struct {
	Prompt   string
	Blocks   []string
	Solution []string
	Feedback string
}

func (ConceptCard) Type() CardType { return CardConcept }
func (CodeCard) Type() CardType    { return CardCode }
func (QuizCard) Type() CardType    { return CardQuiz }
func (ArrangeCard) Type() CardType { return CardArrange }

func (c ConceptCard) validate() error {
	if c.Body == "" {
		return errors.New("concept card without body")
	}
	return nil
}

func (c CodeCard) validate() error {
	if c.Snippet == "" {
		return errors.New("code card without snippet")
	}
	return nil
}

func (c QuizCard) validate() error {
	if len(c.Choices) < 2 {
		return errors.New("quiz card needs at least two choices")
	}
	if !c.Check(c.Answer) {
		return fmt.Errorf("quiz answer %q is not one of the choices", c.Answer)
	}
	return nil
}

func (c ArrangeCard) validate() error {
	if len(c.Blocks) == 0 {
		return errors.New("arrange card without blocks")
	}
	if len(c.Blocks) != len(c.Solution) {
		return errors.New("arrange solution must use every block exactly once")
	}
	remaining := make(map[string]int, len(c.Blocks))
	for _, block := range c.Blocks {
		remaining[block]++
	}
	for _, block := range c.Solution {
		if remaining[block] == 0 {
			return fmt.Errorf("arrange solution block %q is not in blocks", block)
		}
		remaining[block]--
	}
	return nil
}

// Check reports whether answer is the correct choice
func (c QuizCard) Check(answer string) bool {
	if answer != c.Answer {
		return false
	}
	for _, choice := range c.Choices {
		if choice == answer {
			return true
		}
	}
	return false
}

// Check reports whether order matches the solution exactly
func (c ArrangeCard) Check(order []string) bool {
	if len(order) != len(c.Solution) {
		return false
	}
	for i := range order {
		if order[i] != c.Solution[i] {
			return false
		}
	}
	return true
}

// cardDocument is the flat wire shape of every card variant
type cardDocument struct {
	Type        CardType `json:"type" yaml:"type"`
	Title       string   `json:"title,omitempty" yaml:"title"`
	Body        string   `json:"body,omitempty" yaml:"body"`
	Snippet     string   `json:"snippet,omitempty" yaml:"snippet"`
	Explanation string   `json:"explanation,omitempty" yaml:"explanation"`
	Prompt      string   `json:"prompt,omitempty" yaml:"prompt"`
	CodeBefore  string   `json:"codeBefore,omitempty" yaml:"codeBefore"`
	CodeAfter   string   `json:"codeAfter,omitempty" yaml:"codeAfter"`
	Choices     []string `json:"choices,omitempty" yaml:"choices"`
	Answer      string   `json:"answer,omitempty" yaml:"answer"`
	Blocks      []string `json:"blocks,omitempty" yaml:"blocks"`
	Solution    []string `json:"solution,omitempty" yaml:"solution"`
	Feedback    string   `json:"feedback,omitempty" yaml:"feedback"`
}

func documentFor(card Card) cardDocument {
	switch c := card.(type) {
	case ConceptCard:
		return cardDocument{Type: CardConcept, Title: c.Title, Body: c.Body}
	case CodeCard:
		return cardDocument{Type: CardCode, Title: c.Title, Snippet: c.Snippet, Explanation: c.Explanation}
	case QuizCard:
		return cardDocument{
			Type:       CardQuiz,
			Prompt:     c.Prompt,
			CodeBefore: c.CodeBefore,
			CodeAfter:  c.CodeAfter,
			Choices:    c.Choices,
			Answer:     c.Answer,
			Feedback:   c.Feedback,
		}
	case ArrangeCard:
		return cardDocument{Type: CardArrange, Prompt: c.Prompt, Blocks: c.Blocks, Solution: c.Solution, Feedback: c.Feedback}
	default:
		panic(fmt.Sprintf("catalog: unhandled card type %T", card))
	}
}

func (d cardDocument) card() (Card, error) {
	switch d.Type {
	case CardConcept:
		return ConceptCard{Title: d.Title, Body: d.Body}, nil
	case CardCode:
		return CodeCard{Title: d.Title, Snippet: d.Snippet, Explanation: d.Explanation}, nil
	case CardQuiz:
		return QuizCard{
			Prompt:     d.Prompt,
			CodeBefore: d.CodeBefore,
			CodeAfter:  d.CodeAfter,
			Choices:    d.Choices,
			Answer:     d.Answer,
			Feedback:   d.Feedback,
		}, nil
	case CardArrange:
		return ArrangeCard{Prompt: d.Prompt, Blocks: d.Blocks, Solution: d.Solution, Feedback: d.Feedback}, nil
	default:
		return nil, fmt.Errorf("unknown card type %q", d.Type)
	}
}

func (c ConceptCard) MarshalJSON() ([]byte, error) { return json.Marshal(documentFor(c)) }
func (c CodeCard) MarshalJSON() ([]byte, error)    { return json.Marshal(documentFor(c)) }
func (c QuizCard) MarshalJSON() ([]byte, error)    { return json.Marshal(documentFor(c)) }
func (c ArrangeCard) MarshalJSON() ([]byte, error) { return json.Marshal(documentFor(c)) }

// DecodeCardJSON decodes a single card from its discriminated JSON form
func DecodeCardJSON(data []byte) (Card, error) {
	var doc cardDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.card()
}
