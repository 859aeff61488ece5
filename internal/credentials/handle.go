package credentials

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Word lists for learner display handles
var adjectives = []string{
	"brave", "bright", "calm", "clever", "cosmic", "curious", "daring", "eager",
	"gentle", "happy", "jolly", "keen", "lively", "lucky", "mighty", "nimble",
	"plucky", "quick", "quiet", "sharp", "snappy", "steady", "sunny", "swift",
	"tidy", "turbo", "witty", "zippy",
}

var nouns = []string{
	"python", "otter", "falcon", "lizard", "panda", "fox", "owl", "dolphin",
	"robot", "comet", "rocket", "wizard", "ranger", "explorer", "beetle", "koala",
	"badger", "heron", "lemur", "gecko", "tiger", "parrot", "yak", "crab",
}

// GenerateHandle returns a random display handle in the form "adjective-noun"
func GenerateHandle() (string, error) {
	adjective, err := randomElement(adjectives)
	if err != nil {
		return "", err
	}

	noun, err := randomElement(nouns)
	if err != nil {
		return "", err
	}

	return adjective + "-" + noun, nil
}

// IsHandle reports whether s has the shape of a generated handle
func IsHandle(s string) bool {
	adjective, noun, ok := strings.Cut(s, "-")
	return ok && contains(adjectives, adjective) && contains(nouns, noun)
}

// randomElement picks a random element from a string slice
func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}

func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
