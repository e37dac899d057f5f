package model

import (
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// EmbeddingDimensions is the size of the recipe embedding column
const EmbeddingDimensions = 4

// GenerateEmbedding returns a simple deterministic embedding for the given
// text: rune count, vowels, consonants and words.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var length, vowels, consonants float32
	for _, r := range text {
		length++
		switch {
		case strings.ContainsRune("aeiouyæøå", r):
			vowels++
		case unicode.IsLetter(r):
			consonants++
		}
	}
	words := float32(len(strings.Fields(text)))
	return pgvector.NewVector([]float32{length, vowels, consonants, words})
}
