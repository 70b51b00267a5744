package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name     string
		s1       string
		s2       string
		expected int
	}{
		{"Identical strings", "hello", "hello", 0},
		{"One character difference", "hello", "hallo", 1},
		{"Length difference", "hello", "hell", 1},
		{"Complete difference", "abc", "xyz", 3},
		{"Empty strings", "", "", 0},
		{"One empty", "", "abc", 3},
		{"Runes not bytes", "dončić", "doncic", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, levenshteinDistance(tt.s1, tt.s2))
		})
	}
}

func TestSimilarityRatio(t *testing.T) {
	assert.Equal(t, 1.0, similarityRatio("lebron james", "lebron james"))
	assert.InDelta(t, 1.0-1.0/12.0, similarityRatio("lebron james", "lebron jame"), 1e-9)
	assert.Equal(t, 0.0, similarityRatio("abc", "xyz"))
	assert.Equal(t, 1.0, similarityRatio("", ""))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Luka Dončić", "luka doncic"},
		{"NIKOLA JOKIĆ", "nikola jokic"},
		{"  spaced   out  ", "spaced out"},
		{"plain name", "plain name"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizeName(tt.in))
	}
}
