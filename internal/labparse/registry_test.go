package labparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicParser struct{}

func (panicParser) Name() string { return "Panic Labs" }

func (panicParser) TryParse(string) ([]TestResult, error) { panic("boom") }

type recognizeNothingParser struct{}

func (recognizeNothingParser) Name() string { return "Empty Labs" }

func (recognizeNothingParser) TryParse(string) ([]TestResult, error) { return nil, nil }

func TestRegistryReturnsFirstVendorMatch(t *testing.T) {
	r := NewRegistry(nil)

	rows, vendor, ok := r.Parse(labcorpReport)
	require.True(t, ok)
	assert.Equal(t, "LabCorp", vendor)
	assert.Len(t, rows, 6)
}

func TestRegistryPrefersLabCorpOverQuest(t *testing.T) {
	r := NewRegistry(nil)

	// Both signatures present; priority order decides.
	text := labcorpReport + "\nSource: Quest Diagnostics interface feed\n"
	_, vendor, ok := r.Parse(text)
	require.True(t, ok)
	assert.Equal(t, "LabCorp", vendor)
}

func TestRegistryFallsThroughToQuest(t *testing.T) {
	r := NewRegistry(nil)

	rows, vendor, ok := r.Parse(questColumnarReport)
	require.True(t, ok)
	assert.Equal(t, "Quest Diagnostics", vendor)
	assert.Len(t, rows, 4)
}

func TestRegistryNoVendorMatch(t *testing.T) {
	r := NewRegistry(nil)

	rows, vendor, ok := r.Parse("routine office visit notes, no labs attached")
	assert.False(t, ok)
	assert.Empty(t, vendor)
	assert.Nil(t, rows)
}

func TestRegistryContainsPanicsAndEmptyMatches(t *testing.T) {
	r := NewRegistry(nil, panicParser{}, recognizeNothingParser{}, LabCorpParser{})

	rows, vendor, ok := r.Parse(labcorpReport)
	require.True(t, ok)
	assert.Equal(t, "LabCorp", vendor)
	assert.Len(t, rows, 6)
}
