package labparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTestDateCollectionWinsOverReported(t *testing.T) {
	text := "Date Reported: 04/18/2024\nDate Collected: 04/17/2024\n"
	got := findTestDate(text)
	require.NotNil(t, got)
	assert.Equal(t, "2024-04-17", *got)
}

func TestFindTestDateFormats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"us slashes", "Collected: 04/17/2024", "2024-04-17"},
		{"iso", "Collected: 2024-04-17", "2024-04-17"},
		{"abbreviated month", "Drawn on Apr 17, 2024", "2024-04-17"},
		{"abbreviated month with period", "Drawn on Apr. 17, 2024", "2024-04-17"},
		{"full month no comma", "Collection date January 3 2024", "2024-01-03"},
		{"unpadded slashes", "Collected: 4/7/2024", "2024-04-07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findTestDate(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestFindTestDateUnlabeledFallback(t *testing.T) {
	got := findTestDate("Seen 04/02/2024 for follow-up")
	require.NotNil(t, got)
	assert.Equal(t, "2024-04-02", *got)
}

func TestFindTestDateNone(t *testing.T) {
	assert.Nil(t, findTestDate("no dates in this text"))
	assert.Nil(t, findTestDate(""))
	// Token-shaped but not a calendar date.
	assert.Nil(t, findTestDate("Collected: 13/45/2024"))
}
