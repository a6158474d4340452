package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringList(t *testing.T) {
	items, err := parseStringList("```json\n[\"one\", \" two \", \"\"]\n```")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, items)

	items, err = parseStringList("1. First line\n- Second line\n\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"First line", "Second line"}, items)

	_, err = parseStringList("  ")
	assert.Error(t, err)
}

func TestFallbackBios(t *testing.T) {
	bios := FallbackBios(BioInput{DisplayName: "Ann", Skills: []string{"go"}})
	require.Len(t, bios, 3)
	assert.Contains(t, bios[0], "Ann")
	assert.Contains(t, bios[0], "go")
	assert.Contains(t, bios[2], "Builder")
}

func TestFallbackIcebreakers(t *testing.T) {
	lines := FallbackIcebreakers(
		Brief{Interests: []string{"Music", "climbing"}},
		Brief{Skills: []string{"rust"}, Interests: []string{"music"}},
	)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "music")
	assert.Contains(t, lines[1], "rust")

	lines = FallbackIcebreakers(Brief{}, Brief{})
	assert.Len(t, lines, 2)
}
