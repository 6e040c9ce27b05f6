package formation

import (
	"strings"
	"testing"

	"github.com/mcdev12/matchday/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogFormats(t *testing.T) {
	c := Default()
	assert.Equal(t, []models.MatchFormat{"F5", "F7", "F11"}, c.Formats())

	tests := []struct {
		format models.MatchFormat
		slots  int
		counts map[models.Category]int
	}{
		{"F5", 5, map[models.Category]int{models.CategoryGoalkeeper: 1, models.CategoryDefense: 2, models.CategoryMidfield: 1, models.CategoryForward: 1}},
		{"F7", 7, map[models.Category]int{models.CategoryGoalkeeper: 1, models.CategoryDefense: 2, models.CategoryMidfield: 3, models.CategoryForward: 1}},
		{"F11", 11, map[models.Category]int{models.CategoryGoalkeeper: 1, models.CategoryDefense: 4, models.CategoryMidfield: 4, models.CategoryForward: 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			home, away, err := c.Templates(tt.format)
			require.NoError(t, err)
			require.Len(t, home.Slots, tt.slots)
			require.Len(t, away.Slots, tt.slots)
			assert.Equal(t, models.TeamHome, home.Team)
			assert.Equal(t, models.TeamAway, away.Team)

			counts := map[models.Category]int{}
			for i, slot := range home.Slots {
				counts[slot.Category]++
				assert.Equal(t, slot.Category, away.Slots[i].Category)
				assert.Equal(t, 100-slot.X, away.Slots[i].X, "away side is mirrored")
				assert.Equal(t, slot.Y, away.Slots[i].Y)
			}
			assert.Equal(t, tt.counts, counts)
		})
	}
}

func TestTemplatesIsCaseInsensitive(t *testing.T) {
	home, _, err := Default().Templates("f7")
	require.NoError(t, err)
	assert.Equal(t, models.MatchFormat("F7"), home.Format)
}

func TestTemplatesUnknownFormat(t *testing.T) {
	_, _, err := Default().Templates("F9")
	require.Error(t, err)

	var unknown *UnknownFormatError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, models.MatchFormat("F9"), unknown.Format)
}

func TestInferFormat(t *testing.T) {
	tests := []struct {
		total int
		want  models.MatchFormat
	}{
		{0, "F5"},
		{7, "F5"},
		{10, "F5"},
		{11, "F7"},
		{14, "F7"},
		{15, "F11"},
		{22, "F11"},
		{30, "F11"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Default().InferFormat(tt.total), "total %d", tt.total)
	}
}

func TestResolveFallsBackToInferredFormat(t *testing.T) {
	c := Default()

	format, home, _, err := c.Resolve("F9", 14)
	require.NoError(t, err)
	assert.Equal(t, models.MatchFormat("F7"), format)
	assert.Len(t, home.Slots, 7)

	format, _, _, err = c.Resolve("", 9)
	require.NoError(t, err)
	assert.Equal(t, models.MatchFormat("F5"), format)

	format, _, _, err = c.Resolve("F11", 4)
	require.NoError(t, err)
	assert.Equal(t, models.MatchFormat("F11"), format, "explicit format wins over size")
}

func TestLoadCatalogValidation(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"empty", "formats: []", "no formats"},
		{"bad category", "formats:\n  - format: X\n    slots:\n      - {category: libero, x: 1, y: 1}", "invalid category"},
		{"out of range", "formats:\n  - format: X\n    slots:\n      - {category: forward, x: 101, y: 1}", "outside 0-100"},
		{"negative cost", "formats:\n  - format: X\n    slots:\n      - {category: forward, x: 1, y: 1, cost: -1}", "negative cost"},
		{"duplicate", "formats:\n  - format: X\n    slots:\n      - {category: forward, x: 1, y: 1}\n  - format: x\n    slots:\n      - {category: forward, x: 1, y: 1}", "defined twice"},
		{"not yaml", "formats: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadCatalogDefaultsPlayersPerTeam(t *testing.T) {
	doc := `
formats:
  - format: duo
    slots:
      - {category: goalkeeper, label: GK, x: 5, y: 50, cost: 3}
      - {category: forward, label: ST, x: 40, y: 50, cost: 4}
`
	c, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, models.MatchFormat("DUO"), c.InferFormat(4))

	home, _, err := c.Templates("DUO")
	require.NoError(t, err)
	assert.Equal(t, 3, home.Slots[0].Cost)
}
