package formation

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/mcdev12/matchday/go/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogFile struct {
	Formats []formatEntry `yaml:"formats"`
}

type formatEntry struct {
	Format         models.MatchFormat     `yaml:"format"`
	PlayersPerTeam int                    `yaml:"players_per_team"`
	Slots          []models.SlotBlueprint `yaml:"slots"`
}

// Catalog is a static lookup of slot layouts per match format
type Catalog struct {
	entries map[models.MatchFormat]formatEntry
	// formats sorted by squad size, smallest first
	bySize []models.MatchFormat
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog (F5, F7, F11)
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := LoadCatalog(bytes.NewReader(builtinCatalog))
		if err != nil {
			panic(fmt.Sprintf("formation: built-in catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog parses a YAML catalog document
func LoadCatalog(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Formats) == 0 {
		return nil, errors.New("catalog defines no formats")
	}

	c := &Catalog{entries: make(map[models.MatchFormat]formatEntry, len(file.Formats))}
	for _, entry := range file.Formats {
		entry.Format = models.MatchFormat(strings.ToUpper(strings.TrimSpace(string(entry.Format))))
		if err := validateEntry(entry); err != nil {
			return nil, fmt.Errorf("format %s: %w", entry.Format, err)
		}
		if _, exists := c.entries[entry.Format]; exists {
			return nil, fmt.Errorf("format %s defined twice", entry.Format)
		}
		if entry.PlayersPerTeam == 0 {
			entry.PlayersPerTeam = len(entry.Slots)
		}
		c.entries[entry.Format] = entry
		c.bySize = append(c.bySize, entry.Format)
	}

	sort.SliceStable(c.bySize, func(i, j int) bool {
		return c.entries[c.bySize[i]].PlayersPerTeam < c.entries[c.bySize[j]].PlayersPerTeam
	})
	return c, nil
}

func validateEntry(entry formatEntry) error {
	if entry.Format == "" {
		return errors.New("format name is required")
	}
	if len(entry.Slots) == 0 {
		return errors.New("at least one slot is required")
	}
	if entry.PlayersPerTeam < 0 {
		return errors.New("players_per_team must not be negative")
	}
	for i, slot := range entry.Slots {
		if !slot.Category.Valid() {
			return fmt.Errorf("slot %d: invalid category %q", i, slot.Category)
		}
		if slot.X < 0 || slot.X > 100 || slot.Y < 0 || slot.Y > 100 {
			return fmt.Errorf("slot %d: coordinates (%v, %v) outside 0-100", i, slot.X, slot.Y)
		}
		if slot.Cost < 0 {
			return fmt.Errorf("slot %d: negative cost %d", i, slot.Cost)
		}
	}
	return nil
}

// Formats lists the known formats, smallest squad first
func (c *Catalog) Formats() []models.MatchFormat {
	out := make([]models.MatchFormat, len(c.bySize))
	copy(out, c.bySize)
	return out
}

// Templates returns the home and away templates for a format
func (c *Catalog) Templates(format models.MatchFormat) (home, away models.FormationTemplate, err error) {
	entry, ok := c.entries[models.MatchFormat(strings.ToUpper(string(format)))]
	if !ok {
		return models.FormationTemplate{}, models.FormationTemplate{}, &UnknownFormatError{Format: format}
	}

	home = models.FormationTemplate{Format: entry.Format, Team: models.TeamHome, Slots: make([]models.SlotBlueprint, len(entry.Slots))}
	away = models.FormationTemplate{Format: entry.Format, Team: models.TeamAway, Slots: make([]models.SlotBlueprint, len(entry.Slots))}
	for i, slot := range entry.Slots {
		home.Slots[i] = slot
		mirrored := slot
		mirrored.X = 100 - slot.X
		away.Slots[i] = mirrored
	}
	return home, away, nil
}

// InferFormat picks the smallest format whose two squads hold totalPositions,
// or the largest format when none does.
func (c *Catalog) InferFormat(totalPositions int) models.MatchFormat {
	for _, format := range c.bySize {
		if 2*c.entries[format].PlayersPerTeam >= totalPositions {
			return format
		}
	}
	return c.bySize[len(c.bySize)-1]
}

// Resolve returns the templates for format, falling back to a size-inferred
// format when format is empty or unknown. The returned format is the one used.
func (c *Catalog) Resolve(format models.MatchFormat, totalPositions int) (models.MatchFormat, models.FormationTemplate, models.FormationTemplate, error) {
	if format != "" {
		home, away, err := c.Templates(format)
		if err == nil {
			return home.Format, home, away, nil
		}
		var unknown *UnknownFormatError
		if !errors.As(err, &unknown) {
			return "", models.FormationTemplate{}, models.FormationTemplate{}, err
		}
	}

	inferred := c.InferFormat(totalPositions)
	home, away, err := c.Templates(inferred)
	if err != nil {
		return "", models.FormationTemplate{}, models.FormationTemplate{}, err
	}
	return inferred, home, away, nil
}
