package assignment

import (
	"strings"
	"unicode"

	"github.com/mcdev12/matchday/go/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// synonyms are stored folded. Short codes that occur inside other words
// ("st" inside "stopper") are left out because labels
// are matched by containment.
var synonyms = map[models.Category][]string{
	models.CategoryGoalkeeper: {
		"goalkeeper", "keeper", "goalie", "gk", "portero", "arquero", "guardameta", "golero",
	},
	models.CategoryDefense: {
		"defense", "defence", "defender", "back", "stopper", "lateral", "central",
		"defensa", "defensor", "zaguero", "libero", "sweeper",
	},
	models.CategoryMidfield: {
		"midfield", "midfielder", "mid", "volante", "medio", "mediocampista",
		"centrocampista", "pivote", "enganche", "contencion",
	},
	models.CategoryForward: {
		"forward", "striker", "attacker", "delantero", "atacante", "punta",
		"extremo", "winger", "wing", "ariete",
	},
}

// Fold normalises a free-text position label: trims, strips diacritics and
// case-folds, so "Lateral Izquierdo" and "LATERAL" compare equal on "lateral".
func Fold(label string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, strings.TrimSpace(label))
	if err != nil {
		stripped = strings.TrimSpace(label)
	}
	return cases.Fold().String(stripped)
}

// matchesFolded reports whether a folded label equals or contains one of the
// category's synonyms
func matchesFolded(folded string, category models.Category) bool {
	if folded == "" {
		return false
	}
	for _, synonym := range synonyms[category] {
		if strings.Contains(folded, synonym) {
			return true
		}
	}
	return false
}

// Classify returns the first category, in models.Categories order, whose
// synonyms match label.
func Classify(label string) (models.Category, bool) {
	folded := Fold(label)
	for _, category := range models.Categories {
		if matchesFolded(folded, category) {
			return category, true
		}
	}
	return "", false
}
