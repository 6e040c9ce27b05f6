package assignment

import (
	"github.com/mcdev12/matchday/go/internal/models"
)

// Assignment maps slot id to the roster player bound to it. Slots missing
// from the map are open.
type Assignment map[string]models.RosterPlayer

// SlotIDs returns the ids of a template's slots in declaration order
func SlotIDs(template models.FormationTemplate) []string {
	ids := make([]string, len(template.Slots))
	seen := make(map[models.Category]int, len(models.Categories))
	for i, slot := range template.Slots {
		seen[slot.Category]++
		ids[i] = models.SlotID(template.Team, slot.Category, seen[slot.Category])
	}
	return ids
}

// Assign lays a roster onto a template in two deterministic passes.
//
// The category pass walks slots in declaration order and binds the first
// remaining player whose label matches the slot's category. The overflow
// pass then fills every still-open slot with the remaining players in their
// original order. Players beyond the template size are left out; Assign
// never fails.
func Assign(template models.FormationTemplate, roster []models.RosterPlayer) Assignment {
	ids := SlotIDs(template)
	result := make(Assignment, len(ids))

	folded := make([]string, len(roster))
	for i, player := range roster {
		folded[i] = Fold(player.PositionLabel)
	}
	taken := make([]bool, len(roster))

	for i, slot := range template.Slots {
		for p := range roster {
			if taken[p] || !matchesFolded(folded[p], slot.Category) {
				continue
			}
			result[ids[i]] = roster[p]
			taken[p] = true
			break
		}
	}

	next := 0
	for i := range template.Slots {
		if _, bound := result[ids[i]]; bound {
			continue
		}
		for next < len(roster) && taken[next] {
			next++
		}
		if next == len(roster) {
			break
		}
		result[ids[i]] = roster[next]
		taken[next] = true
	}

	return result
}

// Layout turns a template and its assignment into field slots for a match.
// Bound slots carry the roster player as a roster occupant.
func Layout(matchID string, template models.FormationTemplate, assigned Assignment) []models.Slot {
	ids := SlotIDs(template)
	slots := make([]models.Slot, len(template.Slots))
	for i, blueprint := range template.Slots {
		slots[i] = models.Slot{
			ID:       ids[i],
			MatchID:  matchID,
			Team:     template.Team,
			Category: blueprint.Category,
			Label:    blueprint.Label,
			X:        blueprint.X,
			Y:        blueprint.Y,
			Cost:     blueprint.Cost,
		}
		if player, ok := assigned[ids[i]]; ok {
			slots[i].Occupant = &models.Occupant{
				ID:          player.ID,
				DisplayName: player.DisplayName,
				AvatarRef:   player.AvatarRef,
				Kind:        models.OccupantRoster,
			}
		}
	}
	return slots
}
