/*
presets.go - New-game presets

PURPOSE:
  Lists the starting situations a player can pick when starting a game.
  The presets themselves live in sim (sim.Presets); this file only exposes
  them.

AVAILABLE PRESETS:

	default:  Odd jobs, $1,200 in checking, no debt, credit 600
	in-debt:  Thin checking, $5,000 of debt, credit 540
	graduate: Bachelors degree, $20,000 of student debt, credit 680

USAGE VIA API:

	GET  /api/presets
	POST /api/users/{user}/game
	{"preset": "graduate"}

SEE ALSO:
  - sim/presets.go: Preset definitions
  - handlers.go: NewGame handler
*/
package api

import (
	"net/http"

	"github.com/warp/lifesim/sim"
)

func presetDTOs() []PresetDTO {
	presets := sim.Presets()
	dtos := make([]PresetDTO, len(presets))
	for i, p := range presets {
		dtos[i] = PresetDTO{ID: p.ID, Name: p.Name, Description: p.Description}
	}
	return dtos
}

// ListPresets returns all available presets.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetDTOs())
}
