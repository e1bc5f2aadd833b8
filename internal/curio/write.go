package curio

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	notApplicable = "N/A"
	drawsLabel    = "<- # Draws"
)

var (
	slotHeader = []string{"", "", "ID STRING", "", "RESULT TYPES", "WEIGHT", "% CHANCE",
		"RESULT 1", "R1 WEIGHT", "R1 %", "RESULT 2", "R2 WEIGHT", "R2 %", "RESULT 3", "R3 WEIGHT", "R3 %",
		"CURIO TACKER ID", "STRING", "NOTES"}
	interactionHeader = []string{"", "", "Item Interactions", "", "ITEM", "RESULT TYPE", "",
		"RESULT 1", "R1 WEIGHT", "R1 %", "RESULT 2", "R2 WEIGHT", "R2 %", "RESULT 3", "R3 WEIGHT", "R3 %",
		"CURIO TACKER ID", "STRING", "NOTES"}
)

func (l *Library) WriteFile(path string) error {
	return os.WriteFile(path, []byte(l.Serialize()), 0o644)
}

// Serialize renders the library with records sorted by ascending id.
func (l *Library) Serialize() string {
	curios := append([]Curio{}, l.Curios...)
	sort.SliceStable(curios, func(i, j int) bool { return curios[i].ID < curios[j].ID })

	w := &tableWriter{}
	w.row()
	w.row()
	for _, c := range curios {
		writeRecord(w, c)
	}
	return w.b.String()
}

func writeRecord(w *tableWriter, c Curio) {
	w.row("", strconv.Itoa(c.ID), c.Name, "", c.Quality.String())
	w.row(slotHeader...)

	full := "Yes"
	if !c.Full {
		full = "No"
	}
	labels := [SlotCount][2]string{
		SlotNothing:  {c.IDString, ""},
		SlotLoot:     {"REGION FOUND", ""},
		SlotQuirk:    {c.Region.String(), ""},
		SlotEffect:   {"FULL CURIO?", ""},
		SlotPurge:    {full, ""},
		SlotScouting: {"TAGS", ""},
		SlotTeleport: {c.Tags[0], c.Tags[1]},
		SlotDisease:  {c.Tags[2], c.Tags[3]},
	}

	total := c.Effects.TotalWeight()
	for slot := SlotNothing; slot < SlotCount; slot++ {
		effect := c.Effects[slot]
		cells := []string{"", "", labels[slot][0], labels[slot][1], slot.String(), formatWeight(effect.Weight), formatPercent(effect.Weight, total)}
		if slot == SlotNothing {
			cells = append(cells, notApplicableCells()...)
			cells = append(cells, string(effect.Tracker), effect.Notes)
		} else {
			cells = append(cells, resultCells(effect.Effect)...)
		}
		w.row(cells...)
	}

	w.row("", "", c.Tags[4], c.Tags[5])
	w.row(interactionHeader...)
	for i := 0; i < MaxInteractions; i++ {
		if i >= len(c.Interactions) {
			w.row()
			continue
		}
		in := c.Interactions[i]
		cells := []string{"", "", "", "", in.Item, in.Effect.Type.String(), ""}
		w.row(append(cells, resultCells(in.Effect)...)...)
	}
}

// resultCells renders columns RESULT 1 through NOTES. Loot weights are draw
// counts, so their percentage column carries a label instead.
func resultCells(e Effect) []string {
	total := 0
	for _, r := range e.Results {
		total += r.Weight
	}
	cells := make([]string, 0, colNotes-colResult+1)
	for _, r := range e.Results {
		pct := formatPercent(r.Weight, total)
		if e.Type == EffectLoot && pct != "" {
			pct = drawsLabel
		}
		cells = append(cells, r.Value, formatWeight(r.Weight), pct)
	}
	return append(cells, string(e.Tracker), e.Notes)
}

func notApplicableCells() []string {
	cells := make([]string, 0, colTracker-colResult)
	for i := colResult; i < colTracker; i++ {
		cells = append(cells, notApplicable)
	}
	return cells
}

// formatWeight renders a weight cell. Zero is blank.
func formatWeight(weight int) string {
	if weight == 0 {
		return ""
	}
	return strconv.Itoa(weight)
}

// formatPercent renders weight/total as a percentage with two decimals, blank
// when the weight cell is blank.
func formatPercent(weight, total int) string {
	if weight == 0 || total == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f%%", float64(weight)/float64(total)*100)
}

type tableWriter struct {
	b strings.Builder
}

// row writes cells padded to the full row width.
func (w *tableWriter) row(cells ...string) {
	for i := 0; i < rowWidth; i++ {
		if i > 0 {
			w.b.WriteByte(',')
		}
		if i < len(cells) {
			w.b.WriteString(quoteCell(cells[i]))
		}
	}
	w.b.WriteByte('\n')
}

func quoteCell(s string) string {
	if !strings.ContainsAny(s, ",") && !strings.HasPrefix(s, `"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
