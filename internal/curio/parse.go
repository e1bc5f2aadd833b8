// Package curio reads and writes the curio type library, a comma separated
// table in which every curio occupies a fixed block of rows:
//
//	row  0   id, name, quality
//	row  1   column headers
//	rows 2-9 one weighted effect slot each (nothing .. disease), with the
//	         id string, region, full-curio flag and tags in the left columns
//	row 10   last two tags
//	row 11   item interaction headers
//	then up to four item interaction rows
package curio

import (
	"os"
	"strconv"
	"strings"

	"ddrand/internal/fault"
)

// Column positions shared by slot rows and interaction rows.
const (
	colLabel   = 2
	colLabel2  = 3
	colType    = 4
	colWeight  = 5
	colChance  = 6
	colResult  = 7 // result i occupies colResult+3i .. colResult+3i+2
	colTracker = 16
	colNotes   = 17
	rowWidth   = 19
)

// recordRows is the number of fixed rows before the interaction block.
const recordRows = 12

func ParseFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Parse reads every record in text. A record whose first row has no integer
// id aborts the whole load.
func Parse(text string) (*Library, error) {
	lines := splitLines(text)
	lib := &Library{}

	for i := 0; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], ",,") {
			continue
		}
		c, next, err := parseRecord(lines, i)
		if err != nil {
			return nil, err
		}
		lib.Curios = append(lib.Curios, c)
		i = next
	}
	return lib, nil
}

// parseRecord reads the record starting at lines[start] and returns the index
// of its last consumed line.
func parseRecord(lines []string, start int) (Curio, int, error) {
	head := splitCells(lines[start])
	id, err := strconv.Atoi(strings.TrimSpace(cell(head, 1)))
	if err != nil {
		return Curio{}, 0, fault.CorruptWrap(err, "curio record at line %d has no id", start+1)
	}
	if start+recordRows > len(lines) {
		return Curio{}, 0, fault.Corrupt("curio %d is truncated", id)
	}

	c := Curio{ID: id, Name: cell(head, 2)}
	if c.Quality, err = ParseQuality(cell(head, 4)); err != nil {
		return Curio{}, 0, fault.CorruptWrap(err, "curio %d", id)
	}

	rows := make([][]string, recordRows)
	for i := range rows {
		rows[i] = splitCells(lines[start+i])
	}

	for slot := SlotNothing; slot < SlotCount; slot++ {
		row := rows[2+int(slot)]
		effect, err := parseEffect(row, colType)
		if err != nil {
			return Curio{}, 0, fault.CorruptWrap(err, "curio %d slot %s", id, slot)
		}
		c.Effects[slot] = WeightedEffect{Effect: effect, Weight: parseWeight(cell(row, colWeight))}
	}

	c.IDString = cell(rows[2], colLabel)
	if c.Region, err = ParseRegion(cell(rows[4], colLabel)); err != nil {
		return Curio{}, 0, fault.CorruptWrap(err, "curio %d", id)
	}
	c.Full = cell(rows[6], colLabel) != "No"
	for i, row := range rows[8:11] {
		c.Tags[2*i] = cell(row, colLabel)
		c.Tags[2*i+1] = cell(row, colLabel2)
	}

	last := start + recordRows - 1
	for last+1 < len(lines) {
		row := splitCells(lines[last+1])
		if !isInteractionRow(row) {
			break
		}
		effect, err := parseEffect(row, colWeight)
		if err != nil {
			return Curio{}, 0, fault.CorruptWrap(err, "curio %d interaction %d", id, len(c.Interactions))
		}
		c.Interactions = append(c.Interactions, Interaction{Item: cell(row, colType), Effect: effect})
		last++
	}

	return c, last, nil
}

// parseEffect reads the type and result cells of a row. Interaction rows
// carry the item in the type column and the type in the weight column.
func parseEffect(row []string, typeCol int) (Effect, error) {
	typ, err := ParseEffectType(cell(row, typeCol))
	if err != nil {
		return Effect{}, err
	}
	e := Effect{
		Type:    typ,
		Tracker: Tracker(cell(row, colTracker)),
		Notes:   cell(row, colNotes),
	}
	for i := range e.Results {
		col := colResult + 3*i
		e.Results[i] = Result{Value: resultValue(cell(row, col)), Weight: parseWeight(cell(row, col+1))}
	}
	return e, nil
}

// isInteractionRow reports whether the leading four cells are empty and the
// item cell is not.
func isInteractionRow(row []string) bool {
	for i := 0; i < colType; i++ {
		if cell(row, i) != "" {
			return false
		}
	}
	return cell(row, colType) != ""
}

func resultValue(s string) string {
	if s == notApplicable {
		return ""
	}
	return s
}

func parseWeight(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitCells splits a row on commas. A cell that opens with a double quote
// runs until a piece that closes it, so quoted cells may embed commas.
func splitCells(line string) []string {
	pieces := strings.Split(line, ",")
	cells := make([]string, 0, len(pieces))
	for i := 0; i < len(pieces); i++ {
		piece := pieces[i]
		if strings.HasPrefix(piece, `"`) {
			for !closesQuote(piece) && i+1 < len(pieces) {
				i++
				piece += "," + pieces[i]
			}
			piece = unquoteCell(piece)
		}
		cells = append(cells, piece)
	}
	return cells
}

// closesQuote reports whether a cell opened by a quote ends with an unescaped
// closing quote.
func closesQuote(s string) bool {
	if len(s) < 2 {
		return false
	}
	inner := s[1:]
	run := len(inner) - len(strings.TrimRight(inner, `"`))
	return run%2 == 1
}

func unquoteCell(s string) string {
	if !closesQuote(s) {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}
