// Package notetable is the static frequency table for the lyre tutor: it
// maps note names to equal-tempered frequencies and exposes the ordered
// 19-note diatonic set the classifier is allowed to emit.
package notetable

import (
	"fmt"
	"math"
	"strconv"
)

// referenceA4 is the concert pitch the whole table is built from.
const referenceA4 = 440.0

// semitoneOffsets maps a natural letter to its semitone offset from C
// within an octave (C=0 .. B=11).
var semitoneOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// LyreSet is the ordered sequence of the 19 diatonic strings, F3..C6.
var LyreSet = []string{
	"F3", "G3", "A3", "B3",
	"C4", "D4", "E4", "F4", "G4", "A4", "B4",
	"C5", "D5", "E5", "F5", "G5", "A5", "B5",
	"C6",
}

// Frequencies is the full C3..D6 table, built once at init time. Both
// sharp and flat spellings resolve to the same frequency.
var Frequencies = buildTable()

func buildTable() map[string]float64 {
	table := make(map[string]float64)
	addOctave := func(octave int, letters string) {
		for i := 0; i < len(letters); i++ {
			letter := letters[i]
			offset := semitoneOffsets[letter]
			table[fmt.Sprintf("%c%d", letter, octave)] = frequencyOf(offset, octave)
			table[fmt.Sprintf("%c#%d", letter, octave)] = frequencyOf(offset+1, octave)
			table[fmt.Sprintf("%cb%d", letter, octave)] = frequencyOf(offset-1, octave)
		}
	}
	// Full chromatic table for octaves 3..5, spanning the lyre range.
	for octave := 3; octave <= 5; octave++ {
		addOctave(octave, "CDEFGAB")
	}
	// The documented span stops at D6, so octave 6 only needs C and D.
	addOctave(6, "CD")
	return table
}

// frequencyOf returns the equal-tempered frequency for a semitone offset
// from C (may be negative or >11 for accidentals) in the given octave.
func frequencyOf(offsetFromC, octave int) float64 {
	// MIDI-style numbering: A4 = semitone 69, C4 = semitone 60.
	semitoneFromC4 := offsetFromC + 12*(octave-4)
	semitonesFromA4 := semitoneFromC4 - 9
	return referenceA4 * math.Pow(2, float64(semitonesFromA4)/12.0)
}

// Parse splits a note name of the form <letter><optional accidental><octave>
// into its letter+accidental prefix and integer octave, e.g. "F#3" -> ("F#", 3).
func Parse(name string) (letterAccidental string, octave int, err error) {
	if len(name) < 2 {
		return "", 0, fmt.Errorf("notetable: note name %q too short", name)
	}
	letter := name[0]
	if _, ok := semitoneOffsets[letter]; !ok {
		return "", 0, fmt.Errorf("notetable: unrecognized letter in %q", name)
	}
	rest := name[1:]
	prefix := string(letter)
	if len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		prefix += string(rest[0])
		rest = rest[1:]
	}
	if rest == "" {
		return "", 0, fmt.Errorf("notetable: note name %q missing octave", name)
	}
	oct, convErr := strconv.Atoi(rest)
	if convErr != nil {
		return "", 0, fmt.Errorf("notetable: invalid octave in %q: %w", name, convErr)
	}
	return prefix, oct, nil
}

// FrequencyOf looks up a note name's frequency. The second return value is
// false if the name is not present in the C3..D6 table.
func FrequencyOf(name string) (float64, bool) {
	f, ok := Frequencies[name]
	return f, ok
}

// IsLyreNote reports whether name is one of the 19 diatonic lyre strings.
func IsLyreNote(name string) bool {
	for _, n := range LyreSet {
		if n == name {
			return true
		}
	}
	return false
}

// CentsBetween returns the signed cents distance of f from the reference
// frequency of note, i.e. 1200*log2(f/f_note).
func CentsBetween(f, noteFreq float64) float64 {
	return 1200 * math.Log2(f/noteFreq)
}

// NearestLyreNote finds the lyre-set entry closest to f in cents and
// returns its name and the (unsigned) cents distance. It never returns a
// name outside LyreSet.
func NearestLyreNote(f float64) (name string, centsDistance float64) {
	best := ""
	bestAbs := math.Inf(1)
	for _, n := range LyreSet {
		nf := Frequencies[n]
		c := CentsBetween(f, nf)
		if math.Abs(c) < bestAbs {
			bestAbs = math.Abs(c)
			best = n
		}
	}
	return best, bestAbs
}
