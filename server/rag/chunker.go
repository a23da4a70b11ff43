package rag

import "strings"

// Default chunking parameters, tuned for prose documents and profile text.
const (
	DefaultChunkMaxChars     = 1200
	DefaultChunkOverlapChars = 200
)

// abbreviations are tokens whose trailing period does not end a sentence.
// The corpus is mixed French/English, so French honorifics dominate.
var abbreviations = map[string]struct{}{
	"M.":   {},
	"Mme.": {},
	"Dr.":  {},
	"Pr.":  {},
	"etc.": {},
	"p.":   {},
	"n°":   {},
}

// SplitSentences splits text into sentence-like units. Terminal punctuation
// (. ! ?) followed by a space or end of input closes a sentence, unless the
// token it terminates is a known abbreviation. Whitespace is normalized.
func SplitSentences(text string) []string {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	var sentences []string
	runes := []rune(normalized)
	start := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && runes[i+1] != ' ' {
			continue
		}
		if r == '.' && isAbbreviation(runes[start:i+1]) {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// isAbbreviation reports whether the last space-delimited token of the
// sentence so far is in the abbreviation set.
func isAbbreviation(sentence []rune) bool {
	s := string(sentence)
	if idx := strings.LastIndexByte(s, ' '); idx >= 0 {
		s = s[idx+1:]
	}
	_, ok := abbreviations[s]
	return ok
}

// ChunkText splits text into segments of at most maxChars characters,
// packing whole sentences greedily. When a segment is closed, the next one
// is seeded with the trailing overlapChars of it so context survives the
// boundary. A single sentence longer than maxChars is hard-split at the
// character boundary. Deterministic; empty or whitespace-only input yields
// no segments.
func ChunkText(text string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultChunkMaxChars
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 4
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var segments []string
	var current []rune
	for _, sentence := range sentences {
		for _, piece := range hardSplit([]rune(sentence), maxChars) {
			if len(current) == 0 {
				current = append(current, piece...)
				continue
			}
			if len(current)+1+len(piece) <= maxChars {
				current = append(current, ' ')
				current = append(current, piece...)
				continue
			}

			segments = append(segments, string(current))
			seed := overlapSeed(current, overlapChars)
			// The seed counts against the new segment's budget; trim it so
			// the seeded segment still respects maxChars.
			if budget := maxChars - len(piece) - 1; len(seed) > budget {
				if budget <= 0 {
					seed = nil
				} else {
					seed = seed[len(seed)-budget:]
				}
			}
			current = current[:0]
			current = append(current, seed...)
			if len(current) > 0 {
				current = append(current, ' ')
			}
			current = append(current, piece...)
		}
	}
	if len(current) > 0 {
		segments = append(segments, string(current))
	}
	return segments
}

// hardSplit cuts an oversized sentence into maxChars-sized pieces. Sentences
// that fit are returned as a single piece.
func hardSplit(sentence []rune, maxChars int) [][]rune {
	if len(sentence) <= maxChars {
		return [][]rune{sentence}
	}
	var pieces [][]rune
	for start := 0; start < len(sentence); start += maxChars {
		end := start + maxChars
		if end > len(sentence) {
			end = len(sentence)
		}
		pieces = append(pieces, sentence[start:end])
	}
	return pieces
}

// overlapSeed returns the trailing overlapChars characters of the closed
// segment, used to seed the next one.
func overlapSeed(segment []rune, overlapChars int) []rune {
	if overlapChars <= 0 {
		return nil
	}
	if len(segment) <= overlapChars {
		return append([]rune(nil), segment...)
	}
	return append([]rune(nil), segment[len(segment)-overlapChars:]...)
}
