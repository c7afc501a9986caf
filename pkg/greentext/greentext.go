// Package greentext holds the pure text transformations of the diary
// pipeline: splitting a generated completion into display text and extracted
// memory facts, the deterministic fallback used when generation fails, and
// the memory dump rendering.
//
// Everything in this package is side-effect free, which keeps the only
// non-deterministic stage of the pipeline (the generation call) isolated in
// pkg/llm.
package greentext

import (
	"regexp"
	"strings"
	"time"
)

// MaxMemoryLength bounds an extracted memory fact. Payloads whose trimmed
// length is 0 or >= MaxMemoryLength are discarded.
const MaxMemoryLength = 100

// FallbackBlankLine replaces blank lines in the fallback transform.
const FallbackBlankLine = "be me"

var (
	// memoryPattern extracts marker payloads anywhere in the completion.
	memoryPattern = regexp.MustCompile(`(?is)\[memory:\s*(.+?)\]`)

	// memoryBoundary locates the start of the first marker. The display text
	// ends at the first marker whether or not its payload survives the
	// length filter.
	memoryBoundary = regexp.MustCompile(`(?i)\[memory:`)
)

// Parsed is the result of splitting a raw completion.
type Parsed struct {
	// Greentext is the display portion of the completion.
	Greentext string

	// Memories holds the extracted memory facts in order of appearance.
	Memories []string
}

// Parse splits a raw completion into display text and extracted memories.
// With no marker present the entire trimmed input is the display text and
// Memories is empty.
func Parse(raw string) Parsed {
	trimmed := strings.TrimSpace(raw)

	loc := memoryBoundary.FindStringIndex(trimmed)
	if loc == nil {
		return Parsed{Greentext: trimmed}
	}

	display := strings.TrimSpace(trimmed[:loc[0]])

	var memories []string
	for _, match := range memoryPattern.FindAllStringSubmatch(trimmed, -1) {
		payload := strings.TrimSpace(match[1])
		if len(payload) > 0 && len(payload) < MaxMemoryLength {
			memories = append(memories, payload)
		}
	}

	return Parsed{Greentext: display, Memories: memories}
}

// Fallback deterministically renders content as greentext when generation is
// unavailable: one output line per input line, each prefixed with ">", blank
// lines replaced with a fixed default.
func Fallback(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			line = FallbackBlankLine
		}
		out[i] = ">" + line
	}

	return strings.Join(out, "\n")
}

// DumpMemory pairs a memory fact with its creation time for dump rendering.
type DumpMemory struct {
	Text      string
	CreatedAt time.Time
}

// RenderMemoryDump renders the device's full memory list as a deterministic
// greentext narrative, newest first. An empty list renders a fixed
// "no memories yet" story instead of erroring.
func RenderMemoryDump(memories []DumpMemory) string {
	if len(memories) == 0 {
		return ">be me\n>no memories yet\n>mfw empty mind"
	}

	lines := []string{
		">be me",
		">memory dump activated",
		">all key memories from the diary:",
	}
	for _, m := range memories {
		lines = append(lines, ">"+m.CreatedAt.Format("Jan 2, 06")+": "+m.Text)
	}
	lines = append(lines, ">mfw reliving the entire arc", ">end of memory dump")

	return strings.Join(lines, "\n")
}
