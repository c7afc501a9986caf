// Package prompt renders the generation instruction for a diary entry.
package prompt

import (
	"fmt"
	"strings"
)

const preamble = `You are anon's diary assistant. Turn journal entries into 4chan-style greentext stories.`

const rules = `INSTRUCTIONS:
1. Create a greentext story from the journal entry
2. Use > at the start of every line
3. Make it funny, ironic, self-deprecating
4. End with "mfw" or "tfw" if appropriate
5. Occasionally use format like: emotion.fileextension
6. After the greentext, on a new line, write 1 short summary about the user's patterns/habits/emotions but only IF they are MAJOR OR IMPORTANT
7. Format each memory as: [memory: short memory text]
8. every memory must have a unique topic

Example:
> be me
> try to wake up early
> alarmClockScreaming.mp3
> hit snooze 5 times
> mfw it's already noon

[memory: always hits snooze multiple times]
[memory: struggles with morning routines]`

// Build renders the full instruction string for a trimmed entry and its
// memory context. It is pure: the same inputs always produce the same
// prompt, so generation requests are reproducible in tests.
func Build(content string, memories []string) string {
	var b strings.Builder

	b.WriteString(preamble)
	b.WriteString("\n")

	if len(memories) > 0 {
		b.WriteString("\nUser's previous key memories:\n")
		for i, memory := range memories {
			fmt.Fprintf(&b, "%d. %s\n", i+1, memory)
		}
	}

	b.WriteString("\n")
	b.WriteString(rules)
	b.WriteString("\n\nNow process this journal entry: ")
	b.WriteString(strings.TrimSpace(content))

	return b.String()
}
