package greentext_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/greenlog/pkg/greentext"
)

var _ = Describe("Parse", func() {
	Context("with no memory markers", func() {
		It("returns the trimmed input as display text with no memories", func() {
			parsed := greentext.Parse("  >be me\n>post on diary\n>mfw  ")
			Expect(parsed.Greentext).To(Equal(">be me\n>post on diary\n>mfw"))
			Expect(parsed.Memories).To(BeEmpty())
		})
	})

	Context("with memory markers", func() {
		It("splits display text at the first marker and extracts payloads in order", func() {
			parsed := greentext.Parse("hello [memory: likes tea] world [memory: fears spiders]")
			Expect(parsed.Greentext).To(Equal("hello"))
			Expect(parsed.Memories).To(Equal([]string{"likes tea", "fears spiders"}))
		})

		It("matches markers case-insensitively", func() {
			parsed := greentext.Parse(">story\n[MEMORY: always late]\n[Memory: drinks coffee]")
			Expect(parsed.Greentext).To(Equal(">story"))
			Expect(parsed.Memories).To(Equal([]string{"always late", "drinks coffee"}))
		})

		It("trims whitespace from extracted payloads", func() {
			parsed := greentext.Parse("x [memory:   naps often   ]")
			Expect(parsed.Memories).To(Equal([]string{"naps often"}))
		})

		It("discards payloads of 100 characters or more", func() {
			long := strings.Repeat("a", 100)
			parsed := greentext.Parse("x [memory: " + long + "] [memory: short]")
			Expect(parsed.Memories).To(Equal([]string{"short"}))
		})

		It("keeps payloads of 99 characters", func() {
			almost := strings.Repeat("a", 99)
			parsed := greentext.Parse("x [memory: " + almost + "]")
			Expect(parsed.Memories).To(Equal([]string{almost}))
		})

		It("uses the first marker as the display boundary even when its payload is invalid", func() {
			long := strings.Repeat("a", 150)
			parsed := greentext.Parse("story here [memory: " + long + "] [memory: valid one]")
			Expect(parsed.Greentext).To(Equal("story here"))
			Expect(parsed.Memories).To(Equal([]string{"valid one"}))
		})

		It("yields an empty display when the input starts with a marker", func() {
			parsed := greentext.Parse("[memory: no story at all]")
			Expect(parsed.Greentext).To(BeEmpty())
			Expect(parsed.Memories).To(Equal([]string{"no story at all"}))
		})
	})

	Context("with empty input", func() {
		It("returns empty display and no memories", func() {
			parsed := greentext.Parse("")
			Expect(parsed.Greentext).To(BeEmpty())
			Expect(parsed.Memories).To(BeEmpty())
		})
	})
})

var _ = Describe("Fallback", func() {
	It("prefixes every line with the quote marker", func() {
		Expect(greentext.Fallback("woke up late\nmissed the bus")).
			To(Equal(">woke up late\n>missed the bus"))
	})

	It("substitutes the default line for blank lines", func() {
		Expect(greentext.Fallback("first\n\nlast")).
			To(Equal(">first\n>be me\n>last"))
	})

	It("trims surrounding whitespace from each line", func() {
		Expect(greentext.Fallback("  padded  \n\ttabbed\t")).
			To(Equal(">padded\n>tabbed"))
	})

	It("produces one output line per input line", func() {
		content := "a\nb\nc\nd"
		out := greentext.Fallback(content)
		Expect(strings.Split(out, "\n")).To(HaveLen(4))
	})
})

var _ = Describe("RenderMemoryDump", func() {
	It("renders the fixed story for an empty memory list", func() {
		Expect(greentext.RenderMemoryDump(nil)).
			To(Equal(">be me\n>no memories yet\n>mfw empty mind"))
	})

	It("renders one dated line per memory between fixed framing lines", func() {
		when := time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)
		out := greentext.RenderMemoryDump([]greentext.DumpMemory{
			{Text: "always hits snooze", CreatedAt: when},
			{Text: "fears spiders", CreatedAt: when.AddDate(0, 0, -3)},
		})

		lines := strings.Split(out, "\n")
		Expect(lines[0]).To(Equal(">be me"))
		Expect(lines[1]).To(Equal(">memory dump activated"))
		Expect(lines[2]).To(Equal(">all key memories from the diary:"))
		Expect(lines[3]).To(Equal(">Sep 1, 25: always hits snooze"))
		Expect(lines[4]).To(Equal(">Aug 29, 25: fears spiders"))
		Expect(lines[5]).To(Equal(">mfw reliving the entire arc"))
		Expect(lines[6]).To(Equal(">end of memory dump"))
	})

	It("is deterministic for the same input", func() {
		when := time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
		memories := []greentext.DumpMemory{{Text: "likes pie", CreatedAt: when}}
		Expect(greentext.RenderMemoryDump(memories)).To(Equal(greentext.RenderMemoryDump(memories)))
	})
})
