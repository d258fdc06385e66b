package document

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

var (
	headingPattern        = regexp.MustCompile(`(?m)^(#+)\s+(.*)$`)
	sectionHeadingPattern = regexp.MustCompile(`(?m)^(#{2,})\s+(.*)$`)
	aliasPattern          = regexp.MustCompile(`\[alias:([A-Za-z0-9_]+)=([A-Za-z0-9_-]+)\]`)
	voicePattern          = regexp.MustCompile(`\[voice:([A-Za-z0-9_-]+)\]`)
)

// Parse reads a script in the inline dialect and returns its alias table
// and sections. Aliases are a preamble feature: only [alias:Name=Voice]
// directives appearing before the first level-2-or-deeper heading are
// collected. Every heading opens a candidate section spanning to the next
// heading of any level; candidates whose span contains no [voice:...]
// directive are dropped. A malformed document is not an error, it simply
// yields fewer sections.
func Parse(text string) (AliasTable, []Section) {
	aliases := extractAliases(text)

	var sections []Section
	for _, span := range headingSpans(text) {
		body := strings.TrimSpace(text[span.start:span.end])
		if !voicePattern.MatchString(body) {
			continue
		}
		segments := splitSegments(body, aliases)
		if len(segments) == 0 {
			continue
		}
		sections = append(sections, Section{
			Title:    span.title,
			FilePath: FilenameFromTitle(span.title),
			Segments: segments,
		})
	}

	log.Debug("parsed script", "aliases", len(aliases), "sections", len(sections))
	return aliases, sections
}

// extractAliases collects alias definitions from the document preamble,
// the text before the first section heading. Documents without section
// headings are scanned in full.
func extractAliases(text string) AliasTable {
	preamble := text
	if loc := sectionHeadingPattern.FindStringIndex(text); loc != nil {
		preamble = text[:loc[0]]
	}

	aliases := make(AliasTable)
	for _, m := range aliasPattern.FindAllStringSubmatch(preamble, -1) {
		aliases[m[1]] = m[2]
	}
	return aliases
}

type headingSpan struct {
	title string
	start int
	end   int
}

// headingSpans locates every heading and the body span it owns, running
// to the next heading of any level or end of document.
func headingSpans(text string) []headingSpan {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	spans := make([]headingSpan, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		spans = append(spans, headingSpan{
			title: strings.TrimSpace(text[m[4]:m[5]]),
			start: m[1],
			end:   end,
		})
	}
	return spans
}

// splitSegments cuts a section body at every [voice:...] directive. The
// current voice is threaded through the scan: text before the first
// directive has no voice and is discarded, each directive sets the voice
// (alias-resolved) for the span up to the next directive or body end.
// Spans that trim to nothing produce no segment.
func splitSegments(body string, aliases AliasTable) []VoiceSegment {
	var segments []VoiceSegment
	currentVoice := ""
	pos := 0

	flush := func(end int) {
		if currentVoice == "" {
			return
		}
		if text := strings.TrimSpace(body[pos:end]); text != "" {
			segments = append(segments, VoiceSegment{Voice: currentVoice, Text: text})
		}
	}

	for _, m := range voicePattern.FindAllStringSubmatchIndex(body, -1) {
		flush(m[0])
		currentVoice = aliases.Resolve(body[m[2]:m[3]])
		pos = m[1]
	}
	flush(len(body))

	return segments
}
