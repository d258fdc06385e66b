package document

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// annotationPattern matches a trailing {file=..., voice=...} block on a
// heading line, e.g. "## Intro {file=intro.mp3, voice=Aria}".
var annotationPattern = regexp.MustCompile(`\{([^{}]*)\}\s*$`)

// ParseAnnotated reads a script in the annotation dialect, where a section
// carries at most one voice and no inline switching happens. The voice is
// declared either in a trailing {file=..., voice=...} heading block or as
// a bare [voice:Name] directive at the top of the section body (the form
// generated deck scripts use); directives inside the body are stripped
// from the spoken text. Without a file annotation the path is derived from
// the title. A section without a voice declaration inherits the most
// recent one, and sections before the first declaration are left voiceless
// for the caller's default to fill in. Sections with no alphanumeric
// content are dropped.
func ParseAnnotated(text string) []Section {
	var sections []Section
	currentVoice := ""

	for _, span := range headingSpans(text) {
		title, annotations := splitAnnotation(span.title)

		body := text[span.start:span.end]
		if tags := voicePattern.FindAllStringSubmatch(body, -1); len(tags) > 0 {
			if annotations["voice"] == "" {
				annotations["voice"] = tags[0][1]
			}
			body = voicePattern.ReplaceAllString(body, "")
		}
		body = strings.TrimSpace(body)
		if !hasSpeakableContent(body) {
			log.Debug("dropping section without speakable content", "title", title)
			continue
		}

		if voice := annotations["voice"]; voice != "" {
			currentVoice = voice
		}
		filePath := annotations["file"]
		if filePath == "" {
			filePath = FilenameFromTitle(title)
		}

		sections = append(sections, Section{
			Title:    title,
			FilePath: filePath,
			Segments: []VoiceSegment{{Voice: currentVoice, Text: body}},
		})
	}

	log.Debug("parsed annotated script", "sections", len(sections))
	return sections
}

// splitAnnotation separates a heading title from its trailing annotation
// block, returning the bare title and the key=value pairs found.
func splitAnnotation(heading string) (string, map[string]string) {
	annotations := make(map[string]string)

	m := annotationPattern.FindStringSubmatchIndex(heading)
	if m == nil {
		return heading, annotations
	}

	for _, pair := range strings.Split(heading[m[2]:m[3]], ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		annotations[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return strings.TrimSpace(heading[:m[0]]), annotations
}

func hasSpeakableContent(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
