package document

import (
	"fmt"
	"regexp"
	"strings"
)

// VoiceSegment is a contiguous span of text attributed to one voice.
// Voice holds the resolved backend voice name, never an unresolved alias.
type VoiceSegment struct {
	Voice string
	Text  string
}

// String returns a short preview of the segment for diagnostics.
func (s VoiceSegment) String() string {
	text := s.Text
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return fmt.Sprintf("[%s] %s", s.Voice, text)
}

// Section is a titled, ordered group of voice segments mapped to one
// output audio artifact.
type Section struct {
	Title    string
	FilePath string
	Segments []VoiceSegment
}

// AliasTable maps document-scoped alias names to backend voice names.
type AliasTable map[string]string

// Resolve returns the voice behind name, or name itself when no alias is
// defined. Lookup is single-hop: an alias pointing at another alias is not
// chased further.
func (a AliasTable) Resolve(name string) string {
	if voice, ok := a[name]; ok {
		return voice
	}
	return name
}

var (
	nonFilenamePattern = regexp.MustCompile(`[^\w\s-]`)
	separatorPattern   = regexp.MustCompile(`[-\s]+`)
)

// FilenameFromTitle derives a deterministic audio filename from a section
// title. Existing scripts depend on the exact derivation: strip everything
// but word characters, whitespace and hyphens, lowercase, then collapse
// separator runs to single underscores.
func FilenameFromTitle(title string) string {
	name := nonFilenamePattern.ReplaceAllString(title, "")
	name = strings.ToLower(strings.TrimSpace(name))
	name = separatorPattern.ReplaceAllString(name, "_")
	return name + ".mp3"
}
