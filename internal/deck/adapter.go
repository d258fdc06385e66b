package deck

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Options controls how slides are written out as a narration script.
type Options struct {
	// DefaultVoice is attached to the first retained slide as the single
	// voice directive; every later slide inherits it.
	DefaultVoice string

	// IncludeEmptyNotes keeps slides whose notes are empty after
	// sanitization. Off by default: silent slides make no audio.
	IncludeEmptyNotes bool

	// IncludeSlideTitles appends the slide title to its heading when the
	// slide has one.
	IncludeSlideTitles bool
}

// Adapt converts extracted slides into a narration script in the inline
// dialect: one level-1 heading for the deck, one level-2 heading per
// retained slide, and exactly one voice directive on the first retained
// slide. The result parses into one single-voice segment per slide.
func Adapt(name string, slides []Slide, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", name)

	voicePending := opts.DefaultVoice != ""
	retained := 0
	for _, slide := range slides {
		notes := Sanitize(slide.Notes)
		if notes == "" && !opts.IncludeEmptyNotes {
			continue
		}
		retained++

		title := Sanitize(slide.Title)
		if title != "" && opts.IncludeSlideTitles {
			fmt.Fprintf(&b, "\n## Slide %d - %s\n", slide.Index, title)
		} else {
			fmt.Fprintf(&b, "\n## Slide %d\n", slide.Index)
		}

		if voicePending {
			fmt.Fprintf(&b, "\n[voice:%s]\n", opts.DefaultVoice)
			voicePending = false
		}

		if notes != "" {
			fmt.Fprintf(&b, "\n%s\n", notes)
		}
	}

	log.Debug("adapted deck", "name", name, "slides", len(slides), "retained", retained)
	return b.String()
}
