package deck

import "strings"

// invisibleReplacer drops zero-width and joiner marks that slide editors
// leave behind, along with decorative gender signs, and turns non-breaking
// spaces into plain ones.
var invisibleReplacer = strings.NewReplacer(
	" ", " ", // non-breaking space
	"​", "", // zero-width space
	"‌", "", // zero-width non-joiner
	"‍", "", // zero-width joiner
	"⁠", "", // word joiner
	"\uFEFF", "", // zero-width no-break space
	"♂", "", // male sign
	"♀", "", // female sign
)

// Sanitize prepares slide text for the narration script: control
// characters go (newline and tab survive the first pass), invisible
// Unicode marks are stripped, and whitespace runs collapse to single
// spaces.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			b.WriteRune(r)
		}
	}

	cleaned := invisibleReplacer.Replace(b.String())
	return strings.Join(strings.Fields(cleaned), " ")
}
