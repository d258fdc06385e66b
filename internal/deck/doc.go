// Package deck turns slide-deck speaker notes into narration scripts.
package deck
