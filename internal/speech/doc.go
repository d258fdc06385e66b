// Package speech orchestrates per-segment synthesis and section assembly.
package speech
