// Package audio holds the PCM/WAV plumbing for segment concatenation.
package audio
