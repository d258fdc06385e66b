// Package document parses narration scripts into ordered voice segments.
package document
