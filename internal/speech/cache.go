package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/markvox/markvox/internal/voice"
)

// Cache stores synthesized segment audio on disk, zstd-compressed, keyed
// by the synthesis inputs. Re-narrating a deck after editing one slide
// then only pays for the slides that changed.
type Cache struct {
	dir     string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCache opens (creating if needed) a segment cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Cache{dir: dir, encoder: encoder, decoder: decoder}, nil
}

// entryPath derives the cache file for one (voice, format, text) triple.
func (c *Cache) entryPath(voiceName, text string, format voice.Format) string {
	sum := sha256.Sum256([]byte(voiceName + "\x00" + format.Container + "\x00" + format.Quality + "\x00" + text))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".zst")
}

// Get copies a cached segment to destPath, reporting whether it was found.
func (c *Cache) Get(voiceName, text string, format voice.Format, destPath string) (bool, error) {
	compressed, err := os.ReadFile(c.entryPath(voiceName, text, format))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		// A corrupt entry is treated as a miss; it gets rewritten on Put.
		return false, nil
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return false, fmt.Errorf("failed to materialize cache entry: %w", err)
	}
	return true, nil
}

// Put stores the artifact at srcPath under the segment's key.
func (c *Cache) Put(voiceName, text string, format voice.Format, srcPath string) error {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("failed to read artifact for caching: %w", err)
	}
	compressed := c.encoder.EncodeAll(data, nil)
	if err := os.WriteFile(c.entryPath(voiceName, text, format), compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
