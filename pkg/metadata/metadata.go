// Package metadata signs published articles with a provenance block and verifies it later.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// TagStart is the start of the provenance block.
	TagStart = "<!-- PROVENANCE_START"
	// TagEnd is the end of the provenance block.
	TagEnd = "PROVENANCE_END -->"
)

// Provenance verification errors.
var (
	ErrNoMetadataBlock = errors.New("no provenance block found")
	ErrNoHashFound     = errors.New("no hash found in provenance block")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes how and when an article was produced.
type Metadata struct {
	GeneratedAt time.Time
	RunID       string
	Generator   string
	Hash        string
}

// metadataRegex matches the entire provenance block including tags.
var metadataRegex = regexp.MustCompile(`(?s)\n*<!--\s*PROVENANCE_START\s*\n(.*?)\n\s*PROVENANCE_END\s*-->`)

// Extract removes the provenance block from content and returns both the metadata and the
// cleaned content. The cleaned content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	cleanContent := metadataRegex.ReplaceAllString(content, "")
	// Trim trailing newlines from cleaned content for consistent hashing
	cleanContent = strings.TrimRight(cleanContent, "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	meta := &Metadata{}

	for line := range strings.SplitSeq(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "RUN_ID":
			meta.RunID = val
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.GeneratedAt = t
			}
		case "GENERATOR":
			meta.Generator = val
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, cleanContent
}

// CalculateHash computes the SHA-256 hash of the content (excluding any provenance block).
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign replaces any provenance block with a fresh one carrying meta and the content hash.
// A zero GeneratedAt is set to the current time.
func Sign(content string, meta Metadata) string {
	_, clean := Extract(content)

	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}

	lines := []string{TagStart}
	if meta.RunID != "" {
		lines = append(lines, "RUN_ID: "+commentSafe(meta.RunID))
	}

	lines = append(lines, "GENERATED_AT: "+meta.GeneratedAt.UTC().Format(time.RFC3339))

	if meta.Generator != "" {
		lines = append(lines, "GENERATOR: "+commentSafe(meta.Generator))
	}

	lines = append(lines, "HASH: "+CalculateHash(clean), TagEnd)

	return clean + "\n\n" + strings.Join(lines, "\n")
}

// Verify checks if the content matches the hash in its provenance block.
func Verify(content string) (*Metadata, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != meta.Hash {
		return meta, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return meta, nil
}

// commentSafe keeps a value on one line and out of the comment terminator.
func commentSafe(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "--", "-").Replace(s)

	return strings.TrimSpace(s)
}
