package resumable

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

const chunkMarker = "resumable-"

var disallowedIdentifierChars = regexp.MustCompile(`[^0-9A-Za-z_-]`)

// CleanIdentifier strips every character outside [0-9A-Za-z_-], so the result is safe
// to embed in a filename.
func CleanIdentifier(identifier string) string {
	return disallowedIdentifierChars.ReplaceAllString(identifier, "")
}

// ChunkFilename returns where chunk chunkNumber of identifier is stored.
func (s *Store) ChunkFilename(chunkNumber int, identifier string) string {
	return filepath.Join(s.tempDir, chunkBaseName(s.chunkPrefix, CleanIdentifier(identifier), chunkNumber))
}

func chunkBaseName(prefix, cleanIdentifier string, chunkNumber int) string {
	return fmt.Sprintf("%s%s%s.%d", prefix, chunkMarker, cleanIdentifier, chunkNumber)
}

// chunkGlob matches every chunk file carrying prefix, and possibly more: isChunkName
// decides on the candidates.
func chunkGlob(prefix string) string {
	return escapeGlob(prefix) + chunkMarker + "*.*"
}

// isChunkName reports whether name is a chunk filename of a store using prefix.
// Identifiers containing the chunk marker are refused, since such names can
// belong to a store whose prefix extends prefix with the marker.
func isChunkName(prefix, name string) bool {
	rest, ok := strings.CutPrefix(name, prefix+chunkMarker)
	if !ok {
		return false
	}

	dot := strings.LastIndexByte(rest, '.')
	if dot <= 0 {
		return false
	}
	identifier, number := rest[:dot], rest[dot+1:]

	chunkNumber, err := strconv.Atoi(number)
	if err != nil || chunkNumber < 1 || strconv.Itoa(chunkNumber) != number {
		return false
	}
	if CleanIdentifier(identifier) != identifier {
		return false
	}
	return !strings.Contains(identifier, chunkMarker)
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
