package utils

import (
	"fmt"
	"log"
	"os"
	"strings"
)

// LoadBadwords reads the badwords list, one word per line. Entries are
// lowercased and stripped of zero-width spaces so they match normalized
// message content. A missing file is tolerated and yields an empty list.
func LoadBadwords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: badwords file not found at %s, badwords filter will match nothing", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read badwords file %s: %w", path, err)
	}

	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		word := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(line)), "\u200b", "")
		if word != "" {
			words = append(words, word)
		}
	}
	return words, nil
}
