package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadSites reads the newline-delimited site list at path.
// Blank lines and lines starting with '#' are skipped.
func LoadSites(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sites file: %w", err)
	}
	defer f.Close()

	var sites []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sites = append(sites, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sites file: %w", err)
	}
	return sites, nil
}
