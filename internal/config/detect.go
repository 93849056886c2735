package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// MarkerFile is the project-local document whose fixed heading carries
// the project-name hint.
const MarkerFile = "CLAUDE.md"

// markerHeading is the heading text the hint lives under, compared
// case-insensitively at any heading level.
const markerHeading = "project name"

// DetectProject resolves the project name for a working directory: the
// value under the "## Project Name" heading of the directory's
// CLAUDE.md when present, otherwise the directory's base name. Absence
// of the marker is not an error; it only disables the hint.
func DetectProject(dir string) string {
	if name := readMarker(filepath.Join(dir, MarkerFile)); name != "" {
		return name
	}
	return filepath.Base(dir)
}

// readMarker returns the first non-empty line following the marker
// heading, stripped of markdown decoration. Empty string when the file
// or heading is missing.
func readMarker(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	inSection := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			text := strings.TrimSpace(strings.TrimLeft(line, "#"))
			inSection = strings.EqualFold(text, markerHeading)
			continue
		}
		if !inSection || line == "" {
			continue
		}
		return strings.TrimSpace(strings.Trim(line, "*`"))
	}
	return ""
}
