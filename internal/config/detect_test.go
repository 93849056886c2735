package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeMarker(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile), []byte(content), 0o644))
}

func TestDetectProject_FromMarker(t *testing.T) {
	dir := t.TempDir()
	writeMarker(t, dir, `# My App

## Project Name

webapp

## Other Section

ignored
`)

	require.Equal(t, "webapp", DetectProject(dir))
}

func TestDetectProject_HeadingVariants(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "case-insensitive heading",
			content: "## PROJECT NAME\nwebapp\n",
			want:    "webapp",
		},
		{
			name:    "any heading level",
			content: "### project name\nwebapp\n",
			want:    "webapp",
		},
		{
			name:    "markdown decoration stripped",
			content: "## Project Name\n**webapp**\n",
			want:    "webapp",
		},
		{
			name:    "backticks stripped",
			content: "## Project Name\n`webapp`\n",
			want:    "webapp",
		},
		{
			name:    "blank lines before value skipped",
			content: "## Project Name\n\n\nwebapp\n",
			want:    "webapp",
		},
		{
			name:    "later heading closes the section",
			content: "## Project Name\n\n## Notes\nnot-the-name\n",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeMarker(t, dir, tt.content)
			got := DetectProject(dir)
			if tt.want == "" {
				// Falls back to the directory base name.
				require.Equal(t, filepath.Base(dir), got)
			} else {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDetectProject_NoMarkerFallsBackToDirName(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, filepath.Base(dir), DetectProject(dir))
}

func TestDetectProject_MarkerWithoutHeading(t *testing.T) {
	dir := t.TempDir()
	writeMarker(t, dir, "# Docs\n\njust prose, no project heading\n")
	require.Equal(t, filepath.Base(dir), DetectProject(dir))
}
