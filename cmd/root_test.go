package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIngestUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		urls    []string
		names   []string
		wantMsg string
	}{
		{
			name:    "name count mismatch",
			urls:    []string{"https://example.com/a.csv"},
			names:   []string{"a.csv", "b.csv"},
			wantMsg: "--name must be provided the same number of times as --url",
		},
		{
			name:    "nothing to ingest",
			wantMsg: "Nothing to ingest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			inputFlags, urlFlags, nameFlags = tt.inputs, tt.urls, tt.names
			t.Cleanup(func() {
				inputFlags, urlFlags, nameFlags = nil, nil, nil
			})

			var stderr bytes.Buffer
			rootCmd.SetErr(&stderr)
			t.Cleanup(func() { rootCmd.SetErr(nil) })

			err := runIngest(rootCmd, nil)
			require.ErrorIs(t, err, errUsage)
			assert.Contains(t, stderr.String(), tt.wantMsg)

			// Validation happens before any I/O: no data directory appears
			_, statErr := os.Stat("data")
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestLocalName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare file", in: "t.csv", want: "t.csv"},
		{name: "nested path", in: "sources/2024/t.csv", want: "t.csv"},
		{name: "trailing slash", in: "sources/", want: "sources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := localName(tt.in); got != tt.want {
				t.Errorf("localName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		index int
		want  string
	}{
		{name: "plain file", url: "https://example.com/ssp.csv", index: 0, want: "ssp.csv"},
		{name: "query string stripped", url: "https://example.com/ssp.csv?token=abc&v=2", index: 0, want: "ssp.csv"},
		{name: "nested path", url: "https://example.com/a/b/crimes.xlsx", index: 1, want: "crimes.xlsx"},
		{name: "bare host", url: "https://example.com", index: 2, want: "example.com"},
		{name: "trailing slash", url: "https://example.com/data/", index: 3, want: "data"},
		{name: "only query", url: "?x=1", index: 4, want: "download_4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputName(tt.url, tt.index); got != tt.want {
				t.Errorf("outputName(%q, %d) = %q, want %q", tt.url, tt.index, got, tt.want)
			}
		})
	}
}
