package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const exportDoc = `{
  "projects": [
    {"id": "p1", "name": "Terminal", "airport": "JFK", "startDate": "2025-01-15T00:00:00.000Z", "endDate": "2025-03-15T00:00:00.000Z", "color": "#3b82f6"},
    {"id": "p2", "name": "Runway", "tag": "LAX", "startDate": "2025-02-01", "endDate": "2025-05-30", "color": "#ef4444"}
  ],
  "settings": {"timeScale": "weeks", "columnWidth": 100, "projectColumnWidth": 200},
  "exportedAt": "2025-06-01T12:00:00.000Z"
}`

func writeExport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chart.json")
	require.NoError(t, os.WriteFile(path, []byte(exportDoc), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBucketsCmd(t *testing.T) {
	path := writeExport(t)

	out, err := execute(t, "buckets", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 20)
	require.Equal(t, []string{"0", "2025-01-12", "Jan", "12"}, strings.Fields(lines[0]))

	out, err = execute(t, "buckets", path, "--granularity", "quarter")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "Q1 2025")
	require.Contains(t, lines[1], "Q2 2025")

	out, err = execute(t, "buckets", path, "-g", "week", "--week-start", "monday")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "0"))
	require.Contains(t, strings.Split(out, "\n")[0], "2025-01-13")
}

func TestPositionsCmd(t *testing.T) {
	path := writeExport(t)

	out, err := execute(t, "positions", path, "--granularity", "month", "--column-width", "40")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, []string{"Terminal", "0", "2", "0", "120"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"Runway", "1", "4", "40", "160"}, strings.Fields(lines[2]))
}

func TestRenderCmd(t *testing.T) {
	path := writeExport(t)
	output := filepath.Join(t.TempDir(), "chart.svg")

	_, err := execute(t, "render", path, "--granularity", "month", "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "<?xml"))
	require.Contains(t, string(data), ">Terminal</text>")
	require.Contains(t, string(data), ">May 2025</text>")
}

type failingClose struct {
	bytes.Buffer
}

func (*failingClose) Close() error { return errors.New("no space left on device") }

func TestRenderCmd_ReportsCloseError(t *testing.T) {
	path := writeExport(t)
	out := &failingClose{}
	orig := createOutput
	createOutput = func(string) (io.WriteCloser, error) { return out, nil }
	t.Cleanup(func() { createOutput = orig })

	_, err := execute(t, "render", path, "--output", "chart.svg")
	require.ErrorContains(t, err, "close output")
	require.Contains(t, out.String(), ">Terminal</text>")
}

func TestCmd_Errors(t *testing.T) {
	path := writeExport(t)

	_, err := execute(t, "buckets", path, "--granularity", "fortnight")
	require.Error(t, err)

	_, err = execute(t, "positions", path, "--column-width", "500")
	require.Error(t, err)

	_, err = execute(t, "buckets", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = execute(t, "render")
	require.Error(t, err)
}
