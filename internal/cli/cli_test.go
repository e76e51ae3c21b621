package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(fs)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.0.0", formatVersion("1.0.0"))
	assert.Equal(t, "v1.0.0", formatVersion("v1.0.0"))
}

func TestVersionCommand(t *testing.T) {
	originalVersion, originalCommit := version, commit
	defer func() { version, commit = originalVersion, originalCommit }()
	version, commit = "1.2.3", "abc1234"

	out, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "svggraph v1.2.3")
	assert.Contains(t, out, "commit: abc1234")
	assert.Contains(t, out, "go: "+runtime.Version())

	out, err = execute(t, afero.NewMemMapFs(), "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestThemesCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/svggraph.yaml", []byte("Graph:\n  Theme: dark\n"), 0o644))

	out, err := execute(t, fs, "themes", "-c", "/svggraph.yaml")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "* dark"))
	assert.Contains(t, lines[0], "background=#2B2B2B")
	assert.True(t, strings.HasPrefix(lines[1], "  default"))
}

func TestRenderCommand(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/req/disk.yaml", []byte(`
timeFrom: "1704106800"
timeTill: "1704110400"
metrics:
  - name: used
    type: bar
    points:
      - {clock: 1704106800, value: 10}
      - {clock: 1704108600, value: 30}
`), 0o644))

	_, err := execute(t, fs, "render", "-o", "/svg", "/req/disk.yaml")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/svg/disk.svg")
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	_, err = execute(t, fs, "render", "-o", "/svg", "/req/absent.yaml")
	assert.Error(t, err)

	_, err = execute(t, fs, "render")
	assert.Error(t, err)
}
