package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dushixiang/svggraph/internal/graph"
)

func TestLoadDefault(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, graph.DefaultLayoutConfig(), cfg.Graph.GraphLayout())

	theme, ok := cfg.Theme("")
	require.True(t, ok)
	assert.Equal(t, graph.DefaultTheme(), theme)
}

func TestLoadOverlay(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/svggraph.yaml", []byte(`
Log:
  Level: debug
Graph:
  Width: 800
  Timezone: Asia/Shanghai
  Theme: night
  Layout:
    MaxAxisWidth: 90
Themes:
  night:
    BackgroundColor: "#000000"
    TextColor: EEEEEE
Render:
  Concurrency: 8
`), 0o644))

	cfg, err := Load(fs, "/etc/svggraph.yaml")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 800, cfg.Graph.Width)
	assert.Equal(t, 300, cfg.Graph.Height) // 未覆盖的字段保留默认值
	assert.Equal(t, 90, cfg.Graph.Layout.MaxAxisWidth)
	assert.Equal(t, 10, cfg.Graph.Layout.ApproxCharWidth)
	assert.Equal(t, 8, cfg.Render.Concurrency)
	assert.Equal(t, 600, cfg.Render.CacheTTL)

	loc, err := cfg.Graph.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", loc.String())

	// 合并后内置主题仍然存在
	assert.ElementsMatch(t, []string{"default", "dark", "night"}, cfg.ThemeNames())

	theme, ok := cfg.Theme("")
	require.True(t, ok)
	assert.Equal(t, "000000", theme.BackgroundColor)
	assert.Equal(t, "EEEEEE", theme.TextColor)
	assert.Equal(t, graph.DefaultTheme().GridColor, theme.GridColor)
}

func TestLoadInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	cases := map[string]string{
		"level":    "Log:\n  Level: verbose\n",
		"width":    "Graph:\n  Width: -1\n",
		"timezone": "Graph:\n  Timezone: Mars/Olympus\n",
		"theme":    "Graph:\n  Theme: missing\n",
		"color":    "Themes:\n  bad:\n    GridColor: zzz\n",
		"yaml":     "Graph: [\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := "/cfg/" + name + ".yaml"
			require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
			_, err := Load(fs, path)
			assert.Error(t, err)
		})
	}

	_, err := Load(fs, "/cfg/none.yaml")
	assert.Error(t, err)
}

func TestThemeLookup(t *testing.T) {
	cfg := Default()

	dark, ok := cfg.Theme("dark")
	require.True(t, ok)
	assert.Equal(t, "2B2B2B", dark.BackgroundColor)
	assert.Equal(t, "E45959", dark.SeverityColors[5])

	_, ok = cfg.Theme("unknown")
	assert.False(t, ok)

	// 只覆盖部分严重级别颜色
	partial := ThemeConfig{SeverityColors: []string{"#111111"}}.Theme()
	assert.Equal(t, "111111", partial.SeverityColors[0])
	assert.Equal(t, graph.DefaultTheme().SeverityColors[1], partial.SeverityColors[1])
}

func TestLocationEmpty(t *testing.T) {
	loc, err := GraphConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
