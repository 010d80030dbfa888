package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/shotgun/internal/event"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const saveScript = `
shotgun.listen("app/save", function(name) print("saved " .. name) end, "k1")
shotgun.fire("app/*", "notes.txt")
`

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "shotgun "+event.Version))
}

func TestRunCommand(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file)
	require.NoError(t, err)
	assert.Equal(t, "saved notes.txt\n", out)
}

func TestRunCommand_SharedBus(t *testing.T) {
	setup := writeFile(t, "setup.lua", `shotgun.listen("ping", function(v) print("pong " .. v) end)`)
	app := writeFile(t, "app.lua", `shotgun.fire("ping", 1)`)

	out, err := execute(t, "run", setup, app)
	require.NoError(t, err)
	assert.Equal(t, "pong 1\n", out)
}

func TestRunCommand_DumpUser(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file, "--dump", "user")
	require.NoError(t, err)

	jsonOut := strings.TrimPrefix(out, "saved notes.txt\n")
	require.True(t, gjson.Valid(jsonOut), "output: %s", out)
	assert.Equal(t, "k1", gjson.Get(jsonOut, "children.app.children.save.listeners.0").String())
	assert.Equal(t, int64(0), gjson.Get(jsonOut, "children.app.listeners.#").Int())
}

func TestRunCommand_DumpAll(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file, "-d", "all")
	require.NoError(t, err)

	jsonOut := strings.TrimPrefix(out, "saved notes.txt\n")
	require.True(t, gjson.Valid(jsonOut), "output: %s", out)
	assert.True(t, gjson.Get(jsonOut, "user.children.app").Exists())
	assert.True(t, gjson.Get(jsonOut, "internal.children.tryError").Exists())
	assert.True(t, gjson.Get(jsonOut, "internal.children.newListener").Exists())
}

func TestRunCommand_Query(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file, "--query", "user.children.app.children.save.listeners")
	require.NoError(t, err)

	jsonOut := strings.TrimPrefix(out, "saved notes.txt\n")
	assert.Equal(t, `["k1"]`, strings.TrimSpace(jsonOut))

	_, err = execute(t, "run", file, "--query", "user.children.missing")
	assert.ErrorContains(t, err, "matched nothing")
}

func TestRunCommand_QueryIgnoresDumpSelection(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file, "--dump", "user", "--query", "internal.children.tryError.listeners")
	require.NoError(t, err)

	jsonOut := strings.TrimPrefix(out, "saved notes.txt\n")
	assert.Equal(t, `[]`, strings.TrimSpace(jsonOut))
}

func TestRunCommand_Stats(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file, "--stats")
	require.NoError(t, err)

	assert.Contains(t, out, "directories\tuser=3 ")
	assert.Contains(t, out, "failed 0")
	assert.Contains(t, out, "event\tapp\t0\n")
	assert.Contains(t, out, "event\tapp/save\t1\n")
}

func TestRunCommand_Metrics(t *testing.T) {
	file := writeFile(t, "save.lua", saveScript)

	out, err := execute(t, "run", file, "--metrics")
	require.NoError(t, err)
	assert.Contains(t, out, "shotgun_bus_fires_total")
	assert.Contains(t, out, "shotgun_bus_listeners_added_total")
}

func TestRunCommand_Config(t *testing.T) {
	cfg := writeFile(t, "shotgun.toml", `
[bus]
internal_prefix = "system:"
internal_events = ["app/ready"]
`)
	file := writeFile(t, "ready.lua", `
assert(shotgun.internal("app/ready") == "system:app/ready")
shotgun.listen("system:app/ready", function() print("ready") end)
shotgun.fire("system:app/ready")
`)

	out, err := execute(t, "run", "--config", cfg, file)
	require.NoError(t, err)
	assert.Equal(t, "ready\n", out)
}

func TestRunCommand_Errors(t *testing.T) {
	good := writeFile(t, "ok.lua", `print("ok")`)
	bad := writeFile(t, "bad.lua", `error("script failed")`)
	badConfig := writeFile(t, "bad.toml", "[log]\nlevel = \"loud\"\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no scripts", []string{"run"}, "requires at least 1 arg"},
		{"bad dump", []string{"run", good, "--dump", "everything"}, "invalid --dump"},
		{"script error", []string{"run", bad}, "script failed"},
		{"bad config", []string{"run", "--config", badConfig, good}, "log.level"},
		{"missing script", []string{"run", filepath.Join(t.TempDir(), "nope.lua")}, "nope.lua"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
