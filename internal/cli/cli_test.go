// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/promptpad/internal/clipboard"
	"github.com/jeranaias/promptpad/internal/editor"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

type testEnv struct {
	dir  string
	clip *clipboard.Memory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, name := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY",
		"PROMPTPAD_DATA_DIR", "PROMPTPAD_MODEL", "PROMPTPAD_OPENAI_URL",
		"PROMPTPAD_ANTHROPIC_URL", "PROMPTPAD_TIMEOUT", "FORCE_COLOR",
	} {
		t.Setenv(name, "")
	}
	t.Setenv("NO_COLOR", "1")
	return &testEnv{dir: t.TempDir(), clip: clipboard.NewMemory("")}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (e *testEnv) run(stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(stdin), &out, &errOut)
	a.clip = e.clip
	global := []string{
		"--config", filepath.Join(e.dir, "config.toml"),
		"--data-dir", filepath.Join(e.dir, "data"),
	}
	code := run(a, append(global, args...))
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (e *testEnv) mustRun(t *testing.T, args ...string) result {
	t.Helper()
	r := e.run("", args...)
	require.Equal(t, 0, r.code, "promptpad %v failed: %s", args, r.stderr)
	return r
}

const defaultJSON = `[
  {
    "role": "system",
    "content": "some text"
  },
  {
    "role": "user",
    "content": "some more text\ntext continued"
  },
  {
    "role": "assistant",
    "content": "some other text"
  }
]
`

// =============================================================================
// SHOW AND EDIT
// =============================================================================

func TestShow_DefaultConversation(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "show")
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "System")
	assert.Contains(t, lines[0], "some text")
	assert.Contains(t, lines[1], "some more text (+1 line)")
	assert.Contains(t, lines[2], "Assistant")

	assert.FileExists(t, filepath.Join(env.dir, "data", "promptpad.db"))
	assert.FileExists(t, filepath.Join(env.dir, "data", "promptpad.log"))
}

func TestShow_JSON(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "show", "--json")
	assert.Equal(t, defaultJSON, r.stdout)
}

func TestAdd_PersistsAcrossRuns(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "add", "hello", "there")
	assert.Contains(t, r.stdout, "Added turn 4 (user)")

	env.mustRun(t, "add", "--role", "system")

	r = env.mustRun(t, "show", "--json")
	assert.Contains(t, r.stdout, `"content": "hello there"`)
	assert.Equal(t, 5, strings.Count(r.stdout, `"role"`))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(r.stdout), "\"role\": \"system\",\n    \"content\": \"\"\n  }\n]"))
}

func TestAdd_InvalidRole(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "add", "--role", "tool")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "tool")
}

func TestSetRoleAndContent(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "set-role", "1", "user")
	env.mustRun(t, "set-content", "1", "rewritten")

	r := env.mustRun(t, "show", "--json")
	assert.True(t, strings.HasPrefix(r.stdout, "[\n  {\n    \"role\": \"user\",\n    \"content\": \"rewritten\"\n  },"), r.stdout)
}

func TestSetContent_FromStdin(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("line one\nline two\n", "set-content", "2")
	require.Equal(t, 0, r.code, r.stderr)

	r = env.mustRun(t, "show", "--json")
	assert.Contains(t, r.stdout, `"content": "line one\nline two"`)
}

func TestSetRole_BadPosition(t *testing.T) {
	env := newTestEnv(t)

	for _, pos := range []string{"0", "4", "x"} {
		r := env.run("", "set-role", pos, "user")
		assert.Equal(t, 1, r.code, "position %s", pos)
		assert.Contains(t, r.stderr, "[X]")
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "add", "extra")
	r := env.mustRun(t, "reset")
	assert.Contains(t, r.stdout, "reset")

	r = env.mustRun(t, "show", "--json")
	assert.Equal(t, defaultJSON, r.stdout)
}

// =============================================================================
// CLIPBOARD
// =============================================================================

func TestCopy_Clipboard(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "copy")
	assert.Contains(t, r.stdout, "Copied to clipboard!")

	text, err := env.clip.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSuffix(defaultJSON, "\n"), text)
}

func TestCopy_PrintAndFile(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "turns.json")

	r := env.mustRun(t, "copy", "--print", "-o", out)
	assert.Equal(t, defaultJSON, r.stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, defaultJSON, string(data))

	text, _ := env.clip.ReadAll()
	assert.Empty(t, text, "--print and -o replace the clipboard")
}

func TestPaste_Clipboard(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.clip.WriteAll(`[{"role":"user","content":"a"},{"role":"assistant","content":"b"}]`))

	r := env.mustRun(t, "paste")
	assert.Contains(t, r.stdout, "Pasted 2 turns")

	r = env.mustRun(t, "show")
	assert.Len(t, strings.Split(strings.TrimSpace(r.stdout), "\n"), 2)
}

func TestPaste_FromStdin(t *testing.T) {
	env := newTestEnv(t)

	r := env.run(`[{"role":"system","content":"only"}]`, "paste", "--from", "-")
	require.Equal(t, 0, r.code, r.stderr)

	r = env.mustRun(t, "show", "--json")
	assert.Contains(t, r.stdout, `"content": "only"`)
}

func TestPaste_InvalidLeavesTurns(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.clip.WriteAll(`[{"foo":"bar"}]`))

	r := env.run("", "paste")
	assert.Equal(t, 1, r.code)
	assert.Equal(t, 1, strings.Count(r.stderr, editor.MsgPasteFailed), "reported once: %s", r.stderr)

	r = env.mustRun(t, "show", "--json")
	assert.Equal(t, defaultJSON, r.stdout)
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExport_MarkdownToStdout(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "export", "--no-metadata")
	assert.True(t, strings.HasPrefix(r.stdout, "## System\n\nsome text\n"), r.stdout)
	assert.Contains(t, r.stdout, "## Assistant\n\nsome other text\n")
}

func TestExport_JSONPastesBack(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(env.dir, "export.json")

	env.mustRun(t, "add", "exported")
	env.mustRun(t, "export", "-f", "json", "-o", out)
	env.mustRun(t, "reset")

	r := env.run("", "paste", "--from", out)
	require.Equal(t, 0, r.code, r.stderr)
	r = env.mustRun(t, "show", "--json")
	assert.Contains(t, r.stdout, `"content": "exported"`)
}

func TestExport_Dir(t *testing.T) {
	env := newTestEnv(t)
	dir := filepath.Join(env.dir, "exports")

	r := env.mustRun(t, "export", "-f", "html", "--dir", dir)
	assert.Contains(t, r.stdout, "Exported 3 turns")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".html"))
}

func TestExport_UnknownFormat(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "export", "-f", "pdf")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "unknown export format")
}

// =============================================================================
// GENERATE AND SETTINGS
// =============================================================================

func TestGenerate_AppendsReply(t *testing.T) {
	env := newTestEnv(t)
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	}))
	defer srv.Close()
	t.Setenv("PROMPTPAD_OPENAI_URL", srv.URL)

	env.mustRun(t, "keys", "set", "openai", "sk-test")
	env.mustRun(t, "keys", "set", "anthropic", "sk-ant-test")

	r := env.mustRun(t, "generate")
	assert.Equal(t, "hi\n", r.stdout)
	assert.Equal(t, "/v1/chat/completions", path)

	r = env.mustRun(t, "show", "--json")
	assert.True(t, strings.HasSuffix(r.stdout, "{\n    \"role\": \"assistant\",\n    \"content\": \"hi\"\n  }\n]\n"), r.stdout)
}

func TestGenerate_MissingKeys(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "generate")
	assert.Equal(t, 1, r.code)
	assert.Equal(t, 1, strings.Count(r.stderr, editor.MsgMissingKeys), r.stderr)
	assert.Empty(t, r.stdout)
}

func TestKeys_SetFromStdinAndShow(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("sk-anthropic-secret\n", "keys", "set", "anthropic")
	require.Equal(t, 0, r.code, r.stderr)

	r = env.mustRun(t, "keys", "show")
	assert.Contains(t, r.stdout, "(not set)")
	assert.Contains(t, r.stdout, "********cret")
	assert.NotContains(t, r.stdout, "sk-anthropic-secret")
	assert.Contains(t, r.stdout, "Both keys are needed")
}

func TestKeys_UnknownProvider(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("", "keys", "set", "mistral", "x")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "unknown provider")
}

func TestModel_SelectAndList(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "model")
	assert.Equal(t, "gpt-4-turbo-preview (OpenAI)\n", r.stdout)

	env.mustRun(t, "model", "claude-3-haiku-20240307")
	r = env.mustRun(t, "models")
	assert.Contains(t, r.stdout, "* claude-3-haiku-20240307")
	assert.Contains(t, r.stdout, "  gpt-4 ")

	r = env.mustRun(t, "model", "claude-next")
	assert.Contains(t, r.stdout, "not in the catalog")
	assert.Contains(t, r.stdout, "Anthropic")
}

// =============================================================================
// MODES AND CONFIG
// =============================================================================

func TestEphemeral_WritesNothing(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "--ephemeral", "add", "scratch")
	r := env.mustRun(t, "--ephemeral", "show", "--json")
	assert.Equal(t, defaultJSON, r.stdout)

	_, err := os.Stat(filepath.Join(env.dir, "data"))
	assert.True(t, os.IsNotExist(err), "ephemeral runs must not create the data directory")
}

func TestConfigInitAndShow(t *testing.T) {
	env := newTestEnv(t)

	r := env.mustRun(t, "config", "init")
	assert.Contains(t, r.stdout, "config.toml")

	r = env.run("", "config", "init")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "already exists")

	r = env.mustRun(t, "config", "show")
	assert.Contains(t, r.stdout, `default_model = "gpt-4-turbo-preview"`)
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "config.toml"), []byte("data_dir = ["), 0600))

	r := env.run("", "show")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "[X]")
}

func TestEditor_RequiresTerminal(t *testing.T) {
	env := newTestEnv(t)

	r := env.run("")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "not a terminal")
}

// =============================================================================
// HELPERS
// =============================================================================

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", maskKey("OpenAI API key", false))
	assert.Equal(t, "*****", maskKey("short", true))
	assert.Equal(t, "********6789", maskKey("sk-0123456789", true))
}

func TestParsePosition(t *testing.T) {
	i, err := parsePosition("3", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = parsePosition("4", 3)
	assert.Error(t, err)
	_, err = parsePosition("-1", 3)
	assert.Error(t, err)
}
