package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nashr/pkg/quota"
)

// run executes nashrctl with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func echoEnv(t *testing.T) {
	t.Helper()
	t.Setenv("COMPLETION_PROVIDER", "echo")
	t.Setenv("BRAND_CONFIG", "")
	t.Setenv("BRAND_NAME", "")
	t.Setenv("TREND_FEED_URLS", "")
	t.Setenv("SOURCE_FETCH_ENABLED", "false")
}

func TestRoot_Subcommands(t *testing.T) {
	root := NewRootCmd()
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"generate", "prompt", "usage", "version"})
}

func TestRoot_UnknownCommand(t *testing.T) {
	_, err := run(t, "publish")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "nashrctl version 1.2.3")

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.2.3", info["version"])
	assert.NotEmpty(t, info["goVersion"])
}

func TestGenerate_Echo(t *testing.T) {
	echoEnv(t)

	out, err := run(t, "generate", "Hiring", "our", "first", "engineer", "--platform", "x", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "## X")
	assert.Contains(t, out, "Draft post about Hiring our first engineer")
	assert.NotContains(t, out, "## LinkedIn")
}

func TestGenerate_JSON(t *testing.T) {
	echoEnv(t)

	out, err := run(t, "generate", "Hiring", "--lang", "en", "--json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got["linkedin"], "Draft post about Hiring")
	assert.Contains(t, got["x"], "Draft post about Hiring")
	assert.Equal(t, "both", got["platform"])
}

func TestGenerate_Validation(t *testing.T) {
	echoEnv(t)

	_, err := run(t, "generate")
	assert.Error(t, err)

	_, err = run(t, "generate", "topic", "--source-url", "ftp://example.com/post")
	assert.Error(t, err)
}

func TestGenerate_MissingCredential(t *testing.T) {
	echoEnv(t)
	t.Setenv("COMPLETION_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COMPLETION_API_KEY", "")

	_, err := run(t, "generate", "Hiring", "--lang", "en")
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	echoEnv(t)

	out, err := run(t, "prompt", "Launching", "a", "product", "--platform", "linkedin", "--lang", "en")
	require.NoError(t, err)
	assert.Contains(t, out, "### system")
	assert.Contains(t, out, "Topic: Launching a product")
	assert.NotContains(t, out, "----")
}

func TestPrompt_BothPlatformsJSON(t *testing.T) {
	echoEnv(t)

	out, err := run(t, "prompt", "Launch", "--lang", "en", "--json")
	require.NoError(t, err)

	var views []promptView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.False(t, v.JSON)
		assert.NotEmpty(t, v.System)
	}
}

func TestPrompt_Strategic(t *testing.T) {
	echoEnv(t)

	out, err := run(t, "prompt", "Launch", "--strategic", "--mode", "series", "--series", "3", "--trend", "AI agents", "--json")
	require.NoError(t, err)

	var views []promptView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.True(t, views[0].JSON)
	assert.Contains(t, views[0].User, "AI agents")
}

func usageEnv(t *testing.T, mr *miniredis.Miniredis) {
	t.Helper()
	t.Setenv("USAGE_STORE", "redis")
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())
	t.Setenv("USAGE_DAILY_LIMIT", "5")
	t.Setenv("RATE_LIMIT_TRUST_PROXY", "false")
	t.Setenv("RATE_LIMIT_TRUSTED_PROXIES", "")
}

func TestUsageShow(t *testing.T) {
	mr := miniredis.RunT(t)
	usageEnv(t, mr)

	require.NoError(t, mr.Set(quota.DailyKey("203.0.113.7", mustDay(t, "2026-03-01")), "3"))

	out, err := run(t, "usage", "show", "203.0.113.7", "--day", "2026-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "used:     3/5")
	assert.Contains(t, out, "store:    redis")

	out, err = run(t, "usage", "show", "198.51.100.1")
	require.NoError(t, err)
	assert.Contains(t, out, "used:     0/5")
}

func TestUsageShow_BadDay(t *testing.T) {
	mr := miniredis.RunT(t)
	usageEnv(t, mr)

	_, err := run(t, "usage", "show", "203.0.113.7", "--day", "03/01/2026")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestUsagePurge_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	usageEnv(t, mr)

	out, err := run(t, "usage", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to purge")
}

func TestUsagePurge_Memory(t *testing.T) {
	t.Setenv("USAGE_STORE", "memory")
	t.Setenv("USAGE_DAILY_LIMIT", "5")

	out, err := run(t, "usage", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 counters from memory")
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)
	return day
}
