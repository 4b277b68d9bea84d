package syncroot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shelfsync/internal/domain"
)

func writeInfo(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "info.json")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLocator_ReturnsAccountPath(t *testing.T) {
	path := writeInfo(t, t.TempDir(), `{
  "personal": {"path": "/Users/me/Dropbox", "host": 123, "is_team": false, "subscription_type": "Basic"},
  "business": {"path": "/Users/me/Dropbox (Studio)", "is_team": true}
}`)

	locator := NewLocator(Options{Candidates: []string{path}, Logger: zap.NewNop()})

	got, err := locator.Locate(context.Background(), "personal")
	require.NoError(t, err)
	require.Equal(t, "/Users/me/Dropbox", got)

	got, err = locator.Locate(context.Background(), "business")
	require.NoError(t, err)
	require.Equal(t, "/Users/me/Dropbox (Studio)", got)
}

func TestLocator_FallsThroughCandidates(t *testing.T) {
	base := t.TempDir()
	missing := filepath.Join(base, "local", "info.json")
	present := writeInfo(t, filepath.Join(base, "roaming"), `{"personal": {"path": "/D"}}`)

	locator := NewLocator(Options{Candidates: []string{missing, present}})
	got, err := locator.Locate(context.Background(), "personal")
	require.NoError(t, err)
	require.Equal(t, "/D", got)
}

func TestLocator_ConfigurationMissing(t *testing.T) {
	locator := NewLocator(Options{Candidates: []string{filepath.Join(t.TempDir(), "info.json")}})

	_, err := locator.Locate(context.Background(), "personal")
	require.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestLocator_AccountNotFound(t *testing.T) {
	path := writeInfo(t, t.TempDir(), `{"personal": {"path": "/D"}}`)
	locator := NewLocator(Options{Candidates: []string{path}})

	_, err := locator.Locate(context.Background(), "business")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
	require.Contains(t, err.Error(), `"business"`)
}

func TestLocator_InvalidDocument(t *testing.T) {
	cases := map[string]string{
		"not json":   `{"personal": `,
		"empty path": `{"personal": {"path": ""}}`,
		"no path":    `{"personal": {"host": 1}}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeInfo(t, t.TempDir(), content)
			locator := NewLocator(Options{Candidates: []string{path}})

			_, err := locator.Locate(context.Background(), "personal")
			require.ErrorIs(t, err, domain.ErrConfigurationInvalid)
		})
	}
}

func TestLocator_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLocator(Options{Candidates: []string{"x"}}).Locate(ctx, "personal")
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultCandidates(t *testing.T) {
	env := map[string]string{
		"LOCALAPPDATA": `C:\Users\me\AppData\Local`,
		"APPDATA":      `C:\Users\me\AppData\Roaming`,
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	home := func() (string, error) { return "/home/me", nil }

	windows := DefaultCandidates("windows", lookup, home)
	want := []string{
		filepath.Join(env["LOCALAPPDATA"], "Dropbox", "info.json"),
		filepath.Join(env["APPDATA"], "Dropbox", "info.json"),
	}
	if diff := cmp.Diff(want, windows); diff != "" {
		t.Fatalf("windows candidates mismatch (-want +got):\n%s", diff)
	}

	darwin := DefaultCandidates("darwin", lookup, home)
	require.Equal(t, []string{filepath.Join("/home/me", ".dropbox", "info.json")}, darwin)

	noHome := DefaultCandidates("linux", lookup, func() (string, error) { return "", errors.New("no home") })
	require.Empty(t, noHome)
}

func TestParseInfo_IgnoresNonObjectValues(t *testing.T) {
	accounts, err := ParseInfo([]byte(`{"personal": {"path": "/D"}, "version": 3}`))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "/D", accounts["personal"].Path)
}
