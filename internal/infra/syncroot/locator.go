// Package syncroot resolves the local root of a Dropbox-synced tree from the
// sync client's info.json.
package syncroot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"shelfsync/internal/domain"
)

const infoFileName = "info.json"

// Options configures a Locator. Zero values use the running platform.
type Options struct {
	// Candidates replaces the OS-conventional info.json locations.
	Candidates []string
	GOOS       string
	LookupEnv  func(string) (string, bool)
	HomeDir    func() (string, error)
	Logger     *zap.Logger
}

// Locator reads sync client metadata to find the synced root for an account.
type Locator struct {
	candidates []string
	logger     *zap.Logger
}

// Account is one entry of the sync client metadata document.
type Account struct {
	Path             string `json:"path"`
	Host             int64  `json:"host,omitempty"`
	IsTeam           bool   `json:"is_team,omitempty"`
	SubscriptionType string `json:"subscription_type,omitempty"`
}

func NewLocator(opts Options) *Locator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	candidates := opts.Candidates
	if len(candidates) == 0 {
		candidates = DefaultCandidates(opts.GOOS, opts.LookupEnv, opts.HomeDir)
	}
	return &Locator{
		candidates: candidates,
		logger:     logger.Named("syncroot"),
	}
}

// Candidates returns the info.json paths tried, in order.
func (l *Locator) Candidates() []string {
	return append([]string(nil), l.candidates...)
}

// DefaultCandidates lists the info.json locations the sync client uses on goos.
func DefaultCandidates(goos string, lookupEnv func(string) (string, bool), homeDir func() (string, error)) []string {
	if goos == "" {
		goos = runtime.GOOS
	}
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}

	var candidates []string
	if goos == "windows" {
		for _, key := range []string{"LOCALAPPDATA", "APPDATA"} {
			if base, ok := lookupEnv(key); ok && strings.TrimSpace(base) != "" {
				candidates = append(candidates, filepath.Join(base, "Dropbox", infoFileName))
			}
		}
		return candidates
	}
	if home, err := homeDir(); err == nil && home != "" {
		candidates = append(candidates, filepath.Join(home, ".dropbox", infoFileName))
	}
	return candidates
}

// Locate returns the synced root path recorded for account.
func (l *Locator) Locate(ctx context.Context, account string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path, data, err := l.readInfo()
	if err != nil {
		return "", err
	}
	accounts, err := ParseInfo(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrConfigurationInvalid, path, err)
	}
	entry, ok := accounts[account]
	if !ok {
		l.logger.Warn("account not in sync metadata",
			zap.String("path", path),
			zap.String("account", account),
			zap.Strings("available", accountNames(accounts)),
		)
		return "", fmt.Errorf("%w: %q in %s", domain.ErrAccountNotFound, account, path)
	}
	if strings.TrimSpace(entry.Path) == "" {
		return "", fmt.Errorf("%w: account %q in %s has no path", domain.ErrConfigurationInvalid, account, path)
	}
	l.logger.Debug("sync root located", zap.String("info", path), zap.String("account", account), zap.String("root", entry.Path))
	return entry.Path, nil
}

func (l *Locator) readInfo() (string, []byte, error) {
	for _, candidate := range l.candidates {
		data, err := os.ReadFile(candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", nil, fmt.Errorf("read sync metadata %s: %w", candidate, err)
		}
		return candidate, data, nil
	}
	return "", nil, fmt.Errorf("%w: tried %s", domain.ErrConfigurationMissing, strings.Join(l.candidates, ", "))
}

// ParseInfo decodes an info.json document into its accounts. Keys whose
// value is not an object are ignored.
func ParseInfo(data []byte) (map[string]Account, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	accounts := make(map[string]Account, len(raw))
	for key, value := range raw {
		var account Account
		if err := json.Unmarshal(value, &account); err != nil {
			continue
		}
		accounts[key] = account
	}
	return accounts, nil
}

func accountNames(accounts map[string]Account) []string {
	names := make([]string, 0, len(accounts))
	for name := range accounts {
		names = append(names, name)
	}
	return names
}
