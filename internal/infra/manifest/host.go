// Package manifest records host menu registrations as a serialisable
// document that a host-side shim replays inside the application.
package manifest

import (
	"sync"
	"time"

	"shelfsync/internal/domain"
)

// SchemaVersion is the manifest layout version written by this package.
// Readers accept any manifest with the same major version.
const SchemaVersion = "1.0.0"

// Manifest is the full set of registrations produced by one sync run.
type Manifest struct {
	Version     string    `json:"version" yaml:"version" toml:"version"`
	RunID       string    `json:"runId" yaml:"runId" toml:"runId"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt" toml:"generatedAt"`
	SyncRoot    string    `json:"syncRoot,omitempty" yaml:"syncRoot,omitempty" toml:"syncRoot,omitempty"`
	ToolsFolder string    `json:"toolsFolder,omitempty" yaml:"toolsFolder,omitempty" toml:"toolsFolder,omitempty"`
	PluginPaths []string  `json:"pluginPaths,omitempty" yaml:"pluginPaths,omitempty" toml:"pluginPaths,omitempty"`
	Menus       []Menu    `json:"menus,omitempty" yaml:"menus,omitempty" toml:"menus,omitempty"`
	Messages    []string  `json:"messages,omitempty" yaml:"messages,omitempty" toml:"messages,omitempty"`
}

// Menu is one host menu and the commands registered under it.
type Menu struct {
	Parent   string    `json:"parent" yaml:"parent" toml:"parent"`
	Name     string    `json:"name" yaml:"name" toml:"name"`
	Icon     string    `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Commands []Command `json:"commands,omitempty" yaml:"commands,omitempty" toml:"commands,omitempty"`
}

// Command is one registered menu item.
type Command struct {
	DisplayPath string         `json:"displayPath" yaml:"displayPath" toml:"displayPath"`
	Icon        string         `json:"icon,omitempty" yaml:"icon,omitempty" toml:"icon,omitempty"`
	Action      domain.Command `json:"action" yaml:"action" toml:"action"`
}

// Host implements domain.MenuHost and domain.Notifier by recording calls.
// Registering a menu or command a second time updates it in place, like
// the host application does.
type Host struct {
	mu          sync.Mutex
	menus       []*menuHandle
	pluginPaths []string
	seenPaths   map[string]struct{}
	messages    []string
}

func NewHost() *Host {
	return &Host{seenPaths: make(map[string]struct{})}
}

func (h *Host) AddMenu(parent, name, icon string) (domain.MenuHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, menu := range h.menus {
		if menu.parent == parent && menu.name == name {
			if icon != "" {
				menu.icon = icon
			}
			return menu, nil
		}
	}
	menu := &menuHandle{host: h, parent: parent, name: name, icon: icon, index: make(map[string]int)}
	h.menus = append(h.menus, menu)
	return menu, nil
}

func (h *Host) AddPluginPath(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.seenPaths[path]; ok {
		return nil
	}
	h.seenPaths[path] = struct{}{}
	h.pluginPaths = append(h.pluginPaths, path)
	return nil
}

func (h *Host) ShowMessage(text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, text)
}

// Manifest returns the recorded registrations stamped with the run's metadata.
func (h *Host) Manifest(result domain.SyncResult, generatedAt time.Time) Manifest {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := Manifest{
		Version:     SchemaVersion,
		RunID:       result.RunID,
		GeneratedAt: generatedAt.UTC(),
		SyncRoot:    result.SyncRoot,
		ToolsFolder: result.ToolsFolder,
		PluginPaths: append([]string(nil), h.pluginPaths...),
		Messages:    append([]string(nil), h.messages...),
	}
	for _, menu := range h.menus {
		out.Menus = append(out.Menus, Menu{
			Parent:   menu.parent,
			Name:     menu.name,
			Icon:     menu.icon,
			Commands: append([]Command(nil), menu.commands...),
		})
	}
	return out
}

type menuHandle struct {
	host     *Host
	parent   string
	name     string
	icon     string
	commands []Command
	index    map[string]int
}

func (m *menuHandle) AddCommand(displayPath string, cmd domain.Command, icon string) error {
	m.host.mu.Lock()
	defer m.host.mu.Unlock()
	command := Command{DisplayPath: displayPath, Icon: icon, Action: cmd}
	if idx, ok := m.index[displayPath]; ok {
		m.commands[idx] = command
		return nil
	}
	m.index[displayPath] = len(m.commands)
	m.commands = append(m.commands, command)
	return nil
}

var (
	_ domain.MenuHost = (*Host)(nil)
	_ domain.Notifier = (*Host)(nil)
)
