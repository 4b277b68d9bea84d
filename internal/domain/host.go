package domain

// MenuHost is the host application's menu registration surface.
type MenuHost interface {
	// AddMenu returns the menu called name under parent, creating it if needed.
	AddMenu(parent, name, icon string) (MenuHandle, error)
	// AddPluginPath puts a directory on the host's plugin search path.
	AddPluginPath(path string) error
}

// MenuHandle registers commands under one menu.
type MenuHandle interface {
	AddCommand(displayPath string, cmd Command, icon string) error
}

// Notifier surfaces a message to the interactive user.
type Notifier interface {
	ShowMessage(text string)
}
