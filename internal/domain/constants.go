package domain

const (
	DefaultAccountType         = "personal"
	DefaultToolsFolder         = "sharedNukeTools"
	DefaultPluginMenu          = "SharedShelves"
	DefaultHostMenu            = "Nuke"
	DefaultToolbar             = "Nodes"
	DefaultGizmoSection        = "gizmos"
	DefaultToolsetSection      = "ToolSets"
	DefaultToolsetMenu         = "ToolSets"
	DefaultPublishLabel        = "Publish Selection to Dropbox"
	DefaultDuplicateFolders    = DuplicatePolicyError
	DefaultManifestFormat      = "json"
	DefaultMetricsListen       = "127.0.0.1:9464"
	DefaultReloadDebounceMilli = 200
)

// DefaultToolExtensions lists the file suffixes treated as tool definitions.
func DefaultToolExtensions() []string {
	return []string{".gizmo", ".nk"}
}

// DefaultIconExtensions lists the file suffixes treated as menu icons.
func DefaultIconExtensions() []string {
	return []string{".png", ".jpg", ".jpeg"}
}
