package app

import (
	"errors"
	"fmt"

	"shelfsync/internal/domain"
)

// userMessage renders err as the text shown to the user. folder is the
// folder that will not be synced because of it.
func (s *Syncer) userMessage(err error, folder string) string {
	var (
		notFound  *domain.FolderNotFoundError
		duplicate *domain.DuplicateFolderError
	)
	switch {
	case errors.Is(err, domain.ErrConfigurationMissing):
		return fmt.Sprintf("Unable to locate info.json in the Dropbox install directory.\nDropbox folder %q will not be synced.", folder)
	case errors.Is(err, domain.ErrAccountNotFound):
		return fmt.Sprintf("Unable to find the %q account in the Dropbox info.json.\nDropbox folder %q will not be synced.", s.cfg.AccountType, folder)
	case errors.Is(err, domain.ErrConfigurationInvalid):
		return fmt.Sprintf("The Dropbox info.json could not be read: %v\nDropbox folder %q will not be synced.", err, folder)
	case errors.As(err, &duplicate):
		return fmt.Sprintf("Found %d folders named %q in location: %q\nRename or remove the extra copies. Dropbox folder %q will not be synced.",
			len(duplicate.Matches), duplicate.Name, duplicate.Root, folder)
	case errors.As(err, &notFound):
		return fmt.Sprintf("Unable to locate the folder %q in location: %q\nCheck that the folder name provided EXACTLY matches the name of the folder found on Dropbox (case-sensitive).",
			notFound.Name, notFound.Path)
	default:
		return fmt.Sprintf("Dropbox folder %q could not be synced: %v", folder, err)
	}
}
