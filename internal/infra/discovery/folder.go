// Package discovery locates folders and files inside a synced directory tree.
//
// All walks are depth-first and pre-order. Entries of a directory are visited
// in lexicographic order, so results are stable across platforms. Symlinked
// directories are not followed.
package discovery

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"shelfsync/internal/domain"
)

// FindFolder returns the first directory named name anywhere below root.
// The root itself is never a candidate.
func FindFolder(ctx context.Context, root, name string) (string, error) {
	matches, err := findFolders(ctx, root, name, 1)
	if err != nil {
		return "", err
	}
	return matches[0], nil
}

// FindFolders returns every directory named name below root in walk order.
func FindFolders(ctx context.Context, root, name string) ([]string, error) {
	return findFolders(ctx, root, name, 0)
}

// FindUniqueFolder is FindFolder that fails when the name is ambiguous.
func FindUniqueFolder(ctx context.Context, root, name string) (string, error) {
	matches, err := findFolders(ctx, root, name, 0)
	if err != nil {
		return "", err
	}
	if len(matches) > 1 {
		return "", &domain.DuplicateFolderError{Root: root, Name: name, Matches: matches}
	}
	return matches[0], nil
}

// LocateFolder applies a duplicate policy on top of the folder search.
func LocateFolder(ctx context.Context, root, name string, policy domain.DuplicatePolicy) (string, error) {
	if policy == domain.DuplicatePolicyFirst {
		return FindFolder(ctx, root, name)
	}
	return FindUniqueFolder(ctx, root, name)
}

func findFolders(ctx context.Context, root, name string, limit int) ([]string, error) {
	notFound := &domain.FolderNotFoundError{Path: root, Name: name}
	if root == "" || name == "" {
		return nil, notFound
	}
	if !isDir(root) {
		return nil, notFound
	}

	var matches []string
	errStop := errors.New("stop")
	var walk func(dir string) error
	walk = func(dir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			// Partially synced or permission-restricted folders are skipped.
			return nil
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			child := filepath.Join(dir, entry.Name())
			if entry.Name() == name {
				matches = append(matches, child)
				if limit > 0 && len(matches) >= limit {
					return errStop
				}
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil && !errors.Is(err, errStop) {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, notFound
	}
	return matches, nil
}

// FindFile returns the path of a regular file called name directly inside dir.
func FindFile(dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &domain.FolderNotFoundError{Path: dir, Name: filepath.Base(dir)}
		}
		return "", err
	}
	for _, entry := range entries {
		if entry.Type().IsRegular() && entry.Name() == name {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fs.ErrNotExist
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
