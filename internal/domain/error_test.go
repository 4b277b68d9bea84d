package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	folder := fmt.Errorf("build: %w", &FolderNotFoundError{Path: "/Dropbox/gizmos", Name: "gizmos"})
	require.ErrorIs(t, folder, ErrFolderNotFound)

	var target *FolderNotFoundError
	require.ErrorAs(t, folder, &target)
	assert.Equal(t, "/Dropbox/gizmos", target.Path)
	assert.Equal(t, "gizmos", target.Name)

	ancestor := &AncestorNotInPathError{Ancestor: "gizmos", Path: "/a/b.gizmo"}
	require.ErrorIs(t, ancestor, ErrAncestorNotInPath)
	assert.Contains(t, ancestor.Error(), "gizmos")

	dup := &DuplicateFolderError{Root: "/r", Name: "x", Matches: []string{"/r/a/x", "/r/b/x"}}
	require.ErrorIs(t, dup, ErrDuplicateFolder)
	assert.Contains(t, dup.Error(), "2 times")
}

func TestCodeFrom(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{ErrConfigurationMissing, CodeNotFound},
		{fmt.Errorf("x: %w", ErrAccountNotFound), CodeNotFound},
		{&FolderNotFoundError{}, CodeNotFound},
		{ErrConfigurationInvalid, CodeFailedPrecond},
		{&DuplicateFolderError{}, CodeFailedPrecond},
		{&AncestorNotInPathError{}, CodeInternal},
		{E(CodeCanceled, "sync", "", errors.New("stop")), CodeCanceled},
		{fmt.Errorf("collect: %w", context.Canceled), CodeCanceled},
		{context.DeadlineExceeded, CodeCanceled},
		{ErrInvalidConfig, CodeInvalidArgument},
	}
	for _, tc := range cases {
		code, ok := CodeFrom(tc.err)
		require.True(t, ok, tc.err.Error())
		require.Equal(t, tc.code, code, tc.err.Error())
	}

	_, ok := CodeFrom(errors.New("other"))
	require.False(t, ok)
}
