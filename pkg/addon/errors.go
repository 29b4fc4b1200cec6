package addon

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/chicken/pkg/errutils"
)

// DirtyAddonError is returned when an installed addon has uncommitted changes
// and the requested operation would discard them.
type DirtyAddonError struct {
	Name    string
	Path    string
	Changes string
}

// Error implements the error interface.
func (e *DirtyAddonError) Error() string {
	return fmt.Sprintf("addon %q at %s has local changes, refusing to delete it; commit or discard them first:\n%s",
		e.Name, e.Path, strings.TrimRight(e.Changes, "\n"))
}

// Unwrap lets callers match with errors.Is(err, errutils.ErrAddonDirty).
func (e *DirtyAddonError) Unwrap() error {
	return errutils.ErrAddonDirty
}
