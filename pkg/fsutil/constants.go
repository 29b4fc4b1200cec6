package fsutil

// File and directory permission constants.
const (
	// FileModeDefault is used for files chicken writes, such as manifests.
	FileModeDefault = 0o644 // -rw-r--r--

	// DirModeDefault is used for cache and addons directories.
	DirModeDefault = 0o755 // drwxr-xr-x
)
