//go:build !windows

package fs

// IsHidden reports dot files and dot directories as hidden.
func IsHidden(_ string, name string) bool {
	return len(name) > 0 && name[0] == '.'
}
