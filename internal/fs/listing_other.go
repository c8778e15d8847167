//go:build !windows

package fs

// ShouldHideFromListing is a no-op outside Windows.
func ShouldHideFromListing(_, _ string) bool {
	return false
}
