package fs

import (
	"cmp"
	iofs "io/fs"
	"path/filepath"
	"slices"
)

// FindMarkdown lists the Markdown files below root in path order. Hidden
// files and directories are skipped unless includeHidden is set; entries the
// platform never shows (Windows system junctions) are always skipped.
func FindMarkdown(root string, includeHidden bool) ([]Entry, error) {
	var out []Entry
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root {
			name := d.Name()
			if ShouldHideFromListing(path, name) || (!includeHidden && IsHidden(path, name)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() || !IsMarkdownPath(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, entryFromInfo(path, info))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return cmp.Compare(a.FullPath, b.FullPath)
	})
	return out, nil
}
