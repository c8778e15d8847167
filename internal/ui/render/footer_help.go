package render

import "strings"

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(v View) string {
	parts := buildFooterHelpSegments(v)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(v View) []string {
	segments := contextualHelpSegments(v)
	return append(segments, persistentHelpSegments(v)...)
}

func contextualHelpSegments(v View) []string {
	if v.Session != nil && v.Session.Selection() != nil {
		segments := []string{
			"^B/Alt+I: bold/italic",
			"^K: link",
			"Esc: clear selection",
		}
		if v.Clipboard {
			segments = append(segments, "Alt+W: copy")
		}
		return segments
	}
	return []string{
		"↵: split",
		"Tab/S-Tab: nest",
		"Alt+1-6: heading",
		"Alt+B/N: list",
	}
}

func persistentHelpSegments(v View) []string {
	segments := []string{"^Z/^Y: undo/redo", "^S: save"}
	if v.Editor {
		segments = append(segments, "^E: edit externally")
	}
	return append(segments, "^C: quit")
}
