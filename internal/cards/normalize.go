package cards

import "strings"

const fence = "---"

// NormalizeFences repairs a frontmatter document whose closing fence was
// indented. Documents that do not open with a fence, or that already have
// two bare fence lines, are returned unchanged. At most one line is fixed.
func NormalizeFences(raw string) string {
	crlf := strings.Contains(raw, "\r\n")
	s := strings.ReplaceAll(raw, "\r\n", "\n")

	if !strings.HasPrefix(s, fence+"\n") {
		return raw
	}

	lines := strings.Split(s, "\n")
	exact := 0
	for _, line := range lines {
		if line == fence {
			exact++
		}
	}
	if exact >= 2 {
		return raw
	}

	repaired := false
	for i := 1; i < len(lines); i++ {
		if lines[i] != fence && strings.TrimSpace(lines[i]) == fence {
			lines[i] = fence
			repaired = true
			break
		}
	}
	if !repaired {
		return raw
	}

	sep := "\n"
	if crlf {
		sep = "\r\n"
	}
	return strings.Join(lines, sep)
}
