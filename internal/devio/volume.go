package devio

import (
	"runtime"
	"strings"
	"unicode"
)

// NormalizeVolumePath rewrites a bare drive letter ("E:" or "E:\") into
// the raw volume path Windows requires for sector-level access
// (\\.\E:), leaving the path untouched on every other OS. On Windows, a
// path that is already a raw volume path is only upper-cased, and any
// other path (such as an image file) is returned with surrounding
// spaces trimmed and forward slashes turned into backslashes.
func NormalizeVolumePath(path string) string {
	if runtime.GOOS != "windows" {
		return path
	}

	path = strings.TrimSpace(path)
	path = strings.ReplaceAll(path, "/", `\`)
	upper := strings.ToUpper(path)

	if strings.HasPrefix(upper, `\\.\`) {
		return upper
	}
	bare := len(upper) == 2 || (len(upper) == 3 && upper[2] == '\\')
	if bare && upper[1] == ':' && unicode.IsLetter(rune(upper[0])) {
		return `\\.\` + strings.ToUpper(string(upper[0])) + `:`
	}
	return path
}
