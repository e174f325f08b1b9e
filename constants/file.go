package constants

import "strings"

// AllowedExtensions holds the file extensions the extraction surface accepts.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// PDFMagic is the header every readable PDF starts with.
const PDFMagic = "%PDF"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedFilename reports whether the filename carries an accepted extension.
func IsAllowedFilename(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := AllowedExtensions[NormalizeExt(name[idx:])]
	return ok
}
