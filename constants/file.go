package constants

import "strings"

// Format is the coarse document kind used to pick a rasterization strategy.
type Format string

const (
	PDF     Format = "PDF"
	IMAGE   Format = "IMAGE"
	UNKNOWN Format = "UNKNOWN"
)

// AllowedExtensions holds the default allowed file extensions for invoice documents.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a (possibly dotted) extension to a Format.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "gif":
		return IMAGE
	default:
		return UNKNOWN
	}
}
