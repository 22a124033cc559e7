package models

import (
	"path"
	"strings"
)

// ImageName reduces a user supplied file name to the reference stored in
// imageFilename: its base name, without any folder.
func ImageName(filename string) string {
	name := strings.ReplaceAll(strings.TrimSpace(filename), `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
