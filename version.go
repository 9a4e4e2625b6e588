package debloat

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var rawVersion string

// Version is the release version of debloat.
var Version = strings.TrimSpace(rawVersion)
