package assets

import "embed"

// AssetsFS holds the stylesheet and favicon served under /assets/.
//
//go:embed css favicon.svg
var AssetsFS embed.FS
