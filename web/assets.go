// Package web holds the static assets served alongside the rendered pages.
package web

import "embed"

// Assets contains the static directory (stylesheet and scripts).
//
//go:embed static
var Assets embed.FS
