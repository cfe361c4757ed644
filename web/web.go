// Package web embeds the browser client served under /app.
package web

import "embed"

//go:embed static
var Static embed.FS
