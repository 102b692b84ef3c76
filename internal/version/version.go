// Package version exposes build version information.
package version

// Version is the application version. Overridden at build time via
// -ldflags "-X github.com/corgilabs/bufferscope/internal/version.Version=...".
var Version = "dev"
