// Package version provides build version information embedding.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/altos-research/conduit/version.Version=1.0.0"
//
// When ldflags are absent, the embedded VCS build info fills the gaps.
package version
