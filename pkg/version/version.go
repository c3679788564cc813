// Package version holds the siteblock release string printed by --version.
package version

// SiteblockVersion stays "0.0.0-src" for plain `go build` and is replaced
// at release time through the linker:
//
//	go build -ldflags "-s -w -X siteblock/pkg/version.SiteblockVersion=1.2.0" -o siteblock .
var SiteblockVersion = "0.0.0-src"
