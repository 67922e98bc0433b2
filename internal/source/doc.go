// Package source obtains the raw dataset text, from a local cache file when
// one exists and from the remote URL otherwise.
//
// A successful download is written verbatim to the cache path, so later runs
// never touch the network. Failures to download are reported as
// ErrSourceUnavailable and are not hidden behind partial data.
package source
