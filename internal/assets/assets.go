// Package assets bundles static documents shipped inside the binary.
package assets

import _ "embed"

// RouteSample is the bundled reference route served when the routing backend fails.
//
//go:embed route_sample.json
var RouteSample []byte
