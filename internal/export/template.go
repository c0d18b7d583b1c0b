package export

import _ "embed"

// templateHTML is the standalone document shell. Placeholders use
// double braces and are substituted globally.
//
//go:embed template.html
var templateHTML string
