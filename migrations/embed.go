// Package migrations embeds the SQL migrations so binaries can run them
// without a checkout.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
