package migrations

import "embed"

// FS holds the MySQL schema migrations, applied by `payment-webhooks migrate`.
//
//go:embed *.sql
var FS embed.FS
