// Package migrations holds the development schema for the ERP exchange-rate table.
// Production ERP schemas are owned by the ERP and are never migrated by the job.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
