// Package data embeds the SQL used to initialize a fresh inventory database.
package data

import (
	_ "embed"
)

// InitdbMariaDBTables holds the DDL for the inventory tables.
//
//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

// InitdbMariaDBPrivileges holds the grants for the service account.
//
//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string
