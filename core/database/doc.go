// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL or SQLite connections based on
// the application's configuration. The database backend of the identity mapper keeps
// its manifest in the asset_paths table through this connection.
//
// # Connect
//
// Connect selects the dialector from Config.Driver, applies pool settings and pings the
// server before returning.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns. The integrity check uses it to verify that
// the asset_paths table carries the columns the mapper writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "asset_paths")
package database
