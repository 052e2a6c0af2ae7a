// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration. The compared record
// tables live here; the reconciliation engine itself never touches the connection
// directly and only sees paged record sources built on top of it.
//
// # Connect
//
// The Connect function establishes a connection with sane pool settings and
// connection, read and write timeouts baked into the DSN, and verifies it with
// a bounded ping before handing it out.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
