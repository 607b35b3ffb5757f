package store

import "fmt"

// Open opens a store using the specified driver.
// For "sqlite", pathOrConnStr is the path to the .db file.
// For "postgres", pathOrConnStr is a connection string.
// For "file", pathOrConnStr is a storage directory.
func Open(driver, pathOrConnStr string) (Store, error) {
	switch driver {
	case "sqlite":
		return OpenSQLite(pathOrConnStr)
	case "postgres":
		return OpenPostgres(pathOrConnStr)
	case "file":
		return OpenFile(pathOrConnStr)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}
}
