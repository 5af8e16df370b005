package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/codeforchange/community-api/config"
	_ "github.com/lib/pq"
)

// EnsureDatabase connects to the maintenance database and creates the
// application database when it does not exist yet. GORM cannot do this
// because its DSN already targets the application database.
func EnsureDatabase() error {
	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.DB_NAME == "" {
		return fmt.Errorf("DB_NAME is not set")
	}

	connectStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		getEnv.DB_HOST,
		getEnv.DB_PORT,
		getEnv.DB_USER_NAME,
		getEnv.DB_PASSWORD,
		getEnv.DB_SSL_MODE,
	)

	db, err := sql.Open("postgres", connectStr)
	if err != nil {
		return err
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, getEnv.DB_NAME).Scan(&exists)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	log.Printf("Database %q not found, creating it...", getEnv.DB_NAME)

	// CREATE DATABASE does not support placeholders; the name comes from
	// our own configuration, not from request input.
	_, err = db.Exec(fmt.Sprintf(`CREATE DATABASE %q`, getEnv.DB_NAME))
	if err != nil {
		return err
	}

	log.Printf("Database %q created.", getEnv.DB_NAME)
	return nil
}
