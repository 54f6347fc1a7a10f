package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies a single migration file by name suffix, e.g.
//
//	go run ./cmd/migrations init.up
func main() {
	if len(os.Args) < 2 {
		log.Fatal("a migration name is required")
	}
	migrationName := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Fatal("error loading .env file")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")
	content, err := migrationFileContent(basePath, migrationName)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		log.Fatalf("failed to execute migration: %v", err)
	}

	fmt.Println("migration applied")
}

func migrationFileContent(basePath, migrationName string) ([]byte, error) {
	files, err := os.ReadDir(basePath)
	if err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if strings.HasSuffix(f.Name(), migrationName+".sql") {
			return os.ReadFile(filepath.Join(basePath, f.Name()))
		}
	}

	return nil, fmt.Errorf("migration %q not found in %s", migrationName, basePath)
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
