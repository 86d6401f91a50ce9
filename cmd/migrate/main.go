package main

import (
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/farm2market/market-api/internal/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("creating migrate instance: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatalf("applying migrations: %v", err)
	}
	log.Println("migrations applied successfully")
}
