package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oggyb/lunchmatch/internal/auth"
	"github.com/oggyb/lunchmatch/internal/config"
	"github.com/oggyb/lunchmatch/internal/db"
)

// tokensToPrint is how many demo users get a bearer token printed.
const tokensToPrint = 3

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	users, err := db.SeedDemoData(database)
	if err != nil {
		log.Fatalf("failed to seed: %v", err)
	}
	log.Printf("Seeding completed: %d users.", len(users))

	if cfg.Auth.JWTSecret == "" {
		log.Println("AUTH_JWT_SECRET is not set; skipping demo tokens.")
		return
	}
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	for i, u := range users {
		if i == tokensToPrint {
			break
		}
		token, err := issuer.Issue(auth.Identity{UserID: u.ID, University: u.Profile.University})
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		fmt.Printf("%s %s (id %d): Bearer %s\n", u.Profile.FirstName, u.Profile.LastName, u.ID, token)
	}
}
