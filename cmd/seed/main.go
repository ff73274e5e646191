// Command seed populates the database with demo accounts.
package main

import (
	"context"
	"flag"
	"log"

	"jobportal/internal/config"
	"jobportal/internal/database"
	"jobportal/internal/seed"
)

func main() {
	oauthUsers := flag.Int("oauth", 10, "Google-linked jobseekers that still need the completion wizard")
	localUsers := flag.Int("local", 10, "Password jobseekers with complete profiles")
	employers := flag.Int("employers", 5, "Employers, each with a company")
	clean := flag.Bool("clean", false, "Remove all users and companies first")
	fast := flag.Bool("fast", true, "Use the minimum bcrypt cost")
	rngSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		OAuthJobseekers: *oauthUsers,
		LocalJobseekers: *localUsers,
		Employers:       *employers,
		SkipBcrypt:      *fast,
	}, *rngSeed)

	if *clean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Local and employer accounts use the password: %s", seed.DemoPassword)
}
