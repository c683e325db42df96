package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/abielcoin/abiel-api/app/repository"
	"github.com/abielcoin/abiel-api/internal/pkg/database"
	"github.com/abielcoin/abiel-api/internal/pkg/env"
	"github.com/abielcoin/abiel-api/internal/pkg/mail"
)

// Mails the contest winners once the target is revealed. Run by hand:
//
//	go run cmd/emailwinners/main.go -top 10 -dry-run
func main() {
	top := flag.Int("top", 10, "number of winners to mail")
	dryRun := flag.Bool("dry-run", false, "print winners without sending mail")
	flag.Parse()

	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())

	winners, err := repository.GetGlobalRepositories().Guess.Top(*top)
	if err != nil {
		log.Fatalf("Failed to load winners: %v", err)
	}
	if len(winners) == 0 {
		log.Println("No contest entries found")
		return
	}

	for i, w := range winners {
		rank := i + 1
		if *dryRun {
			log.Printf("Would mail rank %d: %s (%.3f km)", rank, w.Email, w.DistanceKm)
			continue
		}

		subject := fmt.Sprintf("You placed #%d in the Abiel treasure hunt!", rank)
		body := fmt.Sprintf(
			"<h1>Congratulations%s!</h1>"+
				"<p>Your guess landed <strong>%.3f km</strong> from the hidden target, "+
				"good for <strong>rank %d</strong> out of everyone who played.</p>"+
				"<p>Reply to this mail with your Solana wallet address to claim your prize.</p>",
			displayName(w.Name), w.DistanceKm, rank,
		)

		if err := mail.SendMail(w.Email, subject, body); err != nil {
			log.Printf("Failed to mail rank %d (%s): %v", rank, w.Email, err)
			continue
		}
		log.Printf("Mailed rank %d: %s", rank, w.Email)
	}
}

func displayName(name string) string {
	if name == "" {
		return ""
	}
	return " " + name
}
