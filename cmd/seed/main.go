// seed inserts a demo barbershop with two barbers and three services into the
// local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/barbershop-booking/internal/infrastructure/postgres"
)

const (
	shopName  = "Navalha Barbearia"
	shopEmail = "owner@navalha.local"
	demoPhone = "+5511999990000"
)

var barbers = []string{"Ana", "Bruno"}

var services = []struct {
	name        string
	durationMin int
}{
	{"Corte", 30},
	{"Barba", 30},
	{"Corte + Barba", 60},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set - run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL, 2)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	// Reuse the demo shop on re-runs
	var shopID string
	err = pool.QueryRow(ctx, `SELECT id FROM barbershops WHERE email = $1`, shopEmail).Scan(&shopID)
	if err != nil {
		err = pool.QueryRow(ctx, `
			INSERT INTO barbershops (name, email) VALUES ($1, $2)
			RETURNING id`,
			shopName, shopEmail,
		).Scan(&shopID)
		if err != nil {
			log.Fatalf("insert barbershop: %v", err)
		}
	}

	barberIDs := make([]string, 0, len(barbers))
	for _, name := range barbers {
		var id string
		err := pool.QueryRow(ctx, `SELECT id FROM barbers WHERE barbershop_id = $1 AND name = $2`, shopID, name).Scan(&id)
		if err != nil {
			err = pool.QueryRow(ctx, `
				INSERT INTO barbers (barbershop_id, name) VALUES ($1, $2)
				RETURNING id`,
				shopID, name,
			).Scan(&id)
			if err != nil {
				log.Fatalf("insert barber %s: %v", name, err)
			}
		}
		barberIDs = append(barberIDs, id)
	}

	serviceIDs := make([]string, 0, len(services))
	for _, s := range services {
		var id string
		err := pool.QueryRow(ctx, `SELECT id FROM services WHERE barbershop_id = $1 AND name = $2`, shopID, s.name).Scan(&id)
		if err != nil {
			err = pool.QueryRow(ctx, `
				INSERT INTO services (barbershop_id, name, duration_min) VALUES ($1, $2, $3)
				RETURNING id`,
				shopID, s.name, s.durationMin,
			).Scan(&id)
			if err != nil {
				log.Fatalf("insert service %s: %v", s.name, err)
			}
		}
		serviceIDs = append(serviceIDs, id)
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Barbershop: %s  (%s)\n", shopName, shopID)
	for i, id := range barberIDs {
		fmt.Printf("  Barber:     %-14s %s\n", barbers[i], id)
	}
	for i, id := range serviceIDs {
		fmt.Printf("  Service:    %-14s %s  (%d min)\n", services[i].name, id, services[i].durationMin)
	}
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 - issue a booking link (as the WhatsApp bot would):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/booking-link \\\n")
	fmt.Printf("      -H \"Authorization: Bearer $INTERNAL_API_TOKEN\" \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"barbershopId\":\"%s\",\"customerPhone\":\"%s\"}'\n", shopID, demoPhone)
	fmt.Println("    # -> {\"bookingUrl\":\".../booking/TOKEN\",\"expiresAt\":\"...\"}")
	fmt.Println()
	fmt.Println("  Step 2 - redeem it and keep the session cookie:")
	fmt.Println()
	fmt.Println("    curl -s -c cookies.txt http://localhost:8080/auth/booking/TOKEN")
	fmt.Println()
	fmt.Println("  Step 3 - list tomorrow's free slots:")
	fmt.Println()
	fmt.Printf("    curl -s 'http://localhost:8080/availability?barberId=%s&date=%s'\n", barberIDs[0], tomorrow)
	fmt.Println()
	fmt.Println("  Step 4 - book one of them:")
	fmt.Println()
	fmt.Printf("    curl -s -b cookies.txt -X POST http://localhost:8080/appointments \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"barberId\":\"%s\",\"serviceId\":\"%s\",\"startTime\":\"START_TIME\"}'\n", barberIDs[0], serviceIDs[0])
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Println("    second redemption of the same link     ->  410 TOKEN_USED")
	fmt.Println("    booking the same slot twice            ->  409 SLOT_OCCUPIED")
	fmt.Println("    booking without the cookie             ->  401")
}
