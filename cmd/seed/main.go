// seed registers a demo artist and replaces their listings with a fixed sample set.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ErlanBelekov/art-marketplace/config"
	"github.com/ErlanBelekov/art-marketplace/internal/domain"
	"github.com/ErlanBelekov/art-marketplace/internal/email"
	"github.com/ErlanBelekov/art-marketplace/internal/infrastructure/store"
	"github.com/ErlanBelekov/art-marketplace/internal/token"
	"github.com/ErlanBelekov/art-marketplace/internal/usecase"
)

const (
	seedEmail    = "seed.artist@test.local"
	seedPassword = "seed-password"
)

var samples = []usecase.CreateListingInput{
	{Title: "Harbour at Dawn", Description: "Oil on canvas, fishing boats leaving the harbour.", ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Location: "Marseille", Country: "France", TypeOfArt: "oil", Price: 1200},
	{Title: "Quiet Birches", Description: "Watercolour study of a birch grove in early spring.", ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Location: "Tampere", Country: "Finland", TypeOfArt: "watercolor", Price: 340},
	{Title: "Market Day", Description: "Acrylic street scene from the old bazaar.", ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Location: "Bishkek", Country: "Kyrgyzstan", TypeOfArt: "acrylic", Price: 560},
	{Title: "Portrait in Blue", Description: "Charcoal and pastel portrait on toned paper.", ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Location: "Lisbon", Country: "Portugal", TypeOfArt: "pastel", Price: 410},
	{Title: "Terraced Hills", Description: "Landscape in oils, rice terraces after the rain.", ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Location: "Ubud", Country: "Indonesia", TypeOfArt: "oil", Price: 980},
	{Title: "Night Tram", Description: "Ink drawing of the last tram crossing the river.", ImageURL: "https://res.cloudinary.com/demo/image/upload/sample.jpg", Location: "Prague", Country: "Czechia", TypeOfArt: "ink", Price: 150},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer st.Close()

	auth := usecase.NewAuthUsecase(st.Identities, token.NewService([]byte(cfg.JWTSecret), cfg.JWTTTL), email.NewSender("local", "", "", logger), cfg.BcryptCost, logger)
	listings := usecase.NewListingUsecase(st.Listings, st.Identities)

	res, err := auth.Register(ctx, usecase.RegisterInput{
		Role:      domain.RoleArtist,
		Email:     seedEmail,
		Password:  seedPassword,
		FirstName: "Seed",
		LastName:  "Artist",
		City:      "Paris",
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		res, err = auth.Login(ctx, domain.RoleArtist, seedEmail, seedPassword)
	}
	if err != nil {
		log.Fatalf("seed artist: %v", err)
	}

	// Reload to see the current owned set.
	artist, err := auth.Authenticate(ctx, res.Token)
	if err != nil {
		log.Fatalf("reload seed artist: %v", err)
	}

	owned, err := listings.Owned(ctx, artist)
	if err != nil {
		log.Fatalf("list owned: %v", err)
	}
	for _, l := range owned {
		if _, err := listings.Delete(ctx, l.ID, artist); err != nil {
			log.Fatalf("delete listing %s: %v", l.ID, err)
		}
	}

	created := make([]*domain.Listing, 0, len(samples))
	for _, in := range samples {
		l, err := listings.Create(ctx, artist, in)
		if err != nil {
			log.Fatalf("create %q: %v", in.Title, err)
		}
		created = append(created, l)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Store:            %s\n", cfg.Store)
	fmt.Printf("  Artist:           %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  Artist ID:        %s\n", artist.ID)
	fmt.Printf("  Listings removed: %d\n", len(owned))
	fmt.Printf("  Listings created: %d\n", len(created))
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  curl -s http://localhost:8080/artist/show")
	fmt.Println()
	fmt.Println("  curl -s -X POST http://localhost:8080/artist/login \\")
	fmt.Println("    -H 'Content-Type: application/json' \\")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println()
	if len(created) > 0 {
		fmt.Printf("  curl -s http://localhost:8080/artist/map/%s\n", created[0].ID)
	}
}
