// Package main provides a tool to seed the database with sample gallery data.
//
// It creates an admin account, a batch of public images with tags, and
// random engagement from a handful of test users, so the gallery and the
// analytics endpoints have something to show during development.
//
// Usage:
//
//	DB_PATH=~/PromptGallery/gallery.db go run ./cmd/seed
//	DB_PATH=~/PromptGallery/gallery.db go run ./cmd/seed --images 200 --users 10
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/promptgallery/gallery-server/internal/auth"
	"github.com/promptgallery/gallery-server/internal/domain"
	"github.com/promptgallery/gallery-server/internal/id"
	"github.com/promptgallery/gallery-server/internal/service"
	"github.com/promptgallery/gallery-server/internal/store"
	"github.com/promptgallery/gallery-server/internal/store/sqlite"
)

var (
	imageCount = flag.Int("images", 50, "Number of images to create")
	userCount  = flag.Int("users", 5, "Number of test users that like and download images")
	imageBase  = flag.String("image-base", "https://picsum.photos/seed", "Base URL for placeholder image URLs")
	password   = flag.String("password", "password123", "Password for every seeded account")
)

const adminEmail = "admin@gallery.local"

var sampleTags = []string{
	"Landscape", "Portrait", "Cyberpunk", "Watercolor", "Fantasy", "Sci-Fi",
	"Nature", "Architecture", "Abstract", "Anime", "Photorealistic", "Minimal",
}

var sampleModels = []string{"sdxl-1.0", "midjourney-v6", "dall-e-3", "flux-dev"}

var samplePrompts = []string{
	"a lighthouse on a cliff at dusk, volumetric fog, golden hour",
	"portrait of an old sailor, oil painting, dramatic lighting",
	"neon-lit alley in the rain, reflections, cinematic",
	"watercolor fox in a snowy forest",
	"floating islands with waterfalls, epic scale",
	"brutalist concrete library interior, soft daylight",
	"macro shot of a dew drop on a leaf",
	"retro-futurist train station, 1970s sci-fi poster",
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/PromptGallery/gallery.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin, err := ensureUser(ctx, s, adminEmail, "Gallery Admin", domain.RoleAdmin, hash)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}
	fmt.Printf("Admin: %s (%s)\n", admin.Email, admin.ID)

	users := make([]*domain.User, 0, *userCount)
	for n := range *userCount {
		email := fmt.Sprintf("user%d@gallery.local", n+1)
		u, err := ensureUser(ctx, s, email, fmt.Sprintf("Test User %d", n+1), domain.RoleUser, hash)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", email, err)
		}
		users = append(users, u)
	}
	fmt.Printf("Users: %d\n", len(users))

	tags := service.NewTagService(s, nil)
	engagement := service.NewEngagementService(s, nil)

	var likes, downloads, copies int
	for n := range *imageCount {
		img, err := tags.CreateImageWithTags(ctx, service.ImageAttributes{
			UploadedBy: admin.ID,
			ImageURL:   fmt.Sprintf("%s/%s/1024/1024", *imageBase, id.New()),
			Prompt:     samplePrompts[rng.IntN(len(samplePrompts))],
			AIModel:    sampleModels[rng.IntN(len(sampleModels))],
			FileSize:   int64(200_000 + rng.IntN(3_000_000)),
			IsPublic:   n%10 != 9,
		}, pickTags(rng))
		if err != nil {
			log.Fatalf("Failed to create image %d: %v", n+1, err)
		}

		if !img.IsPublic {
			continue
		}
		for _, u := range users {
			if rng.IntN(3) == 0 {
				if _, err := engagement.Like(ctx, u.ID, img.ID); err != nil {
					log.Printf("Failed to like %s: %v", img.ID, err)
					continue
				}
				likes++
			}
			if rng.IntN(4) == 0 {
				if err := engagement.RecordDownload(ctx, img.ID); err == nil {
					downloads++
				}
			}
			if rng.IntN(5) == 0 {
				if err := engagement.RecordPromptCopy(ctx, img.ID); err == nil {
					copies++
				}
			}
		}
	}

	fmt.Printf("\nSeeding complete!\n")
	fmt.Printf("  Images:       %d\n", *imageCount)
	fmt.Printf("  Likes:        %d\n", likes)
	fmt.Printf("  Downloads:    %d\n", downloads)
	fmt.Printf("  Prompt copies: %d\n", copies)
}

// ensureUser returns the account with email, creating it when missing.
func ensureUser(ctx context.Context, s store.Store, email, name string, role domain.Role, hash string) (*domain.User, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	u := &domain.User{
		ID:           id.New(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// pickTags returns between one and four distinct sample tags.
func pickTags(rng *rand.Rand) []string {
	n := 1 + rng.IntN(4)
	perm := rng.Perm(len(sampleTags))
	picked := make([]string, 0, n)
	for _, idx := range perm[:n] {
		picked = append(picked, sampleTags[idx])
	}
	return picked
}
