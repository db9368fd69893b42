// Package main is a development seeding tool.
//
// It plays the two external collaborators the API server never implements
// itself: the identity provider (it invents opaque user ids and mints a
// dev JWT) and the publishing pipeline (it writes posts and their POSTED
// edges). Point it at the same backend the server uses and you get a small
// populated graph to click around in.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/tahmid/socialgraph/internal/auth"
	"github.com/tahmid/socialgraph/internal/model"
	"github.com/tahmid/socialgraph/internal/repository"
	neo4jRepo "github.com/tahmid/socialgraph/internal/repository/neo4j"
	sqliteRepo "github.com/tahmid/socialgraph/internal/repository/sqlite"
)

// seedStore is the surface the seeder needs: the full graph API plus the
// post-insertion hook both backends expose for tooling.
type seedStore interface {
	repository.SocialGraph
	InsertPost(ctx context.Context, authorID string, post *model.Post) error
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	ctx := context.Background()

	store, closeStore, err := openStore(ctx)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	if err := seed(ctx, store, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// A dev token for the first seeded user, so the API can be exercised
	// with curl without standing up the identity provider.
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		tokens, err := auth.NewTokenService(secret)
		if err != nil {
			logger.Error("failed to create token service", slog.String("error", err.Error()))
			os.Exit(1)
		}
		token, err := tokens.GenerateWithDuration(auth.Identity{
			UserID: seedUsers[0].ID,
			Email:  seedUsers[0].Email,
		}, 24*time.Hour)
		if err != nil {
			logger.Error("failed to mint dev token", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("\ndev token for %s (valid 24h):\n%s\n", seedUsers[0].Username, token)
	}
}

func openStore(ctx context.Context) (seedStore, func(), error) {
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		database := os.Getenv("NEO4J_DATABASE")
		if database == "" {
			database = "neo4j"
		}
		store, err := neo4jRepo.New(ctx, neo4jRepo.Config{
			URI:      uri,
			Username: os.Getenv("NEO4J_USERNAME"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Database: database,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close(ctx) }, nil
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/socialgraph.db"
	}
	db, err := sqliteRepo.New(dbPath)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

// seedUsers get stable ids so re-running the tool (and the printed dev
// token) keeps working against an existing database.
var seedUsers = []model.User{
	{ID: "seed_amara", Name: "Amara Okafor", Username: "amara", Email: "amara@example.com", Bio: "gardening and graph theory", Avatar: "avatar_2"},
	{ID: "seed_boris", Name: "Boris Ivanov", Username: "boris", Email: "boris@example.com", Bio: "mostly here for the memes", Avatar: "avatar_5"},
	{ID: "seed_chen", Name: "Chen Wei", Username: "chenwei", Email: "chen@example.com", Avatar: "avatar_1"},
	{ID: "seed_devi", Name: "Devi Sharma", Username: "devi_s", Email: "devi@example.com", Bio: "ship early, ship often"},
}

// follower → followees
var seedFollows = map[string][]string{
	"seed_amara": {"seed_boris", "seed_chen"},
	"seed_boris": {"seed_amara", "seed_chen"},
	"seed_chen":  {"seed_devi"},
	"seed_devi":  {"seed_chen"},
}

var seedPosts = map[string][]string{
	"seed_boris": {"first!", "ok this place is growing on me"},
	"seed_chen":  {"shipping a little side project this weekend"},
	"seed_devi":  {"hot take: reverse chronological feeds are the only honest feeds"},
}

func seed(ctx context.Context, store seedStore, logger *slog.Logger) error {
	for i := range seedUsers {
		u := seedUsers[i]
		existing, err := store.GetUserByID(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("checking user %s: %w", u.ID, err)
		}
		if existing != nil {
			logger.Info("user already seeded", slog.String("userID", u.ID))
			continue
		}
		if err := store.CreateUser(ctx, &u); err != nil {
			return fmt.Errorf("creating user %s: %w", u.ID, err)
		}
		logger.Info("user created",
			slog.String("userID", u.ID),
			slog.String("username", u.Username),
		)
	}

	for follower, followees := range seedFollows {
		for _, followee := range followees {
			if err := store.Follow(ctx, follower, followee); err != nil {
				return fmt.Errorf("following %s -> %s: %w", follower, followee, err)
			}
		}
	}

	// Posts get fresh xid ids every run; xid strings sort by creation
	// time, which keeps the feed tie-break stable and plausible.
	createdAt := time.Now().Add(-time.Duration(totalPosts()) * time.Minute)
	for author, contents := range seedPosts {
		for _, content := range contents {
			post := &model.Post{
				ID:        xid.New().String(),
				Content:   content,
				CreatedAt: createdAt.UTC().Format(time.RFC3339),
			}
			if err := store.InsertPost(ctx, author, post); err != nil {
				return fmt.Errorf("inserting post for %s: %w", author, err)
			}
			createdAt = createdAt.Add(time.Minute)
		}
	}

	logger.Info("seeding complete",
		slog.Int("users", len(seedUsers)),
		slog.Int("posts", totalPosts()),
	)
	return nil
}

func totalPosts() int {
	n := 0
	for _, posts := range seedPosts {
		n += len(posts)
	}
	return n
}
