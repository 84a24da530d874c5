// renamecollections renames the legacy camelCase Mongo collections to
// their snake_case names. Safe to run repeatedly: sources that do not
// exist and targets that already exist are skipped.
//
//	go run ./cmd/tools/renamecollections -dry-run
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sahil-skillgenix/CareerNavigatorAI-sub000/internal/config"
	infra "github.com/sahil-skillgenix/CareerNavigatorAI-sub000/pkg/infrastructure"
)

var renames = []struct{ from, to string }{
	{"careerAnalyses", "career_analyses"},
	{"userProfiles", "user_profiles"},
	{"exportHistory", "export_history"},
}

func main() {
	dryRun := flag.Bool("dry-run", false, "print the renames without performing them")
	flag.Parse()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := infra.NewMongoClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("connect to mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDB)
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		log.Fatalf("list collections: %v", err)
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}

	admin := client.Database("admin")
	for _, r := range renames {
		switch {
		case !have[r.from]:
			log.Printf("skip %s: not present", r.from)
			continue
		case have[r.to]:
			log.Printf("skip %s: %s already exists", r.from, r.to)
			continue
		}
		if *dryRun {
			log.Printf("would rename %s.%s -> %s.%s", cfg.MongoDB, r.from, cfg.MongoDB, r.to)
			continue
		}
		cmd := bson.D{
			{Key: "renameCollection", Value: cfg.MongoDB + "." + r.from},
			{Key: "to", Value: cfg.MongoDB + "." + r.to},
		}
		if err := admin.RunCommand(ctx, cmd).Err(); err != nil {
			log.Fatalf("rename %s: %v", r.from, err)
		}
		log.Printf("renamed %s -> %s", r.from, r.to)
	}
}
