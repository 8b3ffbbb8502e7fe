package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/roastcv/config"
	"github.com/yoockh/roastcv/internal/logger"
	"github.com/yoockh/roastcv/internal/migration"
	mongorepo "github.com/yoockh/roastcv/internal/repositories/mongo"
	"github.com/yoockh/roastcv/internal/services"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall migration timeout")
	flag.Parse()

	_ = godotenv.Load()
	log := logger.New()

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	db, err := config.MongoDatabase()
	if err != nil {
		log.WithError(err).Fatal("MongoDB database error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	defer config.MongoClient.Disconnect(context.Background())

	m := &migration.Migrator{
		Repo:   mongorepo.NewLegacyRepo(db),
		Log:    log,
		DryRun: *dryRun,
		NewID:  services.NewResumeID,
	}
	rep, err := m.Run(ctx)
	log.WithFields(logrus.Fields{
		"scanned":  rep.Scanned,
		"migrated": rep.Migrated,
		"failed":   rep.Failed,
		"dry_run":  rep.DryRun,
	}).Info("migration finished")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rep)

	if err != nil {
		log.WithError(err).Error("migration aborted")
		os.Exit(1)
	}
	if rep.Failed > 0 {
		os.Exit(2)
	}
}
