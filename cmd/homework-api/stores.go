package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/homework-tracker-api/internal/handler"
	"github.com/noah-isme/homework-tracker-api/internal/repository"
	"github.com/noah-isme/homework-tracker-api/pkg/config"
	"github.com/noah-isme/homework-tracker-api/pkg/database"
)

// stores groups the repositories of the selected backend.
type stores struct {
	homeworks   repository.HomeworkStore
	subscribers repository.SubscriberStore
	emails      repository.EmailStore
	ping        handler.ReadinessCheck
	close       func(context.Context) error
}

func openStores(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logr.Info("store connected", zap.String("driver", cfg.StoreDriver), zap.String("database", cfg.Mongo.Database))
		return &stores{
			homeworks:   repository.NewHomeworkMongoRepository(db),
			subscribers: repository.NewSubscriberMongoRepository(db),
			emails:      repository.NewEmailMongoRepository(db),
			ping:        func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:       client.Disconnect,
		}, nil
	case config.StoreDriverPostgres, "":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logr.Info("store connected", zap.String("driver", config.StoreDriverPostgres), zap.String("database", cfg.Database.Name))
		return &stores{
			homeworks:   repository.NewHomeworkRepository(db),
			subscribers: repository.NewSubscriberRepository(db),
			emails:      repository.NewEmailRepository(db),
			ping:        db.PingContext,
			close:       func(context.Context) error { return db.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
