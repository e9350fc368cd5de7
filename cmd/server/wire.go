package main

import (
	"context"
	"fmt"

	"molttactics/db/migrations"
	"molttactics/internal/adapter/archive"
	s3archive "molttactics/internal/adapter/archive/s3"
	"molttactics/internal/adapter/archive/zstdfile"
	"molttactics/internal/adapter/lock/local"
	redislock "molttactics/internal/adapter/lock/redis"
	filerepo "molttactics/internal/adapter/repo/file"
	gormrepo "molttactics/internal/adapter/repo/gorm"
	"molttactics/internal/adapter/repo/memory"
	sqliterepo "molttactics/internal/adapter/repo/sqlite"
	"molttactics/internal/app/ports"
	"molttactics/internal/config"
)

type store struct {
	ratings   ports.RatingRepository
	summaries ports.MatchSummaryRepository
	tx        ports.TxManager
	close     func() error
}

func memoryStore(s *memory.Store) store {
	return store{
		ratings:   memory.NewRatingRepo(s),
		summaries: memory.NewMatchSummaryRepo(s),
		tx:        memory.NewTxManager(s),
		close:     func() error { return nil },
	}
}

func openStore(ctx context.Context, cfg config.Config) (store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memoryStore(memory.NewStore()), nil

	case config.BackendFile:
		s, err := filerepo.Open(cfg.DataDir)
		if err != nil {
			return store{}, err
		}
		return memoryStore(s), nil

	case config.BackendSQLite:
		db, err := sqliterepo.Open(cfg.DBPath)
		if err != nil {
			return store{}, err
		}
		return store{
			ratings:   sqliterepo.NewRatingRepo(db),
			summaries: sqliterepo.NewMatchSummaryRepo(db),
			tx:        sqliterepo.NewTxManager(db),
			close:     db.Close,
		}, nil

	case config.BackendPostgres:
		db, err := gormrepo.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return store{}, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return store{}, err
		}
		if err := gormrepo.ApplyMigrations(ctx, db, migrations.FS); err != nil {
			_ = sqlDB.Close()
			return store{}, err
		}
		return store{
			ratings:   gormrepo.NewRatingRepo(db),
			summaries: gormrepo.NewMatchSummaryRepo(db),
			tx:        gormrepo.NewTxManager(db),
			close:     sqlDB.Close,
		}, nil
	}
	return store{}, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// buildLocker uses Redis when REDIS_URL is set so several server processes
// can share one store, else an in-process lock.
func buildLocker(ctx context.Context, cfg config.Config) (ports.Locker, func(), error) {
	if cfg.RedisURL == "" {
		return local.NewLocker(), func() {}, nil
	}
	client, err := redislock.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return redislock.NewLocker(client), func() { _ = client.Close() }, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (ports.ReplayArchive, error) {
	primary, err := zstdfile.New(cfg.ArchiveDir)
	if err != nil {
		return nil, fmt.Errorf("archive dir: %w", err)
	}
	if !cfg.S3.Enabled() {
		return primary, nil
	}
	client, err := s3archive.NewClient(ctx, s3archive.Options{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Prefix:          cfg.S3.Prefix,
	})
	if err != nil {
		return nil, err
	}
	return archive.Mirror{
		Primary:   primary,
		Secondary: s3archive.New(client, cfg.S3.Bucket, cfg.S3.Prefix),
	}, nil
}
