// Package main is the entry point of the university console.
//
// On start it applies the schema, fills an empty database with generated
// groups, students, courses and enrollments, and then serves the text menu
// on stdin/stdout until the user quits.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/university-hub/university/config"
	"github.com/university-hub/university/internal/application/command"
	"github.com/university-hub/university/internal/domain/course"
	"github.com/university-hub/university/internal/domain/generator"
	"github.com/university-hub/university/internal/domain/group"
	"github.com/university-hub/university/internal/domain/student"
	"github.com/university-hub/university/internal/infrastructure/persistence/memory"
	"github.com/university-hub/university/internal/infrastructure/persistence/postgres"
	"github.com/university-hub/university/internal/infrastructure/persistence/redis"
	"github.com/university-hub/university/internal/infrastructure/seed"
	"github.com/university-hub/university/internal/interface/console"
	"github.com/university-hub/university/pkg/logger"
	"github.com/university-hub/university/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

// storage bundles the repositories and schema management of one driver.
type storage struct {
	groups   group.Repository
	courses  course.Repository
	students student.Repository
	migrator command.SchemaMigrator
	close    func()
}

func run(ctx context.Context, in io.Reader, out io.Writer) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log, closeLog, err := setupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closeLog()

	log.Info("starting university console",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("driver", cfg.Database.Driver),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. COURSE CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Redis.Enabled {
		cache, err := redis.NewCache(ctx, redisConfig(cfg))
		if err != nil {
			// The console works without the cache.
			log.Warn("redis unavailable, course cache disabled", logger.Err(err))
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					log.Warn("failed to close redis", logger.Err(err))
				}
			}()
			store.courses = redis.NewCachedCourseRepository(store.courses, cache, cfg.Redis.TTL, log)
			log.Info("course cache enabled", logger.Duration("ttl", cfg.Redis.TTL))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. INITIAL DATA
	// ─────────────────────────────────────────────────────────────────────────
	randomSeed := cfg.Seed.RandomSeed
	if randomSeed == 0 {
		randomSeed = uint64(time.Now().UnixNano())
	}

	initializer := command.NewInitializeDatabaseHandler(
		store.migrator,
		seed.NewReader(cfg.Seed.Dir),
		generator.NewSeeded(randomSeed),
		store.groups,
		store.courses,
		store.students,
		log,
	)

	initCmd := command.DefaultInitializeDatabaseCommand()
	initCmd.GroupCount = cfg.Seed.GroupCount
	initCmd.StudentCount = cfg.Seed.StudentCount
	initCmd.Reset = cfg.Seed.Reset

	result, err := initializer.Handle(ctx, initCmd)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Info("database ready",
		logger.RunID(result.RunID),
		logger.Bool("skipped", result.Skipped),
		logger.Any("random_seed", randomSeed),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. CONSOLE
	// ─────────────────────────────────────────────────────────────────────────
	controller := console.NewController(
		store.students,
		store.courses,
		store.groups,
		console.NewView(in, out),
		log,
	)

	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("console: %w", err)
	}

	log.Info("university console stopped")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.UsesMemoryStore() {
		log.Info("using in-memory storage")
		mem := memory.NewStore()
		return &storage{
			groups:   mem.Groups(),
			courses:  mem.Courses(),
			students: mem.Students(),
			migrator: mem,
			close:    func() {},
		}, nil
	}

	log.Info("connecting to database...",
		logger.String("host", cfg.Database.Host),
		logger.Int("attempts", cfg.Database.ConnectAttempts),
	)

	opts := append(retry.ConnectOptions(cfg.Database.ConnectAttempts),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Warn("database connection failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("delay", delay),
				logger.Err(err),
			)
		}),
	)

	conn, err := retry.DoWithData(ctx, func(ctx context.Context) (*postgres.Connection, error) {
		if cfg.Database.URL != "" {
			return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		}
		return postgres.NewConnection(ctx, postgresConfig(cfg))
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connection established")

	return &storage{
		groups:   postgres.NewGroupRepository(conn),
		courses:  postgres.NewCourseRepository(conn),
		students: postgres.NewStudentRepository(conn),
		migrator: postgres.NewMigrator(conn),
		close: func() {
			log.Info("closing database connection...")
			conn.Close()
		},
	}, nil
}

func postgresConfig(cfg *config.Config) postgres.Config {
	db := cfg.Database
	return postgres.Config{
		Host:            db.Host,
		Port:            db.Port,
		Database:        db.Name,
		User:            db.User,
		Password:        db.Password,
		SSLMode:         db.SSLMode,
		MaxConns:        db.MaxConns,
		MinConns:        db.MinConns,
		MaxConnLifetime: db.ConnMaxLifetime,
		MaxConnIdleTime: db.ConnMaxIdleTime,
		ConnectTimeout:  db.ConnectTimeout,
	}
}

func redisConfig(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	return rc
}

// setupLogger builds the application logger. Log lines go to LOG_FILE when
// set so they do not interleave with the menu on stdout.
func setupLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	opts := logger.Options{
		Output:    os.Stderr,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		Format:    logger.Format(cfg.Observability.LogFormat),
		AddSource: cfg.Observability.LogSource,
	}

	closeFn := func() {}
	if cfg.Observability.LogFile != "" {
		f, err := os.OpenFile(cfg.Observability.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		opts.Output = f
		closeFn = func() { _ = f.Close() }
	}

	log := logger.New(opts).With(logger.String("app", cfg.App.Name))
	slog.SetDefault(log.Slog())
	return log, closeFn, nil
}
