package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/supermercado/backend/internal/domain/identity"
	"github.com/supermercado/backend/internal/infrastructure/config"
	"github.com/supermercado/backend/internal/infrastructure/logger"
	"github.com/supermercado/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const (
	defaultMigrationsPath = "migrations"
	adminRoleName         = "Administrador"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	migrationsPath, err := resolveMigrationsPath(migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}
	log.Debug("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
	)

	// Commands that only touch the migrations directory
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(migrationsPath, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created successfully",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return

	case "list":
		migrations, err := migration.ListMigrations(migrationsPath)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		if len(migrations) == 0 {
			log.Info("No migrations found")
			return
		}
		for _, m := range migrations {
			fmt.Printf("  %06d  %s%s\n", m.Version, m.Name, downMarker(m.HasDown))
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	if command == "create-admin" {
		if len(args) < 4 {
			log.Fatal("Usage: migrate create-admin <name> <email> <password>")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := createAdmin(ctx, db, args[1], args[2], args[3]); err != nil {
			log.Fatal("Failed to create administrator", zap.Error(err))
		}
		log.Info("Administrator created", zap.String("email", args[2]))
		return
	}

	m, err := migration.New(db, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}

	case "down":
		steps := 1
		if len(args) > 1 {
			if steps, err = strconv.Atoi(args[1]); err != nil || steps < 1 {
				log.Fatal("Invalid step count", zap.String("value", args[1]))
			}
		}
		if err := m.Down(steps); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}

	case "goto":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate goto <version>")
		}
		version, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.GoTo(uint(version)); err != nil {
			log.Fatal("Migration goto failed", zap.Error(err))
		}

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal("Failed to get version", zap.Error(err))
		}
		if version == 0 {
			log.Info("No migrations applied")
			return
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	case "status":
		applied, dirty, pending, err := m.Status()
		if err != nil {
			log.Fatal("Failed to get status", zap.Error(err))
		}
		log.Info("Migration status",
			zap.Uint("applied", applied),
			zap.Bool("dirty", dirty),
			zap.Int("pending", len(pending)),
		)
		for _, p := range pending {
			fmt.Printf("  pending %06d  %s\n", p.Version, p.Name)
		}

	case "force":
		if len(args) < 2 {
			log.Fatal("Version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatal("Invalid version number", zap.String("value", args[1]))
		}
		if err := m.Force(version); err != nil {
			log.Fatal("Force version failed", zap.Error(err))
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

// resolveMigrationsPath falls back to ./migrations, then to the directory
// two levels above the executable
func resolveMigrationsPath(path string) (string, error) {
	if path == "" {
		path = defaultMigrationsPath
		if _, err := os.Stat(path); err != nil {
			if exe, err := os.Executable(); err == nil {
				candidate := filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath)
				if _, err := os.Stat(candidate); err == nil {
					path = candidate
				}
			}
		}
	}
	return filepath.Abs(path)
}

// createAdmin inserts an active user with the Administrador role
func createAdmin(ctx context.Context, db *sql.DB, name, email, password string) error {
	var roleID uuid.UUID
	err := db.QueryRowContext(ctx, `SELECT id FROM roles WHERE name = $1`, adminRoleName).Scan(&roleID)
	if err != nil {
		return fmt.Errorf("role %s not found, run the seed migration first: %w", adminRoleName, err)
	}

	user, err := identity.NewUser(name, email, password, roleID)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role_id, active, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, TRUE, 1, NOW(), NOW())`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.RoleID,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func downMarker(hasDown bool) string {
	if hasDown {
		return ""
	}
	return "  (no down script)"
}

func printUsage() {
	fmt.Println(`Supermercado Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                                    Apply all pending migrations
  down [n]                              Roll back n migrations (default 1)
  goto <version>                        Migrate to a specific version
  version                               Show current migration version
  status                                Show applied version and pending migrations
  force <version>                       Force set migration version (use with caution)
  create <name> [desc]                  Create a new migration file pair
  list                                  List available migrations
  create-admin <name> <email> <pass>    Create an administrator user

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  SUPERMERCADO_DATABASE_HOST, SUPERMERCADO_DATABASE_PORT, SUPERMERCADO_DATABASE_USER,
  SUPERMERCADO_DATABASE_PASSWORD, SUPERMERCADO_DATABASE_NAME, SUPERMERCADO_DATABASE_SSLMODE

Examples:
  migrate up
  migrate down 1
  migrate create add_loyalty_points "Points earned per invoice"
  migrate create-admin "Ana Gomez" admin@super.co 'S3cret-pass'`)
}
