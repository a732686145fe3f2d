package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/prediction-league/db"
	"github.com/riskibarqy/prediction-league/internal/platform/dsn"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

var logger = logging.NewJSON(logging.ParseLevel(os.Getenv("LOG_LEVEL"))).Named("migration")

type command struct {
	usage string
	run   func(m *migrate.Migrate, args []string) error
}

var commands = map[string]command{
	"up": {usage: "up", run: func(m *migrate.Migrate, _ []string) error {
		return tolerateNoChange(m.Up())
	}},
	"down": {usage: "down [steps]", run: func(m *migrate.Migrate, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		return tolerateNoChange(m.Steps(-steps))
	}},
	"version": {usage: "version", run: func(m *migrate.Migrate, _ []string) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
		return nil
	}},
	"force": {usage: "force <version>", run: func(m *migrate.Migrate, args []string) error {
		if len(args) == 0 {
			return errors.New("force requires a version argument")
		}
		version, err := parseVersion(args[0])
		if err != nil {
			return err
		}
		return m.Force(version)
	}},
	"goto": {usage: "goto <version>", run: func(m *migrate.Migrate, args []string) error {
		if len(args) == 0 {
			return errors.New("goto requires a target version argument")
		}
		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		return tolerateNoChange(m.Migrate(target))
	}},
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	name := strings.ToLower(strings.TrimSpace(os.Args[1]))
	cmd, ok := commands[name]
	if !ok {
		printUsage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	if err := run(name, cmd, os.Args[2:]); err != nil {
		logger.Error("migration failed", "command", name, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(name string, cmd command, args []string) error {
	dbURL, err := databaseURL()
	if err != nil {
		return err
	}

	m, source, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := cmd.run(m, args); err != nil {
		return err
	}
	logger.Info("migration command finished", "command", name, "source", source)
	return nil
}

func databaseURL() (string, error) {
	raw := strings.TrimSpace(os.Getenv("DB_URL"))
	if raw == "" {
		return "", errors.New("DB_URL is required")
	}
	binary := true
	if value := strings.TrimSpace(os.Getenv("DB_BINARY_PARAMETERS")); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("invalid DB_BINARY_PARAMETERS %q: %w", value, err)
		}
		binary = parsed
	}
	if binary {
		raw = dsn.WithBinaryParameters(raw)
	}
	return raw, nil
}

// newMigrator prefers a migrations directory on disk and falls back to
// the copy compiled into the binary.
func newMigrator(dbURL string) (*migrate.Migrate, string, error) {
	if dir, ok := migrationsDirFromEnv(); ok {
		sourceURL := "file://" + filepath.ToSlash(dir)
		m, err := migrate.New(sourceURL, dbURL)
		if err != nil {
			return nil, "", fmt.Errorf("create migrator from %s: %w", sourceURL, err)
		}
		return m, sourceURL, nil
	}

	src, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, "", fmt.Errorf("create migrator from embedded migrations: %w", err)
	}
	return m, "embedded", nil
}

func migrationsDirFromEnv() (string, bool) {
	for _, key := range []string{"MIGRATIONS_DIR", "MIGRATIONS_PATH"} {
		candidate := strings.TrimSpace(os.Getenv(key))
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, true
		}
		logger.Warn("ignoring migrations dir", "env", key, "path", abs)
	}
	return "", false
}

func tolerateNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, errors.New("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		logger.Warn("close migration source failed", "error", srcErr)
	}
	if dbErr != nil {
		logger.Warn("close migration db failed", "error", dbErr)
	}
}

func printUsage() {
	bin := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\n", bin)
	for _, name := range []string{"up", "down", "version", "force", "goto"} {
		fmt.Fprintf(os.Stderr, "  %s %s\n", bin, commands[name].usage)
	}
}
