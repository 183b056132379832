package database

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xelth-com/asbuiltgo/internal/config"
	"github.com/xelth-com/asbuiltgo/internal/models"
)

const (
	embeddedDataPath = "./db_data"
	embeddedPort     = 5433
)

// DB wraps gorm.DB and includes a reference to an embedded process if active
type DB struct {
	*gorm.DB
	dialect  string
	embedded *embeddedpostgres.EmbeddedPostgres
}

// Dialect returns the active storage dialect (config.DriverPostgres or config.DriverSQLite)
func (db *DB) Dialect() string {
	return db.dialect
}

// cleanupStaleEmbeddedPostgres cleans up leftover processes from a previous crash
func cleanupStaleEmbeddedPostgres(log *zap.Logger) {
	pidFile := filepath.Join(embeddedDataPath, "postmaster.pid")

	data, err := os.ReadFile(pidFile)
	if err != nil {
		// No pid file = clean state
		return
	}

	// Parse PID from first line of postmaster.pid
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	if !scanner.Scan() {
		return
	}
	pid, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		log.Warn("could not parse PID from postmaster.pid", zap.Error(err))
		return
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		log.Info("cleaning up stale postmaster.pid", zap.Int("pid", pid))
		os.Remove(pidFile)
		return
	}

	// On Unix, FindProcess always succeeds, so we need to send signal 0 to check
	if err := process.Signal(syscall.Signal(0)); err != nil {
		log.Info("cleaning up stale postmaster.pid, process not running", zap.Int("pid", pid))
		os.Remove(pidFile)
		return
	}

	log.Warn("found orphaned PostgreSQL process, stopping it", zap.Int("pid", pid))
	if err := process.Signal(syscall.SIGTERM); err != nil {
		log.Warn("could not send SIGTERM", zap.Int("pid", pid), zap.Error(err))
	}

	// Wait up to 5 seconds for process to stop
	for i := 0; i < 10; i++ {
		time.Sleep(500 * time.Millisecond)
		if err := process.Signal(syscall.Signal(0)); err != nil {
			log.Info("orphaned PostgreSQL process stopped")
			os.Remove(pidFile)
			return
		}
	}

	log.Warn("process did not stop gracefully, sending SIGKILL", zap.Int("pid", pid))
	process.Kill()
	time.Sleep(500 * time.Millisecond)
	os.Remove(pidFile)
}

// isPortInUse checks if a port is already in use
func isPortInUse(port int) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Connect opens the configured database. Postgres runs embedded when the host
// is localhost with no password and no DATABASE_URL; SQLite opens a local file.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(cfg)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	if cfg.Driver == config.DriverSQLite {
		log.Info("📦 Mode: [SQLite]", zap.String("path", cfg.SQLitePath))
		return OpenSQLite(cfg.SQLitePath, gormCfg)
	}

	var embedded *embeddedpostgres.EmbeddedPostgres
	dsn := cfg.URL

	if dsn == "" {
		password := cfg.Password
		isEmbedded := cfg.Host == "localhost" && cfg.Password == ""

		if isEmbedded {
			log.Info("📦 Mode: [Embedded PostgreSQL] - initializing internal database")
			cleanupStaleEmbeddedPostgres(log)

			if isPortInUse(embeddedPort) {
				log.Warn("embedded port still in use, waiting for release", zap.Int("port", embeddedPort))
				for i := 0; i < 6; i++ {
					time.Sleep(500 * time.Millisecond)
					if !isPortInUse(embeddedPort) {
						break
					}
				}
				if isPortInUse(embeddedPort) {
					return nil, fmt.Errorf("port %d is still in use by another process", embeddedPort)
				}
			}

			embeddedCfg := embeddedpostgres.DefaultConfig().
				DataPath(embeddedDataPath).
				Port(uint32(embeddedPort)).
				Database(cfg.Database).
				Username(cfg.Username).
				Password("postgres")

			embedded = embeddedpostgres.NewDatabase(embeddedCfg)
			if err := embedded.Start(); err != nil {
				return nil, fmt.Errorf("failed to start embedded database: %w", err)
			}

			cfg.Port = strconv.Itoa(embeddedPort)
			password = "postgres"
			log.Info("✅ Embedded PostgreSQL process started", zap.Int("port", embeddedPort))
		} else {
			log.Info("🌐 Mode: [External PostgreSQL]", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		}

		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host,
			cfg.Port,
			cfg.Username,
			password,
			cfg.Database,
		)
	} else {
		log.Info("🌐 Mode: [External PostgreSQL] - using DATABASE_URL")
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		// Clean up embedded process if GORM connection fails
		if embedded != nil {
			_ = embedded.Stop()
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Info("✅ Database connection established")

	return &DB{
		DB:       db,
		dialect:  config.DriverPostgres,
		embedded: embedded,
	}, nil
}

// OpenSQLite opens a SQLite database at path (":memory:" or "file::memory:" for tests).
func OpenSQLite(path string, gormCfg *gorm.Config) (*DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	if dir := filepath.Dir(path); dir != "." && !strings.Contains(path, ":memory:") {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer; one connection also keeps in-memory databases shared.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	return &DB{DB: db, dialect: config.DriverSQLite}, nil
}

// Wrap adopts an already opened gorm handle (used by tests with mocked connections).
func Wrap(db *gorm.DB, dialect string) *DB {
	return &DB{DB: db, dialect: dialect}
}

// Close ensures the database connection and embedded process are shut down
func (db *DB) Close() error {
	if db.embedded != nil {
		_ = db.embedded.Stop()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate synchronizes the canonical schema
func (db *DB) Migrate() error {
	return db.DB.AutoMigrate(models.All()...)
}

func gormLogLevel(cfg config.DatabaseConfig) logger.LogLevel {
	if cfg.Alter {
		return logger.Silent
	}
	return logger.Warn
}
