package db

import (
	"database/sql"
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported values for Options.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options controls how the reporting database connection is initialised.
type Options struct {
	Driver string
	// Name is the database name for postgres and the file path for sqlite.
	Name string
	// DSN replaces the postgres connection string derived from Name.
	DSN          string
	Logger       logger.Interface
	BusyTimeout  time.Duration
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxIdle  time.Duration
	ConnMaxLife  time.Duration
}

// Open establishes a Gorm connection for the configured driver.
func Open(opts Options) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverPostgres
	}

	if strings.TrimSpace(opts.Name) == "" && strings.TrimSpace(opts.DSN) == "" {
		return nil, eris.New("database name is required")
	}

	gormLogger := opts.Logger
	if gormLogger == nil {
		gormLogger = logger.New(stdlog.New(os.Stderr, "\r\n", stdlog.LstdFlags), logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
		})
	}
	gormConfig := &gorm.Config{Logger: gormLogger}

	var (
		database *gorm.DB
		err      error
	)

	switch driver {
	case DriverPostgres:
		database, err = openPostgres(opts, gormConfig)
	case DriverSQLite:
		database, err = openSQLite(opts, gormConfig)
	default:
		return nil, eris.Errorf("unsupported database driver: %s", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := applyConnectionSettings(database, opts); err != nil {
		_ = Close(database)
		return nil, err
	}

	return database, nil
}

// PostgresDSN builds the libpq connection string for a database name. Host,
// port and credentials come from the PG* environment defaults.
func PostgresDSN(name string) string {
	return fmt.Sprintf("dbname=%s sslmode=disable", quoteDSNValue(name))
}

func openPostgres(opts Options, gormConfig *gorm.Config) (*gorm.DB, error) {
	dsn := strings.TrimSpace(opts.DSN)
	if dsn == "" {
		dsn = PostgresDSN(strings.TrimSpace(opts.Name))
	}

	connector, err := pq.NewConnector(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "parsing postgres connection string")
	}
	sqlDB := sql.OpenDB(connector)

	database, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
	if err != nil {
		_ = sqlDB.Close()
		return nil, eris.Wrap(err, "opening postgres database")
	}

	return database, nil
}

func openSQLite(opts Options, gormConfig *gorm.Config) (*gorm.DB, error) {
	path := strings.TrimSpace(opts.Name)
	if path == "" {
		return nil, eris.New("sqlite database path is required")
	}

	if opts.BusyTimeout == 0 {
		opts.BusyTimeout = 5 * time.Second
	}

	busyTimeoutMillis := opts.BusyTimeout / time.Millisecond
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=1", path, busyTimeoutMillis)

	database, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, eris.Wrap(err, "opening sqlite database")
	}

	if err := database.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d;", int(busyTimeoutMillis))).Error; err != nil {
		_ = Close(database)
		return nil, eris.Wrap(err, "configuring busy timeout pragma")
	}

	return database, nil
}

func applyConnectionSettings(db *gorm.DB, opts Options) error {
	sqlDB, err := SQLDB(db)
	if err != nil {
		return eris.Wrap(err, "applying connection settings")
	}

	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}

	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}

	if opts.ConnMaxIdle > 0 {
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdle)
	}

	if opts.ConnMaxLife > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLife)
	}

	return nil
}

// Close releases the underlying database resources.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := SQLDB(db)
	if err != nil {
		return eris.Wrap(err, "retrieving sql.DB for close")
	}

	if err := sqlDB.Close(); err != nil {
		return eris.Wrap(err, "closing database connection")
	}

	return nil
}

// SQLDB exposes the pool behind a Gorm handle.
func SQLDB(db *gorm.DB) (*sql.DB, error) {
	if db == nil {
		return nil, eris.New("gorm.DB is nil")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, eris.Wrap(err, "retrieving sql.DB")
	}

	return sqlDB, nil
}

// libpq values containing spaces or quotes must be single-quoted.
func quoteDSNValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}

	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return "'" + escaped + "'"
}
