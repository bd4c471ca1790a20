package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/yinyihanbing/gutils/logs"
)

// DbCli represents a database client with configuration and connection pool.
type DbCli struct {
	config *DbConfig
	db     *sql.DB
	DbName string
}

// DbConfig holds the configuration for database connection.
type DbConfig struct {
	StrAddr         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// newDbCli initializes a new database client with the given configuration.
// returns the database client or an error if the connection fails.
func newDbCli(cfg *DbConfig) (db *DbCli, err error) {
	var d *sql.DB
	d, err = sql.Open("mysql", cfg.StrAddr)
	if err != nil {
		logs.Error("mysql connection failed: %v %v", cfg.StrAddr, err)
		return nil, fmt.Errorf("mysql connection failed: %v", err)
	}
	if err = d.Ping(); err != nil {
		d.Close()
		logs.Error("mysql connection failed: %v %v", cfg.StrAddr, err)
		return nil, fmt.Errorf("mysql connection failed: %v", err)
	}
	if cfg.MaxIdleConns != 0 {
		d.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns != 0 {
		d.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime != 0 {
		d.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db = &DbCli{
		config: cfg,
		db:     d,
	}
	db.DbName = db.CurrentDatabase()

	logs.Info("mysql connection success: %v", cfg.StrAddr)

	return db, nil
}

// Destroy closes the database connection.
func (dc *DbCli) Destroy() {
	if dc.db != nil {
		dc.db.Close()
	}
}

// CurrentDatabase retrieves the name of the currently connected database.
func (dc *DbCli) CurrentDatabase() (name string) {
	if err := dc.db.QueryRow("SELECT DATABASE()").Scan(&name); err != nil {
		logs.Error("current database error: %v", err)
	}
	return
}

// HasTable checks if a table exists in the current database.
func (dc *DbCli) HasTable(tableName string) (bool, error) {
	var count int
	err := dc.db.QueryRow(
		"SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
		dc.DbName, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has table error: %v, %v", tableName, err)
	}
	return count > 0, nil
}

// Exec executes a SQL query with optional arguments.
// returns the result or an error.
func (dc *DbCli) Exec(query string, args ...any) (sql.Result, error) {
	result, err := dc.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("execution error: %v; %v", query, err)
	}
	logs.Debug("%v", query)
	return result, nil
}

// QueryRow executes a query and returns a single row.
func (dc *DbCli) QueryRow(query string, args ...any) *sql.Row {
	return dc.db.QueryRow(query, args...)
}
