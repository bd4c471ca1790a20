package storage

import (
	"fmt"
	"os"
	"testing"
	"time"
)

// TestDbSource runs against a live mysql server named by SESSEVENT_MYSQL_DSN.
func TestDbSource(t *testing.T) {
	dsn := os.Getenv("SESSEVENT_MYSQL_DSN")
	if dsn == "" {
		t.Skip("SESSEVENT_MYSQL_DSN not set")
	}

	cli, err := newDbCli(&DbConfig{StrAddr: dsn, MaxOpenConns: 2, ConnMaxLifetime: time.Minute})
	if err != nil {
		t.Fatalf("newDbCli() error = %v", err)
	}
	defer cli.Destroy()

	table := fmt.Sprintf("sessevent_conf_%d", time.Now().UnixNano())
	if _, err := cli.Exec(fmt.Sprintf("CREATE TABLE `%s` (`name` VARCHAR(64) PRIMARY KEY, `value` VARCHAR(64))", table)); err != nil {
		t.Fatalf("create table error = %v", err)
	}
	defer cli.Exec(fmt.Sprintf("DROP TABLE `%s`", table))

	if ok, err := cli.HasTable(table); !ok || err != nil {
		t.Fatalf("HasTable() = %v, %v; want true, nil", ok, err)
	}
	if _, err := cli.Exec(fmt.Sprintf("INSERT INTO `%s` VALUES (?, ?)", table), "event.thread_pool_size", "4"); err != nil {
		t.Fatalf("insert error = %v", err)
	}

	src := &DbSource{Cli: cli, Table: table}
	if v, ok := src.Lookup("event.thread_pool_size"); v != "4" || !ok {
		t.Errorf("Lookup() = %q, %v; want \"4\", true", v, ok)
	}
	if _, ok := src.Lookup("missing"); ok {
		t.Error("Lookup() found a missing row")
	}
}
