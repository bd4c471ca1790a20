package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/yinyihanbing/gutils/logs"
)

// RedisSource looks configuration values up in a redis hash.
type RedisSource struct {
	Cli  *RedisCli
	Hash string
}

// Lookup returns the hash field named key.
func (s *RedisSource) Lookup(key string) (string, bool) {
	if s.Cli == nil {
		return "", false
	}
	v, ok, err := s.Cli.DoHGet(s.Hash, key)
	if err != nil {
		return "", false
	}
	return v, ok
}

// DbSource looks configuration values up in a table with name and value columns.
type DbSource struct {
	Cli   *DbCli
	Table string
}

// Lookup returns the value column of the row named key.
func (s *DbSource) Lookup(key string) (string, bool) {
	if s.Cli == nil {
		return "", false
	}
	var v string
	strSql := fmt.Sprintf("SELECT `value` FROM `%s` WHERE `name` = ?", s.Table)
	err := s.Cli.QueryRow(strSql, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	if err != nil {
		logs.Error("db source lookup error! table=%v, key=%v, err=%v", s.Table, key, err)
		return "", false
	}
	return v, true
}
