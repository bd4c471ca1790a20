package storage

import (
	"fmt"
	"sync"
)

var storage = &Storage{
	redisClis: map[int]*RedisCli{},
	dbClis:    map[int]*DbCli{},
}

// Storage holds the redis and db clients, indexed by number, that
// configuration sources and packet journals are built on.
type Storage struct {
	mu        sync.RWMutex
	redisClis map[int]*RedisCli
	dbClis    map[int]*DbCli
}

// GetRedisCli returns the redis client with index 0.
func GetRedisCli() *RedisCli {
	return GetRedisCliExt(0)
}

// GetRedisCliExt returns the redis client with the given index.
func GetRedisCliExt(idx int) *RedisCli {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	return storage.redisClis[idx]
}

// GetDbCli returns the db client with index 0.
func GetDbCli() *DbCli {
	return GetDbCliExt(0)
}

// GetDbCliExt returns the db client with the given index.
func GetDbCliExt(idx int) *DbCli {
	storage.mu.RLock()
	defer storage.mu.RUnlock()
	return storage.dbClis[idx]
}

// AddRedisCli creates a redis client under the given index.
func AddRedisCli(redisCliIdx int, redisCfg *RedisConfig) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	if _, ok := storage.redisClis[redisCliIdx]; ok {
		return fmt.Errorf("redis client with index %v already exists", redisCliIdx)
	}

	redisCli, err := newRedisClipool(redisCfg)
	if err != nil {
		return err
	}
	storage.redisClis[redisCliIdx] = redisCli

	return nil
}

// AddDbCli connects a db client under the given index.
func AddDbCli(dbCliIdx int, dbCfg *DbConfig) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()

	if _, ok := storage.dbClis[dbCliIdx]; ok {
		return fmt.Errorf("db client with index %v already exists", dbCliIdx)
	}

	dbCli, err := newDbCli(dbCfg)
	if err != nil {
		return err
	}
	storage.dbClis[dbCliIdx] = dbCli

	return nil
}

// Destroy releases all clients.
func Destroy() {
	storage.Destroy()
}

// Destroy closes every client and forgets them.
func (s *Storage) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dbCli := range s.dbClis {
		dbCli.Destroy()
	}
	for _, redisCli := range s.redisClis {
		redisCli.Destroy()
	}
	s.dbClis = map[int]*DbCli{}
	s.redisClis = map[int]*RedisCli{}
}
