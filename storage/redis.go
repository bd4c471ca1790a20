package storage

import (
	"errors"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/yinyihanbing/gutils/logs"
)

type RedisCli struct {
	config *RedisConfig
	pool   *redis.Pool
}

type RedisConfig struct {
	StrAddr     string                     // redis connection string
	StrPwd      string                     // redis password
	MaxIdle     int                        // max idle connections
	MaxActive   int                        // max active connections, 0 means no limit
	IdleTimeout time.Duration              // max idle timeout
	Wait        bool                       // block when max connections are reached
	DB          int                        // redis database index, default is 0
	Dial        func() (redis.Conn, error) // overrides dialing StrAddr when set
}

// newRedisClipool creates a new redis connection pool.
func newRedisClipool(cfg *RedisConfig) (*RedisCli, error) {
	if cfg == nil || (cfg.StrAddr == "" && cfg.Dial == nil) {
		return nil, errors.New("redis address required")
	}

	dial := cfg.Dial
	if dial == nil {
		dial = func() (redis.Conn, error) {
			return redis.Dial("tcp", cfg.StrAddr, redis.DialDatabase(cfg.DB), redis.DialPassword(cfg.StrPwd))
		}
	}

	clipool := &redis.Pool{
		MaxIdle:     cfg.MaxIdle,
		MaxActive:   cfg.MaxActive,
		IdleTimeout: cfg.IdleTimeout,
		Wait:        cfg.Wait,
		Dial:        dial,
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
	return &RedisCli{
		pool:   clipool,
		config: cfg,
	}, nil
}

// Destroy closes the redis connection pool.
func (rc *RedisCli) Destroy() {
	if rc.pool != nil {
		if err := rc.pool.Close(); err != nil {
			logs.Error("redis pool close error: %v", err)
		}
	}
}

// Do executes a redis command.
func (rc *RedisCli) Do(commandName string, args ...any) (any, error) {
	conn := rc.pool.Get()
	defer conn.Close()

	reply, err := conn.Do(commandName, args...)
	if err != nil {
		logs.Error("redis do error! command=%v, err=%v", commandName, err)
		return nil, err
	}
	return reply, nil
}

// DoHGet returns a hash field as a string. ok is false when the field does not exist.
func (rc *RedisCli) DoHGet(key any, field any) (v string, ok bool, err error) {
	conn := rc.pool.Get()
	defer conn.Close()

	v, err = redis.String(conn.Do("HGET", key, field))
	if err == redis.ErrNil {
		return "", false, nil
	}
	if err != nil {
		logs.Error("redis dohget error! key=%v, field=%v, err=%v", key, field, err)
		return "", false, err
	}
	return v, true, nil
}

// DoHSet sets a hash field.
func (rc *RedisCli) DoHSet(key any, field any, v any) error {
	conn := rc.pool.Get()
	defer conn.Close()

	if _, err := conn.Do("HSET", key, field, v); err != nil {
		logs.Error("redis dohset error! key=%v, err=%v", key, err)
		return err
	}
	return nil
}

// DoRPush pushes an element to the end of a list.
func (rc *RedisCli) DoRPush(key any, v any) (err error) {
	conn := rc.pool.Get()
	defer conn.Close()

	_, err = conn.Do("RPUSH", key, v)
	if err != nil {
		logs.Error("redis dorpush error! key=%v, err=%v", key, err)
		return err
	}

	return nil
}

// DoLLen returns the length of a list.
func (rc *RedisCli) DoLLen(key any) (int64, error) {
	conn := rc.pool.Get()
	defer conn.Close()

	n, err := redis.Int64(conn.Do("LLEN", key))
	if err != nil {
		logs.Error("redis dollen error! key=%v, err=%v", key, err)
		return 0, err
	}
	return n, nil
}

// DoLRange returns list elements between start and stop as raw bytes.
func (rc *RedisCli) DoLRange(key any, start, stop int) ([][]byte, error) {
	conn := rc.pool.Get()
	defer conn.Close()

	v, err := redis.ByteSlices(conn.Do("LRANGE", key, start, stop))
	if err != nil {
		logs.Error("redis dolrange error! key=%v, err=%v", key, err)
		return nil, err
	}
	return v, nil
}
