package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gomodule/redigo/redis"
)

// fakeRedis is an in-process store answering the commands this package sends.
type fakeRedis struct {
	mu     sync.Mutex
	hashes map[string]map[string][]byte
	lists  map[string][][]byte
	failOn string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		hashes: map[string]map[string][]byte{},
		lists:  map[string][][]byte{},
	}
}

func (f *fakeRedis) config() *RedisConfig {
	return &RedisConfig{
		MaxIdle: 2,
		Dial: func() (redis.Conn, error) {
			return &fakeConn{r: f}, nil
		},
	}
}

func bytesOf(v any) []byte {
	if b, ok := v.([]byte); ok {
		return append([]byte(nil), b...)
	}
	return []byte(fmt.Sprint(v))
}

type fakeConn struct {
	r *fakeRedis
}

func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Err() error   { return nil }

func (c *fakeConn) Do(cmd string, args ...any) (any, error) {
	f := c.r
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd = strings.ToUpper(cmd)
	if cmd == "" {
		return nil, nil
	}
	if cmd == f.failOn {
		return nil, errors.New("fake failure")
	}

	switch cmd {
	case "PING":
		return "PONG", nil
	case "HSET":
		key, field := fmt.Sprint(args[0]), fmt.Sprint(args[1])
		if f.hashes[key] == nil {
			f.hashes[key] = map[string][]byte{}
		}
		f.hashes[key][field] = bytesOf(args[2])
		return int64(1), nil
	case "HGET":
		v, ok := f.hashes[fmt.Sprint(args[0])][fmt.Sprint(args[1])]
		if !ok {
			return nil, nil
		}
		return v, nil
	case "RPUSH":
		key := fmt.Sprint(args[0])
		f.lists[key] = append(f.lists[key], bytesOf(args[1]))
		return int64(len(f.lists[key])), nil
	case "LLEN":
		return int64(len(f.lists[fmt.Sprint(args[0])])), nil
	case "LRANGE":
		// only full ranges are needed
		l := f.lists[fmt.Sprint(args[0])]
		reply := make([]any, len(l))
		for i, v := range l {
			reply[i] = v
		}
		return reply, nil
	}
	return nil, redis.Error("ERR unknown command " + cmd)
}

func (c *fakeConn) Send(cmd string, args ...any) error { return nil }
func (c *fakeConn) Flush() error                       { return nil }
func (c *fakeConn) Receive() (any, error)              { return nil, nil }
