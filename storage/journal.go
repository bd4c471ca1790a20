package storage

import (
	"encoding/binary"
	"errors"
	"math"
	"sync/atomic"

	"github.com/yinyihanbing/gutils/logs"
	"google.golang.org/protobuf/proto"

	"sessevent/event"
)

// Journal is an event.Observer that appends every protobuf packet it
// receives to a redis list. Each entry is the message full name prefixed by
// its length as a big-endian uint16, followed by the encoded message.
// Events and packets that are not protobuf messages are not journaled.
type Journal struct {
	Cli *RedisCli
	Key string

	journaled atomic.Uint64
	skipped   atomic.Uint64
}

// NewJournal creates a journal writing to the list key.
func NewJournal(cli *RedisCli, key string) *Journal {
	return &Journal{Cli: cli, Key: key}
}

// OnEvent ignores session events.
func (j *Journal) OnEvent(s event.Session, e event.Event) {}

// OnPacket appends p to the list when it is a protobuf message.
func (j *Journal) OnPacket(s event.Session, p event.Packet) {
	msg, ok := p.(proto.Message)
	if !ok {
		j.skipped.Add(1)
		return
	}
	entry, err := EncodeEntry(msg)
	if err != nil {
		logs.Error("journal encode error! session=%v, err=%v", s, err)
		j.skipped.Add(1)
		return
	}
	if err := j.Cli.DoRPush(j.Key, entry); err != nil {
		j.skipped.Add(1)
		return
	}
	j.journaled.Add(1)
}

// Journaled returns how many packets were appended.
func (j *Journal) Journaled() uint64 {
	return j.journaled.Load()
}

// Skipped returns how many packets were not appended.
func (j *Journal) Skipped() uint64 {
	return j.skipped.Load()
}

// Entries reads back every journaled entry.
func (j *Journal) Entries() ([][]byte, error) {
	return j.Cli.DoLRange(j.Key, 0, -1)
}

// EncodeEntry frames msg as a journal entry.
func EncodeEntry(msg proto.Message) ([]byte, error) {
	name := string(msg.ProtoReflect().Descriptor().FullName())
	if len(name) > math.MaxUint16 {
		return nil, errors.New("message name too long")
	}
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, err
	}

	entry := make([]byte, 2+len(name)+len(data))
	binary.BigEndian.PutUint16(entry, uint16(len(name)))
	copy(entry[2:], name)
	copy(entry[2+len(name):], data)
	return entry, nil
}

// DecodeEntry splits a journal entry into the message full name and its encoding.
func DecodeEntry(entry []byte) (name string, data []byte, err error) {
	if len(entry) < 2 {
		return "", nil, errors.New("journal entry too short")
	}
	n := int(binary.BigEndian.Uint16(entry))
	if len(entry) < 2+n {
		return "", nil, errors.New("journal entry too short")
	}
	return string(entry[2 : 2+n]), entry[2+n:], nil
}
