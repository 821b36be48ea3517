package cache

import (
	"fmt"
	"time"
)

// entry is one resident value. prev/next link it into the recency list;
// head is the most recently used entry.
type entry struct {
	key        string
	source     Key
	value      any
	insertedAt time.Time
	writtenAt  time.Time
	refreshing bool

	prev *entry
	next *entry
}

// memoryStore is an LRU map of entries. It is not safe for concurrent use;
// Instance serializes access.
type memoryStore struct {
	capacity int
	entries  map[string]*entry
	head     *entry
	tail     *entry
}

func newMemoryStore(capacity int) *memoryStore {
	return &memoryStore{
		capacity: capacity,
		entries:  make(map[string]*entry, min(capacity, 1024)),
	}
}

// get returns the entry and marks it most recently used.
func (s *memoryStore) get(key string) (*entry, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	s.moveToFront(e)
	return e, true
}

// peek returns the entry without touching recency.
func (s *memoryStore) peek(key string) (*entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// put inserts or replaces the value under key and returns the number of
// entries evicted to stay within capacity.
func (s *memoryStore) put(key string, source Key, value any, now time.Time) int {
	if e, ok := s.entries[key]; ok {
		e.source = source
		e.value = value
		e.writtenAt = now
		e.refreshing = false
		s.moveToFront(e)
		return 0
	}
	e := &entry{
		key:        key,
		source:     source,
		value:      value,
		insertedAt: now,
		writtenAt:  now,
	}
	s.entries[key] = e
	s.addFront(e)

	evicted := 0
	for len(s.entries) > s.capacity {
		s.evict()
		evicted++
	}
	return evicted
}

func (s *memoryStore) remove(key string) {
	if e, ok := s.entries[key]; ok {
		s.unlink(e)
		delete(s.entries, key)
	}
}

func (s *memoryStore) clear() {
	s.entries = make(map[string]*entry)
	s.head = nil
	s.tail = nil
}

func (s *memoryStore) len() int { return len(s.entries) }

// keys returns resident keys from most to least recently used.
func (s *memoryStore) keys() []string {
	out := make([]string, 0, len(s.entries))
	for e := s.head; e != nil; e = e.next {
		out = append(out, e.key)
	}
	return out
}

// approxBytes estimates the memory held by keys and values.
func (s *memoryStore) approxBytes() int64 {
	var total int64
	for _, e := range s.entries {
		total += int64(len(e.key)) + valueSize(e.value) + entryOverhead
	}
	return total
}

// entryOverhead approximates the fixed cost of an entry: times, pointers,
// flags and the map slot.
const entryOverhead = 96

func valueSize(v any) int64 {
	switch val := v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case string:
		return int64(len(val))
	case []byte:
		return int64(len(val))
	case fmt.Stringer:
		return int64(len(val.String()))
	default:
		return int64(len(fmt.Sprint(val)))
	}
}

func (s *memoryStore) evict() {
	if s.tail == nil {
		return
	}
	e := s.tail
	s.unlink(e)
	delete(s.entries, e.key)
}

func (s *memoryStore) addFront(e *entry) {
	e.prev = nil
	e.next = s.head
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *memoryStore) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}

func (s *memoryStore) moveToFront(e *entry) {
	if s.head == e {
		return
	}
	s.unlink(e)
	s.addFront(e)
}
