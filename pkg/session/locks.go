package session

import "sync"

// Locks hands out one RWMutex per session id. A session's index directory
// is single-writer: handlers take the write lock around index updates and
// the read lock around retrieval, so concurrent reads proceed while writes
// are exclusive.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sync.RWMutex)}
}

func (l *Locks) Get(sessionID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[sessionID]
	if !ok {
		lock = &sync.RWMutex{}
		l.locks[sessionID] = lock
	}
	return lock
}
