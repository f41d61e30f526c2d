package service

import (
	"strconv"
	"sync"
)

// pathLocks serializes indexing of the same file while leaving different
// files free to run concurrently.
type pathLocks struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu      sync.Mutex
	waiters int
}

// lock blocks until the caller holds the lock for fileName in folderID and
// returns the function that releases it.
func (p *pathLocks) lock(folderID int64, fileName string) func() {
	key := strconv.FormatInt(folderID, 10) + "/" + fileName

	p.mu.Lock()
	if p.locks == nil {
		p.locks = make(map[string]*pathLock)
	}
	l, ok := p.locks[key]
	if !ok {
		l = &pathLock{}
		p.locks[key] = l
	}
	l.waiters++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}
