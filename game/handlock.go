package game

import (
	"sync"

	cmap "github.com/orcaman/concurrent-map"
)

type handLock struct {
	mu   sync.Mutex
	refs int
}

// handLocks serializes work per hand id. Entries are created on first use
// and dropped once nobody holds or waits on them.
type handLocks struct {
	locks cmap.ConcurrentMap
}

func newHandLocks() *handLocks {
	return &handLocks{locks: cmap.New()}
}

// Lock blocks until the caller owns the hand and returns the release func.
func (l *handLocks) Lock(handID string) func() {
	v := l.locks.Upsert(handID, nil, func(exist bool, valueInMap interface{}, _ interface{}) interface{} {
		if exist {
			hl := valueInMap.(*handLock)
			hl.refs++
			return hl
		}
		return &handLock{refs: 1}
	})
	hl := v.(*handLock)
	hl.mu.Lock()
	return func() {
		hl.mu.Unlock()
		l.locks.RemoveCb(handID, func(_ string, v interface{}, exists bool) bool {
			if !exists {
				return false
			}
			held := v.(*handLock)
			held.refs--
			return held.refs == 0
		})
	}
}

func (l *handLocks) Count() int {
	return l.locks.Count()
}
