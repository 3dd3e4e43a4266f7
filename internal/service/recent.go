package service

import (
	"container/list"
	"sync"
)

// RecentSet remembers the last capacity fortune texts, evicting the oldest
type RecentSet struct {
	capacity int

	mu      sync.Mutex
	order   *list.List
	members map[string]*list.Element
}

// NewRecentSet creates an empty set holding at most capacity entries
func NewRecentSet(capacity int) *RecentSet {
	return &RecentSet{
		capacity: capacity,
		order:    list.New(),
		members:  make(map[string]*list.Element),
	}
}

// Contains reports whether text was seen recently
func (set *RecentSet) Contains(text string) bool {
	set.mu.Lock()
	defer set.mu.Unlock()
	_, ok := set.members[text]
	return ok
}

// Add records text. Re-adding a member keeps its original position.
func (set *RecentSet) Add(text string) {
	set.mu.Lock()
	defer set.mu.Unlock()

	if _, ok := set.members[text]; ok {
		return
	}
	set.members[text] = set.order.PushBack(text)

	for set.order.Len() > set.capacity {
		oldest := set.order.Front()
		set.order.Remove(oldest)
		delete(set.members, oldest.Value.(string))
	}
}

// Len returns the number of remembered texts
func (set *RecentSet) Len() int {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.order.Len()
}
