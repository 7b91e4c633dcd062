package memory

import (
	"context"
	"sync"
)

// Directory is a member directory kept in process. Members are active
// when registered unless deactivated.
type Directory struct {
	mu      sync.RWMutex
	members map[string]bool
}

func NewDirectory(memberIDs ...string) *Directory {
	d := &Directory{members: make(map[string]bool)}
	for _, id := range memberIDs {
		d.members[id] = true
	}
	return d
}

func (d *Directory) Register(memberID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[memberID] = true
}

func (d *Directory) SetActive(memberID string, active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[memberID] = active
}

func (d *Directory) Exists(ctx context.Context, memberID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.members[memberID]
	return ok, nil
}

func (d *Directory) IsActive(ctx context.Context, memberID string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.members[memberID], nil
}
