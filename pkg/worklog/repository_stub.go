package worklog

import (
	"context"
	"sort"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository for service tests.
type RepositoryStub struct {
	mu      sync.RWMutex
	entries map[int]WorkEntry
	nextId  int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{entries: make(map[int]WorkEntry), nextId: 1}
}

func (r *RepositoryStub) StoreEntry(ctx context.Context, employeeId int, entry WorkEntry) (WorkEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.Id = r.nextId
	entry.EmployeeId = employeeId
	r.nextId++
	r.entries[entry.Id] = entry
	return entry, nil
}

func (r *RepositoryStub) FinishEntry(ctx context.Context, employeeId int, id int, endTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok || entry.EmployeeId != employeeId || !entry.Running() {
		return ErrNoCurrentEntry
	}
	entry.EndTime = endTime
	r.entries[id] = entry
	return nil
}

func (r *RepositoryStub) FindCurrentEntry(ctx context.Context, employeeId int) (*WorkEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if entry.EmployeeId == employeeId && entry.Running() {
			e := entry
			return &e, nil
		}
	}
	return nil, nil
}

func (r *RepositoryStub) UpdateCurrentEntryStartTime(ctx context.Context, employeeId int, startTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.entries {
		if entry.EmployeeId == employeeId && entry.Running() {
			entry.StartTime = startTime
			r.entries[id] = entry
			return nil
		}
	}
	return ErrNoCurrentEntry
}

func (r *RepositoryStub) GetLastEntries(ctx context.Context, employeeId int, limit int) ([]WorkEntry, error) {
	entries := r.finished(employeeId)
	sort.Slice(entries, func(i, j int) bool { return entries[i].StartTime.After(entries[j].StartTime) })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *RepositoryStub) GetEntriesBetween(ctx context.Context, employeeId int, from time.Time, to time.Time) ([]WorkEntry, error) {
	var out []WorkEntry
	for _, entry := range r.finished(employeeId) {
		if entry.EndTime.After(from) && entry.StartTime.Before(to) {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *RepositoryStub) finished(employeeId int) []WorkEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []WorkEntry
	for _, entry := range r.entries {
		if entry.EmployeeId == employeeId && !entry.Running() {
			out = append(out, entry)
		}
	}
	return out
}
