package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// A zero expiresAt never expires.
func (entry memoryEntry) expired(now time.Time) bool {
	return !entry.expiresAt.IsZero() && !now.Before(entry.expiresAt)
}

const memorySweepInterval = time.Minute

// NewDriverMemory keeps entries in process memory. Expired entries are
// dropped by Get, and swept from the whole map at most once a minute by Set.
func NewDriverMemory() (Driver, error) {
	return &driverMemory{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}, nil
}

type driverMemory struct {
	mutex     sync.Mutex
	entries   map[string]memoryEntry
	lastSweep time.Time
	now       func() time.Time
}

func (driver *driverMemory) Delete(ctx context.Context, key string) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	delete(driver.entries, key)

	return nil
}

func (driver *driverMemory) Get(ctx context.Context, key string) (string, error) {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	entry, found := driver.entries[key]
	if !found {
		return "", ErrNotFound
	}

	if entry.expired(driver.now()) {
		delete(driver.entries, key)
		return "", ErrNotFound
	}

	return entry.value, nil
}

func (driver *driverMemory) Set(ctx context.Context, key string, value string, duration time.Duration) error {
	driver.mutex.Lock()
	defer driver.mutex.Unlock()

	entry := memoryEntry{
		value: value,
	}
	now := driver.now()
	if duration > 0 {
		entry.expiresAt = now.Add(duration)
	}

	driver.entries[key] = entry

	if now.Sub(driver.lastSweep) >= memorySweepInterval {
		driver.sweep(now)
	}

	return nil
}

// sweep expects the mutex to be held.
func (driver *driverMemory) sweep(now time.Time) {
	driver.lastSweep = now
	for key, entry := range driver.entries {
		if entry.expired(now) {
			delete(driver.entries, key)
		}
	}
}
