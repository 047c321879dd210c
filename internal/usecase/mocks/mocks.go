package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/gobank/internal/usecase"
)

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockClock is a settable Clock.
type MockClock struct {
	NowFunc func() time.Time
	now     time.Time
	mu      sync.Mutex
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (m *MockClock) Now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// MockFlusher is a mock implementation of Flusher that counts flushes.
type MockFlusher struct {
	FlushFunc func(ctx context.Context) error
	mu        sync.Mutex
	calls     int
}

func NewMockFlusher() *MockFlusher {
	return &MockFlusher{}
}

func (m *MockFlusher) Flush(ctx context.Context) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.FlushFunc != nil {
		return m.FlushFunc(ctx)
	}
	return nil
}

// Calls returns how many times Flush ran.
func (m *MockFlusher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MemoryStore is an in-memory Store keeping the last saved snapshot.
type MemoryStore struct {
	LoadFunc func(ctx context.Context) (*usecase.Snapshot, error)
	SaveFunc func(ctx context.Context, snapshot *usecase.Snapshot) error
	mu       sync.Mutex
	saved    *usecase.Snapshot
	saves    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*usecase.Snapshot, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return &usecase.Snapshot{}, nil
	}
	return m.saved, nil
}

func (m *MemoryStore) Save(ctx context.Context, snapshot *usecase.Snapshot) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = snapshot
	m.saves++
	return nil
}

// Saves returns how many snapshots were saved.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
