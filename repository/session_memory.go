package repository

import (
	"context"
	"sync"

	"pos-storefront/cart"
	"pos-storefront/model"
)

// MemorySessions is the in-process session store used when no Redis address
// is configured. State is lost on restart.
type MemorySessions struct {
	mu     sync.Mutex
	carts  map[string]*cart.Tracker
	themes map[string]string
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{
		carts:  make(map[string]*cart.Tracker),
		themes: make(map[string]string),
	}
}

func (m *MemorySessions) tracker(sessionID string) *cart.Tracker {
	t, ok := m.carts[sessionID]
	if !ok {
		t = cart.NewTracker()
		m.carts[sessionID] = t
	}
	return t
}

func (m *MemorySessions) Quantities(_ context.Context, sessionID string) (map[int64]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker(sessionID).Quantities(), nil
}

func (m *MemorySessions) Add(_ context.Context, sessionID string, productID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker(sessionID).Add(productID), nil
}

func (m *MemorySessions) Remove(_ context.Context, sessionID string, productID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker(sessionID).Remove(productID), nil
}

func (m *MemorySessions) Reset(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracker(sessionID).Reset()
	return nil
}

func (m *MemorySessions) Theme(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.themes[sessionID]; ok {
		return t, nil
	}
	return model.ThemeDark, nil
}

func (m *MemorySessions) ToggleTheme(_ context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := model.ThemeLight
	if m.themes[sessionID] == model.ThemeLight {
		next = model.ThemeDark
	}
	m.themes[sessionID] = next
	return next, nil
}
