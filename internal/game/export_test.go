package game

// Cached is the number of runs the manager holds in memory.
func (m *Manager) Cached() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.arena)
}
