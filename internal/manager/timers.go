package manager

// releaseTimer is a pending synthetic keyup for one key.
type releaseTimer struct {
	stop Stopper
	gen  uint64
}

// startTimer (re)schedules the release of id.
func (m *Manager) startTimer(id string) {
	m.stopTimer(id)
	if m.opts.ReleaseTimeout <= 0 {
		return
	}
	m.timerGen++
	gen := m.timerGen
	t := &releaseTimer{gen: gen}
	t.stop = m.opts.AfterFunc(m.opts.ReleaseTimeout, func() { m.releaseExpired(id, gen) })
	m.timers[id] = t
}

func (m *Manager) stopTimer(id string) {
	if t, ok := m.timers[id]; ok {
		if t.stop != nil {
			t.stop.Stop()
		}
		delete(m.timers, id)
	}
}

// releaseExpired synthesizes a keyup for a key whose timer fired. A timer
// replaced or stopped since it was scheduled does nothing.
func (m *Manager) releaseExpired(id string, gen uint64) {
	m.do(func() {
		t, ok := m.timers[id]
		if !ok || t.gen != gen {
			return
		}
		delete(m.timers, id)
		m.log.Debug("release timeout for %s", id)
		m.input(Keyup(id))
	})
}

// PendingReleases returns the number of scheduled release timers.
func (m *Manager) PendingReleases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}
