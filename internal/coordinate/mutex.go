package coordinate

import "sync"

// FIFOMutex is a mutual-exclusion lock that admits waiters strictly in
// arrival order. sync.Mutex makes no fairness promise under contention, and
// the finalize ordering contract requires queued builds to be served in the
// order their completion callbacks reached the lock.
type FIFOMutex struct {
	mu    sync.Mutex
	held  bool
	queue []chan struct{}
}

// Lock acquires the mutex, blocking behind all earlier waiters.
func (m *FIFOMutex) Lock() {
	m.mu.Lock()
	if !m.held {
		m.held = true
		m.mu.Unlock()
		return
	}
	ch := make(chan struct{})
	m.queue = append(m.queue, ch)
	m.mu.Unlock()
	<-ch
}

// Unlock releases the mutex, handing ownership directly to the head waiter
// when one is queued.
func (m *FIFOMutex) Unlock() {
	m.mu.Lock()
	if !m.held {
		m.mu.Unlock()
		panic("coordinate: unlock of unheld FIFOMutex")
	}
	if len(m.queue) > 0 {
		ch := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		close(ch)
		return
	}
	m.held = false
	m.mu.Unlock()
}

// Waiters reports how many builds are currently queued behind the holder.
func (m *FIFOMutex) Waiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Held reports whether the mutex is currently held.
func (m *FIFOMutex) Held() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}
