package sim

// waiter is one outstanding semaphore request. A holder has at most one
// registered request per semaphore; re-requesting replaces the amount but
// keeps the original registration position.
type waiter struct {
	holder *Worker
	amount int
}

// Semaphore is a counting semaphore over virtual time. Holders poll via
// Get; Post performs a best-effort single wake of the earliest-registered
// waiter rather than a broadcast. Wake policy is part of the simulated
// behavior: a later, satisfiable waiter is not woken while the head
// waiter's larger request remains unmet.
type Semaphore struct {
	sim     *Simulator
	value   int
	waiters []waiter
}

// NewSemaphore creates a semaphore with the given initial value,
// attached to the simulator that delivers its wakes.
func NewSemaphore(sim *Simulator, value int) *Semaphore {
	return &Semaphore{sim: sim, value: value}
}

// Value returns the current free units.
func (s *Semaphore) Value() int {
	return s.value
}

// Post releases amount units. If the earliest-registered waiter's request
// now fits, that waiter (and only that waiter) is scheduled to retry at
// the current clock.
func (s *Semaphore) Post(amount int) {
	s.value += amount
	if len(s.waiters) > 0 && s.waiters[0].amount <= s.value {
		s.sim.wake(s.waiters[0].holder)
	}
}

// Get attempts to take amount units for holder. On success any pending
// request by holder is cleared and true is returned. On failure the
// request is registered (or updated in place, preserving registration
// order) and false is returned; the holder must retry on a later wake.
func (s *Semaphore) Get(holder *Worker, amount int) bool {
	if s.value >= amount {
		s.value -= amount
		if i := s.findWaiter(holder); i >= 0 {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
		}
		return true
	}
	if i := s.findWaiter(holder); i >= 0 {
		s.waiters[i].amount = amount
	} else {
		s.waiters = append(s.waiters, waiter{holder: holder, amount: amount})
	}
	return false
}

func (s *Semaphore) findWaiter(holder *Worker) int {
	for i, w := range s.waiters {
		if w.holder == holder {
			return i
		}
	}
	return -1
}
