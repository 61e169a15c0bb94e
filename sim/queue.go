package sim

// ResourceQueue is a bounded FIFO hand-off channel between two pipeline
// stages. Two independent semaphores back it: queueSem counts buffered
// items (consumers block on it when the buffer is empty), poolSem is the
// admission pool (producers block on it when too much work is in flight
// downstream). Invariant: queueSem.Value() == Len() at all times, and
// poolSem never exceeds its initial pool size nor goes negative.
type ResourceQueue struct {
	queueSem *Semaphore
	poolSem  *Semaphore
	buffer   []*WorkItem
	poolSize int
}

// NewResourceQueue creates a queue with the given admission pool size.
func NewResourceQueue(sim *Simulator, poolSize int) *ResourceQueue {
	return &ResourceQueue{
		queueSem: NewSemaphore(sim, 0),
		poolSem:  NewSemaphore(sim, poolSize),
		poolSize: poolSize,
	}
}

// Get claims amount units of admission capacity for holder, registering
// holder as a waiter when the pool cannot cover the request.
func (q *ResourceQueue) Get(holder *Worker, amount int) bool {
	return q.poolSem.Get(holder, amount)
}

// Done releases amount units back to the admission pool. Called by the
// consumer once it has finished with an item of that size.
func (q *ResourceQueue) Done(amount int) {
	q.poolSem.Post(amount)
}

// Push appends item to the buffer and signals availability.
func (q *ResourceQueue) Push(item *WorkItem) {
	q.buffer = append(q.buffer, item)
	q.queueSem.Post(1)
}

// Pop dequeues the head item, or returns nil when the buffer is empty,
// in which case holder is registered for a wake on the next Push.
func (q *ResourceQueue) Pop(holder *Worker) *WorkItem {
	if !q.queueSem.Get(holder, 1) {
		return nil
	}
	item := q.buffer[0]
	q.buffer = q.buffer[1:]
	return item
}

// Spare returns the current free admission capacity. Used purely as a
// load-balancing signal when a worker picks an output queue.
func (q *ResourceQueue) Spare() int {
	return q.poolSem.Value()
}

// Len returns the number of buffered items.
func (q *ResourceQueue) Len() int {
	return len(q.buffer)
}

// PoolSize returns the configured admission pool size.
func (q *ResourceQueue) PoolSize() int {
	return q.poolSize
}
