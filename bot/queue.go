package bot

import "sync"

// userQueue runs updates of one user in arrival order while different users
// proceed in parallel. A user's worker exists only while it has pending work.
type userQueue struct {
	mu      sync.Mutex
	pending map[int64][]inbound
	closed  bool
	wg      sync.WaitGroup
	handle  func(inbound)
}

func newUserQueue(handle func(inbound)) *userQueue {
	return &userQueue{
		pending: make(map[int64][]inbound),
		handle:  handle,
	}
}

// Push queues the update and reports false once the queue is closed.
func (q *userQueue) Push(in inbound) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	queued, busy := q.pending[in.userId]
	q.pending[in.userId] = append(queued, in)
	if !busy {
		q.wg.Add(1)
		go q.drain(in.userId)
	}
	return true
}

func (q *userQueue) drain(userId int64) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		queued := q.pending[userId]
		if len(queued) == 0 {
			delete(q.pending, userId)
			q.mu.Unlock()
			return
		}
		in := queued[0]
		q.pending[userId] = queued[1:]
		q.mu.Unlock()

		q.handle(in)
	}
}

// Close rejects further updates; already queued ones still run.
func (q *userQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Wait blocks until every worker has drained. Call it after Close.
func (q *userQueue) Wait() {
	q.wg.Wait()
}
