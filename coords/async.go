package coords

import (
	"sync/atomic"

	"github.com/hupe1980/sparsego/internal/invariants"
)

// MaxAsyncAssigns is the number of first-insertions a worker may buffer
// in one Update before it must call JoinUpdate.
const MaxAsyncAssigns = 64

// Update is a thread-local batch of newly inserted positions awaiting a
// flush into the shared stack. Each worker of a parallel region owns one
// Update and flushes it whenever it fills up, plus one unconditional
// flush at the end of the region. An empty final flush still serves as
// the worker's synchronization point.
type Update struct {
	entries [MaxAsyncAssigns]uint32
	n       int
}

// Len returns the number of buffered positions.
func (u *Update) Len() int { return u.n }

// Full reports whether the batch must be flushed before the next
// AsyncAssign.
func (u *Update) Full() bool { return u.n == MaxAsyncAssigns }

// AsyncAssign inserts position i from a concurrent context and reports
// whether it was already present. Concurrent calls on overlapping
// positions are safe: an atomic test-and-set on the presence word lets
// exactly one caller observe the first insertion. That caller buffers i
// into its Update; the shared stack is not touched until JoinUpdate.
//
// u must not be full.
func (c *Coordinates) AsyncAssign(i int, u *Update) bool {
	invariants.Assertf(i < c.cap, "coords: position %d out of range [0,%d)", i, c.cap)
	invariants.Assertf(!u.Full(), "coords: update flushed too late")
	if !atomic.CompareAndSwapUint32(&c.assigned[i], 0, 1) {
		return true
	}
	u.entries[u.n] = uint32(i)
	u.n++
	return false
}

// JoinUpdate flushes a worker's batch into the shared stack under a
// short critical section and empties the batch. The flush cannot fail,
// so one call per batch suffices.
func (c *Coordinates) JoinUpdate(u *Update) {
	if u.n > 0 {
		c.mu.Lock()
		invariants.Assertf(c.n+u.n <= c.cap, "coords: stack overflow on flush")
		copy(c.stack[c.n:], u.entries[:u.n])
		c.n += u.n
		c.mu.Unlock()
	}
	u.n = 0
}
