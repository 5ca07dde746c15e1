package sim

import "firefleet-sim/internal/aircraft"

// BaseQueue orders aircraft waiting at base by arrival. Membership is
// unbounded; the service capacity only limits whose turnaround timer runs.
type BaseQueue struct {
	ids []int
}

// Push appends an arriving aircraft to the back of the queue.
func (q *BaseQueue) Push(id int) {
	q.ids = append(q.ids, id)
}

// Len returns the number of queued aircraft.
func (q *BaseQueue) Len() int {
	return len(q.ids)
}

// Front returns the aircraft at the head of the queue.
func (q *BaseQueue) Front() (int, bool) {
	if len(q.ids) == 0 {
		return 0, false
	}
	return q.ids[0], true
}

// PopFront removes and returns the aircraft at the head of the queue.
func (q *BaseQueue) PopFront() (int, bool) {
	id, ok := q.Front()
	if !ok {
		return 0, false
	}
	q.ids = q.ids[1:]
	return id, true
}

// ServiceWindow returns the ids of the first k queued aircraft, the ones
// occupying a servicing bay.
func (q *BaseQueue) ServiceWindow(k int) []int {
	k = max(0, min(k, len(q.ids)))
	return q.ids[:k:k]
}

// IDs returns a copy of the queue in arrival order.
func (q *BaseQueue) IDs() []int {
	out := make([]int, len(q.ids))
	copy(out, q.ids)
	return out
}

// Reset empties the queue.
func (q *BaseQueue) Reset() {
	q.ids = q.ids[:0]
}

// Service runs one minute of base operations: the aircraft in the service
// window get their turnaround timer decremented, then finished aircraft are
// released from the head of the queue. Released aircraft stay AtBase until
// their own state machine departs. Ids index into fleet.
func (q *BaseQueue) Service(capacity int, fleet []*aircraft.Aircraft) []int {
	for _, id := range q.ServiceWindow(capacity) {
		fleet[id].TimeToTransition--
	}
	var released []int
	for {
		id, ok := q.Front()
		if !ok || fleet[id].TimeToTransition > 0 {
			break
		}
		q.PopFront()
		released = append(released, id)
	}
	return released
}
