package session

import "github.com/vovakirdan/ichi/internal/proto"

// Queue holds intents accepted while the connection is still being established.
// It is owned by the session loop and is not safe for concurrent use.
type Queue struct {
	items []proto.Intent
}

// Enqueue appends an intent.
func (q *Queue) Enqueue(in proto.Intent) {
	q.items = append(q.items, in)
}

// DrainInOrder removes and returns every queued intent in insertion order.
func (q *Queue) DrainInOrder() []proto.Intent {
	items := q.items
	q.items = nil
	return items
}

// Clear drops every queued intent.
func (q *Queue) Clear() {
	q.items = nil
}

// Len returns the number of queued intents.
func (q *Queue) Len() int {
	return len(q.items)
}
