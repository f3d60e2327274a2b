package markup

import "github.com/emirpasic/gods/lists/doublylinkedlist"

// Queue holds the source lines of one compile pass as a double-ended queue.
// Block nodes consume lines from the front; annotations append generated
// lines to the back while the pass is still running.
type Queue struct {
	lines *doublylinkedlist.List
}

// NewQueue creates a Queue holding lines in order.
func NewQueue(lines []string) *Queue {
	q := &Queue{lines: doublylinkedlist.New()}
	for _, l := range lines {
		q.lines.Add(l)
	}
	return q
}

// Len returns the number of lines not yet consumed.
func (q *Queue) Len() int {
	return q.lines.Size()
}

// Empty reports whether every line has been consumed.
func (q *Queue) Empty() bool {
	return q.lines.Empty()
}

// Front returns the next line without consuming it.
func (q *Queue) Front() (string, bool) {
	v, ok := q.lines.Get(0)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// PopFront consumes and returns the next line.
func (q *Queue) PopFront() (string, bool) {
	line, ok := q.Front()
	if ok {
		q.lines.Remove(0)
	}
	return line, ok
}

// PushBack appends a line to be consumed after every line already queued.
func (q *Queue) PushBack(line string) {
	q.lines.Add(line)
}
