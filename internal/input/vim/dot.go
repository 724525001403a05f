package vim

import "sync"

// DotBuffer remembers the last repeatable change for ".".
type DotBuffer struct {
	mu    sync.Mutex
	last  Command
	count int
}

// NewDotBuffer returns an empty buffer.
func NewDotBuffer() *DotBuffer {
	return &DotBuffer{}
}

// Record stores the repetition of cmd with the count it ran with. Commands
// without a repetition leave the buffer unchanged.
func (d *DotBuffer) Record(cmd Command, count int) {
	if cmd == nil {
		return
	}
	rep := cmd.Repetition()
	if rep == nil {
		return
	}
	d.mu.Lock()
	d.last, d.count = rep, count
	d.mu.Unlock()
}

// Last returns the recorded command and count, or nil when nothing has been
// recorded.
func (d *DotBuffer) Last() (Command, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last, d.count
}

// Replay runs the recorded command. A non-zero count replaces the recorded
// one. Replaying does not record anything.
func (d *DotBuffer) Replay(ctx Context, count int) error {
	rep, recorded := d.Last()
	if rep == nil {
		return nil
	}
	if count == 0 {
		count = recorded
	}
	return rep.WithCount(count).Execute(ctx)
}

// Clear forgets the recorded change.
func (d *DotBuffer) Clear() {
	d.mu.Lock()
	d.last, d.count = nil, 0
	d.mu.Unlock()
}
