package events

import (
	"bytes"
	"encoding/json"
	"sync"
)

// Journal accumulates events as JSON lines for archiving. Key material is
// never written.
type Journal struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	count int
}

// Handle appends e as one JSON line.
func (j *Journal) Handle(e Event) error {
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.buf.Write(line)
	j.buf.WriteByte('\n')
	j.count++
	return nil
}

// Len returns the number of journaled events.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.count
}

// Bytes returns a copy of the journal contents.
func (j *Journal) Bytes() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return bytes.Clone(j.buf.Bytes())
}
