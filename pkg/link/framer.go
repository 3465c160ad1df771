package link

import (
	"bytes"

	"github.com/golang/glog"

	"github.com/dayrise/dayrise.go/pkg/wire"
)

// DefaultMaxRecordSize limits the pending partial record.
const DefaultMaxRecordSize = 256

// Framer accumulates bytes and splits them into records on wire.Terminator.
// It is not safe for concurrent use.
type Framer struct {
	// MaxRecordSize is the longest partial record kept without a terminator.
	// Zero means DefaultMaxRecordSize, negative means unlimited.
	MaxRecordSize int

	pending []byte
	// dropping discards incoming bytes up to the next terminator
	// after an overflow.
	dropping bool
}

// Write appends bytes. It never fails.
func (f *Framer) Write(p []byte) (int, error) {
	n := len(p)
	if f.dropping {
		pos := bytes.IndexByte(p, wire.Terminator)
		if pos < 0 {
			return n, nil
		}
		f.dropping = false
		p = p[pos+1:]
	}
	f.pending = append(f.pending, p...)
	f.checkOverflow()
	return n, nil
}

// WriteByte appends a single byte.
func (f *Framer) WriteByte(b byte) error {
	_, err := f.Write([]byte{b})
	return err
}

// Next returns the next complete record if any.
// The terminator and a trailing '\r' are stripped. Records longer than
// MaxRecordSize after stripping are skipped.
func (f *Framer) Next() (wire.Record, bool) {
	for {
		pos := bytes.IndexByte(f.pending, wire.Terminator)
		if pos < 0 {
			return "", false
		}
		line := f.pending[:pos]
		f.pending = f.pending[pos+1:]
		if len(f.pending) == 0 {
			f.pending = nil
		}
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		if max := f.maxSize(); max >= 0 && len(line) > max {
			glog.Warningf("link: record exceeds %d bytes, discarding %d bytes", max, len(line))
			continue
		}
		return wire.Record(line), true
	}
}

// Buffered returns the number of pending bytes.
func (f *Framer) Buffered() int {
	return len(f.pending)
}

// Reset discards pending bytes.
func (f *Framer) Reset() {
	f.pending = nil
	f.dropping = false
}

func (f *Framer) maxSize() int {
	if f.MaxRecordSize == 0 {
		return DefaultMaxRecordSize
	}
	return f.MaxRecordSize
}

func (f *Framer) checkOverflow() {
	max := f.maxSize()
	if max < 0 {
		return
	}
	// only the bytes after the last terminator form the partial record.
	partial := f.pending
	if pos := bytes.LastIndexByte(f.pending, wire.Terminator); pos >= 0 {
		partial = f.pending[pos+1:]
	}
	// a trailing '\r' may still be followed by the terminator.
	if n := len(partial); n > 0 && partial[n-1] == '\r' && n-1 <= max {
		return
	}
	if len(partial) <= max {
		return
	}
	glog.Warningf("link: partial record exceeds %d bytes, discarding %d bytes", max, len(partial))
	f.pending = f.pending[:len(f.pending)-len(partial)]
	if len(f.pending) == 0 {
		f.pending = nil
	}
	f.dropping = true
}
