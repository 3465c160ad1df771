package wire

import "strings"

const (
	// Separator separates fields in a record.
	Separator = '|'
	// Terminator terminates a record.
	Terminator = '\n'
)

// Record is a single record received from the master, without the terminator.
type Record string

// Fields is the list of fields of a record.
// Fields[0] is the control code, the rest is payload.
type Fields []string

// SplitFields splits a record on Separator.
// Empty fields are kept in place and nothing is trimmed.
func SplitFields(r Record) Fields {
	return Fields(strings.Split(string(r), string(Separator)))
}

// Code returns the control code field, or "" if there is none.
func (f Fields) Code() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// Join reassembles the fields into a record.
func (f Fields) Join() Record {
	return Record(strings.Join(f, string(Separator)))
}

// Bytes returns the record encoded for sending, terminator included.
func (r Record) Bytes() []byte {
	b := make([]byte, len(r)+1)
	copy(b, r)
	b[len(r)] = Terminator
	return b
}
