// Package wire provides the master to display node protocol.
package wire

// The master node drives the display node over a serial line with
// newline-terminated text records. Each record is a list of fields
// separated by '|', the first field being the control code:
//
//	0|HH:MM|HH:MM   time update, the alarm field is "-" when no alarm is set
//	1|HH:MM         alarm being configured, extra fields are ignored
//	2|...           error report, payload is opaque
//
// There is no escaping, no checksum and no acknowledgement channel back to
// the master, so parsing is permissive: anything that can't be understood
// degrades to an Unknown command and leaves the display as it is.
//
// Producer: master node
// Consumer: display node
