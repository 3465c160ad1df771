// Package uart opens serial ports carrying wire records.
package uart

import (
	"fmt"

	"go.bug.st/serial"

	"github.com/dayrise/dayrise.go/pkg/link"
)

// DefaultBaudRate is the baud rate used by the master.
const DefaultBaudRate = 115200

// Open opens a serial port as 8N1.
func Open(path string, baud int) (serial.Port, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}
	return port, nil
}

// NewSource opens a serial port and wraps it as a record source.
// The port is closed when the source stops running.
func NewSource(path string, baud int) (*link.StreamSource, error) {
	port, err := Open(path, baud)
	if err != nil {
		return nil, err
	}
	return link.NewStreamSource("uart:"+path, port), nil
}

// Ports lists the serial ports on the system.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}
