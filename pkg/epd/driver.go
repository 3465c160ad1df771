// Package epd drives e-paper panels and decides how each frame is refreshed.
package epd

import (
	"fmt"
	"image"
)

// Driver is a synchronous e-paper panel driver.
// Each call returns when the panel is done.
type Driver interface {
	Init() error
	// Transfer loads a frame in panel layout without refreshing.
	Transfer(img image.Image) error
	// FullRefresh runs the full update waveform on the loaded frame.
	FullRefresh() error
	// QuickRefresh runs the partial update waveform on the loaded frame.
	QuickRefresh() error
	// Clear blanks the panel.
	Clear() error
	Sleep() error
}

// Bounder is implemented by drivers of a fixed size panel.
type Bounder interface {
	// Bounds returns the panel size in panel layout.
	Bounds() image.Rectangle
}

// TransferError is a failed driver operation.
type TransferError struct {
	Op  string
	Err error
}

// Error implements error.
func (e *TransferError) Error() string {
	return fmt.Sprintf("epd %s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *TransferError) Unwrap() error {
	return e.Err
}

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransferError{Op: op, Err: err}
}
