package link

import (
	"context"
	"io"

	"github.com/golang/glog"

	"github.com/dayrise/dayrise.go/pkg/framework"
)

// StreamSource reads records from a byte stream such as a serial port.
type StreamSource struct {
	*Inbox
	Reader io.Reader
	Name   string
}

// NewStreamSource creates a StreamSource reading from r.
func NewStreamSource(name string, r io.Reader) *StreamSource {
	return &StreamSource{Inbox: NewInbox(DefaultInboxSize), Reader: r, Name: name}
}

// Run implements framework.Runnable. It reads until the stream fails or
// ctx is done. If the reader is an io.Closer it is closed on exit.
func (s *StreamSource) Run(ctx context.Context) error {
	glog.Infof("link[%s]: reading", s.Name)
	closer, ok := s.Reader.(io.Closer)
	if !ok {
		closer = io.NopCloser(nil)
	}
	err := framework.RunWithContextCloser(ctx, closer, func() error {
		return s.readLoop(ctx)
	})
	glog.Infof("link[%s]: stopped: %v", s.Name, err)
	return err
}

func (s *StreamSource) readLoop(ctx context.Context) error {
	buf := make([]byte, 64)
	for {
		n, err := s.Reader.Read(buf)
		if n > 0 {
			glog.V(4).Infof("link[%s]: %q", s.Name, buf[:n])
			if derr := s.Deliver(ctx, buf[:n]); derr != nil {
				return derr
			}
		}
		if err != nil {
			return err
		}
	}
}
