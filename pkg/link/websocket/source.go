// Package websocket receives wire records over websocket connections.
package websocket

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/dayrise/dayrise.go/pkg/framework"
	"github.com/dayrise/dayrise.go/pkg/link"
	"github.com/dayrise/dayrise.go/pkg/wire"
)

// DefaultPath is where the handler is mounted.
const DefaultPath = "/link"

// Source is a record source fed by websocket clients.
// Every websocket message ends a record if it lacks a terminator.
type Source struct {
	*link.Inbox
	Listen string
	Path   string
}

// NewSource creates a Source serving on listen.
func NewSource(listen string) *Source {
	return &Source{
		Inbox:  link.NewInbox(link.DefaultInboxSize),
		Listen: listen,
		Path:   DefaultPath,
	}
}

// Handler returns the websocket handler.
func (s *Source) Handler() http.Handler {
	return websocket.Handler(s.serveConn)
}

// Run implements framework.Runnable.
func (s *Source) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Listen)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves websocket clients on ln until ctx is done.
func (s *Source) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle(s.Path, s.Handler())
	server := &http.Server{Handler: mux}
	glog.Infof("link[websocket]: listening on %s%s", ln.Addr(), s.Path)
	return framework.RunWithContextCancel(ctx, func() {
		server.Close()
	}, func() error {
		return server.Serve(ln)
	})
}

func (s *Source) serveConn(conn *websocket.Conn) {
	defer conn.Close()
	remote := conn.Request().RemoteAddr
	glog.Infof("link[websocket]: %s connected", remote)
	ctx := conn.Request().Context()
	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			if err != io.EOF {
				glog.Warningf("link[websocket]: %s: %v", remote, err)
			}
			break
		}
		if n := len(msg); n == 0 || msg[n-1] != wire.Terminator {
			msg = append(msg, wire.Terminator)
		}
		if err := s.Deliver(ctx, msg); err != nil {
			break
		}
	}
	glog.Infof("link[websocket]: %s disconnected", remote)
}
