package websocket

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/dayrise/dayrise.go/pkg/wire"
)

func TestSourceReceivesRecords(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	src := NewSource("")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Serve(ctx, ln) }()

	conn, err := websocket.Dial("ws://"+ln.Addr().String()+DefaultPath, "", "http://localhost/")
	require.NoError(t, err)
	require.NoError(t, websocket.Message.Send(conn, "0|07:15|06:30"))
	require.NoError(t, websocket.Message.Send(conn, []byte("1|06:45\n2|low battery\n")))
	conn.Close()

	var recs []wire.Record
	deadline := time.Now().Add(5 * time.Second)
	for len(recs) < 3 && time.Now().Before(deadline) {
		if rec, ok := src.TryReadRecord(); ok {
			recs = append(recs, rec)
			continue
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, []wire.Record{"0|07:15|06:30", "1|06:45", "2|low battery"}, recs)

	cancel()
	require.Equal(t, context.Canceled, <-done)
}
