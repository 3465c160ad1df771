package epd

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	calls []string
	fail  map[string]error
}

func (d *fakeDriver) call(name string) error {
	d.calls = append(d.calls, name)
	return d.fail[name]
}

func (d *fakeDriver) Init() error                { return d.call("init") }
func (d *fakeDriver) Transfer(image.Image) error { return d.call("transfer") }
func (d *fakeDriver) FullRefresh() error         { return d.call("full") }
func (d *fakeDriver) QuickRefresh() error        { return d.call("quick") }
func (d *fakeDriver) Clear() error               { return d.call("clear") }
func (d *fakeDriver) Sleep() error               { return d.call("sleep") }

func TestDecide(t *testing.T) {
	require.Equal(t, Full, Decide(PhaseBaseline))
	require.Equal(t, Quick, Decide(PhaseMain))
	require.Equal(t, "full", Full.String())
	require.Equal(t, "main", PhaseMain.String())
}

func TestDecideAndApply(t *testing.T) {
	buf := image.NewGray(image.Rect(0, 0, 8, 8))
	drv := &fakeDriver{}
	s := NewScheduler(drv)

	d, err := s.DecideAndApply(context.Background(), buf, PhaseBaseline)
	require.NoError(t, err)
	require.Equal(t, Full, d)
	require.Equal(t, []string{"transfer", "full", "full"}, drv.calls)

	for i := 0; i < 3; i++ {
		drv.calls = nil
		d, err = s.DecideAndApply(context.Background(), buf, PhaseMain)
		require.NoError(t, err)
		require.Equal(t, Quick, d)
		require.Equal(t, []string{"transfer", "quick"}, drv.calls)
	}
}

func TestDecideAndApplyErrors(t *testing.T) {
	busy := errors.New("busy timeout")
	drv := &fakeDriver{fail: map[string]error{"full": busy}}
	s := NewScheduler(drv)
	d, err := s.DecideAndApply(context.Background(), nil, PhaseBaseline)
	require.Equal(t, Full, d)
	require.True(t, errors.Is(err, busy))
	var te *TransferError
	require.True(t, errors.As(err, &te))
	require.Equal(t, "full refresh", te.Op)
	require.Equal(t, "epd full refresh: busy timeout", err.Error())
	// no retry, no second full refresh after a failure.
	require.Equal(t, []string{"transfer", "full"}, drv.calls)

	drv = &fakeDriver{fail: map[string]error{"transfer": busy}}
	_, err = NewScheduler(drv).DecideAndApply(context.Background(), nil, PhaseMain)
	require.Error(t, err)
	require.Equal(t, []string{"transfer"}, drv.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	drv = &fakeDriver{}
	_, err = NewScheduler(drv).DecideAndApply(ctx, nil, PhaseMain)
	require.Equal(t, context.Canceled, err)
	require.Empty(t, drv.calls)
}

func TestShutdown(t *testing.T) {
	drv := &fakeDriver{}
	require.NoError(t, Shutdown(drv))
	require.Equal(t, []string{"clear", "sleep"}, drv.calls)

	drv = &fakeDriver{fail: map[string]error{"clear": errors.New("x")}}
	require.Error(t, Shutdown(drv))
	require.Equal(t, []string{"clear"}, drv.calls)
}
