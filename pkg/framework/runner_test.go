package framework

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunnerWait(t *testing.T) {
	failure := errors.New("serial gone")
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRunnerWith(ctx).Go(
		NamedRun("canceled", RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})),
		RunFunc(func(ctx context.Context) error {
			return failure
		}),
	)
	cancel()
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, failure))
	require.Equal(t, "1: serial gone", err.Error())
	require.Len(t, r.Runners, 2)
}

func TestRunnerHandleSignals(t *testing.T) {
	r := NewRunner().HandleSignals().Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))
	require.NoError(t, r.Wait())
	require.True(t, errors.Is(r.Context.Err(), context.Canceled))
}

func TestRunWithContextCloser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	unblock := make(chan struct{})
	var closes int
	closer := closerFunc(func() error {
		closes++
		close(unblock)
		return nil
	})
	cancel()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closes)

	closes = 0
	unblock = make(chan struct{})
	err = RunWithContextCloser(context.Background(), closer, func() error { return nil })
	require.NoError(t, err)
	require.Equal(t, 1, closes)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Add(nil, nil).Aggregate())
	first := errors.New("first")
	errs.Add(first)
	require.Equal(t, "first", errs.Aggregate().Error())
	errs.Add(errors.New("second"))
	require.Equal(t, "multiple errors:\nfirst\nsecond", errs.Aggregate().Error())
	require.True(t, errors.Is(errs.Aggregate(), first))
}

func TestHalt(t *testing.T) {
	cause := errors.New("cause")
	err := Halt(cause)
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "halt: cause", err.Error())
}
