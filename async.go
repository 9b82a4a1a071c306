package simpleado

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Future is the pending result of a command started with one of the Async
// operations. The command runs on its own goroutine; by the time Done is
// closed its connection has been released.
type Future[T any] struct {
	g    errgroup.Group
	done chan struct{}
	val  T
}

func startFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.g.Go(func() error {
		defer close(f.done)
		v, err := fn()
		f.val = v
		return err
	})
	return f
}

// Done is closed when the command has finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the command has finished and returns its result. It may
// be called any number of times.
func (f *Future[T]) Wait() (T, error) {
	if err := f.g.Wait(); err != nil {
		var zero T
		return zero, err
	}
	return f.val, nil
}

// ExecuteScalarAsync is ExecuteScalar on its own goroutine.
func (c *Command) ExecuteScalarAsync(ctx context.Context) *Future[Scalar] {
	return startFuture(func() (Scalar, error) { return c.ExecuteScalar(ctx) })
}

// ExecuteNonQueryAsync is ExecuteNonQuery on its own goroutine.
func (c *Command) ExecuteNonQueryAsync(ctx context.Context) *Future[int64] {
	return startFuture(func() (int64, error) { return c.ExecuteNonQuery(ctx) })
}

// ExecuteReaderAsync is ExecuteReader on its own goroutine.
func ExecuteReaderAsync[T any](ctx context.Context, c *Command, loader Loader[T]) *Future[T] {
	return startFuture(func() (T, error) { return ExecuteReader(ctx, c, loader) })
}

// ExecuteReaderSelfAsync is ExecuteReaderSelf on its own goroutine.
func ExecuteReaderSelfAsync[T Loadable[T]](ctx context.Context, c *Command) *Future[T] {
	return startFuture(func() (T, error) { return ExecuteReaderSelf[T](ctx, c) })
}

// ExecuteReaderListAsync is ExecuteReaderList on its own goroutine.
func ExecuteReaderListAsync[T any](ctx context.Context, c *Command, loader Loader[T]) *Future[[]T] {
	return startFuture(func() ([]T, error) { return ExecuteReaderList(ctx, c, loader) })
}

// ExecuteAsync is Execute on its own goroutine.
func ExecuteAsync[T any](ctx context.Context, c *Command, fn func(context.Context, *Statement) (T, error)) *Future[T] {
	return startFuture(func() (T, error) { return Execute(ctx, c, fn) })
}
