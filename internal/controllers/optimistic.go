package controllers

import (
	"context"
	"sync"
)

// Mutation is a handle on one optimistic change waiting for confirmation
type Mutation struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newMutation() *Mutation {
	return &Mutation{done: make(chan struct{})}
}

func (m *Mutation) finish(err error) {
	m.once.Do(func() {
		m.err = err
		close(m.done)
	})
}

// Done is closed once the change was confirmed or rolled back
func (m *Mutation) Done() <-chan struct{} {
	return m.done
}

// Wait blocks until the mutation settles and returns the confirmation error
func (m *Mutation) Wait() error {
	<-m.done
	return m.err
}

// Err returns the confirmation error, or nil while still in flight
func (m *Mutation) Err() error {
	select {
	case <-m.done:
		return m.err
	default:
		return nil
	}
}

// optimistic describes a local-first update. snapshot and apply run
// synchronously in start, under whatever lock the caller holds. confirm runs
// in the background; restore runs only if it fails. settle always runs last.
type optimistic[S any] struct {
	snapshot func() S
	apply    func()
	confirm  func(ctx context.Context) error
	restore  func(S)
	settle   func(err error)
}

func (o optimistic[S]) start(ctx context.Context) *Mutation {
	snap := o.snapshot()
	o.apply()

	m := newMutation()
	go func() {
		err := o.confirm(ctx)
		if err != nil {
			o.restore(snap)
		}
		if o.settle != nil {
			o.settle(err)
		}
		m.finish(err)
	}()
	return m
}
