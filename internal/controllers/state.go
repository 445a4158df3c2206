package controllers

import (
	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
)

// LoadState is the lifecycle of a screen's primary load
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateReady
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// loader tracks a screen's load state. Every load takes a sequence number
// and only the latest one may write its result. Callers hold their own lock.
type loader struct {
	state  LoadState
	errMsg string
	seq    uint64
}

func (l *loader) begin() uint64 {
	l.seq++
	l.state = StateLoading
	l.errMsg = ""
	return l.seq
}

func (l *loader) latest(seq uint64) bool {
	return seq == l.seq
}

func (l *loader) fail(err error) {
	l.state = StateError
	l.errMsg = anilist.DisplayMessage(err)
}

func (l *loader) ready() {
	l.state = StateReady
	l.errMsg = ""
}

// Annotated pairs a feed item with the user's list status for it
type Annotated[T any] struct {
	Item   T
	Status models.ListStatus // empty when not on the list
	OnList bool
	// Highlighted marks titles being watched or already completed
	Highlighted bool
}

func annotate[T any](items []T, index models.StatusIndex, mediaID func(T) int) []Annotated[T] {
	out := make([]Annotated[T], len(items))
	for i, item := range items {
		id := mediaID(item)
		status, ok := index.Lookup(id)
		out[i] = Annotated[T]{
			Item:        item,
			Status:      status,
			OnList:      ok,
			Highlighted: index.Highlighted(id),
		}
	}
	return out
}
