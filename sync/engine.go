// Package sync implements the optimistic mutation protocol: snapshot,
// speculative-apply, commit-or-rollback. Every cache mutation funnels through
// Engine.Perform so logically concurrent writers can never corrupt an entry.
package sync

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dayplan/dayplan-client/store"
)

// Transform is a pure function from the old cached payload to the speculative
// new one. It must not mutate old: the snapshot aliases it until the mutation
// settles.
type Transform func(old any) any

// RemoteCall is the authoritative operation backing a speculative transform.
type RemoteCall func(ctx context.Context) (any, error)

// Engine wraps a Store with the three-phase mutation protocol.
type Engine struct {
	store *store.Store
}

// NewEngine constructs an Engine over st.
func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Perform runs one optimistic mutation against key.
//
// The entry is marked pending (failing fast with a busy error if a mutation
// is already in flight), its prior state snapshotted, and the speculative
// transform applied so readers see the expected effect before the network
// round-trip completes. On remote success the entry is committed stale —
// forcing a refetch on the next authoritative read — and the server payload
// is returned as the source of truth. On remote failure the snapshot is
// restored first, then the failure is surfaced; a failed mutation leaves no
// trace. The entry is never left pending.
func (e *Engine) Perform(ctx context.Context, key store.Key, transform Transform, remote RemoteCall) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap, err := e.store.Begin(key)
	if err != nil {
		if errors.Is(err, store.ErrPending) {
			mutationsTotal.WithLabelValues("busy").Inc()
			return nil, &BusyError{Key: key}
		}
		return nil, err
	}

	e.store.Apply(key, transform(snap.Payload()))

	result, err := remote(ctx)
	if err != nil {
		e.store.Rollback(snap)
		mutationsTotal.WithLabelValues("rolled_back").Inc()
		log.Warn().Str("key", string(key)).Err(err).Msg("mutation rolled back")
		return nil, err
	}

	e.store.Commit(key)
	mutationsTotal.WithLabelValues("committed").Inc()
	return result, nil
}
