// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"
)

// ActiveState is the life-cycle state of the active result
type ActiveState string

const (
	ActiveIdle      ActiveState = "IDLE"
	ActiveResolving ActiveState = "RESOLVING"
	ActiveSettled   ActiveState = "SETTLED"
	ActiveCancelled ActiveState = "CANCELLED"
	ActiveFailed    ActiveState = "FAILED"
)

// RecordRef names the record to open: a record already at hand, a global
// id to resolve (permalinks), or neither for the first visible result
type RecordRef struct {
	Record   model.Record
	GlobalID model.GlobalID
}

// RefRecord refers to a record already at hand
func RefRecord(r model.Record) RecordRef {
	return RecordRef{Record: r}
}

// RefGlobalID refers to a record by global id
func RefGlobalID(gid model.GlobalID) RecordRef {
	return RecordRef{GlobalID: gid}
}

// IsZero reports whether the ref asks for the default record
func (r RecordRef) IsZero() bool {
	return r.Record == nil && r.GlobalID.IsZero()
}

// ActiveResultController owns the record open in the detail panel.
//
// Every SetActiveResult bumps expectedGeneration and captures it. The
// resolved record is committed under the lock only while the captured value
// still equals expectedGeneration, so a slow resolution can never overwrite
// the outcome of a later call.
type ActiveResultController struct {
	searcher port.RecordSearcher
	results  *ResultSet
	onChange func(model.Record)

	mu                 sync.Mutex
	expectedGeneration uint64
	current            model.Record
	state              ActiveState
	loading            bool
}

// NewActiveResultController creates an idle controller. onChange, when not
// nil, is called outside the lock after every change of the current record.
func NewActiveResultController(searcher port.RecordSearcher, results *ResultSet, onChange func(model.Record)) *ActiveResultController {
	return &ActiveResultController{
		searcher: searcher,
		results:  results,
		onChange: onChange,
		state:    ActiveIdle,
	}
}

// SetActiveResult resolves ref and makes it the current record.
// It returns UserCancelledAction when a later call, Clear or Cancel
// superseded it before the resolution finished.
func (c *ActiveResultController) SetActiveResult(ctx context.Context, ref RecordRef) (model.Record, error) {
	c.mu.Lock()
	c.expectedGeneration++
	generation := c.expectedGeneration
	c.state = ActiveResolving
	c.loading = true
	c.mu.Unlock()

	record, err := c.resolve(ctx, ref)

	c.mu.Lock()
	if generation != c.expectedGeneration {
		c.mu.Unlock()
		slog.DebugContext(ctx, "active result resolution superseded", "generation", generation)
		return nil, errors.NewUserCancelledAction("active result superseded by a newer selection")
	}
	c.loading = false
	if err != nil {
		c.state = ActiveFailed
		c.mu.Unlock()
		slog.ErrorContext(ctx, "resolving active result failed", "error", err)
		return nil, err
	}
	changed := c.current != record
	c.current = record
	c.state = ActiveSettled
	if record == nil {
		c.state = ActiveIdle
	}
	if record != nil && !record.Base().Summary {
		c.results.Update(record)
	}
	onChange := c.onChange
	c.mu.Unlock()

	if changed && onChange != nil {
		onChange(record)
	}
	return record, nil
}

func (c *ActiveResultController) resolve(ctx context.Context, ref RecordRef) (model.Record, error) {
	switch {
	case ref.Record != nil:
		if !ref.Record.Base().Summary {
			return ref.Record, nil
		}
		return c.fetch(ctx, model.GlobalIDOf(ref.Record))
	case !ref.GlobalID.IsZero():
		if !ref.GlobalID.Valid() {
			return nil, errors.NewValidation(fmt.Sprintf("malformed global id %q", ref.GlobalID))
		}
		return c.fetch(ctx, ref.GlobalID)
	}

	first := c.results.First()
	if first == nil || !first.Base().Summary {
		return first, nil
	}
	return c.fetch(ctx, model.GlobalIDOf(first))
}

func (c *ActiveResultController) fetch(ctx context.Context, gid model.GlobalID) (model.Record, error) {
	slog.DebugContext(ctx, "fetching record details", "global_id", gid)

	record, err := c.searcher.GetRecord(ctx, gid)
	if err != nil {
		var notFound errors.NotFound
		if stderrors.As(err, &notFound) {
			return nil, err
		}
		return nil, errors.NewSearchFailed(fmt.Sprintf("loading record %s failed", gid), err)
	}
	if record == nil {
		return nil, errors.NewNotFound(fmt.Sprintf("record %s not found", gid))
	}
	return model.WithDetails(record), nil
}

// Clear closes the detail panel and supersedes any pending resolution
func (c *ActiveResultController) Clear() {
	c.mu.Lock()
	c.expectedGeneration++
	changed := c.current != nil
	c.current = nil
	c.state = ActiveIdle
	c.loading = false
	onChange := c.onChange
	c.mu.Unlock()

	if changed && onChange != nil {
		onChange(nil)
	}
}

// Cancel stops waiting for a pending resolution and keeps the current record
func (c *ActiveResultController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != ActiveResolving {
		return
	}
	c.expectedGeneration++
	c.state = ActiveCancelled
	c.loading = false
}

// Current returns the open record, or nil
func (c *ActiveResultController) Current() model.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *ActiveResultController) State() ActiveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *ActiveResultController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ExpectedGeneration returns the generation a resolution must carry to commit
func (c *ActiveResultController) ExpectedGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expectedGeneration
}
