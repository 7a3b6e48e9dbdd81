// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"sync"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/infrastructure/mock"
)

func sample(gid model.GlobalID, name string) model.Record {
	return &model.Sample{RecordBase: model.RecordBase{GlobalID: gid, Name: name}}
}

func gidsOf(results []Result) []model.GlobalID {
	gids := make([]model.GlobalID, 0, len(results))
	for _, r := range results {
		gids = append(gids, model.GlobalIDOf(r.Record))
	}
	return gids
}

// newSampleSearcher returns a mock inventory holding n samples and nothing else
func newSampleSearcher(n int) *mock.MockRecordSearcher {
	searcher := mock.NewMockRecordSearcher()
	searcher.ClearRecords()
	for _, r := range mock.NewSamples("Sample", "alice", 1, n) {
		searcher.AddRecord(r)
	}
	return searcher
}

// scriptedCall is one pending request; the test answers it on reply
type scriptedCall struct {
	params   model.FetchParameters
	globalID model.GlobalID
	reply    chan scriptedReply
}

type scriptedReply struct {
	response *model.SearchResponse
	record   model.Record
	err      error
}

// scriptedSearcher hands every request to the test and blocks until the
// test answers it, so tests decide the completion order
type scriptedSearcher struct {
	started chan scriptedCall
}

func newScriptedSearcher() *scriptedSearcher {
	return &scriptedSearcher{started: make(chan scriptedCall)}
}

func (s *scriptedSearcher) Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error) {
	call := scriptedCall{params: params, reply: make(chan scriptedReply, 1)}
	s.started <- call
	r := <-call.reply
	return r.response, r.err
}

func (s *scriptedSearcher) GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error) {
	call := scriptedCall{globalID: globalID, reply: make(chan scriptedReply, 1)}
	s.started <- call
	r := <-call.reply
	return r.record, r.err
}

func (s *scriptedSearcher) IsReady(ctx context.Context) error {
	return nil
}

// pagesSearcher serves fixed pages by page number
type pagesSearcher struct {
	pages map[int][]model.Record
	count int
}

func (p *pagesSearcher) Search(ctx context.Context, params model.FetchParameters) (*model.SearchResponse, error) {
	return &model.SearchResponse{Records: p.pages[params.PageNumber], Count: p.count}, nil
}

func (p *pagesSearcher) GetRecord(ctx context.Context, globalID model.GlobalID) (model.Record, error) {
	return nil, nil
}

func (p *pagesSearcher) IsReady(ctx context.Context) error {
	return nil
}

// recordingRouter records every location it is sent to
type recordingRouter struct {
	mu        sync.Mutex
	locations []string
}

func (r *recordingRouter) Navigate(ctx context.Context, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locations = append(r.locations, location)
	return nil
}

func (r *recordingRouter) Locations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.locations...)
}

// eventRecorder collects the events of a search
type eventRecorder struct {
	mu     sync.Mutex
	events []EventType
}

func (e *eventRecorder) record(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev.Type)
}

func (e *eventRecorder) count(t EventType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev == t {
			n++
		}
	}
	return n
}
