// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/middleware"
	usecase "github.com/linuxfoundation/lfx-v2-inventory-search/internal/service"
	"github.com/linuxfoundation/lfx-v2-inventory-search/pkg/errors"

	goahttp "goa.design/goa/v3/http"
)

// MountPoint describes one mounted route
type MountPoint struct {
	Method  string
	Verb    string
	Pattern string
}

// NavigateRequest intercepts an in-app navigation
type NavigateRequest struct {
	Location string `json:"location"`
}

// QueryRequest sets the free text query
type QueryRequest struct {
	Query string `json:"query"`
}

// PageRequest moves to a page
type PageRequest struct {
	PageNumber *int `json:"pageNumber"`
}

// PageSizeRequest changes the page size
type PageSizeRequest struct {
	PageSize *int `json:"pageSize"`
}

// ViewRequest switches the presentation mode
type ViewRequest struct {
	View string `json:"view"`
}

// ActiveRequest opens a record; an empty global id opens the first result
type ActiveRequest struct {
	GlobalID string `json:"globalId"`
}

// SelectAllRequest selects or deselects every visible result
type SelectAllRequest struct {
	Selected bool `json:"selected"`
}

// SaveSearchRequest saves a search under a name. Query is a location query
// string; when empty the session's current parameters are saved.
type SaveSearchRequest struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// readinessChecker is implemented by collaborators that can report readiness
type readinessChecker interface {
	IsReady(ctx context.Context) error
}

// InventorySearch serves search sessions over HTTP
type InventorySearch struct {
	sessions *SessionRegistry
	saved    *usecase.SavedSearches
	searcher port.RecordSearcher
	store    port.KeyValueStore
	mux      goahttp.Muxer
	mounts   []MountPoint
}

// NewInventorySearch returns the HTTP service implementation
func NewInventorySearch(sessions *SessionRegistry, searcher port.RecordSearcher, store port.KeyValueStore) *InventorySearch {
	return &InventorySearch{
		sessions: sessions,
		saved:    usecase.NewSavedSearches(store),
		searcher: searcher,
		store:    store,
	}
}

// sessionAction runs on the caller's session and answers with its state
type sessionAction func(ctx context.Context, r *http.Request, session *Session) error

// Mount configures mux to serve the service routes
func (s *InventorySearch) Mount(mux goahttp.Muxer) []MountPoint {
	s.mux = mux
	s.mounts = nil

	s.handleSession("LoadLocation", http.MethodGet, "/inventory/search", s.loadLocation)
	s.handleSession("Navigate", http.MethodPost, "/inventory/search/navigate", s.navigate)
	s.handleSession("SetQuery", http.MethodPut, "/inventory/search/query", s.setQuery)
	s.handleSession("SetPage", http.MethodPut, "/inventory/search/page", s.setPage)
	s.handleSession("SetPageSize", http.MethodPut, "/inventory/search/page-size", s.setPageSize)
	s.handleSession("SetView", http.MethodPut, "/inventory/search/view", s.setView)
	s.handleSession("LoadMore", http.MethodPost, "/inventory/search/more", s.loadMore)
	s.handleSession("SetActive", http.MethodPut, "/inventory/search/active", s.setActive)
	s.handleSession("ClearActive", http.MethodDelete, "/inventory/search/active", s.clearActive)
	s.handleSession("SelectAll", http.MethodPut, "/inventory/search/selected", s.selectAll)
	s.handleSession("ToggleSelected", http.MethodPost, "/inventory/search/selected/{globalId}", s.toggleSelected)

	s.handle("ListSavedSearches", http.MethodGet, "/inventory/saved-searches", s.listSavedSearches)
	s.handle("SaveSearch", http.MethodPost, "/inventory/saved-searches", middleware.SessionIDMiddleware()(http.HandlerFunc(s.saveSearch)).ServeHTTP)
	s.handle("DeleteSavedSearch", http.MethodDelete, "/inventory/saved-searches/{name}", s.deleteSavedSearch)

	s.handle("Livez", http.MethodGet, "/livez", s.livez)
	s.handle("Readyz", http.MethodGet, "/readyz", s.readyz)

	return s.mounts
}

func (s *InventorySearch) handle(method, verb, pattern string, handler http.HandlerFunc) {
	s.mux.Handle(verb, pattern, handler)
	s.mounts = append(s.mounts, MountPoint{Method: method, Verb: verb, Pattern: pattern})
}

func (s *InventorySearch) handleSession(method, verb, pattern string, action sessionAction) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, nav := withNavigation(r.Context())
		session := s.sessions.Get(ctx, middleware.SessionIDFromContext(ctx))

		errAction := action(ctx, r, session)
		state := stateDocument(session, nav)
		if errAction != nil {
			writeError(ctx, w, errAction, &state)
			return
		}
		writeResponse(ctx, w, http.StatusOK, state)
	})
	s.handle(method, verb, pattern, middleware.SessionIDMiddleware()(handler).ServeHTTP)
}

func (s *InventorySearch) loadLocation(ctx context.Context, r *http.Request, session *Session) error {
	return session.Nav.HandleLocation(ctx, r.URL.RawQuery)
}

func (s *InventorySearch) navigate(ctx context.Context, r *http.Request, session *Session) error {
	var body NavigateRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	if body.Location == "" {
		return errors.NewValidation("location is required")
	}
	return session.Nav.Navigate(ctx, body.Location)
}

func (s *InventorySearch) setQuery(ctx context.Context, r *http.Request, session *Session) error {
	var body QueryRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	return session.Nav.SetQuery(ctx, body.Query)
}

func (s *InventorySearch) setPage(ctx context.Context, r *http.Request, session *Session) error {
	var body PageRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	if body.PageNumber == nil {
		return errors.NewValidation("pageNumber is required")
	}
	return session.Search.SetPage(ctx, *body.PageNumber)
}

func (s *InventorySearch) setPageSize(ctx context.Context, r *http.Request, session *Session) error {
	var body PageSizeRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	if body.PageSize == nil {
		return errors.NewValidation("pageSize is required")
	}
	return session.Search.SetPageSize(ctx, *body.PageSize)
}

func (s *InventorySearch) setView(ctx context.Context, r *http.Request, session *Session) error {
	var body ViewRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	view, ok := model.ParseSearchView(body.View)
	if !ok {
		return errors.NewValidation(fmt.Sprintf("unknown search view %q", body.View))
	}
	return session.Search.SetSearchView(view)
}

func (s *InventorySearch) loadMore(ctx context.Context, _ *http.Request, session *Session) error {
	return session.Search.DynamicSearch(ctx)
}

func (s *InventorySearch) setActive(ctx context.Context, r *http.Request, session *Session) error {
	var body ActiveRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}

	ref := usecase.RecordRef{}
	if body.GlobalID != "" {
		gid, err := model.ParseGlobalID(body.GlobalID)
		if err != nil {
			return errors.NewValidation("invalid globalId", err)
		}
		ref = usecase.RefGlobalID(gid)
	}

	_, err := session.Search.SetActiveResult(ctx, ref)
	return err
}

func (s *InventorySearch) clearActive(_ context.Context, _ *http.Request, session *Session) error {
	session.Search.ClearActiveResult()
	return nil
}

func (s *InventorySearch) selectAll(_ context.Context, r *http.Request, session *Session) error {
	var body SelectAllRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	session.Search.SetAllSelected(body.Selected)
	return nil
}

func (s *InventorySearch) toggleSelected(ctx context.Context, r *http.Request, session *Session) error {
	gid, err := model.ParseGlobalID(s.pathParam(r, "globalId"))
	if err != nil {
		return errors.NewValidation("invalid globalId", err)
	}

	selected, err := session.Search.ToggleSelected(gid)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "result selection toggled", "global_id", gid, "selected", selected)
	return nil
}

func (s *InventorySearch) listSavedSearches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	saved, err := s.saved.List(ctx)
	if err != nil {
		writeError(ctx, w, err, nil)
		return
	}
	writeResponse(ctx, w, http.StatusOK, savedSearchResponses(saved))
}

func (s *InventorySearch) saveSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body SaveSearchRequest
	if err := decodeBody(r, &body); err != nil {
		writeError(ctx, w, err, nil)
		return
	}

	var params model.FetchParameters
	if body.Query != "" {
		parsed, err := model.ParseFetchParameters(body.Query)
		if err != nil {
			writeError(ctx, w, err, nil)
			return
		}
		params = parsed
	} else {
		params = s.sessions.Get(ctx, middleware.SessionIDFromContext(ctx)).Search.Params()
	}

	if err := s.saved.Save(ctx, body.Name, params); err != nil {
		writeError(ctx, w, err, nil)
		return
	}

	saved, err := s.saved.List(ctx)
	if err != nil {
		writeError(ctx, w, err, nil)
		return
	}
	writeResponse(ctx, w, http.StatusCreated, savedSearchResponses(saved))
}

func (s *InventorySearch) deleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.saved.Delete(ctx, s.pathParam(r, "name")); err != nil {
		writeError(ctx, w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *InventorySearch) livez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

func (s *InventorySearch) readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.searcher.IsReady(ctx); err != nil {
		writeError(ctx, w, errors.NewServiceUnavailable("search service not ready", err), nil)
		return
	}
	if checker, ok := s.store.(readinessChecker); ok {
		if err := checker.IsReady(ctx); err != nil {
			writeError(ctx, w, errors.NewServiceUnavailable("saved search store not ready", err), nil)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// pathParam returns the unescaped value of a path variable
func (s *InventorySearch) pathParam(r *http.Request, name string) string {
	value := s.mux.Vars(r)[name]
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}

// decodeBody reads a JSON body into v; an empty body leaves v untouched
func decodeBody(r *http.Request, v any) error {
	if err := goahttp.RequestDecoder(r).Decode(v); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.NewValidation("malformed request body", err)
	}
	return nil
}

func writeResponse(ctx context.Context, w http.ResponseWriter, status int, v any) {
	enc := goahttp.ResponseEncoder(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
