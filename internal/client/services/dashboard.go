package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/dmitrijs2005/gophstorage/internal/logging"
)

// DashboardState is a snapshot of the dashboard store. Data is nil until the
// first successful fetch and after a failed one.
type DashboardState struct {
	Data    *models.Dashboard
	Loading bool
	Err     error
}

// DashboardStore caches the storage usage overview. Fetch follows the same
// rules as FileStore.Fetch.
type DashboardStore interface {
	Fetch(ctx context.Context)
	State() DashboardState
}

type dashboardStore struct {
	session SessionStore
	api     client.StorageAPI
	logger  logging.Logger

	mu         sync.RWMutex
	data       *models.Dashboard
	loading    bool
	err        error
	generation uint64
}

func NewDashboardStore(session SessionStore, api client.StorageAPI, logger logging.Logger) DashboardStore {
	if logger == nil {
		logger = logging.Discard()
	}
	return &dashboardStore{session: session, api: api, logger: logger}
}

func (s *dashboardStore) Fetch(ctx context.Context) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	var data *models.Dashboard
	err := requireSession(ctx, s.session)
	if err == nil {
		data, err = s.api.Dashboard(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.loading = false
	if err != nil {
		s.logger.Error(ctx, "dashboard fetch error", "error", err)
		s.err = err
		s.data = nil
		return
	}
	s.data = data
}

func (s *dashboardStore) State() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := DashboardState{Loading: s.loading, Err: s.err}
	if s.data != nil {
		cp := *s.data
		cp.Months = append([]models.MonthlyUsage(nil), s.data.Months...)
		st.Data = &cp
	}
	return st
}
