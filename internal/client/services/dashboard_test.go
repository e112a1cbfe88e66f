package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophstorage/internal/client/client"
	"github.com/dmitrijs2005/gophstorage/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStore_Fetch(t *testing.T) {
	want := &models.Dashboard{
		Months:  []models.MonthlyUsage{{Month: "2025-01", MonthName: "January", TotalSize: 2048, FileCount: 2}},
		Summary: models.DashboardSummary{TotalSizeInBytes: 2048, TotalFiles: 2},
	}
	api := &fakeStorage{dashboardFn: func(int) (*models.Dashboard, error) { return want, nil }}
	s := NewDashboardStore(signedIn(), api, nil)

	assert.Nil(t, s.State().Data)

	s.Fetch(context.Background())
	st := s.State()
	require.NotNil(t, st.Data)
	assert.Equal(t, *want, *st.Data)
	assert.False(t, st.Loading)
	assert.NoError(t, st.Err)

	st.Data.Months[0].FileCount = 99
	assert.Equal(t, 2, s.State().Data.Months[0].FileCount, "snapshot must not alias store state")
}

func TestDashboardStore_FailureClearsData(t *testing.T) {
	api := &fakeStorage{dashboardFn: func(call int) (*models.Dashboard, error) {
		if call == 1 {
			return &models.Dashboard{}, nil
		}
		return nil, &client.APIError{Status: 200, Message: "Failed to fetch dashboard data"}
	}}
	s := NewDashboardStore(signedIn(), api, nil)
	ctx := context.Background()

	s.Fetch(ctx)
	require.NotNil(t, s.State().Data)

	s.Fetch(ctx)
	st := s.State()
	assert.Nil(t, st.Data)
	assert.EqualError(t, st.Err, "Failed to fetch dashboard data")
}

func TestDashboardStore_RequiresSession(t *testing.T) {
	api := &fakeStorage{}
	s := NewDashboardStore(&staticSession{}, api, nil)

	s.Fetch(context.Background())
	assert.ErrorIs(t, s.State().Err, client.ErrNotAuthenticated)
	assert.Equal(t, 0, api.dashCalls)
}

func TestDashboardStore_SupersededFetchIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	api := &fakeStorage{dashboardFn: func(call int) (*models.Dashboard, error) {
		if call == 1 {
			close(started)
			<-release
			return &models.Dashboard{Summary: models.DashboardSummary{TotalFiles: 1}}, nil
		}
		return &models.Dashboard{Summary: models.DashboardSummary{TotalFiles: 2}}, nil
	}}
	s := NewDashboardStore(signedIn(), api, nil)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Fetch(ctx)
	}()
	<-started

	s.Fetch(ctx)
	close(release)
	<-done

	st := s.State()
	require.NotNil(t, st.Data)
	assert.Equal(t, 2, st.Data.Summary.TotalFiles)
	assert.False(t, st.Loading)
}

func TestDashboardStore_Integration(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.files.Upload(ctx, models.LocalFile{Name: "a.png", ContentType: "image/png", Data: make([]byte, 1500)}, "")
	require.NoError(t, err)

	authed, err := client.NewHTTPClient(h.srv.BaseURL(), client.WithTimeout(5*time.Second))
	require.NoError(t, err)

	s := NewDashboardStore(h.session, authed.Authorized(h.session), nil)
	s.Fetch(ctx)

	st := s.State()
	require.NoError(t, st.Err)
	require.NotNil(t, st.Data)
	assert.Equal(t, 1, st.Data.Summary.TotalFiles)
	assert.EqualValues(t, 1500, st.Data.Summary.TotalSizeInBytes)
	require.Len(t, st.Data.Months, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), st.Data.Months[0].Month)
}

func TestDashboardStore_RestoresSavedSessionOnFirstUse(t *testing.T) {
	want := &models.Dashboard{Summary: models.DashboardSummary{TotalFiles: 3}}
	api := &fakeStorage{dashboardFn: func(int) (*models.Dashboard, error) { return want, nil }}
	s := NewDashboardStore(restoredSession(t), api, nil)

	s.Fetch(context.Background())

	st := s.State()
	require.NoError(t, st.Err)
	assert.Equal(t, want, st.Data)
}
