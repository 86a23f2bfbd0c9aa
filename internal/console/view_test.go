package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/members-console/internal/metrics"
	"github.com/magabrotheeeer/members-console/internal/models"
	"github.com/magabrotheeeer/members-console/internal/query"
)

var march2024 = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func fixedNow() time.Time { return march2024 }

// fakeSource отдаёт заданную коллекцию или ошибку.
type fakeSource[T any] struct {
	mu    sync.Mutex
	items []T
	err   error
	calls int
}

func (f *fakeSource[T]) Fetch(context.Context) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeSource[T]) set(items []T, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items, f.err = items, err
}

// cachedSource отдаёт через Fetch закешированную коллекцию, через FetchFresh актуальную.
type cachedSource struct {
	cached []models.Member
	fresh  []models.Member

	mu          sync.Mutex
	fetchCalls  int
	reloadCalls int
}

func (c *cachedSource) Fetch(context.Context) ([]models.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchCalls++
	return c.cached, nil
}

func (c *cachedSource) FetchFresh(context.Context) ([]models.Member, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reloadCalls++
	return c.fresh, nil
}

func members(n int) []models.Member {
	out := make([]models.Member, n)
	for i := range out {
		out[i] = models.Member{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Member %d", i+1), Status: models.MemberActive}
	}
	return out
}

func newMemberView(src Source[models.Member], m *metrics.Metrics) *View[models.Member] {
	return NewView("members", query.NewMemberEngine(), src, newNoopLogger(), m, fixedNow)
}

func TestView_MountLoadsOnce(t *testing.T) {
	src := &fakeSource[models.Member]{items: members(3)}
	v := newMemberView(src, nil)

	require.NoError(t, v.Mount(context.Background()))
	require.NoError(t, v.Mount(context.Background()))

	assert.Equal(t, 1, src.calls)
	assert.Equal(t, march2024, v.LoadedAt())
	assert.Equal(t, 3, v.Page().Page.TotalItems)
}

func TestView_NavigationAndReset(t *testing.T) {
	src := &fakeSource[models.Member]{items: members(23)}
	v := newMemberView(src, nil)
	require.NoError(t, v.Mount(context.Background()))

	res := v.GoTo(3)
	assert.Equal(t, 3, res.State.PageIndex)
	assert.Len(t, res.Page.Items, 3)

	res = v.Next()
	assert.Equal(t, 3, res.State.PageIndex, "на последней странице next ничего не делает")

	res = v.Previous()
	assert.Equal(t, 2, res.State.PageIndex)

	res = v.Change(func(st *query.State) { st.Search = "member 1" }, nil)
	assert.Equal(t, 1, res.State.PageIndex)
	assert.Equal(t, 11, res.Page.TotalItems)
}

func TestView_ChangeCriteriaWinsOverNavigation(t *testing.T) {
	src := &fakeSource[models.Member]{items: members(30)}
	v := newMemberView(src, nil)
	require.NoError(t, v.Mount(context.Background()))
	v.GoTo(2)

	navCalled := false
	res := v.Change(
		func(st *query.State) { st.PageSize = 5 },
		func(st *query.State, total int) { navCalled = true; st.GoTo(4, total) },
	)

	assert.False(t, navCalled)
	assert.Equal(t, 1, res.State.PageIndex)
	assert.Equal(t, 6, res.Page.TotalPages)

	res = v.Change(
		func(st *query.State) { st.PageSize = 5 },
		func(st *query.State, total int) { st.GoTo(4, total) },
	)
	assert.Equal(t, 4, res.State.PageIndex, "тот же размер страницы не сбрасывает навигацию")
}

func TestView_RefreshDoesNotResetPage(t *testing.T) {
	src := &fakeSource[models.Member]{items: members(25)}
	v := newMemberView(src, nil)
	require.NoError(t, v.Mount(context.Background()))
	v.GoTo(2)

	src.set(members(26), nil)
	require.NoError(t, v.Refresh(context.Background()))

	res := v.Page()
	assert.Equal(t, 2, res.State.PageIndex)
	assert.Equal(t, 26, res.Page.TotalItems)
}

func TestView_RefreshShrinkClampsPage(t *testing.T) {
	src := &fakeSource[models.Member]{items: members(25)}
	v := newMemberView(src, nil)
	require.NoError(t, v.Mount(context.Background()))
	v.GoTo(3)

	src.set(members(4), nil)
	require.NoError(t, v.Refresh(context.Background()))

	res := v.Page()
	assert.Equal(t, 1, res.State.PageIndex)
	assert.Equal(t, 1, v.State().PageIndex)
	assert.Equal(t, []string{"1", "2", "3", "4"}, func() []string {
		out := []string{}
		for _, m := range res.Page.Items {
			out = append(out, m.ID)
		}
		return out
	}())
}

func TestView_RefreshFailureKeepsPrevious(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	src := &fakeSource[models.Member]{items: members(15)}
	v := newMemberView(src, m)
	require.NoError(t, v.Mount(context.Background()))
	v.Change(func(st *query.State) { st.Status = string(models.MemberActive) }, nil)
	v.GoTo(2)

	fetchErr := errors.New("api down")
	src.set(nil, fetchErr)
	err := v.Refresh(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	res := v.Page()
	assert.Equal(t, 15, res.Page.TotalItems)
	assert.Equal(t, 2, res.State.PageIndex)
	assert.Equal(t, string(models.MemberActive), res.State.Status)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RefreshFailures.WithLabelValues("members")), 0)
}

func TestView_MountFailureRetriesNextTime(t *testing.T) {
	src := &fakeSource[models.Member]{err: errors.New("timeout")}
	v := newMemberView(src, nil)

	require.Error(t, v.Mount(context.Background()))
	assert.Empty(t, v.Page().Page.Items)

	src.set(members(2), nil)
	require.NoError(t, v.Mount(context.Background()))
	assert.Equal(t, 2, src.calls)
	assert.Len(t, v.Page().Page.Items, 2)
}

func TestView_CountsRecomputations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	v := newMemberView(&fakeSource[models.Member]{}, m)

	v.Page()
	v.Page()

	assert.InDelta(t, 2, testutil.ToFloat64(m.Recomputations.WithLabelValues("members")), 0)
}

func TestView_PaymentsUseInjectedClock(t *testing.T) {
	ana := &models.Member{ID: "m1", Name: "Ana"}
	src := &fakeSource[models.Payment]{items: []models.Payment{
		{ID: "feb", Member: ana, Month: 2, Year: 2024, Status: models.PaymentPending},
		{ID: "mar", Member: ana, Month: 3, Year: 2024, Status: models.PaymentPending},
	}}
	v := NewView("payments", query.NewPaymentEngine(), src, newNoopLogger(), nil, fixedNow)
	require.NoError(t, v.Mount(context.Background()))

	res := v.Page()
	require.Len(t, res.Page.Items, 1)
	assert.Equal(t, "mar", res.Page.Items[0].ID)
	assert.True(t, res.PeriodApplied)

	res = v.Change(func(st *query.State) { st.Period.Mode = query.PeriodLastMonth }, nil)
	require.Len(t, res.Page.Items, 1)
	assert.Equal(t, "feb", res.Page.Items[0].ID)
}

func TestView_ConcurrentAccess(t *testing.T) {
	src := &fakeSource[models.Member]{items: members(40)}
	v := newMemberView(src, nil)
	require.NoError(t, v.Mount(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 4 {
			case 0:
				v.Next()
			case 1:
				_ = v.Refresh(context.Background())
			case 2:
				v.Change(func(st *query.State) { st.PageSize = 5 + i%2*5 }, nil)
			default:
				v.Page()
			}
		}(i)
	}
	wg.Wait()

	res := v.Page()
	assert.GreaterOrEqual(t, res.State.PageIndex, 1)
	assert.LessOrEqual(t, res.State.PageIndex, res.Page.TotalPages)
}

func TestView_RefreshBypassesSourceCache(t *testing.T) {
	src := &cachedSource{cached: members(1), fresh: members(2)}
	v := newMemberView(src, nil)

	require.NoError(t, v.Mount(context.Background()))
	assert.Equal(t, 1, v.Page().Page.TotalItems)

	require.NoError(t, v.Refresh(context.Background()))
	assert.Equal(t, 2, v.Page().Page.TotalItems)

	require.NoError(t, v.Mount(context.Background()))
	assert.Equal(t, 1, src.fetchCalls, "Mount читает через кеш и только один раз")
	assert.Equal(t, 1, src.reloadCalls)
}
