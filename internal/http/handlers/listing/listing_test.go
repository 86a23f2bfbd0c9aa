package listing

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/members-console/internal/apiclient"
	"github.com/magabrotheeeer/members-console/internal/lib/month"
	"github.com/magabrotheeeer/members-console/internal/query"
)

var paymentStatuses = []string{"PAID", "PENDING"}

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		withPeriod bool
		wantErr    bool
		check      func(t *testing.T, p Params)
	}{
		{
			name: "пустой запрос",
			raw:  "",
			check: func(t *testing.T, p Params) {
				assert.Nil(t, p.Criteria())
				assert.Nil(t, p.Navigation())
				assert.False(t, p.Refresh)
			},
		},
		{
			name: "поиск обрезается",
			raw:  "q=%20Jos%C3%A9%20",
			check: func(t *testing.T, p Params) {
				require.NotNil(t, p.Search)
				assert.Equal(t, "José", *p.Search)
			},
		},
		{
			name: "пустой статус означает ALL",
			raw:  "status=",
			check: func(t *testing.T, p Params) {
				require.NotNil(t, p.Status)
				assert.Equal(t, query.StatusAll, *p.Status)
			},
		},
		{
			name: "статус в нижнем регистре",
			raw:  "status=pending",
			check: func(t *testing.T, p Params) {
				assert.Equal(t, "PENDING", *p.Status)
			},
		},
		{name: "неизвестный статус", raw: "status=ACTIVE", wantErr: true},
		{
			name:       "конкретный месяц",
			raw:        "period=specific&month=2&year=2024",
			withPeriod: true,
			check: func(t *testing.T, p Params) {
				assert.Equal(t, query.PeriodSpecific, *p.Period)
				assert.Equal(t, 2, *p.Month)
				assert.Equal(t, 2024, *p.Year)
			},
		},
		{
			name:       "диапазон периодов",
			raw:        "period=range&from=2023-11&to=",
			withPeriod: true,
			check: func(t *testing.T, p Params) {
				assert.Equal(t, query.PeriodRange, *p.Period)
				require.NotNil(t, p.From)
				assert.Equal(t, month.Period{Year: 2023, Month: 11}, *p.From)
				require.NotNil(t, p.To)
				assert.True(t, p.To.IsZero())

				st := query.DefaultState()
				st.PageIndex = 2
				st.Apply(p.Criteria())
				assert.Equal(t, query.PeriodRange, st.Period.Mode)
				assert.Equal(t, month.Period{Year: 2023, Month: 11}, st.Period.From)
				assert.Equal(t, 1, st.PageIndex)
			},
		},
		{name: "некорректная граница диапазона", raw: "period=range&from=11-2023", withPeriod: true, wantErr: true},
		{
			name:       "месяц вне диапазона допустим",
			raw:        "period=specific&month=13&year=2024",
			withPeriod: true,
			check: func(t *testing.T, p Params) {
				assert.Equal(t, 13, *p.Month)
			},
		},
		{
			name: "период игнорируется для участников",
			raw:  "period=bogus&month=x",
			check: func(t *testing.T, p Params) {
				assert.Nil(t, p.Period)
				assert.Nil(t, p.Month)
			},
		},
		{name: "неизвестный период", raw: "period=bogus", withPeriod: true, wantErr: true},
		{name: "месяц не число", raw: "month=march", withPeriod: true, wantErr: true},
		{name: "недопустимый размер страницы", raw: "per_page=7", wantErr: true},
		{name: "страница не число", raw: "page=two", wantErr: true},
		{name: "неизвестная навигация", raw: "nav=last", wantErr: true},
		{name: "refresh не bool", raw: "refresh=maybe", wantErr: true},
		{
			name: "refresh",
			raw:  "refresh=true&nav=next",
			check: func(t *testing.T, p Params) {
				assert.True(t, p.Refresh)
				assert.Equal(t, NavNext, p.Nav)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)

			p, err := Parse(values, paymentStatuses, tt.withPeriod)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestParams_Criteria(t *testing.T) {
	values, err := url.ParseQuery("q=ana&status=PENDING&period=specific&month=2&year=2024&per_page=20")
	require.NoError(t, err)
	p, err := Parse(values, paymentStatuses, true)
	require.NoError(t, err)

	st := query.DefaultState()
	st.PageIndex = 3
	reset := st.Apply(p.Criteria())

	assert.True(t, reset)
	assert.Equal(t, query.State{
		Search:    "ana",
		Status:    "PENDING",
		Period:    query.PeriodFilter{Mode: query.PeriodSpecific, Month: 2, Year: 2024},
		PageSize:  20,
		PageIndex: 1,
	}, st)
}

func TestParams_Navigation(t *testing.T) {
	tests := []struct {
		raw  string
		from int
		want int
	}{
		{raw: "nav=next", from: 1, want: 2},
		{raw: "nav=next", from: 3, want: 3},
		{raw: "nav=prev", from: 2, want: 1},
		{raw: "nav=prev", from: 1, want: 1},
		{raw: "page=3&nav=prev", from: 1, want: 3},
		{raw: "page=9", from: 2, want: 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s from %d", tt.raw, tt.from), func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			require.NoError(t, err)
			p, err := Parse(values, nil, false)
			require.NoError(t, err)

			st := query.DefaultState()
			st.PageIndex = tt.from
			p.Navigation()(&st, 3)

			assert.Equal(t, tt.want, st.PageIndex)
		})
	}
}

func TestNewList(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}
	st := query.DefaultState()
	st.PageIndex = 3
	res := query.Result[int]{State: st, Page: query.Paginate(items, 10, 3), PeriodApplied: true}
	loaded := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	list := NewList(res, true, loaded, func(n int) string { return fmt.Sprint(n) })

	assert.Equal(t, []string{"21", "22", "23"}, list.Items)
	assert.Equal(t, 21, list.Pagination.StartRow)
	assert.Equal(t, 23, list.Pagination.EndRow)
	assert.True(t, list.Pagination.HasPrevious)
	assert.False(t, list.Pagination.HasNext)
	assert.Equal(t, []int{1, 2, 3}, list.Pagination.Pages)
	assert.True(t, list.PeriodVisible)
	require.NotNil(t, list.LoadedAt)
	assert.Equal(t, loaded, *list.LoadedAt)

	st.Search = "ana"
	res.State = st
	res.PeriodApplied = false
	intList := NewList(res, true, time.Time{}, func(n int) int { return n })
	assert.False(t, intList.PeriodVisible)
	assert.Nil(t, intList.LoadedAt)

	intList = NewList(res, false, time.Time{}, func(n int) int { return n })
	assert.False(t, intList.PeriodVisible)
}

func TestErrorStatus(t *testing.T) {
	code, _ := ErrorStatus(fmt.Errorf("op: %w", apiclient.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = ErrorStatus(fmt.Errorf("op: %w", apiclient.ErrUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, msg := ErrorStatus(errors.New("boom"))
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "api unavailable", msg)
}
