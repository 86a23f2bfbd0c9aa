package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/members-console/internal/models"
)

var march2024 = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func member(id, name string, status models.MemberStatus) models.Member {
	return models.Member{ID: id, Name: name, Status: status}
}

func payment(id string, m *models.Member, month, year int, status models.PaymentStatus) models.Payment {
	p := models.Payment{ID: id, Month: month, Year: year, Status: status, Amount: 120}
	if m != nil {
		p.MemberID = m.ID
		p.Member = m
	}
	return p
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

func memberIDs(items []models.Member) []string {
	return ids(items, func(m models.Member) string { return m.ID })
}

func paymentIDs(items []models.Payment) []string {
	return ids(items, func(p models.Payment) string { return p.ID })
}

func TestMemberEngine_SearchIgnoresAccents(t *testing.T) {
	members := []models.Member{
		member("1", "José Müller", models.MemberActive),
		member("2", "Ana Silva", models.MemberActive),
	}
	st := DefaultState()
	st.SetSearch("jose")

	res := NewMemberEngine().Recompute(st, members, march2024)

	assert.Equal(t, []string{"1"}, memberIDs(res.Page.Items))
	assert.False(t, res.PeriodApplied)
}

func TestMemberEngine_StatusAndInputOrder(t *testing.T) {
	members := []models.Member{
		member("3", "Carlos Oliveira", models.MemberInactive),
		member("1", "Ana Silva", models.MemberActive),
		member("2", "Bruno Costa", models.MemberActive),
	}

	tests := []struct {
		name   string
		status string
		want   []string
	}{
		{name: "все", status: StatusAll, want: []string{"3", "1", "2"}},
		{name: "пустой статус как все", status: "", want: []string{"3", "1", "2"}},
		{name: "активные", status: string(models.MemberActive), want: []string{"1", "2"}},
		{name: "неактивные", status: string(models.MemberInactive), want: []string{"3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultState()
			st.Status = tt.status
			res := NewMemberEngine().Recompute(st, members, march2024)
			assert.Equal(t, tt.want, memberIDs(res.Page.Items))
		})
	}
}

func TestEngine_VacuousSearch(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	payments := []models.Payment{
		payment("p1", &ana, 3, 2024, models.PaymentPaid),
		payment("p2", &ana, 3, 2024, models.PaymentPending),
		payment("p3", nil, 3, 2024, models.PaymentPaid),
		payment("p4", &ana, 1, 2024, models.PaymentPaid),
	}

	st := DefaultState()
	st.Status = string(models.PaymentPaid)
	st.PageSize = 50

	res := NewPaymentEngine().Recompute(st, payments, march2024)

	// пустой поиск не отсекает ничего, статус и период применяются
	assert.Equal(t, []string{"p1", "p3"}, paymentIDs(res.Page.Items))
	assert.True(t, res.PeriodApplied)
}

func TestPaymentEngine_LastMonthMarch2024(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	payments := []models.Payment{
		payment("mar", &ana, 3, 2024, models.PaymentPaid),
		payment("feb", &ana, 2, 2024, models.PaymentPaid),
		payment("jan", &ana, 1, 2024, models.PaymentPending),
	}
	st := DefaultState()
	st.SetPeriodMode(PeriodLastMonth)

	res := NewPaymentEngine().Recompute(st, payments, march2024)

	assert.Equal(t, []string{"feb"}, paymentIDs(res.Page.Items))
}

func TestPaymentEngine_MarksOnlySearchKeepsPeriod(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	payments := []models.Payment{
		payment("mar", &ana, 3, 2024, models.PaymentPaid),
		payment("feb", &ana, 2, 2024, models.PaymentPaid),
	}
	st := DefaultState()
	st.SetPeriodMode(PeriodLastMonth)
	st.SetSearch("\u0301")

	res := NewPaymentEngine().Recompute(st, payments, march2024)

	assert.True(t, res.PeriodApplied)
	assert.Equal(t, []string{"feb"}, paymentIDs(res.Page.Items))
}

func TestPaymentEngine_SearchOverridesPeriod(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	mariana := member("2", "Mariana Lopes", models.MemberActive)
	bruno := member("3", "Bruno Costa", models.MemberActive)
	payments := []models.Payment{
		payment("a1", &ana, 11, 2023, models.PaymentPending),
		payment("a2", &ana, 7, 2022, models.PaymentPaid),
		payment("m1", &mariana, 1, 2024, models.PaymentPending),
		payment("b1", &bruno, 7, 2022, models.PaymentPending),
	}

	st := DefaultState()
	st.SetSpecific(7, 2022)
	st.SetStatus(string(models.PaymentPending))
	st.SetSearch("ana")

	res := NewPaymentEngine().Recompute(st, payments, march2024)

	assert.False(t, res.PeriodApplied)
	assert.Equal(t, []string{"m1", "a1"}, paymentIDs(res.Page.Items))
}

func TestPaymentEngine_SortDescendingStable(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	bruno := member("2", "Bruno Costa", models.MemberActive)
	payments := []models.Payment{
		payment("a-2023-12", &ana, 12, 2023, models.PaymentPaid),
		payment("a-2024-02", &ana, 2, 2024, models.PaymentPaid),
		payment("b-2024-02", &bruno, 2, 2024, models.PaymentPending),
		payment("b-2024-01", &bruno, 1, 2024, models.PaymentPending),
		payment("a-2024-01", &ana, 1, 2024, models.PaymentPaid),
	}
	st := DefaultState()
	st.SetPeriodMode(PeriodAll)

	res := NewPaymentEngine().Recompute(st, payments, march2024)

	assert.Equal(t, []string{"a-2024-02", "b-2024-02", "b-2024-01", "a-2024-01", "a-2023-12"}, paymentIDs(res.Page.Items))
}

func TestPaymentEngine_TwentyThreeItemsThirdPage(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	payments := make([]models.Payment, 0, 23)
	for i := range 23 {
		payments = append(payments, payment(fmt.Sprintf("p%02d", i+1), &ana, 3, 2024, models.PaymentPaid))
	}
	st := DefaultState()
	st.PageIndex = 3

	res := NewPaymentEngine().Recompute(st, payments, march2024)

	assert.Equal(t, 3, res.Page.TotalPages)
	assert.Equal(t, []string{"p21", "p22", "p23"}, paymentIDs(res.Page.Items))
	assert.Equal(t, 21, res.Page.StartRow())
}

func TestEngine_ClampsStalePageIndex(t *testing.T) {
	members := []models.Member{member("1", "Ana Silva", models.MemberActive)}
	st := DefaultState()
	st.PageIndex = 7

	res := NewMemberEngine().Recompute(st, members, march2024)

	require.Equal(t, 1, res.Page.TotalPages)
	assert.Equal(t, 1, res.State.PageIndex)
	assert.Equal(t, []string{"1"}, memberIDs(res.Page.Items))
}

func TestEngine_EmptyCollection(t *testing.T) {
	res := NewPaymentEngine().Recompute(DefaultState(), nil, march2024)

	assert.Empty(t, res.Page.Items)
	assert.NotNil(t, res.Page.Items)
	assert.Equal(t, 1, res.Page.TotalPages)
	assert.Equal(t, 1, res.State.PageIndex)
}

func TestEngine_DoesNotMutateInput(t *testing.T) {
	ana := member("1", "Ana Silva", models.MemberActive)
	payments := []models.Payment{
		payment("old", &ana, 1, 2024, models.PaymentPaid),
		payment("new", &ana, 3, 2024, models.PaymentPaid),
	}
	st := DefaultState()
	st.SetPeriodMode(PeriodAll)

	NewPaymentEngine().Recompute(st, payments, march2024)

	assert.Equal(t, []string{"old", "new"}, paymentIDs(payments))
}
