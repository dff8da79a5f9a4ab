package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/chat"
)

type testConfig struct{}

func (testConfig) Port() int {
	return 0
}

type fakeChat struct {
	resp chat.Response
	err  error
}

func (f *fakeChat) HandleMessage(_ context.Context, _ string) (chat.Response, error) {
	return f.resp, f.err
}

type fakeDashboard struct {
	recent    []expense.Record
	summary   expense.Summary
	gotLimit  int
	recentErr error
}

func (f *fakeDashboard) Recent(_ context.Context, limit int) ([]expense.Record, error) {
	f.gotLimit = limit
	return f.recent, f.recentErr
}

func (f *fakeDashboard) Summary(_ context.Context, _ time.Time) (expense.Summary, error) {
	return f.summary, nil
}

func strPtr(s string) *string {
	return &s
}

func sampleRecord() expense.Record {
	return expense.Record{
		ID:          1,
		Merchant:    "Walmart",
		Amount:      70,
		Currency:    "USD",
		Category:    strPtr("groceries"),
		ExpenseDate: expense.NewDate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)),
		CreatedAt:   time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
	}
}

func newTestServer(t *testing.T, chatSvc chatService, dash dashboardService) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(testConfig{}, chatSvc, dash).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func Test_OnChat_ShouldReturnReplyAndExpenses(t *testing.T) {
	chatSvc := &fakeChat{resp: chat.Response{
		Reply:    "Got it! I've added these expenses to your tracker.",
		Expenses: []expense.Record{sampleRecord()},
	}}
	srv := newTestServer(t, chatSvc, &fakeDashboard{})

	res, err := http.Post(srv.URL+"/chat", "application/json",
		strings.NewReader(`{"message":"I spent 70 dollars at Walmart"}`))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Reply    string           `json:"reply"`
		Expenses []map[string]any `json:"expenses"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Contains(t, body.Reply, "I've added these expenses")
	require.Len(t, body.Expenses, 1)
	assert.Equal(t, "Walmart", body.Expenses[0]["merchant"])
	assert.Equal(t, "2024-03-15", body.Expenses[0]["expense_date"])
	assert.Equal(t, "2024-03-15T12:00:00Z", body.Expenses[0]["created_at"])
	assert.Nil(t, body.Expenses[0]["note"])
}

func Test_OnChat_WithBadBody_ShouldAnswer400(t *testing.T) {
	srv := newTestServer(t, &fakeChat{}, &fakeDashboard{})

	res, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func Test_OnChat_OnPersistenceFailure_ShouldAnswer500(t *testing.T) {
	chatSvc := &fakeChat{err: errors.New("db down")}
	srv := newTestServer(t, chatSvc, &fakeDashboard{})

	res, err := http.Post(srv.URL+"/chat", "application/json",
		strings.NewReader(`{"message":"walmart run"}`))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func Test_OnChat_WithWrongMethod_ShouldAnswer405(t *testing.T) {
	srv := newTestServer(t, &fakeChat{}, &fakeDashboard{})

	res, err := http.Get(srv.URL + "/chat")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func Test_OnRecent_ShouldUseLimitParam(t *testing.T) {
	dash := &fakeDashboard{recent: []expense.Record{sampleRecord()}}
	srv := newTestServer(t, &fakeChat{}, dash)

	res, err := http.Get(srv.URL + "/expenses/recent?limit=5")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, 5, dash.gotLimit)

	var records []map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "groceries", records[0]["category"])
}

func Test_OnRecent_WithBadLimit_ShouldFallBackToDefault(t *testing.T) {
	dash := &fakeDashboard{}
	srv := newTestServer(t, &fakeChat{}, dash)

	res, err := http.Get(srv.URL + "/expenses/recent?limit=zero")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, defaultRecentLimit, dash.gotLimit)
}

func Test_OnSummary_ShouldReturnTotalsAndRecent(t *testing.T) {
	dash := &fakeDashboard{summary: expense.Summary{
		TodayTotal: 90,
		MonthTotal: 95,
		Recent:     []expense.Record{sampleRecord()},
	}}
	srv := newTestServer(t, &fakeChat{}, dash)

	res, err := http.Get(srv.URL + "/dashboard/summary")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, 90.0, body["today_total"])
	assert.Equal(t, 95.0, body["month_total"])
	assert.Len(t, body["recent_expenses"], 1)
}
