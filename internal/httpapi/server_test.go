package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrak/opsdash/internal/merge"
	"github.com/meditrak/opsdash/internal/model"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func testState() *State {
	s := NewState()
	s.Set(&merge.Result{
		IP: []model.Admission{
			{
				AdmissionNo:   "A1",
				DoctorName:    "Dr Sharma",
				DischargeDate: day(2024, time.March, 5),
				Revenue:       decimal.NewFromInt(1000),
				Group:         "SURGICAL",
				Expired:       "no",
			},
			{
				AdmissionNo:   "A2",
				DoctorName:    "Dr Mehta",
				DischargeDate: day(2024, time.March, 6),
				Revenue:       decimal.NewFromInt(2000),
				Group:         "MEDICAL",
				Expired:       "no",
			},
		},
	}, "batch-1")
	return s
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "batch-1", body["batch_id"])
	assert.Equal(t, float64(2), body["ip_rows"])
}

func TestFiltersEndpoint(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/filters")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Doctors []string `json:"doctors"`
		Groups  []string `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"Dr Mehta", "Dr Sharma"}, body.Doctors)
	assert.Equal(t, []string{"MEDICAL", "SURGICAL"}, body.Groups)
}

func TestIPUnknownDoctorEmptyOK(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/ip?doctor=Dr+Nobody")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Rows)
}

func TestIPFiltered(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/ip?doctor=dr+sharma")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Rows []struct {
			AdmissionNo string `json:"AdmissionNo"`
		} `json:"rows"`
		KPIs struct {
			Admissions int `json:"admissions"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "A1", body.Rows[0].AdmissionNo)
	assert.Equal(t, 1, body.KPIs.Admissions)
}

func TestIPBadDate(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/ip?from=03-2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestYearlyEndpointCarriesBothMeasures(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/reports/yearly")
	require.Equal(t, http.StatusOK, w.Code)

	var body []struct {
		Year       int    `json:"year"`
		Admissions int    `json:"admissions"`
		Revenue    string `json:"revenue"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, 2024, body[0].Year)
	assert.Equal(t, 2, body[0].Admissions)
	assert.Equal(t, "3000", body[0].Revenue)
}

func TestNABLEndpoint(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/reports/nabl?year=2024&month=3")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Month      string `json:"month"`
		Discharges []struct {
			Band  string `json:"band"`
			Total int    `json:"total"`
		} `json:"discharges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "March", body.Month)
	require.NotEmpty(t, body.Discharges)
	assert.Equal(t, 2, body.Discharges[len(body.Discharges)-1].Total)
}

func TestNABLPDFUnavailableWithoutRenderer(t *testing.T) {
	srv := NewServer(zerolog.Nop(), testState(), nil, nil)
	w := get(t, srv, "/api/v1/reports/nabl.pdf")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRefreshSwapsState(t *testing.T) {
	state := testState()
	refresh := func(ctx context.Context) (*merge.Result, *model.RefreshSummary, error) {
		return &merge.Result{IP: []model.Admission{{AdmissionNo: "B1", Expired: "no"}}},
			&model.RefreshSummary{BatchID: "batch-2", Admissions: 1}, nil
	}
	srv := NewServer(zerolog.Nop(), state, refresh, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	res, _, batchID := state.Snapshot()
	assert.Equal(t, "batch-2", batchID)
	require.Len(t, res.IP, 1)
	assert.Equal(t, "B1", res.IP[0].AdmissionNo)
}

func TestRefreshFailureKeepsState(t *testing.T) {
	state := testState()
	refresh := func(ctx context.Context) (*merge.Result, *model.RefreshSummary, error) {
		return nil, nil, errors.New("source folder missing")
	}
	srv := NewServer(zerolog.Nop(), state, refresh, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil)
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	res, _, batchID := state.Snapshot()
	assert.Equal(t, "batch-1", batchID)
	assert.Len(t, res.IP, 2)
}

func TestConcurrentRefreshConflicts(t *testing.T) {
	state := testState()
	started := make(chan struct{})
	release := make(chan struct{})
	refresh := func(ctx context.Context) (*merge.Result, *model.RefreshSummary, error) {
		close(started)
		<-release
		return &merge.Result{}, &model.RefreshSummary{BatchID: "batch-3"}, nil
	}
	srv := NewServer(zerolog.Nop(), state, refresh, nil)
	router := srv.Router()

	var wg sync.WaitGroup
	wg.Add(1)
	first := httptest.NewRecorder()
	go func() {
		defer wg.Done()
		router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))
	}()

	<-started
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil))
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	wg.Wait()
	assert.Equal(t, http.StatusOK, first.Code)
}
