/*
handlers_test.go - HTTP tests for the game API

Tests for:
- Reference data and presets
- The month cycle over HTTP (new game, ledger, check, month)
- Error mapping (404 / 400 / 409)
- Save slots and autosave failure reporting
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/lifesim/catalog"
	"github.com/warp/lifesim/generic"
	"github.com/warp/lifesim/generic/store"
	"github.com/warp/lifesim/session"
	"github.com/warp/lifesim/sim"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestRouter(t *testing.T) (http.Handler, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	engine := sim.NewEngine(catalog.Default(), sim.DefaultParams())
	saves := session.NewSaveManager(mem, nil, session.WithRetry(2, time.Millisecond))
	h := NewHandler(session.NewRegistry(engine, saves, nil, 7), nil)
	return NewRouter(h, nil), mem
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func startGame(t *testing.T, h http.Handler, preset string) sim.State {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/users/alice/game", NewGameRequest{Preset: preset})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[sim.State](t, rec)
}

// =============================================================================
// REFERENCE DATA
// =============================================================================

func TestCatalogEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)

	for _, path := range []string{"jobs", "courses", "transit", "cities", "services"} {
		rec := do(t, h, http.MethodGet, "/api/catalog/"+path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		items := decodeBody[[]json.RawMessage](t, rec)
		assert.NotEmpty(t, items, path)
	}

	rec := do(t, h, http.MethodGet, "/api/catalog/vehicles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	vehicles := decodeBody[VehicleCatalogDTO](t, rec)
	assert.NotEmpty(t, vehicles.Classes)
	assert.NotEmpty(t, vehicles.Models)
}

func TestListPresets(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/presets", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	presets := decodeBody[[]PresetDTO](t, rec)
	require.Len(t, presets, 3)
	assert.Equal(t, "default", presets[0].ID)
}

// =============================================================================
// MONTH CYCLE
// =============================================================================

func TestMonthCycle(t *testing.T) {
	// GIVEN: A fresh default game
	// WHEN: The player builds the ledger, checks the last line and ends the
	//       month
	// THEN: The check is correct and the game moves one month ahead

	h, mem := newTestRouter(t)
	start := startGame(t, h, "")
	assert.True(t, start.Accounts.Checking.Equal(generic.NewMoneyFromInt(1200)))

	rec := do(t, h, http.MethodPost, "/api/users/alice/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ledger := decodeBody[generic.Ledger](t, rec)
	last := len(ledger.Lines) - 1
	assert.True(t, ledger.Final().Equal(generic.NewMoneyFromInt(1728)))

	rec = do(t, h, http.MethodPost, "/api/users/alice/ledger/"+strconv.Itoa(last)+"/check", CheckRowRequest{Value: ledger.Final()})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	check := decodeBody[CheckRowResponse](t, rec)
	assert.True(t, check.Result.Correct)
	assert.Equal(t, 1, check.State.Streaks.Calculation)

	rec = do(t, h, http.MethodPost, "/api/users/alice/month", PaymentsRequest{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	month := decodeBody[MonthResponse](t, rec)
	assert.Empty(t, month.AutosaveError)
	assert.Equal(t, start.Date.Next(), month.State.Date)
	require.NotNil(t, month.Outcome)

	slots, err := mem.List(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, slots, 1, "the month was autosaved")
}

func TestProcessMonth_AutosaveFailureReported(t *testing.T) {
	h, mem := newTestRouter(t)
	start := startGame(t, h, "")
	mem.FailNext = 10

	rec := do(t, h, http.MethodPost, "/api/users/alice/month", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	month := decodeBody[MonthResponse](t, rec)
	assert.NotEmpty(t, month.AutosaveError)
	assert.Equal(t, start.Date.Next(), month.State.Date, "the month is committed anyway")
}

func TestLoans(t *testing.T) {
	h, _ := newTestRouter(t)
	startGame(t, h, "in-debt")

	rec := do(t, h, http.MethodGet, "/api/users/alice/loans?payment=500", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decodeBody[sim.LoanSummary](t, rec)
	assert.True(t, sum.Debt.Equal(generic.NewMoneyFromInt(5000)))
	assert.True(t, sum.Payment.Equal(generic.NewMoneyFromInt(500)))

	rec = do(t, h, http.MethodGet, "/api/users/alice/loans?payment=lots", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestErrorMapping(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/users/alice/game", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no game yet")
	assert.Equal(t, "not_found", decodeBody[ErrorResponse](t, rec).Code)

	startGame(t, h, "")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown course", http.MethodPost, "/api/users/alice/enroll", EnrollRequest{Course: "Wizardry"}, http.StatusNotFound},
		{"unmet prerequisite", http.MethodPost, "/api/users/alice/enroll", EnrollRequest{Course: "Bachelors Degree"}, http.StatusBadRequest},
		{"unknown preset", http.MethodPost, "/api/users/alice/game", NewGameRequest{Preset: "royalty"}, http.StatusNotFound},
		{"unknown vehicle", http.MethodPost, "/api/users/alice/vehicles/nope/unlist", nil, http.StatusNotFound},
		{"cash purchase without funds", http.MethodPost, "/api/users/alice/vehicles", BuyVehicleRequest{ModelID: "honda-civic-2024", Mode: sim.BuyCashNew}, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/users/alice/enroll", "{", http.StatusBadRequest},
		{"bad line id", http.MethodPost, "/api/users/alice/ledger/x/check", CheckRowRequest{}, http.StatusBadRequest},
		{"missing line", http.MethodPost, "/api/users/alice/ledger/99/check", CheckRowRequest{}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestApplyForJob_DuplicateIsConflict(t *testing.T) {
	h, _ := newTestRouter(t)
	startGame(t, h, "")

	rec := do(t, h, http.MethodPost, "/api/users/alice/applications", ApplyRequest{Title: "Bank Teller"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/users/alice/applications", ApplyRequest{Title: "Bank Teller"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/alice/applications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]json.RawMessage](t, rec), 1)
}

// =============================================================================
// STAGING
// =============================================================================

func TestStagingEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)
	startGame(t, h, "")

	rec := do(t, h, http.MethodPost, "/api/users/alice/enroll", EnrollRequest{Course: "Sales"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decodeBody[sim.State](t, rec)
	require.NotNil(t, st.Education)
	assert.Equal(t, "Sales", st.Education.CourseName)

	rec = do(t, h, http.MethodDelete, "/api/users/alice/enroll", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[sim.State](t, rec).Education)

	rec = do(t, h, http.MethodPost, "/api/users/alice/relocate", RelocateRequest{City: "Seattle, US", NoticeMonths: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reloc := decodeBody[sim.Relocation](t, rec)
	assert.Equal(t, "Seattle, US", reloc.City.Name)

	rec = do(t, h, http.MethodPost, "/api/users/alice/entertainment", EntertainmentRequest{Amount: generic.NewMoneyFromInt(10000)})
	require.Equal(t, http.StatusOK, rec.Code)
	ent := decodeBody[EntertainmentDTO](t, rec)
	assert.True(t, ent.Set.LessThan(ent.Requested), "clamped to the cap")
}

// =============================================================================
// SAVES
// =============================================================================

func TestSaveEndpoints(t *testing.T) {
	h, _ := newTestRouter(t)
	startGame(t, h, "")

	rec := do(t, h, http.MethodPost, "/api/users/alice/saves", SaveRequest{Name: "first"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	slots := decodeBody[[]generic.SlotInfo](t, rec)
	require.Len(t, slots, 1)

	rec = do(t, h, http.MethodPost, "/api/users/alice/month", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/users/alice/saves/first/rename", RenameSaveRequest{Name: "second"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/users/alice/saves/second/load", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/api/users/alice/saves/"+generic.AutosaveSlot, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "autosave is protected")

	rec = do(t, h, http.MethodDelete, "/api/users/alice/saves/second", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/users/alice/saves/second/load", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
