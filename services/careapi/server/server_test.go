// Copyright (C) 2025 Meridian Health (engineering@meridianhealth.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhealth/portal/pkg/datatypes"
	"github.com/meridianhealth/portal/services/careapi/config"
	"github.com/meridianhealth/portal/services/careapi/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testNow pins "today" to 2025-01-15 for every handler test.
var testNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, SeedDemo(st))

	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		RateLimit: 1000,
		RateBurst: 1000,
	}
	srv := New(st, cfg, WithNowFunc(func() time.Time { return testNow }))
	return srv.Router()
}

type apiCall struct {
	method string
	path   string
	token  string
	body   any
}

func do(t *testing.T, r *gin.Engine, call apiCall) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if call.body != nil {
		data, err := json.Marshal(call.body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(call.method, call.path, reader)
	req.Header.Set("Content-Type", "application/json")
	if call.token != "" {
		req.Header.Set("Authorization", "Bearer "+call.token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := do(t, r, apiCall{
		method: http.MethodPost,
		path:   "/v1/auth/login",
		body:   datatypes.LoginRequest{Email: email, Password: password},
	})
	require.Equal(t, http.StatusOK, w.Code, "login body: %s", w.Body.String())
	resp := decode[datatypes.LoginResponse](t, w)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func loginPatient(t *testing.T, r *gin.Engine) string {
	return login(t, r, "patient@demo.meridianhealth.io", "patient-demo-pw")
}

func loginStaff(t *testing.T, r *gin.Engine) string {
	return login(t, r, "staff@demo.meridianhealth.io", "staff-demo-pw")
}

func errMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode[map[string]string](t, w)
	return body["error"]
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	r := newTestRouter(t)

	t.Run("valid credentials", func(t *testing.T) {
		token := loginPatient(t, r)

		w := do(t, r, apiCall{method: http.MethodGet, path: "/v1/me", token: token})
		require.Equal(t, http.StatusOK, w.Code)
		profile := decode[datatypes.UserProfile](t, w)
		assert.Equal(t, "Pat Rivera", profile.FullName)
		assert.True(t, profile.HasRole(datatypes.RolePatient))
	})

	t.Run("wrong password and unknown email share one message", func(t *testing.T) {
		wrongPw := do(t, r, apiCall{
			method: http.MethodPost, path: "/v1/auth/login",
			body: datatypes.LoginRequest{Email: "patient@demo.meridianhealth.io", Password: "nope"},
		})
		unknown := do(t, r, apiCall{
			method: http.MethodPost, path: "/v1/auth/login",
			body: datatypes.LoginRequest{Email: "ghost@demo.meridianhealth.io", Password: "nope"},
		})
		assert.Equal(t, http.StatusBadRequest, wrongPw.Code)
		assert.Equal(t, http.StatusBadRequest, unknown.Code)
		assert.Equal(t, errMessage(t, wrongPw), errMessage(t, unknown))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := do(t, r, apiCall{
			method: http.MethodPost, path: "/v1/auth/login",
			body: map[string]string{"email": "patient@demo.meridianhealth.io"},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthRequired(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, apiCall{method: http.MethodGet, path: "/v1/cycles"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/me", token: "forged"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ---------------------------------------------------------------------------
// Cycles
// ---------------------------------------------------------------------------

func TestCycleLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := loginPatient(t, r)

	// Empty history: empty list, 404 predictions.
	w := do(t, r, apiCall{method: http.MethodGet, path: "/v1/cycles", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/cycles/predictions", token: token})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Create.
	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/cycles", token: token,
		body: datatypes.CreateCycleRequest{StartDate: "2025-01-01", CycleLength: 28},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	created := decode[datatypes.MenstrualCycle](t, w)
	assert.True(t, created.Active())

	// Second create while active: rejected with the conflict message.
	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/cycles", token: token,
		body: datatypes.CreateCycleRequest{StartDate: "2025-01-10", CycleLength: 28},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "current cycle must be ended before logging a new one", errMessage(t, w))

	// Predictions now derive from the active cycle.
	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/cycles/predictions", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	pred := decode[datatypes.CyclePrediction](t, w)
	assert.Equal(t, "2025-01-29", pred.NextPeriodDate.String())
	assert.Equal(t, "2025-01-15", pred.OvulationDate.String())
	assert.Equal(t, "2025-01-11", pred.FertilityWindowStart.String())
	assert.Equal(t, "2025-01-16", pred.FertilityWindowEnd.String())

	// Close.
	end := "2025-01-06"
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/cycles/" + created.ID, token: token,
		body: datatypes.UpdateCycleRequest{EndDate: &end},
	})
	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())
	closed := decode[datatypes.MenstrualCycle](t, w)
	assert.False(t, closed.Active())

	// A new cycle can start once the previous one is closed.
	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/cycles", token: token,
		body: datatypes.CreateCycleRequest{StartDate: "2025-01-10", CycleLength: 30},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// List is most recent first.
	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/cycles", token: token})
	require.Equal(t, http.StatusOK, w.Code)
	cycles := decode[[]datatypes.MenstrualCycle](t, w)
	require.Len(t, cycles, 2)
	assert.Equal(t, "2025-01-10", cycles[0].StartDate.String())
	assert.Equal(t, "2025-01-01", cycles[1].StartDate.String())
}

func TestCreateCycleValidation(t *testing.T) {
	r := newTestRouter(t)
	token := loginPatient(t, r)

	tests := []struct {
		name    string
		body    datatypes.CreateCycleRequest
		wantMsg string
	}{
		{
			"unparseable date",
			datatypes.CreateCycleRequest{StartDate: "15/01/2025", CycleLength: 28},
			"start date is not a valid calendar date",
		},
		{
			"future date",
			datatypes.CreateCycleRequest{StartDate: "2025-01-16", CycleLength: 28},
			"start date cannot be in the future",
		},
		{
			"length too short",
			datatypes.CreateCycleRequest{StartDate: "2025-01-01", CycleLength: 20},
			"cycle length must be between 21 and 35 days",
		},
		{
			"length too long",
			datatypes.CreateCycleRequest{StartDate: "2025-01-01", CycleLength: 36},
			"cycle length must be between 21 and 35 days",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, apiCall{method: http.MethodPost, path: "/v1/cycles", token: token, body: tt.body})
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, errMessage(t, w))
		})
	}
}

func TestUpdateCycleValidation(t *testing.T) {
	r := newTestRouter(t)
	token := loginPatient(t, r)

	w := do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/cycles", token: token,
		body: datatypes.CreateCycleRequest{StartDate: "2025-01-10", CycleLength: 28},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[datatypes.MenstrualCycle](t, w)

	badEnd := "2025-01-09"
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/cycles/" + created.ID, token: token,
		body: datatypes.UpdateCycleRequest{EndDate: &badEnd},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "end date cannot be before the cycle start date", errMessage(t, w))

	futureEnd := "2025-01-20"
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/cycles/" + created.ID, token: token,
		body: datatypes.UpdateCycleRequest{EndDate: &futureEnd},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "end date cannot be in the future", errMessage(t, w))

	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/cycles/does-not-exist", token: token,
		body: datatypes.UpdateCycleRequest{},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCyclesAreRoleGated(t *testing.T) {
	r := newTestRouter(t)
	staffToken := loginStaff(t, r)

	w := do(t, r, apiCall{method: http.MethodGet, path: "/v1/cycles", token: staffToken})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ---------------------------------------------------------------------------
// Appointments
// ---------------------------------------------------------------------------

func TestAppointmentWorkflow(t *testing.T) {
	r := newTestRouter(t)
	patient := loginPatient(t, r)
	staff := loginStaff(t, r)

	w := do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/appointments", token: patient,
		body: datatypes.BookAppointmentRequest{
			Department: "gynecology", Date: "2025-02-01", Slot: "09:30", Reason: "annual checkup",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	appt := decode[datatypes.Appointment](t, w)
	assert.Equal(t, datatypes.AppointmentPending, appt.Status)

	// Patients cannot confirm their own appointment.
	confirmed := datatypes.AppointmentConfirmed
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/appointments/" + appt.ID, token: patient,
		body: datatypes.UpdateAppointmentRequest{Status: &confirmed},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "patients can only cancel appointments", errMessage(t, w))

	// Staff confirm it.
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/appointments/" + appt.ID, token: staff,
		body: datatypes.UpdateAppointmentRequest{Status: &confirmed},
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Completed appointments cannot be reopened.
	completed := datatypes.AppointmentCompleted
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/appointments/" + appt.ID, token: staff,
		body: datatypes.UpdateAppointmentRequest{Status: &completed},
	})
	require.Equal(t, http.StatusOK, w.Code)

	pending := datatypes.AppointmentPending
	w = do(t, r, apiCall{
		method: http.MethodPatch, path: "/v1/appointments/" + appt.ID, token: staff,
		body: datatypes.UpdateAppointmentRequest{Status: &pending},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookAppointmentRejectsBadSlot(t *testing.T) {
	r := newTestRouter(t)
	token := loginPatient(t, r)

	w := do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/appointments", token: token,
		body: datatypes.BookAppointmentRequest{Department: "gynecology", Date: "2025-02-01", Slot: "9:30am"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookAppointmentRejectsPastDates(t *testing.T) {
	r := newTestRouter(t)
	token := loginPatient(t, r)

	w := do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/appointments", token: token,
		body: datatypes.BookAppointmentRequest{Department: "gynecology", Date: "2025-01-14", Slot: "09:30"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "appointment date cannot be in the past", errMessage(t, w))
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

func TestResultPublishAndVisibility(t *testing.T) {
	r := newTestRouter(t)
	patient := loginPatient(t, r)
	staff := loginStaff(t, r)

	// Patients cannot publish.
	w := do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/results", token: patient,
		body: datatypes.PublishResultRequest{PatientID: "usr-patient-demo", TestName: "CBC", CollectedAt: "2025-01-10"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Staff publish a result for the demo patient.
	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/results", token: staff,
		body: datatypes.PublishResultRequest{
			PatientID: "usr-patient-demo", TestName: "CBC", CollectedAt: "2025-01-10",
			Values: []datatypes.ResultValue{{Name: "Hemoglobin", Value: "13.5", Unit: "g/dL"}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	published := decode[datatypes.TestResult](t, w)

	// The patient sees it in their list, without the value breakdown.
	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/results", token: patient})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]datatypes.TestResult](t, w)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Values)

	// Full record by ID.
	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/results/" + published.ID, token: patient})
	require.Equal(t, http.StatusOK, w.Code)
	full := decode[datatypes.TestResult](t, w)
	require.Len(t, full.Values, 1)

	// Publishing to an unknown patient is rejected.
	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/results", token: staff,
		body: datatypes.PublishResultRequest{PatientID: "usr-ghost", TestName: "CBC", CollectedAt: "2025-01-10"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown patient", errMessage(t, w))
}

// ---------------------------------------------------------------------------
// Blog
// ---------------------------------------------------------------------------

func TestBlogReadIsPublic(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, apiCall{method: http.MethodGet, path: "/v1/blog"})
	require.Equal(t, http.StatusOK, w.Code)
	posts := decode[[]datatypes.BlogPost](t, w)
	require.Len(t, posts, 2)
	assert.Empty(t, posts[0].Body, "list omits bodies")

	w = do(t, r, apiCall{method: http.MethodGet, path: "/v1/blog/" + posts[0].Slug})
	require.Equal(t, http.StatusOK, w.Code)
	full := decode[datatypes.BlogPost](t, w)
	assert.NotEmpty(t, full.Body)
}

func TestBlogPublish(t *testing.T) {
	r := newTestRouter(t)
	staff := loginStaff(t, r)
	patient := loginPatient(t, r)

	w := do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/blog", token: patient,
		body: datatypes.CreateBlogPostRequest{Title: "Nope", Body: "x"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/blog", token: staff,
		body: datatypes.CreateBlogPostRequest{Title: "Tracking Sleep & Cycles!", Body: "Text."},
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	post := decode[datatypes.BlogPost](t, w)
	assert.Equal(t, "tracking-sleep-cycles", post.Slug)
	assert.Equal(t, "Sam Okafor", post.Author)

	// Same title again: duplicate slug.
	w = do(t, r, apiCall{
		method: http.MethodPost, path: "/v1/blog", token: staff,
		body: datatypes.CreateBlogPostRequest{Title: "Tracking Sleep & Cycles!", Body: "Text."},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", slugify("Hello, World"))
	assert.Equal(t, "a-b-c", slugify("  a  b  c  "))
	assert.Equal(t, "", slugify("!!!"))
}

// ---------------------------------------------------------------------------
// Infrastructure
// ---------------------------------------------------------------------------

func TestHealthAndMetricsEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, apiCall{method: http.MethodGet, path: "/healthz"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, apiCall{method: http.MethodGet, path: "/metrics"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "careapi_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, SeedDemo(st))
	srv := New(st, &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		RateLimit: 1,
		RateBurst: 2,
	}, WithNowFunc(func() time.Time { return testNow }))
	r := srv.Router()

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		w := do(t, r, apiCall{method: http.MethodGet, path: "/healthz"})
		codes[w.Code]++
	}
	assert.Positive(t, codes[http.StatusTooManyRequests])
}
