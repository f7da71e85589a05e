package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingBody struct {
	ID         string `json:"id"`
	SessionID  string `json:"session_id"`
	CancelCode string `json:"cancel_code"`
}

func TestCreateBooking(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, true)
	sessionID := ts.createSession(t, festivalID, map[string]any{
		"booking_enabled": true,
	})

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Dana Kaplan",
		"email": "dana@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	data := decodeEnvelope[bookingBody](t, resp.Body.Bytes())
	assert.NotEmpty(t, data.CancelCode)
	assert.Equal(t, sessionID, data.SessionID)
}

func TestCreateBooking_Disabled(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, true)
	sessionID := ts.createSession(t, festivalID, nil)

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Dana Kaplan",
		"email": "dana@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestCreateBooking_CapacityEnforced(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, true)
	sessionID := ts.createSession(t, festivalID, map[string]any{
		"booking_enabled":  true,
		"booking_capacity": 1,
	})

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Dana Kaplan",
		"email": "dana@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Eli Ortiz",
		"email": "eli@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "fully booked")
}

func TestCreateBooking_InvalidEmail(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, true)
	sessionID := ts.createSession(t, festivalID, map[string]any{
		"booking_enabled": true,
	})

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Dana Kaplan",
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCancelBooking(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, true)
	sessionID := ts.createSession(t, festivalID, map[string]any{
		"booking_enabled": true,
	})

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Dana Kaplan",
		"email": "dana@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	data := decodeEnvelope[bookingBody](t, resp.Body.Bytes())

	resp = ts.api.Delete("/api/v1/bookings/" + data.CancelCode)
	assert.Equal(t, http.StatusNoContent, resp.Code, resp.Body.String())

	resp = ts.api.Delete("/api/v1/bookings/" + data.CancelCode)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListSessionBookings_HidesCancelCodes(t *testing.T) {
	ts := setupTestServer(t)
	festivalID := ts.createFestival(t, true)
	sessionID := ts.createSession(t, festivalID, map[string]any{
		"booking_enabled": true,
	})

	resp := ts.api.Post("/api/v1/sessions/"+sessionID+"/bookings", map[string]any{
		"name":  "Dana Kaplan",
		"email": "dana@example.com",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/sessions/" + sessionID + "/bookings")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "cancel_code")
}
