package handler_test

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/ticket-inventory/internal/handler"
    "github.com/iliyamo/ticket-inventory/internal/inventory"
    "github.com/iliyamo/ticket-inventory/internal/lock"
)

func newSeatHandler(t *testing.T) (*handler.SeatHandler, *inventory.Store) {
    t.Helper()
    store := inventory.NewStore()
    require.NoError(t, store.Materialize(1))
    return handler.NewSeatHandler(store, lock.NewManager(store, 5*time.Minute)), store
}

func doJSON(e *echo.Echo, method, path, body string, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(method, path, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    c.SetPath(path)
    for i := 0; i+1 < len(params); i += 2 {
        c.SetParamNames(params[i])
        c.SetParamValues(params[i+1])
    }
    _ = h(c)
    return rec
}

func TestHoldEndpointGrantsSeats(t *testing.T) {
    h, _ := newSeatHandler(t)
    e := echo.New()

    rec := doJSON(e, http.MethodPost, "/v1/shows/:id/hold",
        `{"seat_ids":[1,2],"holder_token":"session-a"}`, h.Hold, "id", "1")
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

    var resp struct {
        SeatIDs   []uint64  `json:"seat_ids"`
        ExpiresAt time.Time `json:"expires_at"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, []uint64{1, 2}, resp.SeatIDs)
    assert.WithinDuration(t, time.Now().UTC().Add(5*time.Minute), resp.ExpiresAt, 2*time.Second)
}

func TestHoldEndpointConflictListsSeats(t *testing.T) {
    h, _ := newSeatHandler(t)
    e := echo.New()

    rec := doJSON(e, http.MethodPost, "/v1/shows/:id/hold",
        `{"seat_ids":[1,2],"holder_token":"session-a"}`, h.Hold, "id", "1")
    require.Equal(t, http.StatusOK, rec.Code)

    // A competing session asking for an overlapping batch is refused
    // wholesale, including the seat that was still free.
    rec = doJSON(e, http.MethodPost, "/v1/shows/:id/hold",
        `{"seat_ids":[2,3],"holder_token":"session-b"}`, h.Hold, "id", "1")
    require.Equal(t, http.StatusConflict, rec.Code)

    var resp struct {
        Unavailable []uint64 `json:"unavailable_seats"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    assert.Equal(t, []uint64{2}, resp.Unavailable)
}

func TestHoldEndpointRequiresToken(t *testing.T) {
    h, _ := newSeatHandler(t)
    e := echo.New()

    rec := doJSON(e, http.MethodPost, "/v1/shows/:id/hold",
        `{"seat_ids":[1]}`, h.Hold, "id", "1")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSeatListReflectsHolds(t *testing.T) {
    h, _ := newSeatHandler(t)
    e := echo.New()

    rec := doJSON(e, http.MethodPost, "/v1/shows/:id/hold",
        `{"seat_ids":[1],"holder_token":"session-a"}`, h.Hold, "id", "1")
    require.Equal(t, http.StatusOK, rec.Code)

    rec = doJSON(e, http.MethodGet, "/v1/shows/:id/seats", "", h.List, "id", "1")
    require.Equal(t, http.StatusOK, rec.Code)

    var resp struct {
        Seats []struct {
            ID     uint64 `json:"id"`
            Label  string `json:"label"`
            Status string `json:"status"`
        } `json:"seats"`
    }
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
    require.Len(t, resp.Seats, 100)
    assert.Equal(t, "A1", resp.Seats[0].Label)
    assert.Equal(t, "HELD", resp.Seats[0].Status)
    assert.Equal(t, "FREE", resp.Seats[1].Status)
}

func TestReleaseEndpointIsIdempotent(t *testing.T) {
    h, _ := newSeatHandler(t)
    e := echo.New()

    rec := doJSON(e, http.MethodPost, "/v1/shows/:id/hold",
        `{"seat_ids":[1],"holder_token":"session-a"}`, h.Hold, "id", "1")
    require.Equal(t, http.StatusOK, rec.Code)

    rec = doJSON(e, http.MethodDelete, "/v1/shows/:id/hold",
        `{"seat_ids":[1]}`, h.Release, "id", "1")
    assert.Equal(t, http.StatusNoContent, rec.Code)

    rec = doJSON(e, http.MethodDelete, "/v1/shows/:id/hold",
        `{"seat_ids":[1]}`, h.Release, "id", "1")
    assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSeatListUnknownShow(t *testing.T) {
    h, _ := newSeatHandler(t)
    e := echo.New()

    rec := doJSON(e, http.MethodGet, "/v1/shows/:id/seats", "", h.List, "id", "99")
    assert.Equal(t, http.StatusNotFound, rec.Code)
}
