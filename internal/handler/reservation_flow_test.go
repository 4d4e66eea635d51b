package handler

// End-to-end tests for the reservation flow against a real MySQL
// instance.  They are skipped unless SRC_TEST_DB_DSN points at a
// disposable database, e.g.
//
//	SRC_TEST_DB_DSN='root@tcp(127.0.0.1:3306)/slotreserve_test?parseTime=true&loc=UTC'
//
// The suite drops and recreates the reservation tables on every run.

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventbook/slot-reservation/internal/repository"
)

var testDDL = []string{
	`CREATE TABLE events (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		title VARCHAR(255) NOT NULL,
		description TEXT NULL,
		status ENUM('draft','active','paused','completed','cancelled') NOT NULL DEFAULT 'draft',
		visibility ENUM('public','unlisted','private') NOT NULL DEFAULT 'public',
		weekdays VARCHAR(32) NULL,
		window_start TIME NULL,
		window_end TIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB`,
	`CREATE TABLE time_slots (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		event_id BIGINT UNSIGNED NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME NOT NULL,
		total_capacity INT UNSIGNED NOT NULL,
		booked_count INT UNSIGNED NOT NULL DEFAULT 0,
		status ENUM('available','full','cancelled') NOT NULL DEFAULT 'available',
		price_cents INT UNSIGNED NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_slots_event_status_start (event_id, status, start_time),
		CONSTRAINT fk_slots_event FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE holds (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		slot_id BIGINT UNSIGNED NOT NULL,
		session_id VARCHAR(128) NOT NULL,
		user_id BIGINT UNSIGNED NULL,
		quantity INT UNSIGNED NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL,
		released_at DATETIME NULL,
		PRIMARY KEY (id),
		KEY idx_holds_slot_active (slot_id, is_active, expires_at),
		KEY idx_holds_session_active (session_id, is_active, expires_at),
		CONSTRAINT fk_holds_slot FOREIGN KEY (slot_id) REFERENCES time_slots (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE bookings (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		event_id BIGINT UNSIGNED NOT NULL,
		slot_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(32) NULL,
		notes TEXT NULL,
		quantity INT UNSIGNED NOT NULL,
		booking_reference CHAR(8) NOT NULL,
		status ENUM('confirmed','cancelled') NOT NULL DEFAULT 'confirmed',
		slot_date DATE NOT NULL,
		slot_time TIME NOT NULL,
		confirmed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_bookings_reference (booking_reference),
		CONSTRAINT fk_bookings_slot FOREIGN KEY (slot_id) REFERENCES time_slots (id) ON DELETE CASCADE,
		CONSTRAINT fk_bookings_event FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE
	) ENGINE=InnoDB`,
	`CREATE TABLE attempt_log (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		event_id BIGINT UNSIGNED NOT NULL,
		slot_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NULL,
		email VARCHAR(255) NOT NULL,
		status ENUM('success','failed','abandoned') NOT NULL,
		failure_reason VARCHAR(255) NULL,
		attempted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id)
	) ENGINE=InnoDB`,
}

type testEnv struct {
	db *sql.DB
	e  *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := os.Getenv("SRC_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("SRC_TEST_DB_DSN not set; skipping reservation flow tests")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })

	for _, table := range []string{"attempt_log", "bookings", "holds", "time_slots", "events"} {
		_, err := db.Exec("DROP TABLE IF EXISTS " + table)
		require.NoError(t, err)
	}
	for _, ddl := range testDDL {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}

	eventRepo := repository.NewEventRepo(db)
	slotRepo := repository.NewSlotRepo(db)
	holdRepo := repository.NewHoldRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	attemptRepo := repository.NewAttemptRepo(db)

	availability := NewAvailabilityHandler(eventRepo, slotRepo, holdRepo)
	holds := NewHoldHandler(eventRepo, slotRepo, holdRepo, 10)
	bookings := NewBookingHandler(eventRepo, slotRepo, holdRepo, bookingRepo, attemptRepo)

	e := echo.New()
	e.GET("/v1/events/:id/availability", availability.ListAvailability)
	e.GET("/v1/events/:id/can-book", availability.CanBook)
	e.POST("/v1/slots/:id/holds", holds.CreateHold)
	e.GET("/v1/holds/:id", holds.VerifyHold)
	e.DELETE("/v1/holds/:id", holds.ReleaseHold)
	e.POST("/v1/holds/:id/confirm", bookings.ConfirmBooking)
	e.GET("/v1/bookings/:reference", bookings.GetBooking)

	return &testEnv{db: db, e: e}
}

func (env *testEnv) seedEvent(t *testing.T, status, visibility string) uint64 {
	t.Helper()
	res, err := env.db.Exec(
		`INSERT INTO events (title, status, visibility) VALUES (?, ?, ?)`,
		"Intro Workshop", status, visibility,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func (env *testEnv) seedSlot(t *testing.T, eventID uint64, capacity uint32) uint64 {
	t.Helper()
	start := time.Now().UTC().Add(24 * time.Hour)
	res, err := env.db.Exec(
		`INSERT INTO time_slots (event_id, start_time, end_time, total_capacity, price_cents)
		 VALUES (?, ?, ?, ?, 2500)`,
		eventID,
		start.Format("2006-01-02 15:04:05"),
		start.Add(time.Hour).Format("2006-01-02 15:04:05"),
		capacity,
	)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

func (env *testEnv) request(method, path, session string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if session != "" {
		req.Header.Set("X-Session-ID", session)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (env *testEnv) createHold(t *testing.T, slotID uint64, session string, quantity int) (uint64, *httptest.ResponseRecorder) {
	t.Helper()
	rec := env.request(http.MethodPost, fmt.Sprintf("/v1/slots/%d/holds", slotID), session, map[string]any{
		"session_id": session,
		"quantity":   quantity,
	})
	if rec.Code != http.StatusCreated {
		return 0, rec
	}
	body := decodeBody(t, rec)
	return uint64(body["hold_id"].(float64)), rec
}

func (env *testEnv) effectiveAvailable(t *testing.T, eventID, slotID uint64, session string) int64 {
	t.Helper()
	rec := env.request(http.MethodGet, fmt.Sprintf("/v1/events/%d/availability", eventID), session, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	for _, item := range body["items"].([]any) {
		row := item.(map[string]any)
		if uint64(row["slot_id"].(float64)) == slotID {
			return int64(row["effective_available"].(float64))
		}
	}
	t.Fatalf("slot %d not present in availability listing", slotID)
	return 0
}

var referencePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestHappyPathBooking(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 5)

	holdID, rec := env.createHold(t, slotID, "sess-A", 2)
	require.Equal(t, http.StatusCreated, rec.Code)
	holdBody := decodeBody(t, rec)
	expires, err := time.Parse(time.RFC3339, holdBody["expires_at"].(string))
	require.NoError(t, err)
	remaining := time.Until(expires)
	assert.Greater(t, remaining, 9*time.Minute)
	assert.LessOrEqual(t, remaining, 10*time.Minute)

	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/holds/%d/confirm", holdID), "sess-A", map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.org",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	confirm := decodeBody(t, rec)
	reference := confirm["booking_reference"].(string)
	assert.Regexp(t, referencePattern, reference)
	assert.Equal(t, "confirmed", confirm["status"])

	var booked uint32
	require.NoError(t, env.db.QueryRow(`SELECT booked_count FROM time_slots WHERE id = ?`, slotID).Scan(&booked))
	assert.Equal(t, uint32(2), booked)

	var active bool
	require.NoError(t, env.db.QueryRow(`SELECT is_active FROM holds WHERE id = ?`, holdID).Scan(&active))
	assert.False(t, active)

	var attempts int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM attempt_log WHERE slot_id = ? AND status = 'success'`, slotID).Scan(&attempts))
	assert.Equal(t, 1, attempts)

	// The confirmation screen can read the booking back by reference.
	rec = env.request(http.MethodGet, "/v1/bookings/"+reference, "sess-A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	lookup := decodeBody(t, rec)
	assert.Equal(t, "Ada", lookup["first_name"])
	assert.Equal(t, float64(2), lookup["quantity"])
}

func TestLastSeatRace(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 1)

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 2)
	sessions := []string{"race-A", "race-B"}
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = env.request(http.MethodPost, fmt.Sprintf("/v1/slots/%d/holds", slotID), sessions[i], map[string]any{
				"session_id": sessions[i],
				"quantity":   1,
			})
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, rec := range results {
		switch rec.Code {
		case http.StatusCreated:
			won++
		case http.StatusConflict:
			lost++
			body := decodeBody(t, rec)
			assert.Equal(t, "capacity_exceeded", body["error"])
			assert.Equal(t, float64(0), body["available"])
		default:
			t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
		}
	}
	assert.Equal(t, 1, won, "exactly one contender must win the last seat")
	assert.Equal(t, 1, lost)
}

func TestOwnHoldExclusion(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 3)

	_, rec := env.createHold(t, slotID, "sess-A", 2)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, int64(3), env.effectiveAvailable(t, eventID, slotID, "sess-A"))
	assert.Equal(t, int64(1), env.effectiveAvailable(t, eventID, slotID, "sess-B"))
}

func TestExpiredHold(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 4)

	holdID, rec := env.createHold(t, slotID, "sess-A", 2)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Age the hold past its expiry instead of sleeping through it.
	_, err := env.db.Exec(`UPDATE holds SET expires_at = DATE_SUB(UTC_TIMESTAMP(), INTERVAL 61 SECOND) WHERE id = ?`, holdID)
	require.NoError(t, err)

	rec = env.request(http.MethodGet, fmt.Sprintf("/v1/holds/%d", holdID), "sess-A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	verify := decodeBody(t, rec)
	assert.Equal(t, false, verify["is_valid"])
	assert.Equal(t, "expired", verify["reason"])

	// The expired hold no longer deducts from anyone's availability.
	assert.Equal(t, int64(4), env.effectiveAvailable(t, eventID, slotID, "sess-B"))

	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/holds/%d/confirm", holdID), "sess-A", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.org",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "hold_invalid", decodeBody(t, rec)["error"])
}

func TestCapacityDriftAtConfirm(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 2)

	holdID, rec := env.createHold(t, slotID, "sess-A", 1)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Simulate an out-of-band import consuming the slot underneath the hold.
	_, err := env.db.Exec(`UPDATE time_slots SET booked_count = 2 WHERE id = ?`, slotID)
	require.NoError(t, err)

	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/holds/%d/confirm", holdID), "sess-A", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.org",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "capacity_exceeded", decodeBody(t, rec)["error"])

	var bookingsWritten int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM bookings WHERE slot_id = ?`, slotID).Scan(&bookingsWritten))
	assert.Zero(t, bookingsWritten)

	var failed int
	require.NoError(t, env.db.QueryRow(`SELECT COUNT(*) FROM attempt_log WHERE slot_id = ? AND status = 'failed'`, slotID).Scan(&failed))
	assert.Equal(t, 1, failed)
}

func TestReholdReplacesPriorHold(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 4)

	h1, rec := env.createHold(t, slotID, "sess-A", 1)
	require.Equal(t, http.StatusCreated, rec.Code)
	h2, rec := env.createHold(t, slotID, "sess-A", 3)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEqual(t, h1, h2)

	rec = env.request(http.MethodGet, fmt.Sprintf("/v1/holds/%d", h1), "sess-A", nil)
	verify := decodeBody(t, rec)
	assert.Equal(t, false, verify["is_valid"])
	assert.Equal(t, "released", verify["reason"])

	// Only the replacement hold counts toward capacity.
	assert.Equal(t, int64(1), env.effectiveAvailable(t, eventID, slotID, "sess-B"))
}

func TestReleaseHoldIdempotent(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 2)

	holdID, rec := env.createHold(t, slotID, "sess-A", 1)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(http.MethodDelete, fmt.Sprintf("/v1/holds/%d", holdID), "sess-A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["released"])

	rec = env.request(http.MethodDelete, fmt.Sprintf("/v1/holds/%d", holdID), "sess-A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["released"])

	var booked uint32
	require.NoError(t, env.db.QueryRow(`SELECT booked_count FROM time_slots WHERE id = ?`, slotID).Scan(&booked))
	assert.Zero(t, booked)
	assert.Equal(t, int64(2), env.effectiveAvailable(t, eventID, slotID, "sess-B"))
}

func TestCreateHoldValidation(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 2)

	rec := env.request(http.MethodPost, fmt.Sprintf("/v1/slots/%d/holds", slotID), "", map[string]any{
		"session_id": "sess-A",
		"quantity":   0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quantity", decodeBody(t, rec)["error"])

	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/slots/%d/holds", slotID), "", map[string]any{
		"quantity": 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", decodeBody(t, rec)["error"])

	rec = env.request(http.MethodPost, "/v1/slots/999999/holds", "sess-A", map[string]any{
		"session_id": "sess-A",
		"quantity":   1,
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "slot_not_found", decodeBody(t, rec)["error"])
}

func TestWholeCapacityHoldMarksSlotFullForOthers(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 3)

	_, rec := env.createHold(t, slotID, "sess-A", 3)
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, int64(0), env.effectiveAvailable(t, eventID, slotID, "sess-B"))
	assert.Equal(t, int64(3), env.effectiveAvailable(t, eventID, slotID, "sess-A"))

	rec = env.request(http.MethodGet, fmt.Sprintf("/v1/events/%d/can-book?quantity=1", eventID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["can_book"])
	assert.Equal(t, float64(0), body["available_slot_count"])
}

func TestCanBook(t *testing.T) {
	env := newTestEnv(t)

	rec := env.request(http.MethodGet, "/v1/events/424242/can-book", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["can_book"])
	assert.Equal(t, "event not found", body["reason"])

	paused := env.seedEvent(t, "paused", "public")
	rec = env.request(http.MethodGet, fmt.Sprintf("/v1/events/%d/can-book", paused), "", nil)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["can_book"])
	assert.Equal(t, "event is not open for booking", body["reason"])

	eventID := env.seedEvent(t, "active", "unlisted")
	env.seedSlot(t, eventID, 5)
	env.seedSlot(t, eventID, 2)

	rec = env.request(http.MethodGet, fmt.Sprintf("/v1/events/%d/can-book?quantity=3", eventID), "", nil)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["can_book"])
	assert.Equal(t, float64(1), body["available_slot_count"])

	rec = env.request(http.MethodGet, fmt.Sprintf("/v1/events/%d/can-book?quantity=6", eventID), "", nil)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["can_book"])
	assert.Equal(t, float64(0), body["available_slot_count"])
}

func TestConfirmTwiceFailsHoldInvalid(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 2)

	holdID, rec := env.createHold(t, slotID, "sess-A", 1)
	require.Equal(t, http.StatusCreated, rec.Code)

	attendee := map[string]any{"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.org"}
	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/holds/%d/confirm", holdID), "sess-A", attendee)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/holds/%d/confirm", holdID), "sess-A", attendee)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "hold_invalid", decodeBody(t, rec)["error"])

	var booked uint32
	require.NoError(t, env.db.QueryRow(`SELECT booked_count FROM time_slots WHERE id = ?`, slotID).Scan(&booked))
	assert.Equal(t, uint32(1), booked)
}

func TestFillingSlotFlipsStatusFull(t *testing.T) {
	env := newTestEnv(t)
	eventID := env.seedEvent(t, "active", "public")
	slotID := env.seedSlot(t, eventID, 2)

	holdID, rec := env.createHold(t, slotID, "sess-A", 2)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/holds/%d/confirm", holdID), "sess-A", map[string]any{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.org",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var status string
	require.NoError(t, env.db.QueryRow(`SELECT status FROM time_slots WHERE id = ?`, slotID).Scan(&status))
	assert.Equal(t, "full", status)

	// A full slot is no longer offered, so further holds see it as gone.
	rec = env.request(http.MethodPost, fmt.Sprintf("/v1/slots/%d/holds", slotID), "sess-B", map[string]any{
		"session_id": "sess-B", "quantity": 1,
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "slot_unavailable", decodeBody(t, rec)["error"])
}
