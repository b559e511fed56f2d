package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"potterystudio/internal/domain/entitlement"
	"potterystudio/internal/domain/resource"
	"potterystudio/internal/domain/session"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:booking_handler_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := db.AutoMigrate(
		&resource.Resource{},
		&session.Session{},
		&session.ResourceHold{},
		&entitlement.Subscription{},
		&entitlement.PunchPass{},
		&Booking{},
	); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	repo := NewRepository(db)
	entService := entitlement.NewService(entitlement.NewRepository(db), repo)
	svc := NewService(db, repo, session.NewRepository(db), entService, 2, 15*time.Minute)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User-ID"); raw != "" {
			id, _ := strconv.ParseInt(raw, 10, 64)
			c.Set("user_id", id)
			c.Set("role", c.GetHeader("X-Test-Role"))
		}
		c.Next()
	})

	v1 := r.Group("/api/v1")
	h.RegisterRoutes(v1)
	return r, db
}

func doJSONRequest(r http.Handler, method, path string, body any, userID int64) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User-ID", strconv.FormatInt(userID, 10))
		req.Header.Set("X-Test-Role", "member")
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func seedHandlerFixture(t *testing.T, db *gorm.DB) (*resource.Resource, *session.Session, *entitlement.PunchPass) {
	t.Helper()
	res := &resource.Resource{StudioID: 1, Name: "Pottery Wheel", Quantity: 1, IsActive: true}
	if err := db.Create(res).Error; err != nil {
		t.Fatalf("seed resource: %v", err)
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	sess := &session.Session{StudioID: 1, StartTime: day.Add(10 * time.Hour), EndTime: day.Add(21 * time.Hour)}
	if err := db.Create(sess).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	pass := &entitlement.PunchPass{
		CustomerID:       201,
		PunchesRemaining: 5,
		TotalPunches:     10,
		ExpiresAt:        time.Now().UTC().AddDate(0, 3, 0),
	}
	if err := db.Create(pass).Error; err != nil {
		t.Fatalf("seed pass: %v", err)
	}
	return res, sess, pass
}

func TestCreateBookingEndpoint(t *testing.T) {
	r, db := setupTestRouter(t)
	res, sess, pass := seedHandlerFixture(t, db)

	body := map[string]any{
		"session_id":             sess.ID,
		"resource_id":            res.ID,
		"start_time":             sess.StartTime.Format(time.RFC3339),
		"end_time":               sess.StartTime.Add(2 * time.Hour).Format(time.RFC3339),
		"customer_punch_pass_id": pass.ID,
	}

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", body, 201)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Success bool    `json:"success"`
		Data    Booking `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || envelope.Data.Status != StatusReserved {
		t.Fatalf("unexpected envelope: %s", rr.Body.String())
	}
}

func TestCreateBookingEndpointUnauthorized(t *testing.T) {
	r, db := setupTestRouter(t)
	res, sess, pass := seedHandlerFixture(t, db)

	body := map[string]any{
		"session_id":             sess.ID,
		"resource_id":            res.ID,
		"start_time":             sess.StartTime.Format(time.RFC3339),
		"end_time":               sess.StartTime.Add(time.Hour).Format(time.RFC3339),
		"customer_punch_pass_id": pass.ID,
	}

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", body, 0)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestCreateBookingEndpointConflict(t *testing.T) {
	r, db := setupTestRouter(t)
	res, sess, pass := seedHandlerFixture(t, db)

	other := &entitlement.PunchPass{
		CustomerID:       202,
		PunchesRemaining: 5,
		TotalPunches:     10,
		ExpiresAt:        time.Now().UTC().AddDate(0, 3, 0),
	}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("seed second pass: %v", err)
	}

	mk := func(passID any) map[string]any {
		return map[string]any{
			"session_id":             sess.ID,
			"resource_id":            res.ID,
			"start_time":             sess.StartTime.Format(time.RFC3339),
			"end_time":               sess.StartTime.Add(2 * time.Hour).Format(time.RFC3339),
			"customer_punch_pass_id": passID,
		}
	}

	if rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", mk(pass.ID), 201); rr.Code != http.StatusCreated {
		t.Fatalf("first booking failed: %d %s", rr.Code, rr.Body.String())
	}

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", mk(other.ID), 202)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != "SLOT_UNAVAILABLE" {
		t.Fatalf("expected SLOT_UNAVAILABLE, got %q", envelope.Error.Code)
	}
}

func TestCreateBookingEndpointValidation(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", map[string]any{}, 201)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", rr.Code)
	}
}

func TestCancelBookingEndpoint(t *testing.T) {
	r, db := setupTestRouter(t)
	res, sess, pass := seedHandlerFixture(t, db)

	body := map[string]any{
		"session_id":             sess.ID,
		"resource_id":            res.ID,
		"start_time":             sess.StartTime.Format(time.RFC3339),
		"end_time":               sess.StartTime.Add(time.Hour).Format(time.RFC3339),
		"customer_punch_pass_id": pass.ID,
	}
	rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", body, 201)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rr.Code)
	}

	var envelope struct {
		Data Booking `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/open-studio/bookings/"+envelope.Data.ID.String(), nil, 201)
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel failed: %d %s", rr.Code, rr.Body.String())
	}

	// Cancelling again hits the terminal state.
	rr = doJSONRequest(r, http.MethodDelete, "/api/v1/open-studio/bookings/"+envelope.Data.ID.String(), nil, 201)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double cancel, got %d", rr.Code)
	}
}

func TestMyBookingsEndpoint(t *testing.T) {
	r, db := setupTestRouter(t)
	res, sess, pass := seedHandlerFixture(t, db)

	body := map[string]any{
		"session_id":             sess.ID,
		"resource_id":            res.ID,
		"start_time":             sess.StartTime.Format(time.RFC3339),
		"end_time":               sess.StartTime.Add(time.Hour).Format(time.RFC3339),
		"customer_punch_pass_id": pass.ID,
	}
	if rr := doJSONRequest(r, http.MethodPost, "/api/v1/open-studio/bookings", body, 201); rr.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rr.Code)
	}

	rr := doJSONRequest(r, http.MethodGet, "/api/v1/open-studio/my-bookings", nil, 201)
	if rr.Code != http.StatusOK {
		t.Fatalf("my-bookings failed: %d %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Data []MyBookingRow `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("expected 1 booking row, got %d", len(envelope.Data))
	}
}
