package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *Service) {
	svc := NewService(newMockRepo())
	return NewHandler(svc), svc
}

func statusChange(t *testing.T, handler echo.HandlerFunc, id string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/appointments/x/status", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestCreateAppointmentHandler(t *testing.T) {
	h, _ := newTestHandler()

	body := fmt.Sprintf(`{"patient_id":%q,"doctor_id":%q,"date":"2026-09-15","time":"14:30","fee":150}`,
		uuid.NewString(), uuid.NewString())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateAppointment(c); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var got Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", got.Status, StatusScheduled)
	}
}

func TestCompleteAppointmentHandler(t *testing.T) {
	h, svc := newTestHandler()
	a, err := svc.CreateAppointment(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	rec := statusChange(t, h.CompleteAppointment, a.ID.String())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got, _ := svc.GetAppointment(context.Background(), a.ID)
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, StatusCompleted)
	}
}

func TestCancelAppointmentHandler_NotFound(t *testing.T) {
	h, _ := newTestHandler()
	rec := statusChange(t, h.CancelAppointment, uuid.NewString())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestStatusChangeHandler_BadID(t *testing.T) {
	h, _ := newTestHandler()
	rec := statusChange(t, h.CompleteAppointment, "not-a-uuid")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
