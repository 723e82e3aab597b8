package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/handler"
	"github.com/escolarhq/escolar-api/internal/service"
)

type mockEnrollmentService struct {
	catalog        dto.OfferingCatalogResponse
	enrollment     dto.EnrollmentResponse
	err            error
	lastStudentID  string
	lastOfferingID string
}

func (m *mockEnrollmentService) ListOfferings(_ context.Context, studentID string) (dto.OfferingCatalogResponse, error) {
	m.lastStudentID = studentID
	if m.err != nil {
		return dto.OfferingCatalogResponse{}, m.err
	}
	return m.catalog, nil
}

func (m *mockEnrollmentService) Enroll(_ context.Context, studentID, offeringID string) (dto.EnrollmentResponse, error) {
	m.lastStudentID = studentID
	m.lastOfferingID = offeringID
	if m.err != nil {
		return dto.EnrollmentResponse{}, m.err
	}
	return m.enrollment, nil
}

func newEnrollmentApp(svc service.EnrollmentService) *fiber.App {
	app := fiber.New()
	validate := validator.New(validator.WithRequiredStructEnabled())
	group := authenticatedGroup(app, "/api/v1/students/me", "student-1", "student")
	handler.NewEnrollmentHandler(svc, validate, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestEnrollmentHandler_ListOfferings(t *testing.T) {
	svc := &mockEnrollmentService{catalog: dto.OfferingCatalogResponse{
		Available: []dto.OfferingView{{ID: "off-1", Name: "Algebra A"}},
		Enrolled:  []dto.OfferingView{},
	}}
	app := newEnrollmentApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/offerings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "student-1", svc.lastStudentID)

	var response struct {
		Success bool                        `json:"success"`
		Data    dto.OfferingCatalogResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data.Available, 1)
	require.Equal(t, "off-1", response.Data.Available[0].ID)
}

func TestEnrollmentHandler_EnrollSuccess(t *testing.T) {
	svc := &mockEnrollmentService{enrollment: dto.EnrollmentResponse{
		OfferingID:   "off-1",
		OfferingName: "Algebra A",
	}}
	app := newEnrollmentApp(svc)

	body, err := json.Marshal(dto.EnrollRequest{OfferingID: "off-1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/me/enrollments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "off-1", svc.lastOfferingID)
}

func TestEnrollmentHandler_EnrollMissingOfferingID(t *testing.T) {
	svc := &mockEnrollmentService{}
	app := newEnrollmentApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/me/enrollments", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastOfferingID)
}

func TestEnrollmentHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "profile missing", err: service.ErrProfileNotFound, statusCode: fiber.StatusNotFound},
		{name: "offering missing", err: service.ErrOfferingNotFound, statusCode: fiber.StatusNotFound},
		{name: "duplicate", err: service.ErrAlreadyEnrolled, statusCode: fiber.StatusConflict},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockEnrollmentService{err: tc.err}
			app := newEnrollmentApp(svc)

			body, err := json.Marshal(dto.EnrollRequest{OfferingID: "off-1"})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/students/me/enrollments", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
