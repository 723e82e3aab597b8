package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/escolarhq/escolar-api/internal/dto"
	"github.com/escolarhq/escolar-api/internal/handler"
	"github.com/escolarhq/escolar-api/internal/service"
)

type mockMoodService struct {
	summary  dto.MoodSummaryResponse
	err      error
	lastMood string
	lastDays int
}

func (m *mockMoodService) Record(_ context.Context, studentID string, payload dto.MoodRecordRequest) (dto.MoodSummaryResponse, error) {
	m.lastMood = payload.Mood
	if m.err != nil {
		return dto.MoodSummaryResponse{}, m.err
	}
	return m.summary, nil
}

func (m *mockMoodService) Summarize(_ context.Context, studentID string, windowDays int) (dto.MoodSummaryResponse, error) {
	m.lastDays = windowDays
	if m.err != nil {
		return dto.MoodSummaryResponse{}, m.err
	}
	return m.summary, nil
}

func newMoodApp(svc service.MoodService) *fiber.App {
	app := fiber.New()
	group := authenticatedGroup(app, "/api/v1/students/me", "student-1", "student")
	handler.NewMoodHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestMoodHandler_Record(t *testing.T) {
	svc := &mockMoodService{summary: dto.MoodSummaryResponse{Good: 1, HasData: true, WindowDays: 30}}
	app := newMoodApp(svc)

	body, err := json.Marshal(dto.MoodRecordRequest{Mood: "good"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/me/mood", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "good", svc.lastMood)

	var response struct {
		Data dto.MoodSummaryResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Data.HasData)
	require.Equal(t, 1, response.Data.Good)
}

func TestMoodHandler_SummaryDefaultsWindow(t *testing.T) {
	svc := &mockMoodService{summary: dto.MoodSummaryResponse{WindowDays: 30}}
	app := newMoodApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/mood/summary", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, service.DefaultMoodWindowDays, svc.lastDays)
}

func TestMoodHandler_SummaryCustomWindow(t *testing.T) {
	svc := &mockMoodService{summary: dto.MoodSummaryResponse{WindowDays: 7}}
	app := newMoodApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/mood/summary?days=7", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 7, svc.lastDays)
}

func TestMoodHandler_SummaryRejectsBadWindow(t *testing.T) {
	svc := &mockMoodService{}
	app := newMoodApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/mood/summary?days=soon", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
