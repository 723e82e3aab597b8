package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
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

type mockDocumentService struct {
	document  dto.DocumentResponse
	documents []dto.DocumentResponse
	err       error
	lastLabel string
}

func (m *mockDocumentService) Upload(_ context.Context, studentID string, file *multipart.FileHeader, label string) (dto.DocumentResponse, error) {
	m.lastLabel = label
	if m.err != nil {
		return dto.DocumentResponse{}, m.err
	}
	return m.document, nil
}

func (m *mockDocumentService) List(_ context.Context, studentID string) ([]dto.DocumentResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.documents, nil
}

func newDocumentApp(svc service.DocumentService) *fiber.App {
	app := fiber.New()
	group := authenticatedGroup(app, "/api/v1/students/me", "student-1", "student")
	handler.NewDocumentHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func multipartUpload(t *testing.T, label string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("label", label))
	part, err := writer.CreateFormFile("file", "vaccines.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4\n%%EOF\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/me/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDocumentHandler_UploadSuccess(t *testing.T) {
	svc := &mockDocumentService{document: dto.DocumentResponse{Label: "Vaccination card", FileName: "vaccines.pdf"}}
	app := newDocumentApp(svc)

	resp, err := app.Test(multipartUpload(t, "Vaccination card"))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Vaccination card", svc.lastLabel)
}

func TestDocumentHandler_UploadMissingFile(t *testing.T) {
	svc := &mockDocumentService{}
	app := newDocumentApp(svc)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("label", "Vaccination card"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/students/me/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDocumentHandler_List(t *testing.T) {
	svc := &mockDocumentService{documents: []dto.DocumentResponse{{Label: "first"}, {Label: "second"}}}
	app := newDocumentApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/me/documents", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data []dto.DocumentResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 2)
}

func TestDocumentHandler_ServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "label", err: service.ErrLabelRequired, statusCode: fiber.StatusBadRequest},
		{name: "type", err: service.ErrDocumentTypeNotAllowed, statusCode: fiber.StatusBadRequest},
		{name: "size", err: service.ErrDocumentTooLarge, statusCode: fiber.StatusRequestEntityTooLarge},
		{name: "storage", err: service.ErrUploadFailed, statusCode: fiber.StatusBadGateway},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockDocumentService{err: tc.err}
			app := newDocumentApp(svc)

			resp, err := app.Test(multipartUpload(t, "Vaccination card"))
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}
