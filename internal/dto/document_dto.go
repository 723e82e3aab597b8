package dto

import (
	"time"

	"github.com/escolarhq/escolar-api/internal/models"
)

// DocumentResponse serializes one uploaded medical document.
type DocumentResponse struct {
	Label       string    `json:"label"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	StoragePath string    `json:"storage_path"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by"`
}

// NewDocumentResponse converts a stored document into its DTO.
func NewDocumentResponse(document models.MedicalDocument) DocumentResponse {
	return DocumentResponse{
		Label:       document.Label,
		FileName:    document.FileName,
		URL:         document.URL,
		StoragePath: document.StoragePath,
		UploadedAt:  document.UploadedAt,
		UploadedBy:  document.UploadedBy,
	}
}

// NewDocumentResponseSlice converts stored documents into DTOs, preserving
// their stored order.
func NewDocumentResponseSlice(documents []models.MedicalDocument) []DocumentResponse {
	responses := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		responses = append(responses, NewDocumentResponse(document))
	}

	return responses
}
