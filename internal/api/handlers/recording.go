package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/RMahshie/faultscope/internal/processing"
	"github.com/RMahshie/faultscope/internal/repository"
	"github.com/RMahshie/faultscope/internal/storage"
	"github.com/RMahshie/faultscope/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RecordingHandler handles recording-related HTTP requests. repo and
// s3Service may be nil when the matching backend is not configured.
type RecordingHandler struct {
	repo          repository.RecordingRepository
	s3Service     storage.S3Service
	processingSvc processing.ProcessingService
}

// NewRecordingHandler creates a new recording handler
func NewRecordingHandler(repo repository.RecordingRepository, s3Service storage.S3Service, processingSvc processing.ProcessingService) *RecordingHandler {
	return &RecordingHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
	}
}

// ParseRecording parses files sent in the request body
func (h *RecordingHandler) ParseRecording(ctx context.Context, req *models.ParseRequest) (*models.ParseResponse, error) {
	log.Info().
		Str("sessionID", req.Body.SessionID).
		Bool("cff", req.Body.CFF != nil).
		Bool("cfg", req.Body.CFG != nil).
		Bool("dat", req.Body.DAT != nil).
		Msg("Parse request received")

	result, err := h.processingSvc.ParseUpload(ctx, req.Body)
	if err != nil {
		return nil, parseFailure(err)
	}
	return &models.ParseResponse{Body: *result}, nil
}

// ParseStored parses files previously uploaded to object storage
func (h *RecordingHandler) ParseStored(ctx context.Context, req *models.ParseStoredRequest) (*models.ParseResponse, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Object storage is not configured")
	}
	log.Info().
		Str("sessionID", req.Body.SessionID).
		Str("cffKey", req.Body.CFFKey).
		Str("cfgKey", req.Body.CFGKey).
		Str("datKey", req.Body.DATKey).
		Msg("Stored parse request received")

	for _, key := range []string{req.Body.CFFKey, req.Body.CFGKey, req.Body.DATKey} {
		if key != "" && !strings.HasPrefix(key, uploadPrefix) {
			return nil, huma.Error400BadRequest(fmt.Sprintf("Object key %q is not an upload key", key))
		}
	}

	result, err := h.processingSvc.ParseStored(ctx, req.Body)
	if err != nil {
		return nil, parseFailure(err)
	}
	return &models.ParseResponse{Body: *result}, nil
}

// uploadPrefix scopes the keys clients may upload to and parse from
const uploadPrefix = "recordings/"

// CreateUpload returns pre-signed upload URLs for one recording
func (h *RecordingHandler) CreateUpload(ctx context.Context, req *models.CreateUploadRequest) (*models.CreateUploadResponse, error) {
	if h.s3Service == nil {
		return nil, huma.Error503ServiceUnavailable("Object storage is not configured")
	}

	kinds := []string{"cfg", "dat"}
	if req.Body.Layout == models.LayoutCombined {
		kinds = []string{"cff"}
	}

	uploadID := uuid.New()
	log.Info().Str("uploadID", uploadID.String()).Str("sessionID", req.Body.SessionID).Str("layout", req.Body.Layout).Msg("Generating upload URLs")

	targets := make([]models.UploadTarget, 0, len(kinds))
	for _, kind := range kinds {
		key := fmt.Sprintf("%s%s.%s", uploadPrefix, uploadID, kind)
		uploadURL, err := h.s3Service.GenerateUploadURL(ctx, key, storage.ContentTypeFor(kind))
		if err != nil {
			if strings.Contains(err.Error(), "invalid content type") {
				return nil, huma.Error400BadRequest("File type not supported.", err)
			}
			return nil, huma.Error500InternalServerError("Failed to prepare upload. Please try again.", err)
		}
		targets = append(targets, models.UploadTarget{Kind: kind, Key: key, UploadURL: uploadURL})
	}

	return &models.CreateUploadResponse{
		Body: models.CreateUploadResponseBody{
			Targets:   targets,
			ExpiresIn: int(storage.UploadURLExpiry.Seconds()),
		},
	}, nil
}

// GetRecording returns a stored parse record
func (h *RecordingHandler) GetRecording(ctx context.Context, req *models.GetRecordingRequest) (*models.GetRecordingResponse, error) {
	if h.repo == nil {
		return nil, huma.Error503ServiceUnavailable("Persistence is not configured")
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid recording ID", err)
	}

	rec, err := h.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error404NotFound("Recording not found", err)
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load recording", err)
	}
	return &models.GetRecordingResponse{Body: rec}, nil
}

// ListSessionRecordings returns the parse records of a session, newest first
func (h *RecordingHandler) ListSessionRecordings(ctx context.Context, req *models.ListSessionRecordingsRequest) (*models.ListSessionRecordingsResponse, error) {
	if h.repo == nil {
		return nil, huma.Error503ServiceUnavailable("Persistence is not configured")
	}

	recs, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list recordings", err)
	}
	if recs == nil {
		recs = []*models.Recording{}
	}

	resp := &models.ListSessionRecordingsResponse{}
	resp.Body.Recordings = recs
	return resp, nil
}

// parseFailure maps service errors to HTTP errors. Boundary failures carry a
// message meant for the user and are returned verbatim.
func parseFailure(err error) error {
	switch {
	case processing.KindOf(err) != "":
		return huma.Error422UnprocessableEntity(err.Error())
	case errors.Is(err, processing.ErrStorageDisabled):
		return huma.Error503ServiceUnavailable("Object storage is not configured")
	case errors.Is(err, storage.ErrObjectTooLarge):
		return huma.NewError(http.StatusRequestEntityTooLarge, "Recording file is too large", err)
	default:
		log.Error().Err(err).Msg("Parse request failed")
		return huma.Error500InternalServerError("Failed to parse recording", err)
	}
}
