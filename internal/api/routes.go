package api

import (
	"net/http"

	"github.com/RMahshie/faultscope/internal/api/handlers"
	"github.com/RMahshie/faultscope/internal/processing"
	"github.com/RMahshie/faultscope/internal/repository"
	"github.com/RMahshie/faultscope/internal/storage"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes. maxBodyBytes caps request bodies
// that carry recording files.
func RegisterRoutes(api huma.API, s3Service storage.S3Service, recordingRepo repository.RecordingRepository, processingSvc processing.ProcessingService, maxBodyBytes int64) {
	// Initialize handlers
	recordingHandler := handlers.NewRecordingHandler(recordingRepo, s3Service, processingSvc)

	// Register recording routes
	huma.Register(api, huma.Operation{
		OperationID:   "parseRecording",
		Method:        http.MethodPost,
		Path:          "/api/recordings/parse",
		Summary:       "Parse a COMTRADE recording",
		Description:   "Parses a CFF file or a CFG/DAT pair sent as base64 and returns the flattened recording",
		Tags:          []string{"Recordings"},
		MaxBodyBytes:  maxBodyBytes,
		DefaultStatus: http.StatusOK,
	}, recordingHandler.ParseRecording)

	huma.Register(api, huma.Operation{
		OperationID: "createUpload",
		Method:      http.MethodPost,
		Path:        "/api/recordings/uploads",
		Summary:     "Create upload URLs",
		Description: "Returns pre-signed object storage URLs for uploading a recording",
		Tags:        []string{"Recordings"},
	}, recordingHandler.CreateUpload)

	huma.Register(api, huma.Operation{
		OperationID: "parseStoredRecording",
		Method:      http.MethodPost,
		Path:        "/api/recordings/parse-stored",
		Summary:     "Parse an uploaded recording",
		Description: "Downloads previously uploaded files and parses them",
		Tags:        []string{"Recordings"},
	}, recordingHandler.ParseStored)

	huma.Register(api, huma.Operation{
		OperationID: "getRecording",
		Method:      http.MethodGet,
		Path:        "/api/recordings/{id}",
		Summary:     "Get parse record",
		Description: "Returns a stored parse record with its metadata snapshot",
		Tags:        []string{"Recordings"},
	}, recordingHandler.GetRecording)

	huma.Register(api, huma.Operation{
		OperationID: "listSessionRecordings",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/recordings",
		Summary:     "List session parse records",
		Description: "Returns the parse records of a session, newest first",
		Tags:        []string{"Recordings"},
	}, recordingHandler.ListSessionRecordings)
}
