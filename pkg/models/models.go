package models

import (
	"time"
)

// Parse record statuses
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Parse record sources
const (
	SourceUpload  = "upload"
	SourceStorage = "storage"
)

// Upload layouts
const (
	LayoutCombined = "combined"
	LayoutSplit    = "split"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// ParseRequestBody carries raw COMTRADE files. Either cff, or both cfg and
// dat, must be supplied; cff wins when all three are present.
type ParseRequestBody struct {
	SessionID       string `json:"session_id,omitempty" maxLength:"50" doc:"Client session identifier"`
	CFF             []byte `json:"cff,omitempty" doc:"Combined CFF file, base64"`
	CFG             []byte `json:"cfg,omitempty" doc:"Configuration file, base64"`
	DAT             []byte `json:"dat,omitempty" doc:"Data file, base64"`
	Encoding        string `json:"encoding,omitempty" example:"latin1" doc:"Text encoding label for the configuration file"`
	IncludeWaveform bool   `json:"include_waveform,omitempty" doc:"Include samples and timestamps in the snapshot"`
}

// ParseRequest represents a request to parse uploaded files
type ParseRequest struct {
	Body ParseRequestBody
}

// ParseResponseBody is the body of a successful parse
type ParseResponseBody struct {
	ID       *string   `json:"id,omitempty" doc:"Stored parse record ID when persistence is enabled"`
	Snapshot *Snapshot `json:"snapshot" doc:"Flattened recording"`
}

// ParseResponse represents the result of a parse
type ParseResponse struct {
	Body ParseResponseBody
}

// ParseStoredRequestBody references previously uploaded objects
type ParseStoredRequestBody struct {
	SessionID       string `json:"session_id,omitempty" maxLength:"50" doc:"Client session identifier"`
	CFFKey          string `json:"cff_key,omitempty" doc:"Object key of a combined file"`
	CFGKey          string `json:"cfg_key,omitempty" doc:"Object key of a configuration file"`
	DATKey          string `json:"dat_key,omitempty" doc:"Object key of a data file"`
	Encoding        string `json:"encoding,omitempty" doc:"Text encoding label for the configuration file"`
	IncludeWaveform bool   `json:"include_waveform,omitempty" doc:"Include samples and timestamps in the snapshot"`
}

// ParseStoredRequest represents a request to parse files already in object storage
type ParseStoredRequest struct {
	Body ParseStoredRequestBody
}

// CreateUploadRequest asks for upload URLs for one recording
type CreateUploadRequest struct {
	Body struct {
		SessionID string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
		Layout    string `json:"layout" enum:"combined,split" required:"true" doc:"One combined file or a cfg/dat pair"`
	}
}

// UploadTarget is one pre-signed upload slot
type UploadTarget struct {
	Kind      string `json:"kind" enum:"cff,cfg,dat" doc:"File role"`
	Key       string `json:"key" doc:"Object key to pass to parse-stored"`
	UploadURL string `json:"upload_url" doc:"Pre-signed URL for a PUT upload"`
}

// CreateUploadResponseBody is the body of the upload response
type CreateUploadResponseBody struct {
	Targets   []UploadTarget `json:"targets" doc:"Upload slots"`
	ExpiresIn int            `json:"expires_in" doc:"URL expiration time in seconds"`
}

// CreateUploadResponse represents the response from creating upload URLs
type CreateUploadResponse struct {
	Body CreateUploadResponseBody
}

// GetRecordingRequest represents a request for a stored parse record
type GetRecordingRequest struct {
	ID string `path:"id" doc:"Parse record ID"`
}

// GetRecordingResponse returns a stored parse record
type GetRecordingResponse struct {
	Body *Recording
}

// ListSessionRecordingsRequest lists the parse records of a session
type ListSessionRecordingsRequest struct {
	SessionID string `path:"session_id" doc:"Client session identifier"`
}

// ListSessionRecordingsResponse returns parse records, newest first
type ListSessionRecordingsResponse struct {
	Body struct {
		Recordings []*Recording `json:"recordings" doc:"Parse records"`
	}
}

// Recording is a stored parse record (for internal use and lookups)
type Recording struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"session_id,omitempty"`
	Source            string    `json:"source" enum:"upload,storage"`
	Status            string    `json:"status" enum:"completed,failed"`
	Station           string    `json:"station,omitempty"`
	RecordingDeviceID string    `json:"recording_device_id,omitempty"`
	DataFormat        string    `json:"data_format,omitempty"`
	ChannelCount      int       `json:"channel_count"`
	SampleCount       int       `json:"sample_count"`
	ErrorMsg          *string   `json:"error_message,omitempty"`
	Snapshot          *Snapshot `json:"snapshot,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
