package processing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/faultscope/internal/metrics"
	"github.com/RMahshie/faultscope/internal/repository"
	"github.com/RMahshie/faultscope/internal/storage"
	"github.com/RMahshie/faultscope/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrStorageDisabled is returned by ParseStored when no object store is configured
var ErrStorageDisabled = errors.New("object storage is not configured")

// ProcessingService runs parses on behalf of the API and CLI hosts
type ProcessingService interface {
	ParseUpload(ctx context.Context, req models.ParseRequestBody) (*models.ParseResponseBody, error)
	ParseStored(ctx context.Context, req models.ParseStoredRequestBody) (*models.ParseResponseBody, error)
}

type processingService struct {
	s3             storage.S3Service
	repository     repository.RecordingRepository
	metrics        *metrics.Metrics
	parsers        ParserFactory
	maxObjectBytes int64
}

// NewProcessingService wires the parse boundary to its optional backends.
// Any of s3Service, repo and m may be nil.
func NewProcessingService(s3Service storage.S3Service, repo repository.RecordingRepository, m *metrics.Metrics, maxObjectBytes int64) ProcessingService {
	return &processingService{
		s3:             s3Service,
		repository:     repo,
		metrics:        m,
		parsers:        DefaultParsers,
		maxObjectBytes: maxObjectBytes,
	}
}

// ParseUpload parses files carried in the request itself
func (s *processingService) ParseUpload(ctx context.Context, req models.ParseRequestBody) (*models.ParseResponseBody, error) {
	in := Input{
		Combined: req.CFF,
		Config:   req.CFG,
		Data:     req.DAT,
		Encoding: req.Encoding,
	}
	return s.run(ctx, models.SourceUpload, req.SessionID, in, Options{IncludeWaveform: req.IncludeWaveform})
}

// ParseStored downloads the referenced objects and parses them. Keys left
// empty are treated as files that were not supplied.
func (s *processingService) ParseStored(ctx context.Context, req models.ParseStoredRequestBody) (*models.ParseResponseBody, error) {
	if s.s3 == nil {
		return nil, ErrStorageDisabled
	}

	var in Input
	in.Encoding = req.Encoding
	targets := []struct {
		key string
		dst *[]byte
	}{
		{req.CFFKey, &in.Combined},
		{req.CFGKey, &in.Config},
		{req.DATKey, &in.Data},
	}
	for _, target := range targets {
		if target.key == "" {
			continue
		}
		data, err := s.s3.DownloadFile(ctx, target.key, s.maxObjectBytes)
		s.metrics.ObserveDownload(err)
		if err != nil {
			log.Error().Err(err).Str("key", target.key).Msg("Failed to download recording file")
			return nil, fmt.Errorf("failed to download %s: %w", target.key, err)
		}
		if data == nil {
			data = []byte{}
		}
		*target.dst = data
	}

	return s.run(ctx, models.SourceStorage, req.SessionID, in, Options{IncludeWaveform: req.IncludeWaveform})
}

func (s *processingService) run(ctx context.Context, source, sessionID string, in Input, opts Options) (*models.ParseResponseBody, error) {
	shape := in.Kind()
	start := time.Now()
	snap, err := Parse(in, s.parsers, opts)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	samples := 0
	if err != nil {
		outcome = string(KindOf(err))
	} else {
		samples = snap.SampleCount() * len(snap.AnalogChannels)
	}
	s.metrics.ObserveParse(shape.String(), outcome, in.Size(), samples, elapsed)

	logEvent := log.Info()
	if err != nil {
		logEvent = log.Warn().Str("kind", outcome).Str("reason", err.Error())
	}
	logEvent.
		Str("source", source).
		Str("shape", shape.String()).
		Int("bytes", in.Size()).
		Bool("waveform", opts.IncludeWaveform).
		Dur("elapsed", elapsed).
		Msg("COMTRADE parse finished")

	id := s.persist(ctx, source, sessionID, snap, err)
	if err != nil {
		return nil, err
	}
	return &models.ParseResponseBody{ID: id, Snapshot: snap}, nil
}

// persist stores a parse record when a repository is configured. Storage
// failures are logged and counted but never fail the parse.
func (s *processingService) persist(ctx context.Context, source, sessionID string, snap *models.Snapshot, parseErr error) *string {
	if s.repository == nil {
		return nil
	}

	rec := &models.Recording{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Source:    source,
		Status:    models.StatusCompleted,
		CreatedAt: time.Now(),
	}
	if parseErr != nil {
		msg := parseErr.Error()
		rec.Status = models.StatusFailed
		rec.ErrorMsg = &msg
	} else {
		rec.Station = snap.Station
		rec.RecordingDeviceID = snap.RecordingDeviceID
		rec.DataFormat = snap.DataFormat
		rec.ChannelCount = len(snap.AnalogChannels)
		rec.SampleCount = snap.SampleCount()
		rec.Snapshot = snap.MetadataOnly()
	}

	if err := s.repository.Create(ctx, rec); err != nil {
		s.metrics.ObservePersistFailure()
		log.Error().Err(err).Str("recordingID", rec.ID).Msg("Failed to store parse record")
		return nil
	}
	return &rec.ID
}
