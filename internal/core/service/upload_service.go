package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velocityrent/rental-portal/internal/api/metrics"
	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

// StagingView is what the upload dialog renders.
type StagingView struct {
	StagingID string
	CarID     string
	Files     []string
}

type staging struct {
	carID   string
	files   []ports.StagedFile
	touched time.Time
}

// UploadService holds the staged file list for each open upload dialog:
// append-only selection, removable by index, submitted as one multipart
// batch. Submission is blocked client-side when the car id is empty or no
// files are staged — no network round-trip happens. On failure the staged
// list is kept so the operator can retry without re-selecting files.
type UploadService struct {
	admin ports.CarAdmin
	log   zerolog.Logger

	mu       sync.Mutex
	stagings map[string]*staging
}

func NewUploadService(admin ports.CarAdmin, log zerolog.Logger) *UploadService {
	return &UploadService{
		admin:    admin,
		log:      log,
		stagings: make(map[string]*staging),
	}
}

// Open creates a staging area. carID may be empty for the generic entry
// point; the operator supplies it before submitting.
func (s *UploadService) Open(carID string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.stagings[id] = &staging{carID: carID, touched: time.Now()}
	s.mu.Unlock()
	return id
}

// AddFile appends a file to the staged list.
func (s *UploadService) AddFile(stagingID string, file ports.StagedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stagings[stagingID]
	if !ok {
		return domain.ErrStagingNotFound
	}
	st.files = append(st.files, file)
	st.touched = time.Now()
	metrics.StagedFilesGauge.Inc()
	return nil
}

// RemoveFile drops the staged file at index. Out-of-range indexes are
// ignored.
func (s *UploadService) RemoveFile(stagingID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stagings[stagingID]
	if !ok {
		return domain.ErrStagingNotFound
	}
	if index < 0 || index >= len(st.files) {
		return nil
	}
	st.files = append(st.files[:index], st.files[index+1:]...)
	st.touched = time.Now()
	metrics.StagedFilesGauge.Dec()
	return nil
}

// SetCarID updates the target car id for the generic entry point.
func (s *UploadService) SetCarID(stagingID, carID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stagings[stagingID]
	if !ok {
		return domain.ErrStagingNotFound
	}
	st.carID = carID
	st.touched = time.Now()
	return nil
}

// View returns the dialog's current state.
func (s *UploadService) View(stagingID string) (StagingView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stagings[stagingID]
	if !ok {
		return StagingView{}, domain.ErrStagingNotFound
	}
	view := StagingView{StagingID: stagingID, CarID: st.carID}
	for _, f := range st.files {
		view.Files = append(view.Files, f.Name)
	}
	return view, nil
}

// Submit sends the staged files as one batch. Validation failures
// (ErrMissingCarID, ErrNoStagedFiles) block the call before any network
// traffic. On success the staging area is discarded; on failure it is left
// intact for a retry.
func (s *UploadService) Submit(ctx context.Context, token, stagingID string) ([]domain.CarImage, error) {
	s.mu.Lock()
	st, ok := s.stagings[stagingID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrStagingNotFound
	}
	if st.carID == "" {
		s.mu.Unlock()
		metrics.UploadBatchesTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrMissingCarID
	}
	if len(st.files) == 0 {
		s.mu.Unlock()
		metrics.UploadBatchesTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrNoStagedFiles
	}
	carID := st.carID
	files := make([]ports.StagedFile, len(st.files))
	copy(files, st.files)
	s.mu.Unlock()

	images, err := s.admin.UploadImages(ctx, token, carID, files)
	if err != nil {
		metrics.UploadBatchesTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("car_id", carID).Int("files", len(files)).Msg("image upload failed")
		return nil, err
	}

	metrics.UploadBatchesTotal.WithLabelValues("ok").Inc()
	s.log.Info().Str("car_id", carID).Int("files", len(files)).Msg("images uploaded")
	s.Close(stagingID)
	return images, nil
}

// Close discards a staging area and its files.
func (s *UploadService) Close(stagingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stagings[stagingID]; ok {
		metrics.StagedFilesGauge.Sub(float64(len(st.files)))
		delete(s.stagings, stagingID)
	}
}

// PurgeExpired drops staging areas not touched within maxIdle.
func (s *UploadService) PurgeExpired(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, st := range s.stagings {
		if st.touched.Before(cutoff) {
			metrics.StagedFilesGauge.Sub(float64(len(st.files)))
			delete(s.stagings, id)
			removed++
		}
	}
	return removed
}
