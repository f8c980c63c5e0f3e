package service

import (
	"context"
	"errors"
	"testing"

	"github.com/velocityrent/rental-portal/internal/core/domain"
	"github.com/velocityrent/rental-portal/internal/core/ports"
)

func stagedFile(name string) ports.StagedFile {
	return ports.StagedFile{Name: name, ContentType: "image/jpeg", Content: []byte("jpeg-bytes")}
}

func TestUploadService_Submit_RequiresCarID(t *testing.T) {
	admin := &stubAdmin{}
	svc := NewUploadService(admin, discardLogger)

	id := svc.Open("")
	if err := svc.AddFile(id, stagedFile("a.jpg")); err != nil {
		t.Fatalf("add file: %v", err)
	}

	_, err := svc.Submit(context.Background(), "tok", id)
	if !errors.Is(err, domain.ErrMissingCarID) {
		t.Fatalf("expected ErrMissingCarID, got %v", err)
	}
	if admin.uploadCalls != 0 {
		t.Error("validation failure must not reach the network")
	}
	// The staged file survives for a retry.
	view, _ := svc.View(id)
	if len(view.Files) != 1 {
		t.Errorf("expected staged file kept, got %v", view.Files)
	}
}

func TestUploadService_Submit_RequiresFiles(t *testing.T) {
	admin := &stubAdmin{}
	svc := NewUploadService(admin, discardLogger)

	id := svc.Open("car-1")
	_, err := svc.Submit(context.Background(), "tok", id)
	if !errors.Is(err, domain.ErrNoStagedFiles) {
		t.Fatalf("expected ErrNoStagedFiles, got %v", err)
	}
	if admin.uploadCalls != 0 {
		t.Error("validation failure must not reach the network")
	}
}

func TestUploadService_Submit_Success(t *testing.T) {
	admin := &stubAdmin{}
	svc := NewUploadService(admin, discardLogger)

	id := svc.Open("car-1")
	svc.AddFile(id, stagedFile("a.jpg"))
	svc.AddFile(id, stagedFile("b.jpg"))

	images, err := svc.Submit(context.Background(), "tok", id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(images) != 2 {
		t.Errorf("expected 2 uploaded images, got %d", len(images))
	}
	// Success clears the staging area entirely.
	if _, err := svc.View(id); !errors.Is(err, domain.ErrStagingNotFound) {
		t.Errorf("expected staging gone after success, got %v", err)
	}
}

func TestUploadService_Submit_FailureKeepsFiles(t *testing.T) {
	admin := &stubAdmin{uploadErr: errors.New("413 too large")}
	svc := NewUploadService(admin, discardLogger)

	id := svc.Open("car-1")
	svc.AddFile(id, stagedFile("a.jpg"))

	if _, err := svc.Submit(context.Background(), "tok", id); err == nil {
		t.Fatal("expected upload error")
	}

	view, err := svc.View(id)
	if err != nil {
		t.Fatalf("staging must survive a failed submit: %v", err)
	}
	if len(view.Files) != 1 || view.Files[0] != "a.jpg" {
		t.Errorf("staged files must be kept for retry, got %v", view.Files)
	}

	// A retry after the failure goes through.
	admin.uploadErr = nil
	if _, err := svc.Submit(context.Background(), "tok", id); err != nil {
		t.Errorf("retry should succeed: %v", err)
	}
}

func TestUploadService_RemoveFile(t *testing.T) {
	svc := NewUploadService(&stubAdmin{}, discardLogger)

	id := svc.Open("car-1")
	svc.AddFile(id, stagedFile("a.jpg"))
	svc.AddFile(id, stagedFile("b.jpg"))
	svc.AddFile(id, stagedFile("c.jpg"))

	if err := svc.RemoveFile(id, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	view, _ := svc.View(id)
	if len(view.Files) != 2 || view.Files[0] != "a.jpg" || view.Files[1] != "c.jpg" {
		t.Errorf("expected [a.jpg c.jpg], got %v", view.Files)
	}

	// Out-of-range indexes are ignored.
	if err := svc.RemoveFile(id, 9); err != nil {
		t.Errorf("out-of-range remove must be a no-op, got %v", err)
	}
	view, _ = svc.View(id)
	if len(view.Files) != 2 {
		t.Errorf("out-of-range remove must not change the list, got %v", view.Files)
	}
}

func TestUploadService_SetCarID(t *testing.T) {
	svc := NewUploadService(&stubAdmin{}, discardLogger)

	id := svc.Open("")
	if err := svc.SetCarID(id, "car-9"); err != nil {
		t.Fatalf("set car id: %v", err)
	}
	view, _ := svc.View(id)
	if view.CarID != "car-9" {
		t.Errorf("expected car-9, got %q", view.CarID)
	}

	if err := svc.SetCarID("missing", "x"); !errors.Is(err, domain.ErrStagingNotFound) {
		t.Errorf("expected ErrStagingNotFound, got %v", err)
	}
}

func TestUploadService_PurgeExpired(t *testing.T) {
	svc := NewUploadService(&stubAdmin{}, discardLogger)
	id := svc.Open("car-1")
	svc.AddFile(id, stagedFile("a.jpg"))

	if removed := svc.PurgeExpired(0); removed != 1 {
		t.Fatalf("expected 1 staging purged, got %d", removed)
	}
	if _, err := svc.View(id); !errors.Is(err, domain.ErrStagingNotFound) {
		t.Errorf("purged staging must be gone, got %v", err)
	}
}
