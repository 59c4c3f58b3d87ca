package editor

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsdesk/internal/domain"
	"github.com/google/uuid"
)

// FileInput describes a file picked or dropped by the user, before upload.
type FileInput struct {
	Name string
	Size int64
	Type string
	URL  string
}

// AddAttachments appends files to the attachment or deliverable list and
// commits immediately. The created files are returned in input order.
func (e *Editor) AddAttachments(ctx context.Context, kind domain.FileKind, files []FileInput) ([]domain.AttachmentFile, error) {
	if e.task == nil {
		return nil, ErrNoTask
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown file kind %q", kind)
	}
	if len(files) == 0 {
		return nil, nil
	}
	now := e.now()
	created := make([]domain.AttachmentFile, 0, len(files))
	for _, f := range files {
		created = append(created, domain.AttachmentFile{
			ID:         uuid.New().String(),
			Name:       f.Name,
			Size:       f.Size,
			Type:       f.Type,
			UploadedAt: now,
			URL:        f.URL,
		})
	}
	list := append(append([]domain.AttachmentFile(nil), e.task.Files(kind)...), created...)
	e.task.SetFiles(kind, list)
	if err := e.commit(ctx); err != nil {
		return created, fmt.Errorf("saving %ss: %w", kind, err)
	}
	return created, nil
}

// RemoveAttachment drops the file with id from the kind list and commits.
func (e *Editor) RemoveAttachment(ctx context.Context, kind domain.FileKind, id string) error {
	if e.task == nil {
		return ErrNoTask
	}
	files := e.task.Files(kind)
	kept := make([]domain.AttachmentFile, 0, len(files))
	for _, f := range files {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	if len(kept) == len(files) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrAttachmentNotFound)
	}
	e.task.SetFiles(kind, kept)
	if err := e.commit(ctx); err != nil {
		return fmt.Errorf("saving %ss: %w", kind, err)
	}
	return nil
}

// MarkUploaded records the URL of a file once an upload has finished.
func (e *Editor) MarkUploaded(ctx context.Context, kind domain.FileKind, id, url string) error {
	if e.task == nil {
		return ErrNoTask
	}
	files := append([]domain.AttachmentFile(nil), e.task.Files(kind)...)
	for i := range files {
		if files[i].ID == id {
			files[i].URL = url
			e.task.SetFiles(kind, files)
			return e.commit(ctx)
		}
	}
	return fmt.Errorf("%s %s: %w", kind, id, ErrAttachmentNotFound)
}
