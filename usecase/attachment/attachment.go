package attachment

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase/authz"
)

// allowedExtensions is the upload whitelist; everything else is
// rejected before touching disk.
var allowedExtensions = map[string]struct{}{
	".jpeg": {}, ".jpg": {}, ".png": {}, ".gif": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".txt": {}, ".zip": {},
}

type UseCase struct {
	attachments repository.AttachmentRepository
	tasks       repository.TaskRepository
	activities  repository.ActivityRepository
	policy      authz.Policy
	logger      *zap.Logger

	dir     string
	maxSize int64
}

func New(
	attachments repository.AttachmentRepository,
	tasks repository.TaskRepository,
	activities repository.ActivityRepository,
	policy authz.Policy,
	logger *zap.Logger,
	dir string,
	maxSize int64,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		attachments: attachments,
		tasks:       tasks,
		activities:  activities,
		policy:      policy,
		logger:      logger,
		dir:         dir,
		maxSize:     maxSize,
	}
}

func (uc *UseCase) List(ctx context.Context, actor *domain.User, taskID string) ([]domain.Attachment, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanViewTask(actor, task) {
		return nil, domain.ErrForbidden
	}
	return uc.attachments.ListByTask(ctx, taskID)
}

// Upload stores the bytes under a generated name and records the
// attachment row. The original filename is kept only as metadata and
// never used on disk.
func (uc *UseCase) Upload(ctx context.Context, actor *domain.User, taskID, filename, mimeType string, data []byte) (*domain.Attachment, error) {
	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !uc.policy.CanViewTask(actor, task) {
		return nil, domain.ErrForbidden
	}
	if int64(len(data)) > uc.maxSize {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("file exceeds the %d MB limit", uc.maxSize/(1<<20)))
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, domain.NewError(domain.ErrCodeInvalid, "file type not allowed")
	}

	stored := uuid.New().String() + ext
	if err := os.MkdirAll(uc.dir, 0o755); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to prepare upload directory", err)
	}
	if err := os.WriteFile(filepath.Join(uc.dir, stored), data, 0o644); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to store file", err)
	}

	created, err := uc.attachments.Create(ctx, &domain.Attachment{
		ID:         uuid.New().String(),
		Filename:   filename,
		Path:       "/uploads/" + stored,
		MimeType:   mimeType,
		Size:       int64(len(data)),
		TaskID:     taskID,
		UploaderID: actor.ID,
	})
	if err != nil {
		if rmErr := os.Remove(filepath.Join(uc.dir, stored)); rmErr != nil {
			uc.logger.Warn("failed to remove orphaned upload", zap.String("file", stored), zap.Error(rmErr))
		}
		return nil, err
	}

	if err := uc.activities.Append(ctx, domain.NewActivity(domain.ActivityFileAttached, taskID, actor.ID, map[string]string{
		"filename": filename,
	})); err != nil {
		uc.logger.Error("failed to record attachment activity", zap.String("task_id", taskID), zap.Error(err))
	}
	return created, nil
}

// Delete removes the row first, then the bytes; a leftover file is
// only a disk leak while a dangling row would 404 on download.
func (uc *UseCase) Delete(ctx context.Context, actor *domain.User, id string) error {
	attachment, err := uc.attachments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !uc.policy.CanModify(actor, attachment) {
		return domain.ErrForbidden
	}
	if err := uc.attachments.Delete(ctx, id); err != nil {
		return err
	}
	stored := strings.TrimPrefix(attachment.Path, "/uploads/")
	if err := os.Remove(filepath.Join(uc.dir, stored)); err != nil && !os.IsNotExist(err) {
		uc.logger.Warn("failed to remove attachment file", zap.String("file", stored), zap.Error(err))
	}
	return nil
}
