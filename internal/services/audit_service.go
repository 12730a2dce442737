package services

import (
	"context"
	"fmt"

	"github.com/realapp/realapp-api/internal/jobs"
	"github.com/realapp/realapp-api/internal/models"
	"github.com/realapp/realapp-api/pkg/logger"
	"gorm.io/gorm"
)

type AuditService struct {
	db     *gorm.DB
	worker *jobs.Worker
}

func NewAuditService(db *gorm.DB, worker *jobs.Worker) *AuditService {
	return &AuditService{db: db, worker: worker}
}

// Log records an audit entry. With a worker attached the write happens off
// the request path. A service wired without a database is a no-op.
func (s *AuditService) Log(ctx context.Context, userID uint, action, entity string, entityID uint, details, ip, userAgent string) error {
	if s == nil || s.db == nil {
		return nil
	}
	logEntry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if s.worker != nil {
		s.worker.EnqueueAsync(func(jobCtx context.Context) error {
			if err := s.db.WithContext(jobCtx).Create(logEntry).Error; err != nil {
				return fmt.Errorf("audit write %s/%s: %w", action, entity, err)
			}
			return nil
		})
		return nil
	}
	if err := s.db.WithContext(ctx).Create(logEntry).Error; err != nil {
		logger.Error(fmt.Sprintf("[Audit] write failed: %v", err))
		return err
	}
	return nil
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	var logs []models.AuditLog
	var total int64

	if err := s.db.Model(&models.AuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	result := s.db.Preload("User").Order("created_at desc").Limit(limit).Offset(offset).Find(&logs)
	return logs, total, result.Error
}
