package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/K-Thour/PointsServer/models"

	"gorm.io/gorm"
)

// RecordStore persists daily records. Uniqueness of (user_id, date) is left
// to the idx_user_date index so concurrent submissions cannot both succeed.
type RecordStore struct{ db *gorm.DB }

func NewRecordStore(db *gorm.DB) *RecordStore { return &RecordStore{db: db} }

// Create inserts rec, returning ErrDuplicateRecord if the user already has a
// record for rec.Date.
func (s *RecordStore) Create(ctx context.Context, rec *models.DailyRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("create daily record: %w", err)
	}
	return nil
}

func (s *RecordStore) FindByDate(ctx context.Context, userID uint, date time.Time) (*models.DailyRecord, error) {
	var rec models.DailyRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find daily record: %w", err)
	}
	return &rec, nil
}

// ListByUser returns the full history, most recent first.
func (s *RecordStore) ListByUser(ctx context.Context, userID uint) ([]models.DailyRecord, error) {
	recs := []models.DailyRecord{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date desc").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	return recs, nil
}

// ListSince returns records dated on or after from, oldest first.
func (s *RecordStore) ListSince(ctx context.Context, userID uint, from time.Time) ([]models.DailyRecord, error) {
	recs := []models.DailyRecord{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, from).
		Order("date asc").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list daily records since %s: %w", from.Format("2006-01-02"), err)
	}
	return recs, nil
}
