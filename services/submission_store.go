package services

import (
	"context"
	"fmt"
	"time"

	"youth-health-system/models"

	"gorm.io/gorm"
)

// CompetitionKind selects which submission table a store call targets.
type CompetitionKind string

const (
	KindContest   CompetitionKind = "contest"
	KindScreening CompetitionKind = "screening"
)

// SubmissionRecord is the normalized view of a scored attempt, identical
// for contest and screening submissions.
type SubmissionRecord struct {
	ID            string
	UserID        string
	CompetitionID string
	TotalScore    float64
	SubmittedAt   time.Time
}

// SubmissionStore reads scored attempts. An empty competitionID means all
// submissions of that kind.
type SubmissionStore interface {
	FindAll(ctx context.Context, kind CompetitionKind, competitionID string) ([]SubmissionRecord, error)
	DistinctCompetitionIDs(ctx context.Context, kind CompetitionKind) ([]string, error)
	FindByID(ctx context.Context, kind CompetitionKind, id string) (*SubmissionRecord, error)
	CountByCompetition(ctx context.Context, kind CompetitionKind, competitionID string) (int64, error)
}

// UserDirectory batch-resolves user profiles with their school preloaded.
type UserDirectory interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
}

// GormSubmissionStore backs SubmissionStore with the contest_submissions
// and screening_submissions tables.
type GormSubmissionStore struct {
	DB *gorm.DB
}

func NewGormSubmissionStore(db *gorm.DB) *GormSubmissionStore {
	return &GormSubmissionStore{DB: db}
}

func (s *GormSubmissionStore) FindAll(ctx context.Context, kind CompetitionKind, competitionID string) ([]SubmissionRecord, error) {
	switch kind {
	case KindContest:
		var subs []models.ContestSubmission
		q := s.DB.WithContext(ctx)
		if competitionID != "" {
			q = q.Where("contest_id = ?", competitionID)
		}
		if err := q.Find(&subs).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch contest submissions: %w", err)
		}
		records := make([]SubmissionRecord, len(subs))
		for i, sub := range subs {
			records[i] = SubmissionRecord{
				ID:            sub.ID,
				UserID:        sub.UserID,
				CompetitionID: sub.ContestID,
				TotalScore:    sub.TotalScore,
				SubmittedAt:   sub.SubmittedAt,
			}
		}
		return records, nil
	case KindScreening:
		var subs []models.ScreeningSubmission
		q := s.DB.WithContext(ctx)
		if competitionID != "" {
			q = q.Where("screening_id = ?", competitionID)
		}
		if err := q.Find(&subs).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch screening submissions: %w", err)
		}
		records := make([]SubmissionRecord, len(subs))
		for i, sub := range subs {
			records[i] = SubmissionRecord{
				ID:            sub.ID,
				UserID:        sub.UserID,
				CompetitionID: sub.ScreeningID,
				TotalScore:    sub.TotalScore,
				SubmittedAt:   sub.SubmittedAt,
			}
		}
		return records, nil
	}
	return nil, fmt.Errorf("unknown competition kind %q", kind)
}

func (s *GormSubmissionStore) DistinctCompetitionIDs(ctx context.Context, kind CompetitionKind) ([]string, error) {
	var ids []string
	var err error
	switch kind {
	case KindContest:
		err = s.DB.WithContext(ctx).Model(&models.ContestSubmission{}).
			Distinct("contest_id").Pluck("contest_id", &ids).Error
	case KindScreening:
		err = s.DB.WithContext(ctx).Model(&models.ScreeningSubmission{}).
			Distinct("screening_id").Pluck("screening_id", &ids).Error
	default:
		return nil, fmt.Errorf("unknown competition kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids: %w", kind, err)
	}
	return ids, nil
}

func (s *GormSubmissionStore) FindByID(ctx context.Context, kind CompetitionKind, id string) (*SubmissionRecord, error) {
	switch kind {
	case KindContest:
		var sub models.ContestSubmission
		if err := s.DB.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch contest submission %s: %w", id, err)
		}
		return &SubmissionRecord{
			ID:            sub.ID,
			UserID:        sub.UserID,
			CompetitionID: sub.ContestID,
			TotalScore:    sub.TotalScore,
			SubmittedAt:   sub.SubmittedAt,
		}, nil
	case KindScreening:
		var sub models.ScreeningSubmission
		if err := s.DB.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to fetch screening submission %s: %w", id, err)
		}
		return &SubmissionRecord{
			ID:            sub.ID,
			UserID:        sub.UserID,
			CompetitionID: sub.ScreeningID,
			TotalScore:    sub.TotalScore,
			SubmittedAt:   sub.SubmittedAt,
		}, nil
	}
	return nil, fmt.Errorf("unknown competition kind %q", kind)
}

func (s *GormSubmissionStore) CountByCompetition(ctx context.Context, kind CompetitionKind, competitionID string) (int64, error) {
	var count int64
	var err error
	switch kind {
	case KindContest:
		err = s.DB.WithContext(ctx).Model(&models.ContestSubmission{}).
			Where("contest_id = ?", competitionID).Count(&count).Error
	case KindScreening:
		err = s.DB.WithContext(ctx).Model(&models.ScreeningSubmission{}).
			Where("screening_id = ?", competitionID).Count(&count).Error
	default:
		return 0, fmt.Errorf("unknown competition kind %q", kind)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count %s submissions: %w", kind, err)
	}
	return count, nil
}

// GormUserDirectory backs UserDirectory with the users table.
type GormUserDirectory struct {
	DB *gorm.DB
}

func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{DB: db}
}

// FindByIDs resolves all users in one query, schools included.
func (d *GormUserDirectory) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := d.DB.WithContext(ctx).Preload("HighSchool").
		Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	return users, nil
}
