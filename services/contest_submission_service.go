package services

import (
	"errors"
	"log"
	"strconv"

	"youth-health-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContestSubmissionService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService
}

func NewContestSubmissionService(db *gorm.DB, leaderboard *LeaderboardService) *ContestSubmissionService {
	return &ContestSubmissionService{DB: db, Leaderboard: leaderboard}
}

// CreateSubmission records one scored attempt. A user submits at most once
// per contest; duplicates are rejected before hitting the unique index.
func (s *ContestSubmissionService) CreateSubmission(c *fiber.Ctx) error {
	type Req struct {
		ContestID  string   `json:"contest_id"`
		TotalScore *float64 `json:"total_score"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	userID, _ := c.Locals("user_id").(string)
	if req.ContestID == "" || userID == "" || req.TotalScore == nil {
		return c.Status(400).JSON(fiber.Map{"error": "contest_id and total_score are required"})
	}
	if *req.TotalScore < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "total_score must be non-negative"})
	}

	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", req.ContestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching contest"})
	}

	var existing models.ContestSubmission
	if err := s.DB.Where("contest_id = ? AND user_id = ?", req.ContestID, userID).
		First(&existing).Error; err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "user has already submitted for this contest"})
	}

	// Capture demographics at submission time so the row survives user deletion.
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "user not found"})
	}

	sub := models.ContestSubmission{
		ID:         uuid.NewString(),
		ContestID:  req.ContestID,
		UserID:     userID,
		TotalScore: *req.TotalScore,
		Country:    user.Country,
		SchoolID:   user.HighSchoolID,
	}
	if err := s.DB.Create(&sub).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create submission", "details": err.Error()})
	}

	// Refresh the affected leaderboards; failure here must not fail the write.
	if err := s.Leaderboard.HandleNewSubmission(c.Context(), KindContest, sub.ID); err != nil {
		log.Printf("[Submission] Leaderboard update failed for contest submission %s: %v", sub.ID, err)
	}

	return c.Status(201).JSON(sub)
}

func (s *ContestSubmissionService) GetSubmission(c *fiber.Ctx) error {
	id := c.Params("id")
	var sub models.ContestSubmission
	if err := s.DB.Preload("Contest").Preload("User").First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(sub)
}

func (s *ContestSubmissionService) GetUserSubmissionForContest(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	contestID := c.Params("contest_id")
	var sub models.ContestSubmission
	if err := s.DB.Where("contest_id = ? AND user_id = ?", contestID, userID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found for this user and contest"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(sub)
}

func (s *ContestSubmissionService) GetAllSubmissions(c *fiber.Ctx) error {
	contestID := c.Query("contest_id")
	userID := c.Query("user_id")
	country := c.Query("country")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.DB.Model(&models.ContestSubmission{})
	if contestID != "" {
		q = q.Where("contest_id = ?", contestID)
	}
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if country != "" {
		q = q.Where("country = ?", country)
	}
	if minScore := c.Query("min_score"); minScore != "" {
		if v, err := strconv.ParseFloat(minScore, 64); err == nil {
			q = q.Where("total_score >= ?", v)
		}
	}
	if maxScore := c.Query("max_score"); maxScore != "" {
		if v, err := strconv.ParseFloat(maxScore, 64); err == nil {
			q = q.Where("total_score <= ?", v)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var subs []models.ContestSubmission
	if err := q.Order("submitted_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&subs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch submissions"})
	}

	return c.JSON(fiber.Map{
		"submissions":  subs,
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"limit":        limit,
		"total":        total,
	})
}

// GetContestStatistics returns count/average/top score for one contest.
func (s *ContestSubmissionService) GetContestStatistics(c *fiber.Ctx) error {
	contestID := c.Params("contest_id")
	type Stats struct {
		TotalSubmissions int64   `json:"total_submissions"`
		AverageScore     float64 `json:"average_score"`
		TopScore         float64 `json:"top_score"`
	}
	var stats Stats
	err := s.DB.Model(&models.ContestSubmission{}).
		Select("COUNT(*) as total_submissions, COALESCE(AVG(total_score), 0) as average_score, COALESCE(MAX(total_score), 0) as top_score").
		Where("contest_id = ?", contestID).
		Scan(&stats).Error
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to compute statistics"})
	}
	return c.JSON(stats)
}

func (s *ContestSubmissionService) DeleteSubmission(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Delete(&models.ContestSubmission{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
	}
	return c.JSON(fiber.Map{"message": "submission deleted"})
}
