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

type ScreeningSubmissionService struct {
	DB          *gorm.DB
	Leaderboard *LeaderboardService
}

func NewScreeningSubmissionService(db *gorm.DB, leaderboard *LeaderboardService) *ScreeningSubmissionService {
	return &ScreeningSubmissionService{DB: db, Leaderboard: leaderboard}
}

// CreateSubmission mirrors the contest path: one submission per user per
// screening, demographics captured at write time, leaderboards nudged after.
func (s *ScreeningSubmissionService) CreateSubmission(c *fiber.Ctx) error {
	type Req struct {
		ScreeningID string   `json:"screening_id"`
		TotalScore  *float64 `json:"total_score"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	userID, _ := c.Locals("user_id").(string)
	if req.ScreeningID == "" || userID == "" || req.TotalScore == nil {
		return c.Status(400).JSON(fiber.Map{"error": "screening_id and total_score are required"})
	}
	if *req.TotalScore < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "total_score must be non-negative"})
	}

	var screening models.Screening
	if err := s.DB.First(&screening, "id = ?", req.ScreeningID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "screening not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching screening"})
	}

	var existing models.ScreeningSubmission
	if err := s.DB.Where("screening_id = ? AND user_id = ?", req.ScreeningID, userID).
		First(&existing).Error; err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "user has already submitted for this screening"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "user not found"})
	}

	sub := models.ScreeningSubmission{
		ID:          uuid.NewString(),
		ScreeningID: req.ScreeningID,
		UserID:      userID,
		TotalScore:  *req.TotalScore,
		Country:     user.Country,
		SchoolID:    user.HighSchoolID,
	}
	if err := s.DB.Create(&sub).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create submission", "details": err.Error()})
	}

	if err := s.Leaderboard.HandleNewSubmission(c.Context(), KindScreening, sub.ID); err != nil {
		log.Printf("[Submission] Leaderboard update failed for screening submission %s: %v", sub.ID, err)
	}

	return c.Status(201).JSON(sub)
}

func (s *ScreeningSubmissionService) GetSubmission(c *fiber.Ctx) error {
	id := c.Params("id")
	var sub models.ScreeningSubmission
	if err := s.DB.Preload("Screening").Preload("User").First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(sub)
}

func (s *ScreeningSubmissionService) GetAllSubmissions(c *fiber.Ctx) error {
	screeningID := c.Query("screening_id")
	userID := c.Query("user_id")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.DB.Model(&models.ScreeningSubmission{})
	if screeningID != "" {
		q = q.Where("screening_id = ?", screeningID)
	}
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var subs []models.ScreeningSubmission
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

func (s *ScreeningSubmissionService) DeleteSubmission(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Delete(&models.ScreeningSubmission{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
	}
	return c.JSON(fiber.Map{"message": "submission deleted"})
}
