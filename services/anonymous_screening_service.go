package services

import (
	"errors"
	"strconv"
	"strings"

	"youth-health-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousScreeningService accepts screening attempts from visitors
// without accounts. These never feed the leaderboards; they exist for
// outreach and research export.
type AnonymousScreeningService struct {
	DB *gorm.DB
}

func NewAnonymousScreeningService(db *gorm.DB) *AnonymousScreeningService {
	return &AnonymousScreeningService{DB: db}
}

type anonymousPersonalInfo struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	CountryCode  string `json:"country_code"`
	CountryName  string `json:"country_name"`
	SchoolName   string `json:"school_name"`
	IsAmbassador bool   `json:"is_ambassador"`
}

type anonymousAnswerInput struct {
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	Score    float64 `json:"score"`
}

// validatePersonalInfo enforces the demographic constraints: names and
// country required, gender from the fixed set, age within the platform's
// 10-25 target range.
func validatePersonalInfo(info anonymousPersonalInfo) error {
	if strings.TrimSpace(info.FirstName) == "" || strings.TrimSpace(info.LastName) == "" {
		return errors.New("first_name and last_name are required")
	}
	switch info.Gender {
	case "male", "female", "other":
	default:
		return errors.New("gender must be male, female, or other")
	}
	if info.Age < 10 || info.Age > 25 {
		return errors.New("age must be between 10 and 25")
	}
	if info.CountryCode == "" || info.CountryName == "" {
		return errors.New("country_code and country_name are required")
	}
	return nil
}

func (s *AnonymousScreeningService) CreateSubmission(c *fiber.Ctx) error {
	type Req struct {
		ScreeningID  string                 `json:"screening_id"`
		TotalScore   *float64               `json:"total_score"`
		PersonalInfo anonymousPersonalInfo  `json:"personal_info"`
		Answers      []anonymousAnswerInput `json:"answers"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.ScreeningID == "" || req.TotalScore == nil {
		return c.Status(400).JSON(fiber.Map{"error": "screening_id and total_score are required"})
	}
	if *req.TotalScore < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "total_score must be non-negative"})
	}
	if err := validatePersonalInfo(req.PersonalInfo); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var screening models.Screening
	if err := s.DB.First(&screening, "id = ?", req.ScreeningID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "screening not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching screening"})
	}

	sub := models.AnonymousScreeningSubmission{
		ID:           uuid.NewString(),
		ScreeningID:  req.ScreeningID,
		TotalScore:   *req.TotalScore,
		FirstName:    strings.TrimSpace(req.PersonalInfo.FirstName),
		LastName:     strings.TrimSpace(req.PersonalInfo.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.PersonalInfo.Email)),
		Gender:       req.PersonalInfo.Gender,
		Age:          req.PersonalInfo.Age,
		CountryCode:  req.PersonalInfo.CountryCode,
		CountryName:  req.PersonalInfo.CountryName,
		SchoolName:   req.PersonalInfo.SchoolName,
		IsAmbassador: req.PersonalInfo.IsAmbassador,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Answers", "Screening").Create(&sub).Error; err != nil {
			return err
		}
		for _, a := range req.Answers {
			answer := models.AnonymousScreeningAnswer{
				ID:           uuid.NewString(),
				SubmissionID: sub.ID,
				Question:     a.Question,
				Answer:       a.Answer,
				Score:        a.Score,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create submission"})
	}

	s.DB.Preload("Answers").First(&sub, "id = ?", sub.ID)
	return c.Status(201).JSON(sub)
}

func (s *AnonymousScreeningService) GetSubmission(c *fiber.Ctx) error {
	var sub models.AnonymousScreeningSubmission
	if err := s.DB.Preload("Screening").Preload("Answers").
		First(&sub, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "submission not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(sub)
}

func (s *AnonymousScreeningService) GetAllSubmissions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.DB.Model(&models.AnonymousScreeningSubmission{})
	if screeningID := c.Query("screening_id"); screeningID != "" {
		q = q.Where("screening_id = ?", screeningID)
	}
	if email := c.Query("email"); email != "" {
		q = q.Where("email LIKE ?", "%"+strings.ToLower(email)+"%")
	}
	if country := c.Query("country"); country != "" {
		q = q.Where("country_name ILIKE ?", "%"+country+"%")
	}
	if ambassador := c.Query("is_ambassador"); ambassador != "" {
		q = q.Where("is_ambassador = ?", ambassador == "true")
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

	var subs []models.AnonymousScreeningSubmission
	if err := q.Preload("Screening").
		Order("total_score DESC, submitted_at DESC").
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

func (s *AnonymousScreeningService) DeleteSubmission(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id = ?", id).Delete(&models.AnonymousScreeningAnswer{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.AnonymousScreeningSubmission{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "submission not found")
		}
		return nil
	})
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "submission deleted"})
}
