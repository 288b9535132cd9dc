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

type SchoolService struct {
	DB *gorm.DB
}

func NewSchoolService(db *gorm.DB) *SchoolService {
	return &SchoolService{DB: db}
}

func (s *SchoolService) CreateSchool(c *fiber.Ctx) error {
	type Req struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	school := models.School{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Country: req.Country,
		City:    req.City,
	}
	if err := s.DB.Create(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "school already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to create school"})
	}
	return c.Status(201).JSON(school)
}

func (s *SchoolService) GetAllSchools(c *fiber.Ctx) error {
	search := c.Query("search")
	country := c.Query("country")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	q := s.DB.Model(&models.School{})
	if search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if country != "" {
		q = q.Where("country = ?", country)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var schools []models.School
	if err := q.Order("name ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&schools).Error; err != nil {
		log.Printf("ERROR fetching schools: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch schools"})
	}

	return c.JSON(fiber.Map{
		"schools":      schools,
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"total":        total,
	})
}

func (s *SchoolService) GetSchoolByID(c *fiber.Ctx) error {
	var school models.School
	if err := s.DB.First(&school, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "school not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(school)
}

func (s *SchoolService) UpdateSchool(c *fiber.Ctx) error {
	id := c.Params("id")
	var school models.School
	if err := s.DB.First(&school, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "school not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	type Req struct {
		Name    *string `json:"name"`
		Country *string `json:"country"`
		City    *string `json:"city"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.Country != nil {
		school.Country = *req.Country
	}
	if req.City != nil {
		school.City = *req.City
	}
	if err := s.DB.Save(&school).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	return c.JSON(school)
}

func (s *SchoolService) DeleteSchool(c *fiber.Ctx) error {
	id := c.Params("id")

	// Refuse to orphan users still attached to the school.
	var userCount int64
	s.DB.Model(&models.User{}).Where("high_school_id = ?", id).Count(&userCount)
	if userCount > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "school still has registered users"})
	}

	result := s.DB.Delete(&models.School{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "school not found"})
	}
	return c.JSON(fiber.Map{"message": "school deleted"})
}
