package services

import (
	"errors"

	"youth-health-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CategoryService struct {
	DB *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{DB: db}
}

func (s *CategoryService) CreateCategory(c *fiber.Ctx) error {
	type Req struct {
		Name string `json:"name"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	category := models.Category{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Slug:   slug.Make(req.Name),
		Status: "active",
	}
	if err := s.DB.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(409).JSON(fiber.Map{"error": "category already exists"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to create category"})
	}
	return c.Status(201).JSON(category)
}

func (s *CategoryService) GetAllCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := s.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch categories"})
	}
	return c.JSON(categories)
}

func (s *CategoryService) UpdateCategory(c *fiber.Ctx) error {
	id := c.Params("id")
	var category models.Category
	if err := s.DB.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "category not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	type Req struct {
		Name   *string `json:"name"`
		Status *string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Name != nil && *req.Name != "" {
		category.Name = *req.Name
		category.Slug = slug.Make(*req.Name)
	}
	if req.Status != nil && *req.Status != "" {
		category.Status = *req.Status
	}
	if err := s.DB.Save(&category).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	return c.JSON(category)
}

func (s *CategoryService) DeleteCategory(c *fiber.Ctx) error {
	id := c.Params("id")

	var blogCount int64
	s.DB.Model(&models.Blog{}).Where("category_id = ?", id).Count(&blogCount)
	if blogCount > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "category still has blogs attached"})
	}

	result := s.DB.Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "category not found"})
	}
	return c.JSON(fiber.Map{"message": "category deleted"})
}
