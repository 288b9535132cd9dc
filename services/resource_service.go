package services

import (
	"errors"
	"log"
	"path/filepath"

	"youth-health-system/models"
	"youth-health-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceService struct {
	DB *gorm.DB
}

func NewResourceService(db *gorm.DB) *ResourceService {
	return &ResourceService{DB: db}
}

// CreateResource uploads the material itself plus an optional thumbnail.
func (s *ResourceService) CreateResource(c *fiber.Ctx) error {
	title := c.FormValue("title")
	if title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title is required"})
	}

	file, err := c.FormFile("file")
	if err != nil || file.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "file is required"})
	}
	ext := filepath.Ext(file.Filename)
	fileURL, err := utils.StoreUpload(file, "resources/"+uuid.NewString()+ext)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload file"})
	}

	resource := models.Resource{
		ID:          uuid.NewString(),
		Title:       title,
		Description: c.FormValue("description"),
		FileURL:     fileURL,
		Status:      "active",
	}
	if v := c.FormValue("category_id"); v != "" {
		var category models.Category
		if err := s.DB.First(&category, "id = ?", v).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "category_id does not exist"})
		}
		resource.CategoryID = &v
	}
	if thumb, err := c.FormFile("thumbnail"); err == nil && thumb.Size > 0 {
		text := filepath.Ext(thumb.Filename)
		if text == "" {
			text = ".jpg"
		}
		url, err := utils.StoreUpload(thumb, "resources/thumbs/"+uuid.NewString()+text)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload thumbnail"})
		}
		resource.Thumbnail = url
	}

	if err := s.DB.Create(&resource).Error; err != nil {
		log.Printf("ERROR creating resource: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create resource"})
	}
	return c.Status(201).JSON(resource)
}

func (s *ResourceService) GetAllResources(c *fiber.Ctx) error {
	q := s.DB.Model(&models.Resource{})
	if categoryID := c.Query("category_id"); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var resources []models.Resource
	if err := q.Preload("Category").Order("created_at DESC").Find(&resources).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch resources"})
	}
	return c.JSON(resources)
}

func (s *ResourceService) GetResourceByID(c *fiber.Ctx) error {
	var resource models.Resource
	if err := s.DB.Preload("Category").First(&resource, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "resource not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(resource)
}

func (s *ResourceService) UpdateResource(c *fiber.Ctx) error {
	id := c.Params("id")
	var resource models.Resource
	if err := s.DB.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "resource not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if v := c.FormValue("title"); v != "" {
		updates["title"] = v
	}
	if v := c.FormValue("description"); v != "" {
		updates["description"] = v
	}
	if v := c.FormValue("status"); v != "" {
		updates["status"] = v
	}
	if v := c.FormValue("category_id"); v != "" {
		var category models.Category
		if err := s.DB.First(&category, "id = ?", v).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "category_id does not exist"})
		}
		updates["category_id"] = v
	}
	if file, err := c.FormFile("file"); err == nil && file.Size > 0 {
		url, err := utils.StoreUpload(file, "resources/"+uuid.NewString()+filepath.Ext(file.Filename))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload file"})
		}
		updates["file_url"] = url
	}

	if err := s.DB.Model(&resource).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.Preload("Category").First(&resource, "id = ?", id)
	return c.JSON(resource)
}

func (s *ResourceService) DeleteResource(c *fiber.Ctx) error {
	id := c.Params("id")
	var resource models.Resource
	if err := s.DB.First(&resource, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "resource not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Delete(&resource).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	// Best-effort cleanup of the stored object.
	if err := utils.RemoveStoredFile(resource.FileURL); err != nil {
		log.Printf("[Resource] Failed to delete stored file for %s: %v", id, err)
	}
	return c.JSON(fiber.Map{"message": "resource deleted"})
}
