package services

import (
	"errors"
	"log"
	"path/filepath"
	"time"

	"youth-health-system/models"
	"youth-health-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebinarService struct {
	DB *gorm.DB
}

func NewWebinarService(db *gorm.DB) *WebinarService {
	return &WebinarService{DB: db}
}

func (s *WebinarService) CreateWebinar(c *fiber.Ctx) error {
	title := c.FormValue("title")
	videoURL := c.FormValue("video_url")
	if title == "" || videoURL == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and video_url are required"})
	}

	webinar := models.Webinar{
		ID:          uuid.NewString(),
		Title:       title,
		Description: c.FormValue("description"),
		VideoURL:    videoURL,
		Presenter:   c.FormValue("presenter"),
		Status:      c.FormValue("status", "draft"),
	}
	if v := c.FormValue("held_at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid held_at (use RFC3339)"})
		}
		webinar.HeldAt = t
	}

	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "webinars/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		webinar.Image = url
	}

	if err := s.DB.Create(&webinar).Error; err != nil {
		log.Printf("ERROR creating webinar: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create webinar"})
	}
	return c.Status(201).JSON(webinar)
}

func (s *WebinarService) GetAllWebinars(c *fiber.Ctx) error {
	q := s.DB.Model(&models.Webinar{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	var webinars []models.Webinar
	if err := q.Order("held_at DESC").Find(&webinars).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch webinars"})
	}
	return c.JSON(webinars)
}

func (s *WebinarService) GetWebinarByID(c *fiber.Ctx) error {
	var webinar models.Webinar
	if err := s.DB.First(&webinar, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "webinar not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(webinar)
}

func (s *WebinarService) UpdateWebinar(c *fiber.Ctx) error {
	id := c.Params("id")
	var webinar models.Webinar
	if err := s.DB.First(&webinar, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "webinar not found"})
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
	if v := c.FormValue("video_url"); v != "" {
		updates["video_url"] = v
	}
	if v := c.FormValue("presenter"); v != "" {
		updates["presenter"] = v
	}
	if v := c.FormValue("status"); v != "" {
		updates["status"] = v
	}
	if v := c.FormValue("held_at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid held_at (use RFC3339)"})
		}
		updates["held_at"] = t
	}
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "webinars/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		updates["image"] = url
	}

	if err := s.DB.Model(&webinar).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.First(&webinar, "id = ?", id)
	return c.JSON(webinar)
}

func (s *WebinarService) DeleteWebinar(c *fiber.Ctx) error {
	result := s.DB.Delete(&models.Webinar{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "webinar not found"})
	}
	return c.JSON(fiber.Map{"message": "webinar deleted"})
}
