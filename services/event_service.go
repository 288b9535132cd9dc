package services

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"
	"time"

	"youth-health-system/models"
	"youth-health-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type EventService struct {
	DB *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{DB: db}
}

func (s *EventService) CreateEvent(c *fiber.Ctx) error {
	title := c.FormValue("title")
	summary := c.FormValue("summary")
	eventType := c.FormValue("type")
	eventDateStr := c.FormValue("event_date")

	if title == "" || summary == "" || eventDateStr == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title, summary, and event_date are required"})
	}
	if eventType != "virtual" && eventType != "physical" {
		return c.Status(400).JSON(fiber.Map{"error": "type must be virtual or physical"})
	}
	if eventType == "physical" && c.FormValue("location") == "" {
		return c.Status(400).JSON(fiber.Map{"error": "physical events require a location"})
	}

	eventDate, err := time.Parse(time.RFC3339, eventDateStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid event_date (use RFC3339)"})
	}

	var imageURL string
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "events/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		imageURL = url
	}

	seoSlug := c.FormValue("seo_slug")
	if seoSlug == "" {
		seoSlug = slug.Make(title)
	}

	event := models.Event{
		ID:               uuid.NewString(),
		Title:            title,
		Summary:          summary,
		Content:          c.FormValue("content"),
		Image:            imageURL,
		Type:             eventType,
		Location:         c.FormValue("location"),
		IsFeatured:       c.FormValue("is_featured") == "true",
		EventDate:        eventDate,
		Status:           c.FormValue("status", "draft"),
		RegistrationLink: c.FormValue("registration_link"),
		SEO: models.SEO{
			MetaTitle:       c.FormValue("meta_title", title),
			Slug:            seoSlug,
			MetaDescription: c.FormValue("meta_description"),
		},
	}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("ERROR creating event: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create event"})
	}
	return c.Status(201).JSON(event)
}

func (s *EventService) GetAllEvents(c *fiber.Ctx) error {
	status := c.Query("status")
	eventType := c.Query("type")
	featured := c.Query("featured")
	upcoming := c.Query("upcoming")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.DB.Model(&models.Event{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if eventType != "" {
		q = q.Where("type = ?", eventType)
	}
	if featured == "true" {
		q = q.Where("is_featured = ?", true)
	}
	if upcoming == "true" {
		q = q.Where("event_date >= ?", time.Now())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var events []models.Event
	if err := q.Order("event_date ASC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&events).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch events"})
	}

	return c.JSON(fiber.Map{
		"events":       events,
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"total":        total,
	})
}

func (s *EventService) GetEventByID(c *fiber.Ctx) error {
	var event models.Event
	if err := s.DB.First(&event, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(event)
}

func (s *EventService) UpdateEvent(c *fiber.Ctx) error {
	id := c.Params("id")
	var event models.Event
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if v := c.FormValue("title"); v != "" {
		updates["title"] = v
	}
	if v := c.FormValue("summary"); v != "" {
		updates["summary"] = v
	}
	if v := c.FormValue("content"); v != "" {
		updates["content"] = v
	}
	if v := c.FormValue("type"); v != "" {
		if v != "virtual" && v != "physical" {
			return c.Status(400).JSON(fiber.Map{"error": "type must be virtual or physical"})
		}
		updates["type"] = v
	}
	if v := c.FormValue("location"); v != "" {
		updates["location"] = v
	}
	if v := c.FormValue("status"); v != "" {
		updates["status"] = v
	}
	if v := c.FormValue("registration_link"); v != "" {
		updates["registration_link"] = v
	}
	if v := c.FormValue("is_featured"); v != "" {
		updates["is_featured"] = v == "true"
	}
	if v := c.FormValue("event_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid event_date (use RFC3339)"})
		}
		updates["event_date"] = t
	}
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "events/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		updates["image"] = url
	}

	if err := s.DB.Model(&event).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.First(&event, "id = ?", id)
	return c.JSON(event)
}

func (s *EventService) DeleteEvent(c *fiber.Ctx) error {
	result := s.DB.Delete(&models.Event{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "event not found"})
	}
	return c.JSON(fiber.Map{"message": "event deleted"})
}
