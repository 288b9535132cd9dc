package services

import (
	"errors"
	"strconv"

	"youth-health-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegistrationService manages event sign-ups. Each registration gets a
// sequential human-readable number from the counters table.
type RegistrationService struct {
	DB *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{DB: db}
}

const registrationCounterID = "registration_number"

// nextRegistrationNumber increments the shared counter inside tx and
// returns the padded number.
func nextRegistrationNumber(tx *gorm.DB) (string, error) {
	counter := models.Counter{ID: registrationCounterID, Seq: 1}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"seq": gorm.Expr("counters.seq + 1")}),
	}).Create(&counter).Error
	if err != nil {
		return "", err
	}
	if err := tx.First(&counter, "id = ?", registrationCounterID).Error; err != nil {
		return "", err
	}
	return models.FormatRegistrationNumber(counter.Seq), nil
}

func (s *RegistrationService) CreateRegistration(c *fiber.Ctx) error {
	type Req struct {
		EventID string `json:"event_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	userID, _ := c.Locals("user_id").(string)
	if req.EventID == "" || userID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "event_id is required"})
	}

	var event models.Event
	if err := s.DB.First(&event, "id = ?", req.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "event not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error fetching event"})
	}

	var existing models.EventRegistration
	if err := s.DB.Where("event_id = ? AND user_id = ?", req.EventID, userID).
		First(&existing).Error; err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "user is already registered for this event"})
	}

	reg := models.EventRegistration{
		ID:      uuid.NewString(),
		EventID: req.EventID,
		UserID:  userID,
		Status:  "pending",
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		number, err := nextRegistrationNumber(tx)
		if err != nil {
			return err
		}
		reg.RegistrationNumber = number
		return tx.Create(&reg).Error
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create registration"})
	}

	s.DB.Preload("Event").First(&reg, "id = ?", reg.ID)
	return c.Status(201).JSON(reg)
}

func (s *RegistrationService) GetRegistrationByID(c *fiber.Ctx) error {
	var reg models.EventRegistration
	if err := s.DB.Preload("Event").Preload("User").
		First(&reg, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(reg)
}

func (s *RegistrationService) GetRegistrationsByEvent(c *fiber.Ctx) error {
	eventID := c.Params("event_id")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.DB.Model(&models.EventRegistration{}).
		Where("event_id = ?", eventID).Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var regs []models.EventRegistration
	if err := s.DB.Preload("User").Preload("Event").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&regs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch registrations"})
	}

	return c.JSON(fiber.Map{
		"registrations": regs,
		"current_page":  page,
		"total_pages":   (total + int64(limit) - 1) / int64(limit),
		"total":         total,
	})
}

// GetMyRegistrations lists the calling user's registrations with events.
func (s *RegistrationService) GetMyRegistrations(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "missing user identity"})
	}
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.DB.Model(&models.EventRegistration{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var regs []models.EventRegistration
	if err := s.DB.Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&regs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch registrations"})
	}

	return c.JSON(fiber.Map{
		"registrations": regs,
		"current_page":  page,
		"total_pages":   (total + int64(limit) - 1) / int64(limit),
		"total":         total,
	})
}

func (s *RegistrationService) UpdateRegistrationStatus(c *fiber.Ctx) error {
	type Req struct {
		Status string `json:"status"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Status != "pending" && req.Status != "confirmed" && req.Status != "cancelled" {
		return c.Status(400).JSON(fiber.Map{"error": "status must be pending, confirmed, or cancelled"})
	}

	var reg models.EventRegistration
	if err := s.DB.First(&reg, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	if err := s.DB.Model(&reg).Update("status", req.Status).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	return c.JSON(reg)
}

// CancelRegistration lets a user withdraw from an event. Only the owner
// may cancel.
func (s *RegistrationService) CancelRegistration(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	var reg models.EventRegistration
	if err := s.DB.First(&reg, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if reg.UserID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "registration belongs to another user"})
	}

	if err := s.DB.Model(&reg).Update("status", "cancelled").Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	return c.JSON(reg)
}
