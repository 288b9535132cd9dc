package services

import (
	"encoding/json"
	"errors"
	"log"
	"path/filepath"

	"youth-health-system/models"
	"youth-health-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ScreeningService manages self-assessment screenings. Same shape as
// ContestService but screenings have no date window and stay open.
type ScreeningService struct {
	DB          *gorm.DB
	Translation *TranslationService
}

func NewScreeningService(db *gorm.DB, translation *TranslationService) *ScreeningService {
	return &ScreeningService{DB: db, Translation: translation}
}

func (s *ScreeningService) CreateScreening(c *fiber.Ctx) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	questionsStr := c.FormValue("questions")

	if name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}

	var questions []questionInput
	if questionsStr != "" {
		if err := json.Unmarshal([]byte(questionsStr), &questions); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid questions JSON", "details": err.Error()})
		}
	}

	var imageURL string
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "screenings/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		imageURL = url
	}

	screening := &models.Screening{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		ImageURL:    imageURL,
		Status:      "active",
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Translations").Create(screening).Error; err != nil {
			return err
		}
		for i, q := range questions {
			question := models.ScreeningQuestion{
				ID:          uuid.NewString(),
				ScreeningID: screening.ID,
				Text:        q.Text,
				Type:        q.Type,
				SortOrder:   i,
			}
			if question.Type == "" {
				question.Type = "multiple"
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for _, o := range q.Options {
				option := models.ScreeningOption{
					ID:         uuid.NewString(),
					QuestionID: question.ID,
					Text:       o.Text,
					Score:      o.Score,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB insert failed"})
	}

	s.storeTranslations(c, screening)

	s.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"sort_order\" ASC")
	}).Preload("Questions.Options").
		Preload("Translations").
		First(screening, "id = ?", screening.ID)
	return c.Status(201).JSON(screening)
}

func (s *ScreeningService) storeTranslations(c *fiber.Ctx, screening *models.Screening) {
	translated, err := s.Translation.TranslateFields(c.Context(), map[string]string{
		"name":        screening.Name,
		"description": screening.Description,
	})
	if err != nil {
		log.Printf("[Screening] Translation failed for %s: %v", screening.ID, err)
		return
	}
	for lang, fields := range translated {
		tr := models.ScreeningTranslation{
			ID:          uuid.NewString(),
			ScreeningID: screening.ID,
			Language:    lang,
			Name:        fields["name"],
			Description: fields["description"],
		}
		if err := s.DB.Create(&tr).Error; err != nil {
			log.Printf("[Screening] Failed to store %s translation for %s: %v", lang, screening.ID, err)
		}
	}
}

func (s *ScreeningService) GetAllScreenings(c *fiber.Ctx) error {
	var screenings []models.Screening
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		Preload("Questions.Options").
		Preload("Translations").
		Order("created_at DESC").
		Find(&screenings).Error
	if err != nil {
		log.Printf("ERROR fetching screenings: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch screenings"})
	}
	return c.JSON(screenings)
}

func (s *ScreeningService) GetScreeningByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var screening models.Screening
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		Preload("Questions.Options").
		Preload("Translations").
		First(&screening, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "screening not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	var subsCount int64
	s.DB.Model(&models.ScreeningSubmission{}).
		Where("screening_id = ?", id).
		Count(&subsCount)
	screening.TotalSubmissions = subsCount
	return c.JSON(screening)
}

func (s *ScreeningService) UpdateScreening(c *fiber.Ctx) error {
	id := c.Params("id")
	var screening models.Screening
	if err := s.DB.First(&screening, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "screening not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if name := c.FormValue("name"); name != "" {
		updates["name"] = name
		updates["slug"] = slug.Make(name)
	}
	if description := c.FormValue("description"); description != "" {
		updates["description"] = description
	}
	if status := c.FormValue("status"); status != "" {
		updates["status"] = status
	}
	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "screenings/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		updates["image_url"] = url
	}

	if err := s.DB.Model(&screening).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.Preload("Questions.Options").Preload("Translations").First(&screening, "id = ?", id)
	return c.JSON(screening)
}

func (s *ScreeningService) DeleteScreening(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&models.ScreeningQuestion{}).
			Where("screening_id = ?", id).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.ScreeningOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("screening_id = ?", id).Delete(&models.ScreeningQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("screening_id = ?", id).Delete(&models.ScreeningTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("screening_id = ?", id).Delete(&models.ScreeningSubmission{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Screening{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "screening not found")
		}
		return nil
	})
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "screening deleted"})
}
