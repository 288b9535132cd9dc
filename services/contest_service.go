package services

import (
	"encoding/json"
	"errors"
	"log"
	"path/filepath"
	"time"

	"youth-health-system/models"
	"youth-health-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ContestService struct {
	DB          *gorm.DB
	Translation *TranslationService
}

func NewContestService(db *gorm.DB, translation *TranslationService) *ContestService {
	return &ContestService{DB: db, Translation: translation}
}

type questionInput struct {
	Text    string `json:"text"`
	Type    string `json:"type"`
	Options []struct {
		Text  string  `json:"text"`
		Score float64 `json:"score"`
	} `json:"options"`
}

// CreateContest accepts a multipart form: name, description, from_date,
// to_date (RFC3339), questions (JSON array), optional image file.
func (s *ContestService) CreateContest(c *fiber.Ctx) error {
	name := c.FormValue("name")
	description := c.FormValue("description")
	fromDateStr := c.FormValue("from_date")
	toDateStr := c.FormValue("to_date")
	questionsStr := c.FormValue("questions")

	if name == "" || fromDateStr == "" || toDateStr == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name, from_date, and to_date are required"})
	}

	fromDate, err := time.Parse(time.RFC3339, fromDateStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid from_date (use RFC3339)"})
	}
	toDate, err := time.Parse(time.RFC3339, toDateStr)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid to_date (use RFC3339)"})
	}
	if !toDate.After(fromDate) {
		return c.Status(400).JSON(fiber.Map{"error": "to_date must be after from_date"})
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
		key := "contests/" + uuid.NewString() + ext
		url, err := utils.StoreUpload(image, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		imageURL = url
	}

	contest := &models.Contest{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		ImageURL:    imageURL,
		FromDate:    fromDate,
		ToDate:      toDate,
		Status:      "active",
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions", "Translations").Create(contest).Error; err != nil {
			return err
		}
		for i, q := range questions {
			question := models.ContestQuestion{
				ID:        uuid.NewString(),
				ContestID: contest.ID,
				Text:      q.Text,
				Type:      q.Type,
				SortOrder: i,
			}
			if question.Type == "" {
				question.Type = "multiple"
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for _, o := range q.Options {
				option := models.ContestOption{
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

	s.storeTranslations(c, contest)

	s.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("\"sort_order\" ASC")
	}).Preload("Questions.Options").
		Preload("Translations").
		First(contest, "id = ?", contest.ID)
	return c.Status(201).JSON(contest)
}

// storeTranslations writes machine translations of name/description; a
// provider failure is logged, not surfaced — the contest already exists.
func (s *ContestService) storeTranslations(c *fiber.Ctx, contest *models.Contest) {
	translated, err := s.Translation.TranslateFields(c.Context(), map[string]string{
		"name":        contest.Name,
		"description": contest.Description,
	})
	if err != nil {
		log.Printf("[Contest] Translation failed for %s: %v", contest.ID, err)
		return
	}
	for lang, fields := range translated {
		tr := models.ContestTranslation{
			ID:          uuid.NewString(),
			ContestID:   contest.ID,
			Language:    lang,
			Name:        fields["name"],
			Description: fields["description"],
		}
		if err := s.DB.Create(&tr).Error; err != nil {
			log.Printf("[Contest] Failed to store %s translation for %s: %v", lang, contest.ID, err)
		}
	}
}

func (s *ContestService) GetAllContests(c *fiber.Ctx) error {
	var contests []models.Contest
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		Preload("Questions.Options").
		Preload("Translations").
		Order("created_at DESC").
		Find(&contests).Error
	if err != nil {
		log.Printf("ERROR fetching contests: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch contests"})
	}
	return c.JSON(contests)
}

func (s *ContestService) GetContestByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var contest models.Contest
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		Preload("Questions.Options").
		Preload("Translations").
		First(&contest, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	var subsCount int64
	s.DB.Model(&models.ContestSubmission{}).
		Where("contest_id = ?", id).
		Count(&subsCount)
	var avgScore float64
	s.DB.Model(&models.ContestSubmission{}).
		Select("COALESCE(AVG(total_score), 0)").
		Where("contest_id = ?", id).
		Scan(&avgScore)

	contest.TotalSubmissions = subsCount
	contest.AverageScore = avgScore
	return c.JSON(contest)
}

func (s *ContestService) GetContestBySlug(c *fiber.Ctx) error {
	var contest models.Contest
	err := s.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("\"sort_order\" ASC")
		}).
		Preload("Questions.Options").
		Preload("Translations").
		First(&contest, "slug = ?", c.Params("slug")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(contest)
}

func (s *ContestService) UpdateContest(c *fiber.Ctx) error {
	id := c.Params("id")
	var contest models.Contest
	if err := s.DB.First(&contest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "contest not found"})
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
	if fromDateStr := c.FormValue("from_date"); fromDateStr != "" {
		t, err := time.Parse(time.RFC3339, fromDateStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid from_date (use RFC3339)"})
		}
		updates["from_date"] = t
	}
	if toDateStr := c.FormValue("to_date"); toDateStr != "" {
		t, err := time.Parse(time.RFC3339, toDateStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid to_date (use RFC3339)"})
		}
		updates["to_date"] = t
	}

	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "contests/" + uuid.NewString() + ext
		url, err := utils.StoreUpload(image, key)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		updates["image_url"] = url
	}

	if err := s.DB.Model(&contest).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.Preload("Questions.Options").Preload("Translations").First(&contest, "id = ?", id)
	return c.JSON(contest)
}

func (s *ContestService) DeleteContest(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Options hang off questions, so collect question ids first.
		var questionIDs []string
		if err := tx.Model(&models.ContestQuestion{}).
			Where("contest_id = ?", id).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.ContestOption{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("contest_id = ?", id).Delete(&models.ContestQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contest_id = ?", id).Delete(&models.ContestTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contest_id = ?", id).Delete(&models.ContestSubmission{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Contest{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "contest not found")
		}
		return nil
	})
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "contest deleted"})
}
