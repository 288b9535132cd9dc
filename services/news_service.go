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

type NewsService struct {
	DB          *gorm.DB
	Translation *TranslationService
}

func NewNewsService(db *gorm.DB, translation *TranslationService) *NewsService {
	return &NewsService{DB: db, Translation: translation}
}

func (s *NewsService) CreateNews(c *fiber.Ctx) error {
	title := c.FormValue("title")
	content := c.FormValue("content")
	status := c.FormValue("status", "draft")

	if title == "" || content == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title and content are required"})
	}
	if status != "draft" && status != "scheduled" && status != "published" {
		return c.Status(400).JSON(fiber.Map{"error": "status must be draft, scheduled, or published"})
	}

	var publishAt *time.Time
	if status == "scheduled" {
		t, err := time.Parse(time.RFC3339, c.FormValue("publish_at"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "scheduled status requires publish_at (RFC3339)"})
		}
		publishAt = &t
	}

	var coverImage string
	if image, err := c.FormFile("cover_image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "news/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload cover image"})
		}
		coverImage = url
	}

	seoSlug := c.FormValue("seo_slug")
	if seoSlug == "" {
		seoSlug = slug.Make(title)
	}

	news := models.News{
		ID:         uuid.NewString(),
		Title:      title,
		Summary:    c.FormValue("summary"),
		Content:    content,
		CoverImage: coverImage,
		Status:     status,
		PublishAt:  publishAt,
		SEO: models.SEO{
			MetaTitle:       c.FormValue("meta_title", title),
			Slug:            seoSlug,
			MetaDescription: c.FormValue("meta_description"),
		},
	}
	if err := s.DB.Create(&news).Error; err != nil {
		log.Printf("ERROR creating news: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create news"})
	}

	s.storeTranslations(c, &news)

	s.DB.Preload("Translations").First(&news, "id = ?", news.ID)
	return c.Status(201).JSON(news)
}

func (s *NewsService) storeTranslations(c *fiber.Ctx, news *models.News) {
	translated, err := s.Translation.TranslateFields(c.Context(), map[string]string{
		"title":   news.Title,
		"summary": news.Summary,
		"content": news.Content,
	})
	if err != nil {
		log.Printf("[News] Translation failed for %s: %v", news.ID, err)
		return
	}
	for lang, fields := range translated {
		tr := models.NewsTranslation{
			ID:       uuid.NewString(),
			NewsID:   news.ID,
			Language: lang,
			Title:    fields["title"],
			Summary:  fields["summary"],
			Content:  fields["content"],
		}
		if err := s.DB.Create(&tr).Error; err != nil {
			log.Printf("[News] Failed to store %s translation for %s: %v", lang, news.ID, err)
		}
	}
}

func (s *NewsService) GetAllNews(c *fiber.Ctx) error {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.DB.Model(&models.News{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var items []models.News
	if err := q.Preload("Translations").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch news"})
	}

	return c.JSON(fiber.Map{
		"news":         items,
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"total":        total,
	})
}

func (s *NewsService) GetNewsByID(c *fiber.Ctx) error {
	var news models.News
	if err := s.DB.Preload("Translations").First(&news, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "news not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(news)
}

func (s *NewsService) UpdateNews(c *fiber.Ctx) error {
	id := c.Params("id")
	var news models.News
	if err := s.DB.First(&news, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "news not found"})
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
	if v := c.FormValue("status"); v != "" {
		switch v {
		case "draft", "published":
			updates["status"] = v
			updates["publish_at"] = nil
		case "scheduled":
			t, err := time.Parse(time.RFC3339, c.FormValue("publish_at"))
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "scheduled status requires publish_at (RFC3339)"})
			}
			updates["status"] = v
			updates["publish_at"] = t
		default:
			return c.Status(400).JSON(fiber.Map{"error": "status must be draft, scheduled, or published"})
		}
	}
	if image, err := c.FormFile("cover_image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "news/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload cover image"})
		}
		updates["cover_image"] = url
	}

	if err := s.DB.Model(&news).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.Preload("Translations").First(&news, "id = ?", id)
	return c.JSON(news)
}

func (s *NewsService) DeleteNews(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("news_id = ?", id).Delete(&models.NewsTranslation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.News{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "news not found")
		}
		return nil
	})
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "news deleted"})
}
