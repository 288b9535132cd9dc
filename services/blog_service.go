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

type BlogService struct {
	DB          *gorm.DB
	Translation *TranslationService
}

func NewBlogService(db *gorm.DB, translation *TranslationService) *BlogService {
	return &BlogService{DB: db, Translation: translation}
}

// CreateBlog accepts a multipart form. status defaults to draft; passing
// status=scheduled requires publish_at in the future.
func (s *BlogService) CreateBlog(c *fiber.Ctx) error {
	title := c.FormValue("title")
	content := c.FormValue("content")
	categoryID := c.FormValue("category_id")
	status := c.FormValue("status", "draft")

	if title == "" || content == "" || categoryID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "title, content, and category_id are required"})
	}
	if status != "draft" && status != "scheduled" && status != "published" {
		return c.Status(400).JSON(fiber.Map{"error": "status must be draft, scheduled, or published"})
	}

	var category models.Category
	if err := s.DB.First(&category, "id = ?", categoryID).Error; err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "category_id does not exist"})
	}

	var publishAt *time.Time
	if status == "scheduled" {
		t, err := time.Parse(time.RFC3339, c.FormValue("publish_at"))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "scheduled status requires publish_at (RFC3339)"})
		}
		if !t.After(time.Now()) {
			return c.Status(400).JSON(fiber.Map{"error": "publish_at must be in the future"})
		}
		publishAt = &t
	}

	var coverImage string
	if image, err := c.FormFile("cover_image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "blogs/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload cover image"})
		}
		coverImage = url
	}

	seoSlug := c.FormValue("seo_slug")
	if seoSlug == "" {
		seoSlug = slug.Make(title)
	}

	blog := models.Blog{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		CoverImage: coverImage,
		CategoryID: categoryID,
		Status:     status,
		PublishAt:  publishAt,
		SEO: models.SEO{
			MetaTitle:       c.FormValue("meta_title", title),
			Slug:            seoSlug,
			MetaDescription: c.FormValue("meta_description"),
		},
	}
	if err := s.DB.Create(&blog).Error; err != nil {
		log.Printf("ERROR creating blog: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create blog"})
	}

	s.storeTranslations(c, &blog)

	s.DB.Preload("Category").Preload("Translations").First(&blog, "id = ?", blog.ID)
	return c.Status(201).JSON(blog)
}

func (s *BlogService) storeTranslations(c *fiber.Ctx, blog *models.Blog) {
	translated, err := s.Translation.TranslateFields(c.Context(), map[string]string{
		"title":   blog.Title,
		"content": blog.Content,
	})
	if err != nil {
		log.Printf("[Blog] Translation failed for %s: %v", blog.ID, err)
		return
	}
	for lang, fields := range translated {
		tr := models.BlogTranslation{
			ID:       uuid.NewString(),
			BlogID:   blog.ID,
			Language: lang,
			Title:    fields["title"],
			Content:  fields["content"],
		}
		if err := s.DB.Create(&tr).Error; err != nil {
			log.Printf("[Blog] Failed to store %s translation for %s: %v", lang, blog.ID, err)
		}
	}
}

func (s *BlogService) GetAllBlogs(c *fiber.Ctx) error {
	status := c.Query("status")
	categoryID := c.Query("category_id")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	q := s.DB.Model(&models.Blog{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var blogs []models.Blog
	if err := q.Preload("Category").Preload("Translations").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&blogs).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch blogs"})
	}

	return c.JSON(fiber.Map{
		"blogs":        blogs,
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"total":        total,
	})
}

func (s *BlogService) GetBlogByID(c *fiber.Ctx) error {
	var blog models.Blog
	if err := s.DB.Preload("Category").Preload("Translations").
		First(&blog, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "blog not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(blog)
}

func (s *BlogService) GetBlogBySlug(c *fiber.Ctx) error {
	var blog models.Blog
	if err := s.DB.Preload("Category").Preload("Translations").
		First(&blog, "seo_slug = ?", c.Params("slug")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "blog not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(blog)
}

func (s *BlogService) UpdateBlog(c *fiber.Ctx) error {
	id := c.Params("id")
	var blog models.Blog
	if err := s.DB.First(&blog, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "blog not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if v := c.FormValue("title"); v != "" {
		updates["title"] = v
	}
	if v := c.FormValue("content"); v != "" {
		updates["content"] = v
	}
	if v := c.FormValue("category_id"); v != "" {
		var category models.Category
		if err := s.DB.First(&category, "id = ?", v).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "category_id does not exist"})
		}
		updates["category_id"] = v
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
	if v := c.FormValue("meta_title"); v != "" {
		updates["seo_meta_title"] = v
	}
	if v := c.FormValue("meta_description"); v != "" {
		updates["seo_meta_description"] = v
	}
	if v := c.FormValue("seo_slug"); v != "" {
		updates["seo_slug"] = slug.Make(v)
	}

	if image, err := c.FormFile("cover_image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "blogs/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload cover image"})
		}
		updates["cover_image"] = url
	}

	if err := s.DB.Model(&blog).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.Preload("Category").Preload("Translations").First(&blog, "id = ?", id)
	return c.JSON(blog)
}

func (s *BlogService) DeleteBlog(c *fiber.Ctx) error {
	id := c.Params("id")
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&models.BlogTranslation{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Blog{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fiber.NewError(404, "blog not found")
		}
		return nil
	})
	if err != nil {
		if e, ok := err.(*fiber.Error); ok {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		return c.Status(500).JSON(fiber.Map{"error": "delete failed"})
	}
	return c.JSON(fiber.Map{"message": "blog deleted"})
}
