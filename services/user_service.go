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
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) RegisterUser(c *fiber.Ctx) error {
	type Req struct {
		FirstName    string  `json:"first_name"`
		LastName     string  `json:"last_name"`
		Email        string  `json:"email"`
		Password     string  `json:"password"`
		DOB          string  `json:"dob"`
		Gender       string  `json:"gender"`
		Country      string  `json:"country"`
		CountryCode  string  `json:"country_code"`
		HighSchoolID *string `json:"high_school_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if req.Email == "" || req.Password == "" || req.FirstName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "first_name, email, and password are required"})
	}

	var existing models.User
	if err := s.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(409).JSON(fiber.Map{"error": "email already registered"})
	}

	if req.HighSchoolID != nil && *req.HighSchoolID != "" {
		var school models.School
		if err := s.DB.First(&school, "id = ?", *req.HighSchoolID).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "high_school_id does not exist"})
		}
	}

	user := models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Password:     req.Password,
		Gender:       req.Gender,
		Country:      req.Country,
		CountryCode:  req.CountryCode,
		HighSchoolID: req.HighSchoolID,
		Role:         "user",
		Status:       "active",
	}
	if req.DOB != "" {
		dob, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid dob (use YYYY-MM-DD)"})
		}
		user.DOB = &dob
	}

	if err := s.DB.Create(&user).Error; err != nil {
		log.Printf("ERROR creating user: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user"})
	}
	s.DB.Preload("HighSchool").First(&user, "id = ?", user.ID)
	return c.Status(201).JSON(user)
}

func (s *UserService) GetUserByID(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.Preload("HighSchool").First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}

// GetCurrentUser resolves the caller from the gateway-injected user id.
func (s *UserService) GetCurrentUser(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "missing user identity"})
	}
	var user models.User
	if err := s.DB.Preload("HighSchool").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}

func (s *UserService) GetAllUsers(c *fiber.Ctx) error {
	country := c.Query("country")
	schoolID := c.Query("school_id")
	role := c.Query("role")
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	q := s.DB.Model(&models.User{})
	if country != "" {
		q = q.Where("country = ?", country)
	}
	if schoolID != "" {
		q = q.Where("high_school_id = ?", schoolID)
	}
	if role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "count failed"})
	}

	var users []models.User
	if err := q.Preload("HighSchool").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"users":        users,
		"current_page": page,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"total":        total,
	})
}

func (s *UserService) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}

	updates := map[string]interface{}{}
	if v := c.FormValue("first_name"); v != "" {
		updates["first_name"] = v
	}
	if v := c.FormValue("last_name"); v != "" {
		updates["last_name"] = v
	}
	if v := c.FormValue("gender"); v != "" {
		updates["gender"] = v
	}
	if v := c.FormValue("country"); v != "" {
		updates["country"] = v
	}
	if v := c.FormValue("country_code"); v != "" {
		updates["country_code"] = v
	}
	if v := c.FormValue("high_school_id"); v != "" {
		var school models.School
		if err := s.DB.First(&school, "id = ?", v).Error; err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "high_school_id does not exist"})
		}
		updates["high_school_id"] = v
	}
	if v := c.FormValue("dob"); v != "" {
		dob, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid dob (use YYYY-MM-DD)"})
		}
		updates["dob"] = dob
	}
	if v := c.FormValue("status"); v != "" {
		updates["status"] = v
	}

	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		url, err := utils.StoreUpload(image, "users/"+uuid.NewString()+ext)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
		}
		updates["image_url"] = url
	}

	if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "update failed"})
	}
	s.DB.Preload("HighSchool").First(&user, "id = ?", id)
	return c.JSON(user)
}

func (s *UserService) ChangePassword(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return c.Status(401).JSON(fiber.Map{"error": "missing user identity"})
	}
	type Req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON"})
	}
	if len(req.NewPassword) < 8 {
		return c.Status(400).JSON(fiber.Map{"error": "new password must be at least 8 characters"})
	}

	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	if !user.CheckPassword(req.CurrentPassword) {
		return c.Status(401).JSON(fiber.Map{"error": "current password is incorrect"})
	}

	user.Password = req.NewPassword
	if err := s.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update password"})
	}
	return c.JSON(fiber.Map{"message": "password updated"})
}

func (s *UserService) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	result := s.DB.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "DB error"})
	}
	if result.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}
