package handlers

import (
	"log"
	"strconv"

	"youth-health-system/middleware"
	"youth-health-system/models"
	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
)

// LeaderboardHandler translates HTTP queries into leaderboard filters.
type LeaderboardHandler struct {
	Leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{Leaderboard: leaderboard}
}

// GetLeaderboard serves the ranked list. Query params: country, school_id,
// contest_id, screening_id, limit, offset.
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "limit must be a positive integer"})
	}
	if limit > 100 {
		limit = 100
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "offset must be a non-negative integer"})
	}

	filter := models.LeaderboardFilter{
		Country:   c.Query("country"),
		School:    c.Query("school_id"),
		Contest:   c.Query("contest_id"),
		Screening: c.Query("screening_id"),
		Limit:     limit,
		Offset:    offset,
	}

	resp, err := h.Leaderboard.GetLeaderboard(c.Context(), filter)
	if err != nil {
		log.Printf("[Leaderboard] Failed to serve leaderboard: %v", err)
		return c.Status(503).JSON(fiber.Map{"error": "leaderboard temporarily unavailable"})
	}
	return c.JSON(resp)
}

// RefreshLeaderboards forces a full recompute of every cached board.
func (h *LeaderboardHandler) RefreshLeaderboards(c *fiber.Ctx) error {
	h.Leaderboard.RefreshAll(c.Context())
	return c.JSON(fiber.Map{"message": "leaderboards refreshed"})
}

func SetupLeaderboardRoutes(app *fiber.App, handler *LeaderboardHandler) {
	app.Get("/leaderboard", handler.GetLeaderboard)

	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/admin", middleware.RequireRole("admin"))
	admin.Post("/leaderboard/refresh", handler.RefreshLeaderboards)
}
