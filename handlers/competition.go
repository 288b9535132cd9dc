package handlers

import (
	"youth-health-system/middleware"
	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCompetitionRoutes(
	app *fiber.App,
	contestService *services.ContestService,
	screeningService *services.ScreeningService,
	contestSubs *services.ContestSubmissionService,
	screeningSubs *services.ScreeningSubmissionService,
) {
	// Public: browse competitions
	app.Get("/contests", contestService.GetAllContests)
	app.Get("/contests/slug/:slug", contestService.GetContestBySlug)
	app.Get("/contests/:id", contestService.GetContestByID)
	app.Get("/screenings", screeningService.GetAllScreenings)
	app.Get("/screenings/:id", screeningService.GetScreeningByID)

	secured := app.Group("/", middleware.UserContextMiddleware())

	// Submissions
	secured.Post("/contest-submissions", contestSubs.CreateSubmission)
	secured.Get("/contest-submissions", contestSubs.GetAllSubmissions)
	secured.Get("/contest-submissions/:id", contestSubs.GetSubmission)
	secured.Get("/contests/:contest_id/submissions/user/:user_id", contestSubs.GetUserSubmissionForContest)
	secured.Get("/contests/:contest_id/statistics", contestSubs.GetContestStatistics)

	secured.Post("/screening-submissions", screeningSubs.CreateSubmission)
	secured.Get("/screening-submissions", screeningSubs.GetAllSubmissions)
	secured.Get("/screening-submissions/:id", screeningSubs.GetSubmission)

	// Admin: competition CRUD
	admin := secured.Group("/admin", middleware.RequireRole("admin"))
	admin.Post("/contests", contestService.CreateContest)
	admin.Put("/contests/:id", contestService.UpdateContest)
	admin.Delete("/contests/:id", contestService.DeleteContest)
	admin.Post("/screenings", screeningService.CreateScreening)
	admin.Put("/screenings/:id", screeningService.UpdateScreening)
	admin.Delete("/screenings/:id", screeningService.DeleteScreening)
	admin.Delete("/contest-submissions/:id", contestSubs.DeleteSubmission)
	admin.Delete("/screening-submissions/:id", screeningSubs.DeleteSubmission)
}
