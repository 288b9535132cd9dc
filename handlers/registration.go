package handlers

import (
	"youth-health-system/middleware"
	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRegistrationRoutes(
	app *fiber.App,
	registrationService *services.RegistrationService,
	anonymousService *services.AnonymousScreeningService,
) {
	// Public: anonymous screening intake
	app.Post("/anonymous-screening-submissions", anonymousService.CreateSubmission)

	secured := app.Group("/", middleware.UserContextMiddleware())

	// Event registrations
	secured.Post("/event-registrations", registrationService.CreateRegistration)
	secured.Get("/users/me/registrations", registrationService.GetMyRegistrations)
	secured.Get("/event-registrations/:id", registrationService.GetRegistrationByID)
	secured.Post("/event-registrations/:id/cancel", registrationService.CancelRegistration)

	admin := secured.Group("/admin", middleware.RequireRole("admin"))
	admin.Get("/events/:event_id/registrations", registrationService.GetRegistrationsByEvent)
	admin.Patch("/event-registrations/:id/status", registrationService.UpdateRegistrationStatus)
	admin.Get("/anonymous-screening-submissions", anonymousService.GetAllSubmissions)
	admin.Get("/anonymous-screening-submissions/:id", anonymousService.GetSubmission)
	admin.Delete("/anonymous-screening-submissions/:id", anonymousService.DeleteSubmission)
}
