package handlers

import (
	"youth-health-system/middleware"
	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService, schoolService *services.SchoolService) {
	// Public: registration and school lookup for the signup form
	app.Post("/users/register", userService.RegisterUser)
	app.Get("/schools", schoolService.GetAllSchools)
	app.Get("/schools/:id", schoolService.GetSchoolByID)

	secured := app.Group("/", middleware.UserContextMiddleware())
	secured.Get("/users/me", userService.GetCurrentUser)
	secured.Post("/users/me/password", userService.ChangePassword)
	secured.Get("/users/:id", userService.GetUserByID)
	secured.Put("/users/:id", userService.UpdateUser)

	admin := secured.Group("/admin", middleware.RequireRole("admin"))
	admin.Get("/users", userService.GetAllUsers)
	admin.Delete("/users/:id", userService.DeleteUser)
	admin.Post("/schools", schoolService.CreateSchool)
	admin.Put("/schools/:id", schoolService.UpdateSchool)
	admin.Delete("/schools/:id", schoolService.DeleteSchool)
}
