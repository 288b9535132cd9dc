package handlers

import (
	"youth-health-system/middleware"
	"youth-health-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(
	app *fiber.App,
	blogService *services.BlogService,
	newsService *services.NewsService,
	eventService *services.EventService,
	webinarService *services.WebinarService,
	categoryService *services.CategoryService,
	resourceService *services.ResourceService,
) {
	// Public: published content
	app.Get("/blogs", blogService.GetAllBlogs)
	app.Get("/blogs/slug/:slug", blogService.GetBlogBySlug)
	app.Get("/blogs/:id", blogService.GetBlogByID)
	app.Get("/news", newsService.GetAllNews)
	app.Get("/news/:id", newsService.GetNewsByID)
	app.Get("/events", eventService.GetAllEvents)
	app.Get("/events/:id", eventService.GetEventByID)
	app.Get("/webinars", webinarService.GetAllWebinars)
	app.Get("/webinars/:id", webinarService.GetWebinarByID)
	app.Get("/categories", categoryService.GetAllCategories)
	app.Get("/resources", resourceService.GetAllResources)
	app.Get("/resources/:id", resourceService.GetResourceByID)

	// Admin: content management
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/admin", middleware.RequireRole("admin"))

	admin.Post("/blogs", blogService.CreateBlog)
	admin.Put("/blogs/:id", blogService.UpdateBlog)
	admin.Delete("/blogs/:id", blogService.DeleteBlog)

	admin.Post("/news", newsService.CreateNews)
	admin.Put("/news/:id", newsService.UpdateNews)
	admin.Delete("/news/:id", newsService.DeleteNews)

	admin.Post("/events", eventService.CreateEvent)
	admin.Put("/events/:id", eventService.UpdateEvent)
	admin.Delete("/events/:id", eventService.DeleteEvent)

	admin.Post("/webinars", webinarService.CreateWebinar)
	admin.Put("/webinars/:id", webinarService.UpdateWebinar)
	admin.Delete("/webinars/:id", webinarService.DeleteWebinar)

	admin.Post("/categories", categoryService.CreateCategory)
	admin.Put("/categories/:id", categoryService.UpdateCategory)
	admin.Delete("/categories/:id", categoryService.DeleteCategory)

	admin.Post("/resources", resourceService.CreateResource)
	admin.Put("/resources/:id", resourceService.UpdateResource)
	admin.Delete("/resources/:id", resourceService.DeleteResource)
}
