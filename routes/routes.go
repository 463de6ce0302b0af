package routes

import (
	"tally/handlers"
	"tally/middleware"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	// Health check
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Tally API up",
			"version": "1.0.0",
		})
	})

	// Auth routes
	app.Post("/login", handlers.Login)

	// User routes (public)
	users := app.Group("/users")
	users.Post("/", handlers.CreateUser)
	users.Get("/:id", handlers.GetUser)

	// Post routes (all protected)
	posts := app.Group("/posts", middleware.AuthRequired)
	posts.Get("/", handlers.GetPosts)
	// /latest must be registered before /:id
	posts.Get("/latest", handlers.GetLatestPost)
	posts.Get("/:id", handlers.GetPost)
	posts.Post("/", handlers.CreatePost)
	posts.Put("/:id", handlers.UpdatePost)
	posts.Delete("/:id", handlers.DeletePost)

	// Vote routes (protected)
	votes := app.Group("/votes", middleware.AuthRequired)
	votes.Post("/", handlers.CastVote)
}
