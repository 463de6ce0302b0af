package handlers

import (
	"errors"
	"strings"

	"tally/database"
	"tally/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published *bool  `json:"published"`
}

// withVoteCounts builds the aggregation query: one row per post joined with
// its vote count. The join must be a LEFT JOIN so zero-vote posts survive
// the GROUP BY instead of being dropped.
func withVoteCounts(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, count(votes.post_id) AS votes").
		Joins("LEFT JOIN votes ON votes.post_id = posts.id").
		Group("posts.id")
}

// GetPosts lists posts with their vote counts, filtered by a
// case-insensitive title substring and paginated by limit/skip.
func GetPosts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	skip := c.QueryInt("skip", 0)
	search := c.Query("search")

	if limit < 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}

	var posts []models.PostWithVotes
	query := withVoteCounts(database.DB).
		Where("LOWER(posts.title) LIKE ?", "%"+strings.ToLower(search)+"%").
		Limit(limit).
		Offset(skip)

	if err := query.Scan(&posts).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if posts == nil {
		posts = []models.PostWithVotes{}
	}

	return c.JSON(posts)
}

// GetLatestPost returns the post with the highest ID. The highest ID stands
// in for the most recently created post, which assumes the store assigns
// IDs monotonically and never reuses them; timestamps are not consulted.
func GetLatestPost(c *fiber.Ctx) error {
	var post models.Post
	if err := database.DB.Preload("User").Order("id DESC").First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				&models.AppError{Code: "NOT_FOUND", Message: "No posts found"})
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(post)
}

// GetPost returns a single post with its vote count.
func GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
	}

	var post models.PostWithVotes
	result := withVoteCounts(database.DB).
		Where("posts.id = ?", id).
		Scan(&post)
	if result.Error != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(result.Error))
	}
	if result.RowsAffected == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Post", id))
	}

	return c.JSON(post)
}

func CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(PostRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and content are required"))
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	post := models.Post{
		Title:     req.Title,
		Content:   req.Content,
		Published: published,
		UserID:    userID,
	}

	if err := database.DB.Create(&post).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Load user data
	database.DB.Preload("User").First(&post, post.ID)

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost replaces a post's mutable fields. The existence and ownership
// guards run before the body is parsed, so a non-owner gets 403 regardless
// of payload validity.
func UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
	}

	var post models.Post
	if err := database.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if post.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized to perform this operation"))
	}

	req := new(PostRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and content are required"))
	}

	// Full replacement: all mutable fields are written unconditionally.
	// An omitted published flag falls back to its default of true.
	post.Title = req.Title
	post.Content = req.Content
	post.Published = req.Published == nil || *req.Published

	if err := database.DB.Save(&post).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	database.DB.Preload("User").First(&post, post.ID)

	return c.JSON(post)
}

// DeletePost removes a post and its votes. Votes are deleted in the same
// transaction so no orphaned vote rows survive.
func DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
	}

	var post models.Post
	if err := database.DB.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if post.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Not authorized to perform this operation"))
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
