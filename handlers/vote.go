package handlers

import (
	"errors"
	"fmt"

	"tally/database"
	"tally/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type VoteRequest struct {
	PostID uint `json:"post_id"`
	Dir    *int `json:"dir"`
}

// CastVote toggles the caller's vote on a post. dir=1 creates the vote,
// dir=0 removes it; repeating either transition is a conflict. The whole
// check-then-act sequence runs in one transaction, and the composite unique
// index on votes backs it up: a race that slips past the existence check
// surfaces as gorm.ErrDuplicatedKey and is reported as the same conflict.
func CastVote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	req := new(VoteRequest)
	if err := c.BodyParser(req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Dir == nil || (*req.Dir != 0 && *req.Dir != 1) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("dir must be 0 or 1"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, req.PostID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", req.PostID)
			}
			return err
		}

		var existing models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, req.PostID).
			First(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if *req.Dir == 1 {
			if found {
				return models.NewConflictError(
					fmt.Sprintf("User %d has already upvoted post %d", userID, req.PostID))
			}
			vote := models.Vote{UserID: userID, PostID: req.PostID}
			if err := tx.Create(&vote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return models.NewConflictError(
						fmt.Sprintf("User %d has already upvoted post %d", userID, req.PostID))
				}
				return err
			}
			return nil
		}

		if !found {
			return models.NewConflictError(
				fmt.Sprintf("User %d has not upvoted post %d", userID, req.PostID))
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return models.RespondWithError(c, models.HTTPStatus(err), err)
	}

	message := "Successfully upvoted post"
	if *req.Dir == 0 {
		message = "Successfully removed upvote"
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": message,
	})
}
