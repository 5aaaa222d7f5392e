package services

import (
	"time"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/framewave-studio/framewave-portal-api/models"
	"gorm.io/gorm"
)

// ListComments returns all comments for a proposal ordered by creation time
// ascending. A non-nil since watermark restricts the result to comments
// created strictly after it.
func ListComments(db *gorm.DB, proposalID uint, since *time.Time) ([]models.Comment, error) {
	query := db.Where("proposal_id = ?", proposalID)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var comments []models.Comment
	if err := query.Preload("Attachments").Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to fetch comments", err)
	}
	return comments, nil
}

// CreateComment appends a comment to a proposal's thread. The author's name
// is denormalized onto the row as a display snapshot.
func CreateComment(db *gorm.DB, user *models.User, proposalID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apperrors.Validation("Comment content is required",
			apperrors.FieldError{Field: "content", Message: "must not be empty"})
	}

	comment := &models.Comment{
		ProposalID: proposalID,
		UserID:     user.ID,
		UserName:   user.Name,
		Content:    content,
	}
	if err := db.Create(comment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to create comment", err)
	}

	return comment, nil
}

// EditComment updates a comment's content. Only the author may edit, and
// only while no later comment exists in the same thread; the predicate is
// recomputed from the stored thread, never trusted from a cached flag.
func EditComment(db *gorm.DB, user *models.User, commentID uint, content string) (*models.Comment, error) {
	if content == "" {
		return nil, apperrors.Validation("Comment content is required",
			apperrors.FieldError{Field: "content", Message: "must not be empty"})
	}

	var comment models.Comment
	if err := db.First(&comment, commentID).Error; err != nil {
		return nil, apperrors.NotFound("Comment")
	}

	if comment.UserID != user.ID {
		return nil, apperrors.Forbidden("Only the author can edit a comment")
	}

	var later int64
	err := db.Model(&models.Comment{}).
		Where("proposal_id = ? AND (created_at > ? OR (created_at = ? AND id > ?))",
			comment.ProposalID, comment.CreatedAt, comment.CreatedAt, comment.ID).
		Count(&later).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to check thread", err)
	}
	if later > 0 {
		return nil, apperrors.Conflict("Comments with later replies can no longer be edited")
	}

	updates := map[string]interface{}{
		"content":   content,
		"is_edited": true,
	}
	if err := db.Model(&comment).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to update comment", err)
	}

	return &comment, nil
}

// RegisterAttachment records an attachment after its bytes are confirmed
// uploaded. A record referencing a never-uploaded key is the caller's
// failure mode; an uploaded blob without a record is an orphan that is
// logged for manual cleanup, never retried automatically.
func RegisterAttachment(db *gorm.DB, user *models.User, commentID uint, fileName, mimeType string, size int64, storageKey string) (*models.Attachment, error) {
	var comment models.Comment
	if err := db.First(&comment, commentID).Error; err != nil {
		return nil, apperrors.NotFound("Comment")
	}

	if comment.UserID != user.ID {
		return nil, apperrors.Forbidden("Only the comment author can attach files to it")
	}
	if storageKey == "" {
		return nil, apperrors.Validation("Storage key is required",
			apperrors.FieldError{Field: "storage_key", Message: "must not be empty"})
	}

	attachment := &models.Attachment{
		CommentID:  comment.ID,
		FileName:   fileName,
		MimeType:   mimeType,
		Size:       size,
		StorageKey: storageKey,
	}
	if err := db.Create(attachment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, "Failed to register attachment", err)
	}

	return attachment, nil
}
