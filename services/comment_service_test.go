package services

import (
	"testing"
	"time"

	"github.com/framewave-studio/framewave-portal-api/apperrors"
	"github.com/framewave-studio/framewave-portal-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCommentTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Comment{}, &models.Attachment{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCreateAndListComments(t *testing.T) {
	db := setupCommentTestDB(t)
	author := &models.User{Auth0ID: "auth0|a", Name: "Ava", Email: "a@framewave.test", Role: models.RoleSuperAdmin}
	require.NoError(t, db.Create(author).Error)

	first, err := CreateComment(db, author, 1, "First draft attached")
	require.NoError(t, err)
	assert.Equal(t, "Ava", first.UserName)
	assert.False(t, first.IsEdited)

	_, err = CreateComment(db, author, 1, "Second thought")
	require.NoError(t, err)

	// Comments on another proposal do not leak into the thread
	_, err = CreateComment(db, author, 2, "Different thread")
	require.NoError(t, err)

	comments, err := ListComments(db, 1, nil)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "First draft attached", comments[0].Content)
	assert.Equal(t, "Second thought", comments[1].Content)
}

func TestListComments_SinceWatermark(t *testing.T) {
	db := setupCommentTestDB(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, content := range []string{"one", "two", "three"} {
		comment := models.Comment{
			ProposalID: 1,
			UserID:     1,
			UserName:   "Ava",
			Content:    content,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&comment).Error)
	}

	watermark := base.Add(time.Minute)
	comments, err := ListComments(db, 1, &watermark)
	require.NoError(t, err)

	// Strictly after the watermark: "two" itself is excluded
	require.Len(t, comments, 1)
	assert.Equal(t, "three", comments[0].Content)
}

func TestCreateComment_EmptyContent(t *testing.T) {
	db := setupCommentTestDB(t)
	author := &models.User{Auth0ID: "auth0|a", Name: "Ava", Email: "a@framewave.test", Role: models.RoleClient}
	require.NoError(t, db.Create(author).Error)

	_, err := CreateComment(db, author, 1, "")
	assert.True(t, apperrors.IsValidation(err))
}

func TestEditComment(t *testing.T) {
	db := setupCommentTestDB(t)
	author := &models.User{Auth0ID: "auth0|a", Name: "Ava", Email: "a@framewave.test", Role: models.RoleClient}
	other := &models.User{Auth0ID: "auth0|b", Name: "Ben", Email: "b@framewave.test", Role: models.RoleClient}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(other).Error)

	comment, err := CreateComment(db, author, 1, "Typo here")
	require.NoError(t, err)

	// Only the author can edit
	_, err = EditComment(db, other, comment.ID, "Hijacked")
	assert.True(t, apperrors.IsPermission(err))

	edited, err := EditComment(db, author, comment.ID, "Typo fixed")
	require.NoError(t, err)
	assert.Equal(t, "Typo fixed", edited.Content)

	var reloaded models.Comment
	require.NoError(t, db.First(&reloaded, comment.ID).Error)
	assert.True(t, reloaded.IsEdited)
	assert.Equal(t, "Typo fixed", reloaded.Content)
}

func TestEditComment_LockedByLaterReply(t *testing.T) {
	db := setupCommentTestDB(t)
	author := &models.User{Auth0ID: "auth0|a", Name: "Ava", Email: "a@framewave.test", Role: models.RoleClient}
	replier := &models.User{Auth0ID: "auth0|b", Name: "Ben", Email: "b@framewave.test", Role: models.RoleTeamMember}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(replier).Error)

	comment, err := CreateComment(db, author, 1, "Original")
	require.NoError(t, err)

	_, err = CreateComment(db, replier, 1, "A reply")
	require.NoError(t, err)

	_, err = EditComment(db, author, comment.ID, "Rewritten history")
	assert.True(t, apperrors.IsConflict(err))

	// Replies in other threads do not lock this one
	solo, err := CreateComment(db, author, 2, "Alone in thread two")
	require.NoError(t, err)
	_, err = EditComment(db, author, solo.ID, "Still editable")
	assert.NoError(t, err)
}

func TestRegisterAttachment(t *testing.T) {
	db := setupCommentTestDB(t)
	author := &models.User{Auth0ID: "auth0|a", Name: "Ava", Email: "a@framewave.test", Role: models.RoleClient}
	other := &models.User{Auth0ID: "auth0|b", Name: "Ben", Email: "b@framewave.test", Role: models.RoleClient}
	require.NoError(t, db.Create(author).Error)
	require.NoError(t, db.Create(other).Error)

	comment, err := CreateComment(db, author, 1, "Storyboard attached")
	require.NoError(t, err)

	// Only the comment author may attach
	_, err = RegisterAttachment(db, other, comment.ID, "board.pdf", "application/pdf", 1024, "attachments/1/key")
	assert.True(t, apperrors.IsPermission(err))

	// The storage key must come back from the upload authorization
	_, err = RegisterAttachment(db, author, comment.ID, "board.pdf", "application/pdf", 1024, "")
	assert.True(t, apperrors.IsValidation(err))

	attachment, err := RegisterAttachment(db, author, comment.ID, "board.pdf", "application/pdf", 1024, "attachments/1/key")
	require.NoError(t, err)
	assert.Equal(t, comment.ID, attachment.CommentID)

	// The attachment rides along when listing the thread
	comments, err := ListComments(db, 1, nil)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Attachments, 1)
	assert.Equal(t, "board.pdf", comments[0].Attachments[0].FileName)

	_, err = RegisterAttachment(db, author, 999, "board.pdf", "application/pdf", 1024, "attachments/1/key")
	assert.True(t, apperrors.IsNotFound(err))
}
