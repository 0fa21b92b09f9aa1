package handler

import (
	"net/http"
	"strconv"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

// @Summary Comment on a post or reply to a comment
// @Tags comments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param input body dto.CreateCommentRequest true "Request body"
// @Success 201 {object} dto.CreateCommentResponse
// @Failure 400,401,404 {object} dto.MessageResponse
// @Router /api/post/{id}/comment [post]
func (h *Handler) commentsCreate(c *gin.Context) {
	identity, ok := h.getIdentityFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	postID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidPostID.Error()))
		return
	}

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}

	comment, err := h.services.Comment.Create(c.Request.Context(), postID, identity.UserID, input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.metrics.CommentsCreated.Inc()

	c.JSON(http.StatusCreated, dto.CreateCommentResponse{
		Message: "Comment added",
		Comment: comment,
	})
}

// @Summary Delete own comment and its replies
// @Tags comments
// @Security BearerAuth
// @Produce json
// @Param id path int true "Post ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401,403,404 {object} dto.MessageResponse
// @Router /api/post/{id}/comment/{commentId} [delete]
func (h *Handler) commentsDelete(c *gin.Context) {
	identity, ok := h.getIdentityFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	postID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidPostID.Error()))
		return
	}

	commentID, ok := paramID(c, "commentId")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidCommentID.Error()))
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), postID, commentID, identity.UserID); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse("Comment deleted"))
}

// @Summary Comment thread of a post
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Param depth query int false "Reply levels to include, defaults to 10, capped at 50"
// @Success 200 {object} dto.CommentThreadResponse
// @Failure 400,404 {object} dto.MessageResponse
// @Router /api/post/{id}/comments [get]
func (h *Handler) commentsThread(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidPostID.Error()))
		return
	}

	var depth int
	if raw := c.Query("depth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidDepth.Error()))
			return
		}
		depth = n
	}

	thread, err := h.services.Comment.Thread(c.Request.Context(), postID, depth)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CommentThreadResponse{Data: thread})
}
