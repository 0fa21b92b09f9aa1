package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/gin-gonic/gin"
)

// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number, defaults to 1"
// @Param limit query int false "Page size, defaults to 5, capped at 100"
// @Success 200 {object} dto.PostsResponse
// @Router /api/post [get]
func (h *Handler) postsList(c *gin.Context) {
	posts, err := h.services.Post.List(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// @Summary Get a post with author, likes and comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} model.FullPost
// @Failure 400,404 {object} dto.MessageResponse
// @Router /api/post/{id} [get]
func (h *Handler) postsGetByID(c *gin.Context) {
	postID, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Post.Get(c.Request.Context(), postID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// @Summary Create a post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body dto.CreatePostRequest true "Request body"
// @Success 201 {object} model.Post
// @Failure 400,401 {object} dto.MessageResponse
// @Router /api/post [post]
func (h *Handler) postsCreate(c *gin.Context) {
	identity, ok := h.getIdentityFromRequest(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewMessageResponse(errNotAuthorized.Error()))
		return
	}

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), identity.UserID, input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.metrics.PostsCreated.Inc()

	c.JSON(http.StatusCreated, createdPost)
}

// @Summary Update own post
// @Tags posts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param input body dto.EditPostRequest true "Request body"
// @Success 200 {object} model.Post
// @Failure 400,401,403,404 {object} dto.MessageResponse
// @Router /api/post/{id} [put]
func (h *Handler) postsUpdate(c *gin.Context) {
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

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		bindErrorResponse(c, err)
		return
	}

	updatedPost, err := h.services.Post.Update(c.Request.Context(), postID, identity.UserID, input.Patch())
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, updatedPost)
}

// @Summary Delete own post with its likes and comments
// @Tags posts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401,403,404 {object} dto.MessageResponse
// @Router /api/post/{id} [delete]
func (h *Handler) postsDelete(c *gin.Context) {
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

	if err := h.services.Post.Delete(c.Request.Context(), postID, identity.UserID); err != nil {
		h.errorResponse(c, err)
		return
	}

	h.metrics.PostsDeleted.Inc()

	c.JSON(http.StatusOK, dto.NewMessageResponse("Post deleted successfully"))
}

// @Summary Toggle like on a post
// @Tags likes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 401,404 {object} dto.MessageResponse
// @Router /api/post/{id}/like [post]
func (h *Handler) likesToggle(c *gin.Context) {
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

	state, err := h.services.Like.Toggle(c.Request.Context(), identity.UserID, postID)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	h.metrics.LikesToggled.WithLabelValues(state.String()).Inc()

	c.JSON(http.StatusOK, dto.NewMessageResponse(state.Message()))
}

// queryInt returns 0 for absent or non-numeric values; the service applies
// the defaults.
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

func paramID(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(key)), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
