package handler

import (
	"net/http"

	"instaclone/backend/internal/auth"
	"instaclone/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PostUpdateInput is a partial update. Omitted fields are unchanged.
type PostUpdateInput struct {
	Caption               *string `json:"caption" example:"Sunset"`
	Location              *string `json:"location" example:"Goa"`
	Music                 *string `json:"music"`
	HideLikeAndViewCounts *bool   `json:"hide_like_and_view_counts"`
	TurnOffComments       *bool   `json:"turn_off_comments"`
	Audience              *string `json:"audience" example:"close_friends"`
}

type LikeInput struct {
	Post   uint   `json:"post" example:"12"`
	Action string `json:"action" example:"like"`
}

type CommentInput struct {
	Post    uint   `json:"post" example:"12"`
	Comment string `json:"comment" example:"Nice!"`
}

// PaginatedFeedResponse documents the feed body.
type PaginatedFeedResponse = service.PaginatedResponse[service.PostDetailView]

// endregion

// region --- Posts ---

// UploadPost godoc
// @Summary      Upload a post
// @Description  Stores the file and creates a post visible to friends.
// @Tags         posts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Post media"
// @Success      200  {object}  service.PostCreatedView
// @Failure      400  {object}  ErrorResponse
// @Router       /posts/upload/file [post]
func (h *Handler) UploadPost(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.UploadMaxBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input", Fields: map[string][]string{"file": {"No file was submitted."}}})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	created, err := h.Posts.Upload(c.Request.Context(), auth.UserID(c), service.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// ListPosts godoc
// @Summary      List my posts
// @Description  Own posts, most recently updated first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.PostView
// @Router       /posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.Posts.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary      Get one of my posts
// @Description  Includes both counts and the recent likes and comments.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      200  {object}  service.PostDetailView
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	post, err := h.Posts.Detail(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// UpdatePost godoc
// @Summary      Update one of my posts
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Param        input body PostUpdateInput true "Fields to change"
// @Success      200  {object}  service.PostSettingsView
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [put]
// @Router       /posts/{id} [patch]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input PostUpdateInput
	if !bind(c, &input) {
		return
	}

	settings, err := h.Posts.Update(c.Request.Context(), auth.UserID(c), id, service.PostUpdateInput{
		Caption:               input.Caption,
		Location:              input.Location,
		Music:                 input.Music,
		HideLikeAndViewCounts: input.HideLikeAndViewCounts,
		TurnOffComments:       input.TurnOffComments,
		Audience:              input.Audience,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// DeletePost godoc
// @Summary      Delete one of my posts
// @Tags         posts
// @Security     BearerAuth
// @Param        id path int true "Post ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Posts.Delete(c.Request.Context(), auth.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Engagement ---

// LikePost godoc
// @Summary      Like or unlike a post
// @Description  Requires the friendship the post audience asks for.
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LikeInput true "Post and action"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /post/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	var input LikeInput
	if !bind(c, &input) {
		return
	}

	if err := h.Posts.Like(c.Request.Context(), auth.UserID(c), service.LikeInput{Post: input.Post, Action: input.Action}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// CommentPost godoc
// @Summary      Comment on a post
// @Description  Requires the friendship the post audience asks for.
// @Tags         engagement
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CommentInput true "Post and comment"
// @Success      201  {object}  service.CommentCreatedView
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /post/comment [post]
func (h *Handler) CommentPost(c *gin.Context) {
	var input CommentInput
	if !bind(c, &input) {
		return
	}

	comment, err := h.Posts.Comment(c.Request.Context(), auth.UserID(c), service.CommentInput{Post: input.Post, Comment: input.Comment})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GetFeed godoc
// @Summary      Friends feed
// @Description  Posts of friends visible to the current user. Pages are cached per user for a few minutes.
// @Tags         engagement
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Success      200  {object}  PaginatedFeedResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	body, err := h.Feed.Page(c.Request.Context(), auth.UserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// endregion
