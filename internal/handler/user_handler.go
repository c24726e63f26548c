package handler

import (
	"errors"
	"net/http"

	"instaclone/backend/internal/auth"
	"instaclone/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CreateUserInput defines the structure for user registration.
type CreateUserInput struct {
	Username string `json:"username" example:"jane"`
	Email    string `json:"email" example:"jane@example.com"`
	Password string `json:"password" example:"password123"`
}

// ProfileInput defines the body of the profile create/update call.
type ProfileInput struct {
	Name         string `json:"name" example:"Jane Doe"`
	MobileNumber string `json:"mobile_number" example:"9876543210"`
	Bio          string `json:"bio"`
	DateOfBirth  string `json:"date_of_birth" example:"1995-04-12"`
	AccountType  string `json:"account_type" example:"public"`
}

// LinkInput is a profile link.
type LinkInput struct {
	Title string `json:"title" example:"Portfolio"`
	Link  string `json:"link" example:"https://jane.dev"`
}

// PaginatedUserResponse defines the structure for a paginated list of users.
type PaginatedUserResponse = service.PaginatedResponse[service.UserView]

// endregion

// CreateUser godoc
// @Summary      Register a new user
// @Description  Creates a user account. Usernames and emails are unique.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        input body CreateUserInput true "Registration Info"
// @Success      200  {object}  service.UserView
// @Failure      400  {object}  ErrorResponse
// @Router       /users/create [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if !bind(c, &input) {
		return
	}

	user, err := h.Users.Create(c.Request.Context(), service.CreateUserInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary      List users
// @Description  Paginated list of all users. Staff only.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Success      200  {object}  PaginatedUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, ok := queryPage(c)
	if !ok {
		return
	}
	page, limit := service.NormalizePage(page, queryInt(c, "limit", 20), 100)

	users, err := h.Users.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      200  {object}  service.UserView
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// SaveProfile godoc
// @Summary      Create or update a profile
// @Description  Creates the profile on first call, replaces it afterwards. Only the user themself may call it.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        input body ProfileInput true "Profile"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users/{id}/profile [post]
func (h *Handler) SaveProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input ProfileInput
	if !bind(c, &input) {
		return
	}

	err := h.Users.SaveProfile(c.Request.Context(), auth.UserID(c), id, service.ProfileInput{
		Name:         input.Name,
		MobileNumber: input.MobileNumber,
		Bio:          input.Bio,
		DateOfBirth:  input.DateOfBirth,
		AccountType:  input.AccountType,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// UpdateProfileImage godoc
// @Summary      Replace the profile image
// @Description  The image is re-encoded as JPEG and the previous one is removed.
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        file formData file true "Image"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users/{id}/profile/image [post]
func (h *Handler) UpdateProfileImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
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

	if err := h.Users.UpdateProfileImage(c.Request.Context(), auth.UserID(c), id, file); err != nil {
		if errors.Is(err, service.ErrProfileNotCreated) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "detail": service.ErrProfileNotCreated.Message})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// ListLinks godoc
// @Summary      List my profile links
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.LinkView
// @Router       /users/me/links [get]
func (h *Handler) ListLinks(c *gin.Context) {
	links, err := h.Users.ListLinks(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

// CreateLink godoc
// @Summary      Add a profile link
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body LinkInput true "Link"
// @Success      201  {object}  service.LinkView
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/links [post]
func (h *Handler) CreateLink(c *gin.Context) {
	var input LinkInput
	if !bind(c, &input) {
		return
	}

	link, err := h.Users.CreateLink(c.Request.Context(), auth.UserID(c), service.LinkInput{Title: input.Title, Link: input.Link})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

// DeleteLink godoc
// @Summary      Remove a profile link
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "Link ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me/links/{id} [delete]
func (h *Handler) DeleteLink(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Users.DeleteLink(c.Request.Context(), auth.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
