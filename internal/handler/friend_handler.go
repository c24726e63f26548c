package handler

import (
	"net/http"

	"instaclone/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// FriendRequestInput names the user to send a request to.
type FriendRequestInput struct {
	ToUser string `json:"to_user" example:"john"`
}

// region --- Friend Requests ---

// SendFriendRequest godoc
// @Summary      Send a friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendRequestInput true "Recipient username"
// @Success      201  {object}  service.FriendRequestSentView
// @Failure      400  {object}  ErrorResponse
// @Router       /friend/request [post]
func (h *Handler) SendFriendRequest(c *gin.Context) {
	var input FriendRequestInput
	if !bind(c, &input) {
		return
	}

	sent, err := h.Friends.SendRequest(c.Request.Context(), auth.UserID(c), input.ToUser)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sent)
}

// ListFriendRequests godoc
// @Summary      List incoming friend requests
// @Description  Pending requests addressed to the current user, flattened onto the sender.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.FriendRequestView
// @Router       /friend/request [get]
func (h *Handler) ListFriendRequests(c *gin.Context) {
	requests, err := h.Friends.ListRequests(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// AcceptFriendRequest godoc
// @Summary      Accept a friend request
// @Description  Only the recipient may accept. Accepting twice is a no-op.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200  {object}  SuccessResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/request/{id}/accept [post]
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Friends.Accept(c.Request.Context(), auth.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// RejectFriendRequest godoc
// @Summary      Reject a friend request
// @Description  Only the recipient may reject. The request is deleted.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200  {object}  SuccessResponse
// @Failure      400  {object}  map[string]any
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friend/request/{id}/reject [post]
func (h *Handler) RejectFriendRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Friends.Reject(c.Request.Context(), auth.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// endregion

// region --- Friends ---

// ListFriends godoc
// @Summary      List my friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.FriendView
// @Router       /friends [get]
func (h *Handler) ListFriends(c *gin.Context) {
	friends, err := h.Friends.ListFriends(c.Request.Context(), auth.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// GetFriend godoc
// @Summary      Get one friendship
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friendship ID"
// @Success      200  {object}  service.FriendView
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{id} [get]
func (h *Handler) GetFriend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	friend, err := h.Friends.GetFriend(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, friend)
}

func (h *Handler) setCloseFriend(c *gin.Context, closeFriend bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Friends.SetCloseFriend(c.Request.Context(), auth.UserID(c), id, closeFriend); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// AddCloseFriend godoc
// @Summary      Mark a friend as close friend
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friendship ID"
// @Success      200  {object}  SuccessResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{id}/close-friend/add [put]
func (h *Handler) AddCloseFriend(c *gin.Context) {
	h.setCloseFriend(c, true)
}

// RemoveCloseFriend godoc
// @Summary      Unmark a close friend
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friendship ID"
// @Success      200  {object}  SuccessResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{id}/close-friend/remove [put]
func (h *Handler) RemoveCloseFriend(c *gin.Context) {
	h.setCloseFriend(c, false)
}

// RemoveFriend godoc
// @Summary      Remove a friend
// @Description  Deletes the friendship and any request between the pair.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friendship ID"
// @Success      200  {object}  SuccessResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{id}/remove [delete]
func (h *Handler) RemoveFriend(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.Friends.RemoveFriend(c.Request.Context(), auth.UserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// endregion
