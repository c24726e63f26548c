package handler

import (
	"net/http"

	"instaclone/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TokenInput is accepted as JSON or as a form body.
type TokenInput struct {
	ClientID     string `json:"client_id" form:"client_id" binding:"required" example:"3f1c0d..."`
	ClientSecret string `json:"client_secret" form:"client_secret" binding:"required"`
	Username     string `json:"username" form:"username" binding:"required" example:"jane"`
	Password     string `json:"password" form:"password" binding:"required" example:"password123"`
}

// IssueToken godoc
// @Summary      Issue an access token
// @Description  Exchanges client credentials and a user's password for a bearer token.
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        input body TokenInput true "Credentials"
// @Success      200  {object}  service.TokenView
// @Failure      400  {object}  ErrorResponse
// @Failure      429  {object}  ErrorResponse
// @Router       /oauth2/access_token [post]
func (h *Handler) IssueToken(c *gin.Context) {
	var input TokenInput
	if !bind(c, &input) {
		return
	}

	token, err := h.Tokens.Issue(c.Request.Context(), service.TokenRequest{
		ClientID:     input.ClientID,
		ClientSecret: input.ClientSecret,
		Username:     input.Username,
		Password:     input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, token)
}
