package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"instaclone/backend/internal/hub"
	"instaclone/backend/internal/service"
	apperrors "instaclone/backend/pkg/errors"
	"instaclone/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Handler serves the REST API on top of the services.
type Handler struct {
	Users   *service.UserService
	Friends *service.FriendService
	Posts   *service.PostService
	Feed    *service.FeedService
	Tokens  *service.TokenService
	Hub     *hub.Hub

	// UploadMaxBytes caps multipart upload bodies.
	UploadMaxBytes int64
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error  string              `json:"error" example:"An error message"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// SuccessResponse is returned by actions without a body of their own.
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}

// respondError writes err using the status mapped from its kind. Internal causes are logged, never returned.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	appErr, ok := apperrors.As(err)
	if !ok || status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	if appErr.Code == apperrors.ErrCodeConflict {
		c.JSON(status, gin.H{"success": false, "error": appErr.Message})
		return
	}

	message := appErr.Message
	if appErr.Fields != nil && message == "validation failed" {
		message = "Invalid input"
	}
	c.JSON(status, ErrorResponse{Error: message, Fields: appErr.Fields})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url", "http_url":
		return "Enter a valid URL."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("\"%v\" is not a valid choice.", fe.Value())
	case "len":
		return fmt.Sprintf("Ensure this field has exactly %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}

// bindingError converts a ShouldBind failure into a validation AppError keyed by request field names.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := map[string][]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], validationMessage(fe))
		}
		return apperrors.Validation(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.FieldError(typeErr.Field, fmt.Sprintf("Expected a value of type %s.", typeErr.Type))
	}
	if errors.Is(err, io.EOF) {
		return apperrors.New(apperrors.ErrCodeValidation, "Request body is empty")
	}
	return apperrors.New(apperrors.ErrCodeValidation, "Malformed request body")
}

// bind decodes the request into dst and writes a 400 response on failure.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		respondError(c, bindingError(err))
		return false
	}
	return true
}

// pathID parses the :id path parameter. Invalid ids are reported as missing resources.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found."})
		return 0, false
	}
	return uint(id), true
}

// queryPage reads the page query parameter, defaulting to 1. A value that is not
// a positive integer is answered with 404 like a page past the end.
func queryPage(c *gin.Context) (int, bool) {
	raw, ok := c.GetQuery("page")
	if !ok || raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Invalid page."})
		return 0, false
	}
	return page, true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

// MethodNotAllowed godoc
// @Summary      Disabled verb
// @Description  Collections reject verbs they do not support.
// @Tags         misc
// @Failure      405
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: fmt.Sprintf("Method \"%s\" not allowed.", c.Request.Method)})
}
