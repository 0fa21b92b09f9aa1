package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/BloggingApp/social-service/internal/dto"
	"github.com/BloggingApp/social-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	errNotAuthorized    = errors.New("user is not authorized")
	errInvalidToken     = errors.New("invalid or expired token")
	errInternal         = errors.New("internal server error")
	errInvalidPostID    = errors.New("invalid post ID")
	errInvalidCommentID = errors.New("invalid comment ID")
	errInvalidDepth     = errors.New("depth must be a positive integer")
	errInvalidBody      = errors.New("invalid request body")
)

var kindStatus = map[service.Kind]int{
	service.KindValidation: http.StatusBadRequest,
	service.KindConflict:   http.StatusBadRequest,
	service.KindAuth:       http.StatusUnauthorized,
	service.KindForbidden:  http.StatusForbidden,
	service.KindNotFound:   http.StatusNotFound,
}

// errorStatus maps a service error to its HTTP status and client message.
// Unknown errors never leak their text.
func errorStatus(err error) (int, string) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		if status, ok := kindStatus[svcErr.Kind]; ok {
			return status, svcErr.Message
		}
	}
	return http.StatusInternalServerError, errInternal.Error()
}

func (h *Handler) errorResponse(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError && !errors.Is(err, service.ErrInternal) {
		h.logger.Sugar().Errorf("unhandled error on %s %s: %s", c.Request.Method, c.FullPath(), err.Error())
	}
	c.JSON(status, dto.NewMessageResponse(message))
}

func bindErrorResponse(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, dto.NewMessageResponse(formatValidationErrors(validationErrs)))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewMessageResponse(errInvalidBody.Error()))
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		messages = append(messages, formatFieldError(fe))
	}
	return strings.Join(messages, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

var tagNamesOnce sync.Once

// registerJSONTagNames makes validation messages use the json field names.
func registerJSONTagNames() {
	tagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})
	})
}
