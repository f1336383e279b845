package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const invalidInputMessage = "Invalid input. Please check your fields."

// Field errors are reported by their JSON names.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// RespondWithBindError answers a body that failed ShouldBind. Binding tag
// failures get validationStatus with one detail per field; anything else,
// such as malformed JSON, is a 400.
func RespondWithBindError(c *gin.Context, err error, validationStatus int) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondWithError(c, http.StatusBadRequest, invalidInputMessage)
		return
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}

	c.AbortWithStatusJSON(validationStatus, ErrorResponse{
		Error:   HTTPStatusText(validationStatus),
		Message: invalidInputMessage,
		Details: details,
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}
