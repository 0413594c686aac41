package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Image types accepted for product, promotion and logo uploads.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxUploadSize caps a single image upload.
const MaxUploadSize = 5 << 20

// ValidateFileUpload checks the declared content type and size of an
// uploaded image.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %dMB", fh.Size, MaxUploadSize>>20)
	}
	contentType := fh.Header.Get("Content-Type")
	if !AllowedImageContentTypes[contentType] {
		return fmt.Errorf("invalid file type '%s'; allowed types: image/jpeg, image/png, image/webp, image/gif", contentType)
	}
	return nil
}

// Message per validator tag; %[1]s is the field, %[2]s the tag parameter.
var validationMessages = map[string]string{
	"required": "%[1]s is required",
	"email":    "%[1]s must be a valid email address",
	"min":      "%[1]s must be at least %[2]s characters",
	"max":      "%[1]s must be at most %[2]s characters",
	"gt":       "%[1]s must be greater than %[2]s",
	"gte":      "%[1]s must be at least %[2]s",
	"lte":      "%[1]s must be at most %[2]s",
	"oneof":    "%[1]s must be one of: %[2]s",
	"uuid":     "%[1]s must be a valid id",
	"dive":     "%[1]s contains an invalid entry",
}

// SanitizeValidationError turns binding errors into a message that names
// request fields, never Go types. Anything that is not a validation error
// (malformed JSON, wrong types) becomes "Invalid request body".
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		format, ok := validationMessages[fe.Tag()]
		if !ok {
			format = "%[1]s is invalid"
		}
		param := fe.Param()
		if fe.Tag() == "oneof" {
			param = strings.ReplaceAll(param, " ", ", ")
		}
		messages = append(messages, fmt.Sprintf(format, strings.ToLower(fe.Field()), param))
	}
	return strings.Join(messages, "; ")
}

// UseJSONFieldNames makes validation errors report json (or form) tag names,
// so messages read "delivery_time is required".
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			name, _, _ = strings.Cut(fld.Tag.Get("form"), ",")
		}
		return name
	})
}
