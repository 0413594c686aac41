package utils

import (
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type clientForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"omitempty,email"`
	Phone    string `validate:"required,min=10,max=13"`
	Quantity int    `validate:"gt=0"`
	Minutes  int    `validate:"gte=0"`
	Kind     string `validate:"oneof=delivery pickup"`
}

func valid() clientForm {
	return clientForm{Name: "Ana", Phone: "11999990000", Quantity: 1, Kind: "delivery"}
}

func TestSanitizeValidationError(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name   string
		mutate func(*clientForm)
		want   string
	}{
		{"required", func(f *clientForm) { f.Name = "" }, "name is required"},
		{"email", func(f *clientForm) { f.Email = "sem-arroba" }, "email must be a valid email address"},
		{"min length", func(f *clientForm) { f.Phone = "119" }, "phone must be at least 10 characters"},
		{"max length", func(f *clientForm) { f.Phone = "5511999990000000" }, "phone must be at most 13 characters"},
		{"gt", func(f *clientForm) { f.Quantity = 0 }, "quantity must be greater than 0"},
		{"gte", func(f *clientForm) { f.Minutes = -1 }, "minutes must be at least 0"},
		{"oneof", func(f *clientForm) { f.Kind = "drone" }, "kind must be one of: delivery, pickup"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid()
			tt.mutate(&form)
			msg := SanitizeValidationError(validate.Struct(form))
			if msg != tt.want {
				t.Errorf("expected %q, got %q", tt.want, msg)
			}
		})
	}
}

func TestSanitizeValidationErrorJoinsFields(t *testing.T) {
	form := valid()
	form.Name = ""
	form.Quantity = 0

	msg := SanitizeValidationError(validator.New().Struct(form))
	if msg != "name is required; quantity must be greater than 0" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestSanitizeValidationErrorFallbacks(t *testing.T) {
	if msg := SanitizeValidationError(nil); msg != "" {
		t.Errorf("expected empty string for nil error, got %q", msg)
	}
	if msg := SanitizeValidationError(errors.New("invalid character 'x'")); msg != "Invalid request body" {
		t.Errorf("expected generic message, got %q", msg)
	}

	type uncommon struct {
		Code string `validate:"alpha"`
	}
	if msg := SanitizeValidationError(validator.New().Struct(uncommon{Code: "12"})); msg != "code is invalid" {
		t.Errorf("expected generic field message, got %q", msg)
	}
}

func TestUseJSONFieldNames(t *testing.T) {
	UseJSONFieldNames()

	type TestReq struct {
		DeliveryTime *int   `json:"delivery_time" binding:"required"`
		Slug         string `form:"slug" binding:"required"`
	}
	err := binding.Validator.ValidateStruct(TestReq{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := SanitizeValidationError(err)
	for _, want := range []string{"delivery_time is required", "slug is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func imageHeader(contentType string, size int64) *multipart.FileHeader {
	h := &multipart.FileHeader{Filename: "foto", Size: size, Header: make(textproto.MIMEHeader)}
	h.Header.Set("Content-Type", contentType)
	return h
}

func TestValidateFileUpload(t *testing.T) {
	for ct := range AllowedImageContentTypes {
		if err := ValidateFileUpload(imageHeader(ct, 1024)); err != nil {
			t.Errorf("%s: expected no error, got %v", ct, err)
		}
	}

	err := ValidateFileUpload(imageHeader("image/jpeg", MaxUploadSize+1))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("expected size error, got %v", err)
	}

	err = ValidateFileUpload(imageHeader("application/pdf", 1024))
	if err == nil || !strings.Contains(err.Error(), "invalid file type") {
		t.Errorf("expected content type error, got %v", err)
	}
}
