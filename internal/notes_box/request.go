package notes_box

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// noteRequest is the body of create and full update requests.
// Pointers tell an absent or null field apart from an empty string.
type noteRequest struct {
	Title   *string `json:"title" validate:"required"`
	Content *string `json:"content" validate:"required"`
}

type patchNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r patchNoteRequest) toPatch() NotePatch {
	return NotePatch{
		Title:   r.Title,
		Content: r.Content,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names in validation errors
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// maxBodyBytes caps create, update and patch request bodies
const maxBodyBytes = 1 << 20

func limitBody(w http.ResponseWriter, r *http.Request) io.Reader {
	if r.Body == nil {
		return nil
	}
	return http.MaxBytesReader(w, r.Body, maxBodyBytes)
}

// decodeBody expects exactly one JSON value, trailing data is an error
func decodeBody(body io.Reader, dst any) error {
	if body == nil {
		return ErrInvalidBody
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		return bodyError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return fmt.Errorf("%w: trailing data after json value", ErrInvalidBody)
		}
		return bodyError(err)
	}

	return nil
}

func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, maxBytesErr.Limit)
	}
	return fmt.Errorf("%w: %s", ErrInvalidBody, err)
}

func decodeNoteRequest(body io.Reader) (title, content string, err error) {
	var req noteRequest
	if err := decodeBody(body, &req); err != nil {
		return "", "", err
	}

	if err := validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return "", "", fmt.Errorf("validate note request: %w", err)
		}
		missingErr := &MissingFieldError{}
		for _, fieldErr := range validationErrs {
			missingErr.Fields = append(missingErr.Fields, fieldErr.Field())
		}
		return "", "", missingErr
	}

	return *req.Title, *req.Content, nil
}

func decodePatchRequest(body io.Reader) (NotePatch, error) {
	var req patchNoteRequest
	if err := decodeBody(body, &req); err != nil {
		return NotePatch{}, err
	}
	return req.toPatch(), nil
}
