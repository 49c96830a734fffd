package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so messages match what clients sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes the first invalid field of a payload.
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("missing `%s` in request body", e.Field)
	case "min":
		return fmt.Sprintf("`%s` must not be empty", e.Field)
	}
	return fmt.Sprintf("invalid `%s` in request body", e.Field)
}

// Validate checks that every required field of the post is present.
func (p *BlogPost) Validate() error {
	return toFieldError(validate.Struct(p))
}

// BeforeCreate sets up any necessary fields before creation
func (p *BlogPost) BeforeCreate() {
	if p.Created.IsZero() {
		p.Created = time.Now().UTC().Truncate(time.Millisecond)
	}
}

// AuthorName is the display form of the author, "{firstName} {lastName}".
func (p *BlogPost) AuthorName() string {
	return strings.TrimSpace(p.Author.FirstName + " " + p.Author.LastName)
}

// Serialize projects the post to its API representation.
func (p *BlogPost) Serialize() PostView {
	return PostView{
		ID:      p.ID,
		Author:  p.AuthorName(),
		Title:   p.Title,
		Content: p.Content,
		Created: p.Created,
	}
}

// Validate checks the fields present in the update.
func (u *PostUpdate) Validate() error {
	return toFieldError(validate.Struct(u))
}

// IsEmpty reports whether the update carries no fields to change.
func (u *PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Author == nil
}

// Apply copies the present fields onto p. ID and Created are never touched.
func (u *PostUpdate) Apply(p *BlogPost) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Author != nil {
		p.Author = *u.Author
	}
}

// Fields returns the present fields keyed by their stored name.
func (u *PostUpdate) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Content != nil {
		fields["content"] = *u.Content
	}
	if u.Author != nil {
		fields["author"] = *u.Author
	}
	return fields
}

func toFieldError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	// Namespace is "BlogPost.author.firstName"; drop the struct name.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return &FieldError{Field: field, Tag: fe.Tag()}
}
