package users

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const passwordSpecials = "@$!%*#?&"

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d@$!%*#?&]+$`)

// CreateRequest is the signup payload.
type CreateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"pwd"`
}

// Normalize trims the name and lower-cases the email.
func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

// Validate checks field formats.
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 20)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 20),
			validation.Match(passwordCharset),
			validation.By(passwordClasses),
		),
	)
}

// passwordClasses requires at least one letter, one digit and one special character.
func passwordClasses(value interface{}) error {
	pwd, _ := value.(string)
	if pwd == "" {
		return nil
	}
	var letter, digit, special bool
	for _, c := range pwd {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			letter = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, c):
			special = true
		}
	}
	if !letter || !digit || !special {
		return errors.New("must contain a letter, a digit and one of " + passwordSpecials)
	}
	return nil
}

// NormalizeEmail is applied to every email before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
