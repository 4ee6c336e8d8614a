// Package validator checks requests locally before they are sent to a
// spoo.me instance.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
	"github.com/rowjay/spoome-go/internal/constants"
)

var (
	urlPattern   = regexp.MustCompile(constants.URLPattern)
	aliasPattern = regexp.MustCompile(constants.AliasPattern)
)

type URLValidator struct {
	validate       *validator.Validate
	maxURLLength   int
	blockedDomains []string
}

// NewURLValidator returns a validator that rejects long URLs pointing at any
// of blockedDomains. Callers pass the host of the instance they talk to, so a
// short link cannot be shortened again.
func NewURLValidator(blockedDomains ...string) *URLValidator {
	v := &URLValidator{
		validate:     validator.New(),
		maxURLLength: constants.MaxURLLength,
	}
	for _, d := range blockedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			v.blockedDomains = append(v.blockedDomains, d)
		}
	}

	v.validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return snakeCase(f.Name)
		}
		return name
	})

	rules := map[string]validator.Func{
		"spoo_url": func(fl validator.FieldLevel) bool {
			return v.ValidateURL(fl.Field().String()) == nil
		},
		"spoo_alias": func(fl validator.FieldLevel) bool {
			return IsValidAlias(fl.Field().String())
		},
		"spoo_password": func(fl validator.FieldLevel) bool {
			return IsValidPassword(fl.Field().String())
		},
		"spoo_emoji": func(fl validator.FieldLevel) bool {
			return IsValidEmojiSequence(fl.Field().String())
		},
		"spoo_code": func(fl validator.FieldLevel) bool {
			return IsValidShortCode(fl.Field().String())
		},
		"spoo_export_format": func(fl validator.FieldLevel) bool {
			return dto.ExportFormat(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("validator: register %s: %v", tag, err))
		}
	}

	return v
}

func (v *URLValidator) ValidateShorten(req *dto.ShortenRequest) error {
	if req == nil {
		return serviceErrors.NewValidationError("validator.ValidateShorten", "", "request is nil")
	}
	return v.check("validator.ValidateShorten", req)
}

func (v *URLValidator) ValidateEmoji(req *dto.EmojiRequest) error {
	if req == nil {
		return serviceErrors.NewValidationError("validator.ValidateEmoji", "", "request is nil")
	}
	return v.check("validator.ValidateEmoji", req)
}

func (v *URLValidator) ValidateStats(req *dto.StatsRequest) error {
	if req == nil {
		return serviceErrors.NewValidationError("validator.ValidateStats", "", "request is nil")
	}
	return v.check("validator.ValidateStats", req)
}

func (v *URLValidator) ValidateExport(req *dto.ExportRequest) error {
	if req == nil {
		return serviceErrors.NewValidationError("validator.ValidateExport", "", "request is nil")
	}
	return v.check("validator.ValidateExport", req)
}

// ValidateURL checks a long URL: scheme, no whitespace or quotes, no "..",
// and no reference to a blocked domain.
func (v *URLValidator) ValidateURL(rawURL string) error {
	if len(rawURL) > v.maxURLLength {
		return serviceErrors.NewValidationError("validator.ValidateURL", "url", "URL too long")
	}
	if !urlPattern.MatchString(rawURL) {
		return serviceErrors.NewValidationError("validator.ValidateURL", "url", "URL must start with http://, https:// or ftp:// and contain no spaces or quotes")
	}
	if strings.Contains(rawURL, "..") {
		return serviceErrors.NewValidationError("validator.ValidateURL", "url", "URL must not contain \"..\"")
	}
	if v.isDomainBlocked(rawURL) {
		return serviceErrors.NewValidationError("validator.ValidateURL", "url", "URL points at the shortener itself")
	}
	return nil
}

// ValidateShortCode accepts an alias-style code or an emoji code.
func (v *URLValidator) ValidateShortCode(code string) error {
	if code == "" {
		return serviceErrors.NewValidationError("validator.ValidateShortCode", "short_code", "short code cannot be empty")
	}
	if !IsValidShortCode(code) {
		return serviceErrors.NewValidationError("validator.ValidateShortCode", "short_code", fmt.Sprintf("invalid short code %q", code))
	}
	return nil
}

func (v *URLValidator) check(op string, req any) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return serviceErrors.NewValidationError(op, "", err.Error())
	}

	fe := fieldErrs[0]
	return serviceErrors.NewValidationError(op, fe.Field(), describe(fe))
}

func (v *URLValidator) isDomainBlocked(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, d := range v.blockedDomains {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "spoo_url":
		return fmt.Sprintf("invalid URL %q", fe.Value())
	case "spoo_alias":
		return fmt.Sprintf("invalid alias %q: use 1-%d letters, digits, '_' or '-'", fe.Value(), constants.MaxAliasLength)
	case "spoo_password":
		return "password needs at least 8 characters, a letter, a digit and '@' or '.', with no consecutive special characters"
	case "spoo_emoji":
		return fmt.Sprintf("invalid emoji sequence %q", fe.Value())
	case "spoo_code":
		return fmt.Sprintf("invalid short code %q", fe.Value())
	case "spoo_export_format":
		return fmt.Sprintf("unknown export format %q", fe.Value())
	case "gt":
		return fe.Field() + " must be a positive integer"
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func IsValidAlias(alias string) bool {
	return alias != "" && len(alias) <= constants.MaxAliasLength && aliasPattern.MatchString(alias)
}

func IsValidPassword(pw string) bool {
	if len(pw) < constants.MinPasswordLength {
		return false
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '@' || r == '.':
			hasSpecial = true
		}
	}
	if !hasLetter || !hasDigit || !hasSpecial {
		return false
	}
	for _, run := range constants.ForbiddenPasswordRuns {
		if strings.Contains(pw, run) {
			return false
		}
	}
	return true
}

// IsValidURL applies the URL rules with a single blocked domain.
func IsValidURL(rawURL, blockedDomain string) bool {
	v := &URLValidator{maxURLLength: constants.MaxURLLength}
	if d := strings.ToLower(strings.TrimSpace(blockedDomain)); d != "" {
		v.blockedDomains = []string{d}
	}
	return v.ValidateURL(rawURL) == nil
}

// IsValidEmojiSequence reports whether seq holds only emoji, at most
// MaxEmojiCount of them. Joiners, variation selectors, keycaps, skin tones
// and tag characters attach to the preceding emoji and are not counted.
func IsValidEmojiSequence(seq string) bool {
	if seq == "" || !utf8.ValidString(seq) {
		return false
	}
	count := 0
	for _, r := range seq {
		switch {
		case isEmojiModifier(r):
			if count == 0 {
				return false
			}
		case isEmojiBase(r):
			count++
		default:
			return false
		}
	}
	return count > 0 && count <= constants.MaxEmojiCount
}

func IsValidShortCode(code string) bool {
	return IsValidAlias(code) || IsValidEmojiSequence(code)
}

func isEmojiModifier(r rune) bool {
	switch {
	case r == 0x200D, r == 0xFE0E, r == 0xFE0F, r == 0x20E3:
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r >= 0xE0020 && r <= 0xE007F:
		return true
	}
	return false
}

func isEmojiBase(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x2300 && r <= 0x23FF:
		return true
	case r >= 0x2B00 && r <= 0x2BFF:
		return true
	case r >= 0x2190 && r <= 0x21FF:
		return true
	}
	switch r {
	case 0x00A9, 0x00AE, 0x203C, 0x2049, 0x2122, 0x2139, 0x3030, 0x303D, 0x3297, 0x3299:
		return true
	}
	return false
}
