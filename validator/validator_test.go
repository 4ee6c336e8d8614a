package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
)

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Example@123", true},
		{"abc.defg1", true},
		{"12345678", false},
		{"password", false},
		{"password1", false},
		{"pass@1", false},
		{"Example@@123", false},
		{"Example..123", false},
		{"Example@.123", false},
		{"Example.@123", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := IsValidPassword(tt.password); got != tt.want {
				t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com", true},
		{"http://example.com/path?q=1", true},
		{"ftp://files.example.com/a.txt", true},
		{"example.com", false},
		{"mailto:someone@example.com", false},
		{"https://exa mple.com", false},
		{`https://example.com/"quoted"`, false},
		{"https://example.com/../etc", false},
		{"https://spoo.me/abc", false},
		{"https://SPOO.ME/abc", false},
		{"https://" + strings.Repeat("a", 2048) + ".com", false},
	}

	for _, tt := range tests {
		t.Run(tt.url[:min(len(tt.url), 40)], func(t *testing.T) {
			if got := IsValidURL(tt.url, "spoo.me"); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}

	if !IsValidURL("https://spoo.me/abc", "") {
		t.Error("IsValidURL() with no blocked domain rejected spoo.me")
	}
}

func TestIsValidAlias(t *testing.T) {
	tests := []struct {
		alias string
		want  bool
	}{
		{"abc", true},
		{"my_alias-1", true},
		{"A", true},
		{strings.Repeat("a", 15), true},
		{strings.Repeat("a", 16), false},
		{"", false},
		{"has space", false},
		{"slash/es", false},
		{"émoji", false},
	}

	for _, tt := range tests {
		if got := IsValidAlias(tt.alias); got != tt.want {
			t.Errorf("IsValidAlias(%q) = %v, want %v", tt.alias, got, tt.want)
		}
	}
}

func TestIsValidEmojiSequence(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want bool
	}{
		{"single", "🚀", true},
		{"several", "🍕🔥🎉", true},
		{"variation selector", "❤️", true},
		{"skin tone", "👍🏽", true},
		{"zwj family", "👨‍👩‍👧", true},
		{"fifteen", strings.Repeat("🔥", 15), true},
		{"sixteen", strings.Repeat("🔥", 16), false},
		{"empty", "", false},
		{"ascii", "abc", false},
		{"mixed", "🚀a", false},
		{"leading modifier", "\u200d🚀", false},
		{"invalid utf8", "\xff", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmojiSequence(tt.seq); got != tt.want {
				t.Errorf("IsValidEmojiSequence(%q) = %v, want %v", tt.seq, got, tt.want)
			}
		})
	}
}

func TestValidateShorten(t *testing.T) {
	v := NewURLValidator("spoo.me")

	tests := []struct {
		name      string
		req       *dto.ShortenRequest
		wantField string
	}{
		{"minimal", dto.NewShortenRequest("https://example.com"), ""},
		{"all options", dto.NewShortenRequest("https://example.com").WithAlias("ex").WithPassword("Example@123").WithMaxClicks(3).WithBlockBots(true), ""},
		{"missing url", dto.NewShortenRequest(""), "url"},
		{"bad url", dto.NewShortenRequest("not a url"), "url"},
		{"self link", dto.NewShortenRequest("https://spoo.me/ex"), "url"},
		{"bad alias", dto.NewShortenRequest("https://example.com").WithAlias("bad alias"), "alias"},
		{"empty alias", dto.NewShortenRequest("https://example.com").WithAlias(""), "alias"},
		{"weak password", dto.NewShortenRequest("https://example.com").WithPassword("short"), "password"},
		{"zero max clicks", dto.NewShortenRequest("https://example.com").WithMaxClicks(0), "max-clicks"},
		{"negative max clicks", dto.NewShortenRequest("https://example.com").WithMaxClicks(-1), "max-clicks"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateShorten(tt.req)
			wantErr := tt.wantField != "" || tt.req == nil
			if (err != nil) != wantErr {
				t.Fatalf("ValidateShorten() error = %v, wantErr %v", err, wantErr)
			}
			if err == nil {
				return
			}

			var se *serviceErrors.ServiceError
			if !errors.As(err, &se) || se.Code != serviceErrors.ErrorCodeValidation {
				t.Fatalf("error %v is not a validation error", err)
			}
			if se.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", se.Field, tt.wantField)
			}
		})
	}
}

func TestValidateEmoji(t *testing.T) {
	v := NewURLValidator("spoo.me")

	if err := v.ValidateEmoji(dto.NewEmojiRequest("https://example.com")); err != nil {
		t.Errorf("ValidateEmoji() without emojies error = %v", err)
	}
	if err := v.ValidateEmoji(dto.NewEmojiRequest("https://example.com").WithEmojies("🚀🌟")); err != nil {
		t.Errorf("ValidateEmoji() error = %v", err)
	}

	err := v.ValidateEmoji(dto.NewEmojiRequest("https://example.com").WithEmojies("abc"))
	var se *serviceErrors.ServiceError
	if !errors.As(err, &se) || se.Field != "emojies" {
		t.Errorf("ValidateEmoji(abc) error = %v, want emojies field error", err)
	}
}

func TestValidateStatsAndExport(t *testing.T) {
	v := NewURLValidator()

	tests := []struct {
		name    string
		check   func() error
		wantErr bool
	}{
		{"stats alias", func() error { return v.ValidateStats(dto.NewStatsRequest("ga")) }, false},
		{"stats emoji", func() error { return v.ValidateStats(dto.NewStatsRequest("🚀🌟")) }, false},
		{"stats empty", func() error { return v.ValidateStats(dto.NewStatsRequest("")) }, true},
		{"stats path", func() error { return v.ValidateStats(dto.NewStatsRequest("a/b")) }, true},
		{"stats password", func() error { return v.ValidateStats(dto.NewStatsRequest("ga").WithPassword("bad")) }, true},
		{"export json", func() error { return v.ValidateExport(dto.NewExportRequest("ga", dto.ExportJSON)) }, false},
		{"export xlsx", func() error { return v.ValidateExport(dto.NewExportRequest("ga", dto.ExportXLSX)) }, false},
		{"export pdf", func() error { return v.ValidateExport(dto.NewExportRequest("ga", "pdf")) }, true},
		{"export no format", func() error { return v.ValidateExport(dto.NewExportRequest("ga", "")) }, true},
		{"export nil", func() error { return v.ValidateExport(nil) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.check()
			if (err != nil) != tt.wantErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !serviceErrors.IsValidation(err) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestValidateShortCode(t *testing.T) {
	v := NewURLValidator()
	if err := v.ValidateShortCode("abc123"); err != nil {
		t.Errorf("ValidateShortCode(abc123) error = %v", err)
	}
	for _, code := range []string{"", "../x", strings.Repeat("x", 16)} {
		if err := v.ValidateShortCode(code); err == nil {
			t.Errorf("ValidateShortCode(%q) succeeded", code)
		}
	}
}
