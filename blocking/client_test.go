package blocking_test

import (
	"errors"
	"testing"

	spoome "github.com/rowjay/spoome-go"
	"github.com/rowjay/spoome-go/blocking"
	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
	"github.com/rowjay/spoome-go/spoometest"
)

func TestBlockingClient(t *testing.T) {
	srv := spoometest.NewServer()
	defer srv.Close()

	client, err := blocking.New(spoome.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if client.BaseURL() != srv.URL {
		t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), srv.URL)
	}

	short, err := client.Shorten(dto.NewShortenRequest("https://example.com").WithAlias("blk"))
	if err != nil {
		t.Fatalf("Shorten() error = %v", err)
	}
	if short.ShortURL != srv.URL+"/blk" {
		t.Errorf("ShortURL = %q", short.ShortURL)
	}

	if _, err := client.Emoji(dto.NewEmojiRequest("https://example.com").WithEmojies("🎉")); err != nil {
		t.Fatalf("Emoji() error = %v", err)
	}

	stats, err := client.Stats(dto.NewStatsRequest("blk"))
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.URL != "https://example.com" {
		t.Errorf("URL = %q", stats.URL)
	}

	info, err := client.Info(dto.NewStatsRequest("blk"))
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.ShortCode != "blk" || info.PasswordProtected {
		t.Errorf("info = %+v", info)
	}

	export, err := client.Export(dto.NewExportRequest("blk", dto.ExportJSON))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if len(export.Data) == 0 {
		t.Error("empty export")
	}
}

func TestBlockingErrorsMatchAsync(t *testing.T) {
	srv := spoometest.NewServer()
	defer srv.Close()

	inner, err := spoome.New(spoome.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}
	client := blocking.Wrap(inner)

	if _, err := client.Shorten(dto.NewShortenRequest("https://example.com").WithAlias("bad alias")); !serviceErrors.IsValidation(err) {
		t.Errorf("Shorten() error = %v, want validation error", err)
	}
	if _, err := client.Stats(dto.NewStatsRequest("missing")); !errors.Is(err, serviceErrors.ErrURL) {
		t.Errorf("Stats() error = %v, want UrlError", err)
	}
	if _, err := blocking.New(spoome.WithBaseURL("not a url")); err == nil {
		t.Error("New() with a bad base URL succeeded")
	}
}
