// Package spoome is a client for the spoo.me URL shortener and for
// self-hosted instances of it.
//
// # Basic Usage
//
//	client, err := spoome.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Shorten(ctx, dto.NewShortenRequest("https://example.com/long/url").
//		WithAlias("docs_link").
//		WithPassword("Example@123").
//		WithMaxClicks(100))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(resp.ShortURL)
//
// # Self-Hosted Instances
//
// Every path is resolved against the base URL, which defaults to
// [DefaultBaseURL]:
//
//	client, err := spoome.New(
//		spoome.WithBaseURL("https://links.example.org"),
//		spoome.WithAPIKey(os.Getenv("SPOOME_API_KEY")),
//	)
//
// # Error Handling
//
// Every error is a *errors.ServiceError from the errors subpackage. Its Code
// separates local validation failures (no request was sent), API errors
// (non-2xx status), transport errors (the round trip never completed) and
// decode errors (a 2xx body that does not match the expected schema):
//
//	_, err := client.Shorten(ctx, req)
//	switch {
//	case errors.Is(err, spooerrors.ErrAlias):
//		// alias taken
//	case spooerrors.IsTransport(err):
//		// retry later, if the caller wants to
//	}
//
// The client never retries and never logs errors on its own.
//
// # Concurrency
//
// A Client is immutable after [New] and may be shared by any number of
// goroutines. Calls honor context cancellation and the timeout set with
// [WithTimeout]. The blocking subpackage offers the same calls without a
// context argument.
package spoome
