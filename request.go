package spoome

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rowjay/spoome-go/dto"
	serviceErrors "github.com/rowjay/spoome-go/errors"
	"github.com/rowjay/spoome-go/internal/constants"
)

// schema checks the required fields of decoded responses.
var schema = validator.New()

type requestBody struct {
	contentType string
	build       func() (io.Reader, error)
}

func formBody(values url.Values) requestBody {
	return requestBody{
		contentType: constants.ContentTypeForm,
		build: func() (io.Reader, error) {
			return strings.NewReader(values.Encode()), nil
		},
	}
}

func jsonBody(v any) requestBody {
	return requestBody{
		contentType: constants.ContentTypeJSON,
		build: func() (io.Reader, error) {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			return bytes.NewReader(b), nil
		},
	}
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// send POSTs body to path and returns the response of a 2xx call. Non-2xx
// statuses become API errors; anything that keeps the round trip from
// completing becomes a transport error.
func (c *Client) send(ctx context.Context, op, path string, body requestBody) (*rawResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reader, err := body.build()
	if err != nil {
		return nil, serviceErrors.NewValidationError(op, "", "failed to encode request: "+err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, serviceErrors.NewTransportError(op, "failed to create request", err)
	}
	req.Header.Set("Content-Type", body.contentType)
	req.Header.Set("Accept", constants.ContentTypeJSON)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		if strings.EqualFold(c.apiKeyHeader, constants.DefaultAPIKeyHeader) {
			req.Header.Set(c.apiKeyHeader, constants.BearerPrefix+c.apiKey)
		} else {
			req.Header.Set(c.apiKeyHeader, c.apiKey)
		}
	}

	start := time.Now()
	c.logger.Debug().Str("op", op).Str("method", req.Method).Str("path", path).Msg("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serviceErrors.NewTransportError(op, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serviceErrors.NewTransportError(op, "failed to read response body", err)
	}

	c.logger.Debug().
		Str("op", op).
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Dur("latency", time.Since(start)).
		Msg("Received response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(op, resp.StatusCode, data)
	}

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) decode(op string, raw *rawResponse, v any) error {
	if err := json.Unmarshal(raw.body, v); err != nil {
		return serviceErrors.NewDecodeError(op, "failed to decode response", raw.body, err)
	}
	if err := schema.Struct(v); err != nil {
		return serviceErrors.NewDecodeError(op, "response does not match schema", raw.body, err)
	}
	return nil
}

func apiError(op string, status int, body []byte) error {
	var errResp dto.ErrorResponse
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &errResp) == nil &&
		(errResp.Error != "" || errResp.Message != "") {
		message := errResp.Message
		if message == "" {
			message = errResp.Error
		}
		return serviceErrors.NewAPIError(op, status, serviceErrors.ParseAPIErrorKind(errResp.Error), message, body)
	}
	return serviceErrors.NewAPIError(op, status, serviceErrors.KindUnknown, "", body)
}
