package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// DefaultMaxBodySize limits JSON and raw request bodies (1MB).
const DefaultMaxBodySize = 1 << 20

// JSON decodes the request body into v.
//
// A missing Content-Type is accepted; any other media type than
// application/json is rejected with ErrUnsupportedMediaType. Unknown fields
// are ignored so that clients can send extra data.
func JSON(r *http.Request, v any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return fmt.Errorf("%w: got %q, expected application/json", ErrUnsupportedMediaType, ct)
		}
	}

	body, err := Raw(r, DefaultMaxBodySize)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrFailedToParseJSON, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", ErrFailedToParseJSON)
	}
	return nil
}

// Raw reads the request body unmodified, up to max bytes.
// Signed payloads must be verified against these exact bytes.
func Raw(r *http.Request, max int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, max+1))
	if err != nil {
		return nil, errors.Join(ErrFailedToReadBody, err)
	}
	if int64(len(body)) > max {
		return nil, fmt.Errorf("%w: max %d bytes", ErrBodyTooLarge, max)
	}
	return body, nil
}
