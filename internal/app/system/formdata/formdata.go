// Package formdata decodes request bodies into input structs. Form posts
// are decoded with gorilla/schema using the structs' json names, so one
// struct serves both encodings: "urls.0.url" in a form and
// {"urls":[{"url":…}]} in JSON address the same field.
package formdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gorilla/schema"
)

// MaxBodyBytes caps a request body.
const MaxBodyBytes = 1 << 20

// ErrMalformed wraps every decoding failure.
var ErrMalformed = errors.New("malformed request body")

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	// Bounds the index accepted in keys such as "items.N.url".
	d.MaxSize(200)
	return d
}

// IsJSON reports whether the request body is JSON.
func IsJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

// Decode fills dst from a JSON body or from the posted form.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if IsJSON(r) {
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(dst); err != nil {
			return fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := decoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}
