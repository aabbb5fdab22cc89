package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// Request describes one outbound call.
type Request struct {
	Endpoint string
	// Method defaults to GET.
	Method  string
	Body    any
	Headers map[string]string
	// NoAuth exempts the request from credential attachment and from
	// session invalidation on 401. The zero value means auth is required.
	NoAuth bool
}

// RequiresAuth reports whether credentials should be attached.
func (r Request) RequiresAuth() bool {
	return !r.NoAuth
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Form is a binary multipart payload. It is sent as-is with its own
// content type; it is never JSON-encoded.
type Form struct {
	ContentType string
	Body        []byte
}

// NewFileForm builds a multipart form carrying one file under field and the
// given plain fields.
func NewFileForm(field, filename string, r io.Reader, fields map[string]string) (*Form, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("write field %s: %w", k, err)
		}
	}

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("copy %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	return &Form{ContentType: w.FormDataContentType(), Body: buf.Bytes()}, nil
}
