package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Request describes one logical call to the backend. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when set. Mutually exclusive with Form.
	Body   any
	Form   *Form
	Header http.Header

	// SkipRefresh disables the 401 refresh protocol, for credential endpoints.
	SkipRefresh bool
	// SuppressRedirect keeps the client from navigating to login when the refresh fails.
	SuppressRedirect bool
}

// encodedBody is the wire form of a request body, produced once and reused on replay.
type encodedBody struct {
	data        []byte
	contentType string
}

func (r *Request) encode() (encodedBody, error) {
	switch {
	case r.Body != nil && r.Form != nil:
		return encodedBody{}, errors.New("request has both a JSON body and a multipart form")
	case r.Form != nil:
		return r.Form.encode()
	case r.Body != nil:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return encodedBody{}, errors.Wrap(err, "failed to marshal request body")
		}

		return encodedBody{data: data, contentType: contentTypeJSON}, nil
	default:
		return encodedBody{}, nil
	}
}

func (r *Request) url(base string) string {
	u := base + r.Path
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + r.Query.Encode()
	}

	return u
}

// Form is a multipart body. Parts keep insertion order.
type Form struct {
	parts []formPart
}

type formPart struct {
	name        string
	fileName    string
	contentType string
	content     []byte
}

// NewForm returns an empty multipart form.
func NewForm() *Form {
	return &Form{}
}

// AddField appends a plain text field.
func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, content: []byte(value)})

	return f
}

// AddJSON appends v as a part typed application/json.
func (f *Form) AddJSON(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal form part %q", name)
	}

	f.parts = append(f.parts, formPart{name: name, fileName: "blob", contentType: contentTypeJSON, content: data})

	return nil
}

// AddFile appends an uploaded file.
func (f *Form) AddFile(name string, up entity.Upload) *Form {
	ct := up.ContentType
	if ct == "" {
		ct = http.DetectContentType(up.Content)
	}

	f.parts = append(f.parts, formPart{name: name, fileName: up.FileName, contentType: ct, content: up.Content})

	return f
}

func (f *Form) encode() (encodedBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		h := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name=%q`, p.name)
		if p.fileName != "" {
			disposition += fmt.Sprintf(`; filename=%q`, p.fileName)
		}
		h.Set("Content-Disposition", disposition)
		if p.contentType != "" {
			h.Set(contentTypeHeader, p.contentType)
		}

		part, err := w.CreatePart(h)
		if err != nil {
			return encodedBody{}, errors.Wrapf(err, "failed to create form part %q", p.name)
		}
		if _, err := part.Write(p.content); err != nil {
			return encodedBody{}, errors.Wrapf(err, "failed to write form part %q", p.name)
		}
	}

	if err := w.Close(); err != nil {
		return encodedBody{}, errors.Wrap(err, "failed to close multipart writer")
	}

	return encodedBody{data: buf.Bytes(), contentType: w.FormDataContentType()}, nil
}
