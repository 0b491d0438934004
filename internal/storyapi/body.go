package storyapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// requestBody encodes itself into a reader plus its Content-Type.
type requestBody interface {
	encode() (io.Reader, string, error)
}

type jsonBody struct {
	v any
}

func (b jsonBody) encode() (io.Reader, string, error) {
	raw, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("marshal json body: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

type formField struct {
	name  string
	value string
}

type formFile struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// formBody is a multipart/form-data payload. Fields keep insertion order.
type formBody struct {
	fields []formField
	files  []formFile
}

func (f *formBody) set(name, value string) {
	f.fields = append(f.fields, formField{name: name, value: value})
}

// setOptional adds the field only when v is non-nil.
func (f *formBody) setOptional(name string, v *string) {
	if v != nil {
		f.set(name, *v)
	}
}

// attachImage decodes a base64 image and adds it as a JPEG part. Empty
// input leaves the part out entirely.
func (f *formBody) attachImage(field, filename, encoded string) error {
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	data, err := decodeImage(encoded)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	f.files = append(f.files, formFile{
		field:       field,
		filename:    filename,
		contentType: "image/jpeg",
		data:        data,
	})
	return nil
}

func (f *formBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, file.field, file.filename))
		h.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", file.field, err)
		}
		if _, err := part.Write(file.data); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", file.field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var errEmptyImage = errors.New("image payload is empty")

// decodeImage accepts standard base64, with or without padding, optionally
// prefixed by a data URL header such as "data:image/png;base64,".
func decodeImage(encoded string) ([]byte, error) {
	s := strings.TrimSpace(encoded)
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = s[idx+1:]
	}
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return nil, errEmptyImage
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, nil
}
