package httpclient

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/textproto"
	"slices"
	"strings"
)

// CSVUpload is a multipart/form-data body carrying one CSV file plus plain
// form fields, the shape batch geocoders take an address list in.
type CSVUpload struct {
	Fields   map[string]string
	Field    string
	FileName string
	Rows     [][]string
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// encode writes the fields in key order, then the file.
func (u *CSVUpload) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range slices.Sorted(maps.Keys(u.Fields)) {
		if err := w.WriteField(k, u.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(u.Field), quoteEscaper.Replace(u.FileName)))
	h.Set("Content-Type", "text/csv")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	cw := csv.NewWriter(part)
	if err := cw.WriteAll(u.Rows); err != nil {
		return nil, "", fmt.Errorf("write %s: %w", u.FileName, err)
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
