package httpclient

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCSVUpload_Encode(t *testing.T) {
	u := &CSVUpload{
		Fields:   map[string]string{"vintage": "Current_Current", "benchmark": "Public_AR_Current"},
		Field:    "addressFile",
		FileName: `batch "1".csv`,
		Rows: [][]string{
			{"1", "4600 Silver Hill Rd", "Washington", "DC", "20233"},
			{"2", "1 Main St, Suite 2", "Boston", "MA", ""},
		},
	}

	body, contentType, err := u.encode()
	if err != nil {
		t.Fatalf("encode() error: %v", err)
	}
	if !strings.HasPrefix(contentType, "multipart/form-data; boundary=") {
		t.Fatalf("unexpected content type %q", contentType)
	}
	data, _ := io.ReadAll(body)
	text := string(data)

	if strings.Index(text, `name="benchmark"`) > strings.Index(text, `name="vintage"`) {
		t.Error("expected fields in key order")
	}
	if !strings.Contains(text, `filename="batch \"1\".csv"`) {
		t.Errorf("expected escaped filename in %q", text)
	}
	if !strings.Contains(text, "Content-Type: text/csv") {
		t.Error("expected a text/csv part")
	}
	if !strings.Contains(text, `2,"1 Main St, Suite 2",Boston,MA,`) {
		t.Errorf("expected quoted CSV row in %q", text)
	}
}

func TestClient_Do_CSVUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm error: %v", err)
			return
		}
		if r.FormValue("benchmark") != "4" {
			t.Errorf("benchmark = %q", r.FormValue("benchmark"))
		}
		file, header, err := r.FormFile("addressFile")
		if err != nil {
			t.Errorf("FormFile error: %v", err)
			return
		}
		defer file.Close()
		if header.Filename != "batch.csv" {
			t.Errorf("filename = %q", header.Filename)
		}
		rows, err := csv.NewReader(file).ReadAll()
		if err != nil || len(rows) != 1 || rows[0][1] != "Ottawa" {
			t.Errorf("unexpected rows %v, err %v", rows, err)
		}
		_, _ = io.WriteString(w, "\"1\",\"Ottawa\",\"Match\"\n")
	}))
	defer srv.Close()

	c := newTestClient(t, Config{})
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   srv.URL,
		Body: &CSVUpload{
			Fields:   map[string]string{"benchmark": "4"},
			Field:    "addressFile",
			FileName: "batch.csv",
			Rows:     [][]string{{"1", "Ottawa"}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(resp.Body, []byte("Match")) {
		t.Errorf("unexpected body %q", resp.Body)
	}
}
