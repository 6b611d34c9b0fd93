package sheet

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const listingsCSV = "상호명,장소,메뉴,링크\n" +
	"국회식당,의사당대로 1,백반,https://map.example.com/1\n" +
	"여의도국수,\"국제금융로 2, 1층\",국수,\n"

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		listingsCSV,
		"a,b\n1,2\n",
		"name,note\n\"Kim, J\",\"says \"\"hi\"\"\"\n",
		"only\n",
	}

	for _, input := range inputs {
		table, err := Parse(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", input, err)
		}

		var sb strings.Builder
		if err := table.WriteCSV(&sb); err != nil {
			t.Fatalf("WriteCSV failed: %v", err)
		}

		if got := sb.String(); got != input {
			t.Errorf("Round trip mismatch:\nwant %q\ngot  %q", input, got)
		}
	}
}

func TestParse_PadsShortRows(t *testing.T) {
	table, err := Parse(strings.NewReader("a,b,c\n1\n"))
	if err != nil {
		t.Fatal(err)
	}

	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}
	if len(table.Rows[0]) != 3 {
		t.Fatalf("Expected 3 cells, got %d", len(table.Rows[0]))
	}

	row := table.Rows[0]
	if row[0] != "1" || row[1] != "" || row[2] != "" {
		t.Errorf("Unexpected row values: %v", row)
	}
}

func TestParse_RejectsLongRows(t *testing.T) {
	if _, err := Parse(strings.NewReader("a,b\n1,2,3\n")); err == nil {
		t.Error("Expected error for row with more fields than the header")
	}
}

func TestParse_RejectsMalformedCSV(t *testing.T) {
	if _, err := Parse(strings.NewReader("a,b\n\"unterminated,2\n")); err == nil {
		t.Error("Expected error for malformed CSV")
	}
}

func TestParse_StripsBOM(t *testing.T) {
	table, err := Parse(strings.NewReader("\ufeff상호명,장소\nA,B\n"))
	if err != nil {
		t.Fatal(err)
	}

	if table.Columns[0] != "상호명" {
		t.Errorf("Expected BOM to be stripped, got %q", table.Columns[0])
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	for _, input := range []string{"", "\n\n"} {
		table, err := Parse(strings.NewReader(input))
		if err == nil {
			t.Errorf("Parse(%q): expected error for document without header", input)
		}
		if table != nil {
			t.Errorf("Parse(%q): expected no table, got %+v", input, table)
		}
	}
}

func TestSource_Fetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Write([]byte(listingsCSV))
	}))
	defer server.Close()

	source := NewSource(server.Client(), "Test Agent", time.Second)
	table, err := source.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if userAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", userAgent)
	}
	if len(table.Columns) != 4 {
		t.Errorf("Expected 4 columns, got %d", len(table.Columns))
	}
	if table.Len() != 2 {
		t.Errorf("Expected 2 rows, got %d", table.Len())
	}
	if got := table.Rows[1][1]; got != "국제금융로 2, 1층" {
		t.Errorf("Expected quoted place value, got %q", got)
	}
}

func TestSource_FetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			},
		},
		{
			name: "malformed CSV",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("a,b\n\"broken,1\n"))
			},
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			source := NewSource(server.Client(), "", 50*time.Millisecond)
			table, err := source.Fetch(context.Background(), server.URL)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if table != nil {
				t.Error("Expected no table on failure")
			}

			var loadErr *DataLoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("Expected DataLoadError, got %T", err)
			}
			if loadErr.URL != server.URL {
				t.Errorf("Expected URL %s, got %s", server.URL, loadErr.URL)
			}
			if loadErr.Unwrap() == nil {
				t.Error("Expected underlying cause")
			}
		})
	}
}

func TestSource_FetchNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	source := NewSource(nil, "", time.Second)
	_, err := source.Fetch(context.Background(), url)

	var loadErr *DataLoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Expected DataLoadError, got %v", err)
	}
}
