package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"studentfin/internal/core"
)

func TestParseDate(t *testing.T) {
	hk, err := time.LoadLocation("Asia/Hong_Kong")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		want     time.Time
		dateOnly bool
		wantErr  bool
	}{
		{
			name:     "calendar date in server location",
			input:    "2024-12-10",
			want:     time.Date(2024, 12, 10, 0, 0, 0, 0, hk),
			dateOnly: true,
		},
		{
			name:     "surrounding whitespace",
			input:    " 2024-01-31 ",
			want:     time.Date(2024, 1, 31, 0, 0, 0, 0, hk),
			dateOnly: true,
		},
		{
			name:  "RFC 3339 timestamp",
			input: "2024-12-10T08:30:00Z",
			want:  time.Date(2024, 12, 10, 8, 30, 0, 0, time.UTC),
		},
		{name: "day first", input: "10/12/2024", wantErr: true},
		{name: "impossible date", input: "2024-02-30", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, hk)
			if tt.wantErr {
				if !errors.Is(err, core.ErrValidation) {
					t.Errorf("ParseDate(%q) error = %v, want validation error", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got.Time, tt.want)
			}
			if got.dateOnly != tt.dateOnly {
				t.Errorf("dateOnly = %v, want %v", got.dateOnly, tt.dateOnly)
			}
		})
	}
}

func TestParseTransactionFilter(t *testing.T) {
	t.Run("empty query", func(t *testing.T) {
		f, err := ParseTransactionFilter(url.Values{}, time.UTC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.CategoryID != "" || f.From != nil || f.To != nil {
			t.Errorf("filter = %+v, want zero", f)
		}
	})

	t.Run("end date covers whole day", func(t *testing.T) {
		f, err := ParseTransactionFilter(url.Values{
			"categoryId": {"cat-1"},
			"startDate":  {"2024-12-10"},
			"endDate":    {"2024-12-10"},
		}, time.UTC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.CategoryID != "cat-1" {
			t.Errorf("CategoryID = %q, want cat-1", f.CategoryID)
		}
		wantFrom := time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)
		if f.From == nil || !f.From.Equal(wantFrom) {
			t.Errorf("From = %v, want %v", f.From, wantFrom)
		}
		evening := time.Date(2024, 12, 10, 23, 59, 0, 0, time.UTC)
		nextDay := time.Date(2024, 12, 11, 0, 0, 0, 0, time.UTC)
		if f.To == nil || f.To.Before(evening) || !f.To.Before(nextDay) {
			t.Errorf("To = %v, want the last instant of 2024-12-10", f.To)
		}
	})

	t.Run("timestamp end is exact", func(t *testing.T) {
		f, err := ParseTransactionFilter(url.Values{"endDate": {"2024-12-10T12:00:00Z"}}, time.UTC)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2024, 12, 10, 12, 0, 0, 0, time.UTC)
		if f.To == nil || !f.To.Equal(want) {
			t.Errorf("To = %v, want %v", f.To, want)
		}
	})

	tests := []struct {
		name    string
		query   url.Values
		wantMsg string
	}{
		{"bad start", url.Values{"startDate": {"yesterday"}}, "Please provide a valid date"},
		{"bad end", url.Values{"endDate": {"2024-13-01"}}, "Please provide a valid date"},
		{"reversed", url.Values{"startDate": {"2024-12-10"}, "endDate": {"2024-12-01"}}, "endDate must not be before startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTransactionFilter(tt.query, time.UTC)
			if got := core.Message(err); got != tt.wantMsg {
				t.Errorf("error message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestParseOptionalBool(t *testing.T) {
	tests := []struct {
		value   string
		want    *bool
		wantErr bool
	}{
		{value: "", want: nil},
		{value: "true", want: ptr(true)},
		{value: "false", want: ptr(false)},
		{value: "1", want: ptr(true)},
		{value: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseOptionalBool(url.Values{"isCompleted": {tt.value}}, "isCompleted")
			if tt.wantErr {
				if core.Message(err) != "isCompleted must be true or false" {
					t.Errorf("error = %v, want isCompleted validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ParseOptionalBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := map[string]int{
		"":    0,
		"5":   5,
		" 7 ": 7,
		"-3":  -3,
		"ten": 0,
	}
	for in, want := range tests {
		if got := ParseLimit(url.Values{"limit": {in}}); got != want {
			t.Errorf("ParseLimit(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseOptionalDate(t *testing.T) {
	if got, err := parseOptionalDate(nil, time.UTC); got != nil || err != nil {
		t.Errorf("parseOptionalDate(nil) = %v, %v; want nil, nil", got, err)
	}
	if got, err := parseOptionalDate(ptr("  "), time.UTC); got != nil || err != nil {
		t.Errorf("parseOptionalDate(blank) = %v, %v; want nil, nil", got, err)
	}
	got, err := parseOptionalDate(ptr("2025-06-30"), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("parseOptionalDate = %v, want %v", got, want)
	}
	if _, err := parseOptionalDate(ptr("June"), time.UTC); !errors.Is(err, core.ErrValidation) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name   string      `json:"name"`
		Amount *core.Money `json:"amount"`
	}

	tests := []struct {
		name    string
		body    string
		want    payload
		wantMsg string
	}{
		{name: "object", body: `{"name":"Lunch","amount":"45.50"}`, want: payload{Name: "Lunch", Amount: &core.Money{Cents: 4550}}},
		{name: "empty body", body: "", want: payload{}},
		{name: "whitespace body", body: "  \n", want: payload{}},
		{name: "malformed", body: `{"name":`, wantMsg: "Invalid request body"},
		{name: "wrong type", body: `{"name":42}`, wantMsg: "Invalid request body"},
		{name: "invalid amount", body: `{"amount":"12abc"}`, wantMsg: "Please provide a valid amount"},
		{name: "oversized", body: `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`, wantMsg: "Request body too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var got payload
			err := decodeJSON(w, r, &got)
			if tt.wantMsg != "" {
				if msg := core.Message(err); msg != tt.wantMsg {
					t.Errorf("error message = %q, want %q (err %v)", msg, tt.wantMsg, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.want.Name {
				t.Errorf("Name = %q, want %q", got.Name, tt.want.Name)
			}
			if (got.Amount == nil) != (tt.want.Amount == nil) || (got.Amount != nil && *got.Amount != *tt.want.Amount) {
				t.Errorf("Amount = %v, want %v", got.Amount, tt.want.Amount)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
