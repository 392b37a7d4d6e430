package pipeline

import (
	"testing"
	"time"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/util"
)

var noTenant = internal.TenantContext{TenantID: "default"}

func TestMapPublishingStatus(t *testing.T) {
	cases := []struct {
		name string
		code *string
		want string
	}{
		{name: "published", code: util.StringPtr("04"), want: "published"},
		{name: "pending", code: util.StringPtr("02"), want: "pending"},
		{name: "out of print", code: util.StringPtr("07"), want: "out_of_print"},
		{name: "unknown code defaults to draft", code: util.StringPtr("99"), want: "draft"},
		{name: "nil defaults to draft", code: nil, want: "draft"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapPublishingStatus(tc.code); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestMapTitle(t *testing.T) {
	pubDate := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	product := internal.ParsedProduct{
		RecordReference:  "ref-1",
		ISBN13:           util.StringPtr("9780306406157"),
		GTIN13:           util.StringPtr("9780306406157"),
		Title:            "Test Book Title",
		Subtitle:         util.StringPtr("A Comprehensive Guide"),
		ProductForm:      util.StringPtr("BB"),
		PublishingStatus: util.StringPtr("04"),
		PublicationDate:  &pubDate,
		Contributors: []internal.Contributor{
			{SequenceNumber: 1, Role: "A01", NamesBeforeKey: util.StringPtr("John"), KeyNames: util.StringPtr("Smith")},
			{SequenceNumber: 2, Role: "B06", PersonNameInverted: util.StringPtr("Doe, Jane")},
		},
		Prices:   []internal.Price{{PriceType: "01", Amount: "19.99", Currency: "USD"}},
		Subjects: []internal.Subject{{SchemeIdentifier: "10", Code: "FIC000000"}},
	}

	title := MapTitle(product, noTenant)

	if title.Title != "Test Book Title" || *title.ISBN != "9780306406157" {
		t.Fatalf("core fields: %+v", title)
	}
	if title.PublicationStatus != "published" {
		t.Fatalf("status=%q", title.PublicationStatus)
	}
	if title.PublicationDate == nil || *title.PublicationDate != "2025-04-15" {
		t.Fatalf("date: %v", title.PublicationDate)
	}
	if len(title.ValidationErrors) != 0 {
		t.Fatalf("unexpected validation errors: %v", title.ValidationErrors)
	}

	if len(title.Contributors) != 2 {
		t.Fatalf("contributors: %+v", title.Contributors)
	}
	if title.Contributors[0].FirstName != "John" || title.Contributors[0].LastName != "Smith" || title.Contributors[0].Role != "author" {
		t.Fatalf("first contributor: %+v", title.Contributors[0])
	}
	// B06 has no catalog mapping; the raw code passes through.
	if title.Contributors[1].FirstName != "Jane" || title.Contributors[1].LastName != "Doe" || title.Contributors[1].Role != "B06" {
		t.Fatalf("second contributor: %+v", title.Contributors[1])
	}

	wantUnmapped := map[string]string{
		"RecordReference": "ref-1",
		"GTIN13":          "9780306406157",
		"ProductForm":     "BB",
		"Price":           "01 19.99 USD",
		"Subject":         "FIC000000",
	}
	if len(title.UnmappedFields) != len(wantUnmapped) {
		t.Fatalf("unmapped fields: %+v", title.UnmappedFields)
	}
	for _, f := range title.UnmappedFields {
		if wantUnmapped[f.Name] != f.RawValue {
			t.Fatalf("unmapped %s=%q", f.Name, f.RawValue)
		}
	}
}

func TestMapTitleFlatPersonName(t *testing.T) {
	product := internal.ParsedProduct{
		ISBN13: util.StringPtr("9780306406157"),
		Title:  "Legacy Title",
		Contributors: []internal.Contributor{
			{SequenceNumber: 1, Role: "A01", PersonName: util.StringPtr("John Smith")},
		},
	}
	title := MapTitle(product, noTenant)
	if title.Contributors[0].FirstName != "John" || title.Contributors[0].LastName != "Smith" {
		t.Fatalf("flat name not split: %+v", title.Contributors[0])
	}
}

func TestMapTitleValidation(t *testing.T) {
	title := MapTitle(internal.ParsedProduct{}, noTenant)
	if !hasError(title.ValidationErrors, "isbn") || !hasError(title.ValidationErrors, "title") {
		t.Fatalf("missing field errors: %+v", title.ValidationErrors)
	}

	badChecksum := MapTitle(internal.ParsedProduct{
		ISBN13: util.StringPtr("9780306406158"),
		Title:  "Broken Checksum",
	}, noTenant)
	if !hasError(badChecksum.ValidationErrors, "isbn") {
		t.Fatalf("checksum failure not recorded: %+v", badChecksum.ValidationErrors)
	}
	// the row survives for user correction
	if badChecksum.Title != "Broken Checksum" {
		t.Fatal("row dropped on validation failure")
	}
}

func hasError(errs []internal.ValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
