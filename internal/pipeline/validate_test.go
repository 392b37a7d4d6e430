package pipeline

import (
	"testing"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/util"
)

const maxUploadBytes = 10 * 1024 * 1024

func TestValidateFileConstraints(t *testing.T) {
	cases := []struct {
		name string
		meta internal.FileMeta
		ok   bool
	}{
		{name: "valid text/xml", meta: internal.FileMeta{Name: "feed.xml", Size: 5000, Type: "text/xml"}, ok: true},
		{name: "valid application/xml", meta: internal.FileMeta{Name: "feed.xml", Size: 1, Type: "application/xml"}, ok: true},
		{name: "xml extension without mime", meta: internal.FileMeta{Name: "feed.xml", Size: 100, Type: ""}, ok: true},
		{name: "zero bytes", meta: internal.FileMeta{Name: "feed.xml", Size: 0, Type: "text/xml"}, ok: false},
		{name: "over limit", meta: internal.FileMeta{Name: "feed.xml", Size: 11 * 1024 * 1024, Type: "text/xml"}, ok: false},
		{name: "non-xml mime and extension", meta: internal.FileMeta{Name: "feed.pdf", Size: 100, Type: "application/pdf"}, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := ValidateFileConstraints(tc.meta, maxUploadBytes)
			if tc.ok && len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if !tc.ok && len(errs) == 0 {
				t.Fatal("expected rejection")
			}
		})
	}
}

func TestValidateProductCount(t *testing.T) {
	const max = 500
	if err := ValidateProductCount(0, max); err == nil {
		t.Fatal("0 should fail")
	}
	if err := ValidateProductCount(501, max); err == nil {
		t.Fatal("501 should fail")
	}
	if err := ValidateProductCount(1, max); err != nil {
		t.Fatalf("1 should pass: %v", err)
	}
	if err := ValidateProductCount(500, max); err != nil {
		t.Fatalf("500 should pass: %v", err)
	}
}

func TestCheckDuplicateISBNs(t *testing.T) {
	titles := []internal.MappedTitle{
		{RawIndex: 0, ISBN: util.StringPtr("9780306406157")},
		{RawIndex: 1, ISBN: util.StringPtr("9780140449136")},
		{RawIndex: 2, ISBN: util.StringPtr("9780306406157")},
		{RawIndex: 3, ISBN: util.StringPtr("9780306406157")},
		{RawIndex: 4, ISBN: nil},
	}

	CheckDuplicateISBNs(titles)

	if len(titles[0].ValidationErrors) != 0 || len(titles[1].ValidationErrors) != 0 {
		t.Fatalf("first occurrences flagged: %+v", titles)
	}
	if !hasError(titles[2].ValidationErrors, "isbn") || !hasError(titles[3].ValidationErrors, "isbn") {
		t.Fatalf("duplicates not flagged: %+v", titles)
	}
	if len(titles[4].ValidationErrors) != 0 {
		t.Fatalf("nil isbn flagged: %+v", titles[4])
	}
}

func TestCheckDuplicateISBNsAllDistinct(t *testing.T) {
	titles := []internal.MappedTitle{
		{RawIndex: 0, ISBN: util.StringPtr("9780306406157")},
		{RawIndex: 1, ISBN: util.StringPtr("9780140449136")},
	}
	CheckDuplicateISBNs(titles)
	for _, title := range titles {
		if len(title.ValidationErrors) != 0 {
			t.Fatalf("distinct isbn flagged: %+v", title)
		}
	}
}
