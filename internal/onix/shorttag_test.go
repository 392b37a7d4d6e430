package onix

import (
	"strings"
	"testing"
)

func TestHasShortTags(t *testing.T) {
	if !HasShortTags(readFixture(t, "onix21_short.xml")) {
		t.Fatal("short-tag fixture not recognized")
	}
	if HasShortTags(readFixture(t, "onix21_reference.xml")) {
		t.Fatal("reference fixture misrecognized as short-tag")
	}
}

func TestExpandShortTags(t *testing.T) {
	expanded := ExpandShortTags(readFixture(t, "onix21_short.xml"))

	for _, want := range []string{
		"<ONIXMessage>", "</ONIXMessage>",
		"<Header>", "<Product>", "<Contributor>",
		"<RecordReference>lh-0418</RecordReference>",
		"<ISBN>9780306406157</ISBN>",
		"<ProductForm>BB</ProductForm>",
		"<DistinctiveTitle>Test Book Title</DistinctiveTitle>",
		"<ContributorRole>A01</ContributorRole>",
		"<PersonNameInverted>Smith, John</PersonNameInverted>",
		"<PublishingStatus>04</PublishingStatus>",
		"<PublicationDate>20250415</PublicationDate>",
		"<FromCompany>Legacy House</FromCompany>",
		"<SentDate>20260215</SentDate>",
	} {
		if !strings.Contains(expanded, want) {
			t.Fatalf("expanded text missing %q", want)
		}
	}

	if HasShortTags(expanded) {
		t.Fatal("short tags remain after expansion")
	}
}

func TestExpandShortTagsIdempotent(t *testing.T) {
	once := ExpandShortTags(readFixture(t, "onix21_short.xml"))
	twice := ExpandShortTags(once)
	if once != twice {
		t.Fatal("expansion is not idempotent")
	}
}

func TestExpandShortTagsLeavesContentAlone(t *testing.T) {
	text := `<product><a001>code b004 stays</a001></product>`
	expanded := ExpandShortTags(text)
	if !strings.Contains(expanded, ">code b004 stays<") {
		t.Fatalf("character data rewritten: %q", expanded)
	}
}
