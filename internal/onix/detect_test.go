package onix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

func readFixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return DecodeToUTF8(raw)
}

func TestDetectVersion(t *testing.T) {
	cases := []struct {
		fixture string
		want    internal.DetectedVersion
	}{
		{fixture: "onix31.xml", want: internal.Version31},
		{fixture: "onix30.xml", want: internal.Version30},
		{fixture: "onix21_reference.xml", want: internal.Version21},
		{fixture: "onix21_short.xml", want: internal.Version21},
		{fixture: "not_onix.xml", want: internal.VersionUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.fixture, func(t *testing.T) {
			if got := DetectVersion(readFixture(t, tc.fixture)); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestDetectVersionNamespaceOnly(t *testing.T) {
	text := `<ONIXMessage xmlns="http://ns.editeur.org/onix/3.0/reference"><Product/></ONIXMessage>`
	if got := DetectVersion(text); got != internal.Version30 {
		t.Fatalf("got %q", got)
	}
}

func TestDetectVersionTotal(t *testing.T) {
	inputs := []string{"", "plain text", "<root/>", "<a001>x"}
	for _, input := range inputs {
		got := DetectVersion(input)
		switch got {
		case internal.Version21, internal.Version30, internal.Version31, internal.VersionUnknown:
		default:
			t.Fatalf("non-total result %q for %q", got, input)
		}
	}
}

func TestValidateStructure(t *testing.T) {
	if err := ValidateStructure(readFixture(t, "onix31.xml")); err != nil {
		t.Fatalf("valid fixture rejected: %v", err)
	}
	if err := ValidateStructure(readFixture(t, "onix21_short.xml")); err != nil {
		t.Fatalf("short-tag fixture rejected: %v", err)
	}

	if err := ValidateStructure(readFixture(t, "not_onix.xml")); err == nil {
		t.Fatal("expected root element error")
	}

	empty := `<?xml version="1.0"?><ONIXMessage release="3.0"><Header/></ONIXMessage>`
	if err := ValidateStructure(empty); err == nil {
		t.Fatal("expected no-products error")
	}
}

func TestEstimateProductCount(t *testing.T) {
	if got := EstimateProductCount(readFixture(t, "onix31.xml")); got != 1 {
		t.Fatalf("got %d want 1", got)
	}
	text := `<ONIXMessage><Product/><Product></Product><product><a001>x</a001></product></ONIXMessage>`
	if got := EstimateProductCount(text); got != 3 {
		t.Fatalf("got %d want 3", got)
	}
}

func TestDecodeToUTF8(t *testing.T) {
	if got := DecodeToUTF8([]byte{0xEF, 0xBB, 0xBF, '<', 'a', '/', '>'}); got != "<a/>" {
		t.Fatalf("BOM not stripped: %q", got)
	}
	// Latin-1 é (0xE9) is not valid UTF-8 on its own.
	if got := DecodeToUTF8([]byte{'R', 0xE9, 'n', 'e'}); got != "Réne" {
		t.Fatalf("latin-1 fallback: %q", got)
	}
	if got := DecodeToUTF8([]byte("déjà")); got != "déjà" {
		t.Fatalf("utf-8 passthrough: %q", got)
	}
}
