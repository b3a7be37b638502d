package documents

import (
	"errors"
	"testing"
)

func TestValidateUpload(t *testing.T) {
	cases := []struct {
		name string
		mime string
		size int64
		want error
	}{
		{"pdf ok", "application/pdf", 1024, nil},
		{"jpeg ok", "image/jpeg", 1024, nil},
		{"mime with charset", "application/pdf; charset=binary", 1024, nil},
		{"at limit", "application/pdf", MaxFileSizeBytes, nil},
		{"over limit", "application/pdf", MaxFileSizeBytes + 1, ErrFileTooLarge},
		{"executable", "application/octet-stream", 1024, ErrUnsupportedType},
		{"text", "text/plain", 1024, ErrUnsupportedType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUpload(tc.mime, tc.size)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateExplain(t *testing.T) {
	if err := ValidateExplain("application/pdf", 1024); err != nil {
		t.Fatalf("expected pdf accepted, got %v", err)
	}
	if err := ValidateExplain("APPLICATION/PDF", 1024); err != nil {
		t.Fatalf("expected case-insensitive mime, got %v", err)
	}
	if err := ValidateExplain("image/png", 1024); !errors.Is(err, ErrPDFOnly) {
		t.Fatalf("expected ErrPDFOnly, got %v", err)
	}
	if err := ValidateExplain("application/pdf", MaxFileSizeBytes+1); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestDocumentTypeFromCategory(t *testing.T) {
	cases := map[string]DocumentType{
		"legal":          TypeLegalDocument,
		"Legal Document": TypeLegalDocument,
		"contract":       TypeContract,
		"certificate":    TypeCertificate,
		"id":             TypeIdentification,
		"":               TypeOther,
		"random":         TypeOther,
	}
	for raw, want := range cases {
		if got := DocumentTypeFromCategory(raw); got != want {
			t.Fatalf("category %q: expected %s, got %s", raw, want, got)
		}
	}
}
