package definition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func parseNode(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return &node
}

const sampleDocument = `
name: Example DXU
version: "1.2"
description: Example output
creators:
  - first-name: Ada
    last-name: Lovelace
extensions:
  - name: Primary
    description: Primary header
    header:
      - name: ORIGIN
        value: ESO-PARANAL
        description: Observatory or facility
      - name: PROG_ID
        description: Observing run identification code
      - name: ASSOC
        array: true
        required: false
        description: Associated file
      - name: EXPTIME
        value: 1200.5
        range: {min: 0}
  - name: QXP-Z
    description: Redshift catalogue
    columns:
      - name: OBJ_NME
        datatype: str
        maxlength: 24
        description: Object name
      - name: CLASS
        datatype: str
        maxlength: 5
        values:
          GALAXY: extended source
          QSO: ~
          STAR: point source
      - name: FLUX
        datatype: float
        arraysize: 3
        unit: erg/s/cm2
        ucd: phot.flux
        range: {min: -1.5, max: 100}
      - name: BIG
        datatype: uint64
        range: {max: 18446744073709551615}
`

func TestDecode_Document(t *testing.T) {
	doc, err := Decode(parseNode(t, sampleDocument))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if doc.Name != "Example DXU" || doc.Version != "1.2" || doc.Description != "Example output" {
		t.Fatalf("unexpected metadata: %+v", doc)
	}
	if diff := cmp.Diff([]Creator{{FirstName: "Ada", LastName: "Lovelace"}}, doc.Creators); diff != "" {
		t.Fatalf("creators mismatch (-want +got):\n%s", diff)
	}
	if doc.Creators[0].FullName() != "Ada Lovelace" {
		t.Fatalf("unexpected full name %q", doc.Creators[0].FullName())
	}

	header := doc.Primary.Header
	if len(header) != 4 {
		t.Fatalf("expected 4 header cards, got %d", len(header))
	}
	if header[0].Value != StringValue("ESO-PARANAL") {
		t.Fatalf("unexpected ORIGIN value %#v", header[0].Value)
	}
	if !header[1].Value.IsAbsent() {
		t.Fatalf("expected PROG_ID value to be absent")
	}
	if !header[2].Array || header[2].IsRequired() {
		t.Fatalf("expected ASSOC to be an optional array keyword")
	}
	if !header[1].IsRequired() {
		t.Fatalf("expected keywords to be required by default")
	}
	if header[3].Value != FloatValue(1200.5) || header[3].Range.Min != IntValue(0) || !header[3].Range.Max.IsAbsent() {
		t.Fatalf("unexpected EXPTIME: %+v", header[3])
	}

	if len(doc.Tables) != 1 {
		t.Fatalf("expected one table, got %d", len(doc.Tables))
	}
	columns := doc.Tables[0].Columns
	if columns[0].MaxLength != 24 || columns[0].ArraySize != 0 {
		t.Fatalf("unexpected OBJ_NME sizes: %+v", columns[0])
	}
	wantValues := EnumValues{
		{Literal: "GALAXY", Description: "extended source"},
		{Literal: "QSO"},
		{Literal: "STAR", Description: "point source"},
	}
	if diff := cmp.Diff(wantValues, columns[1].Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if columns[2].Range.Min != FloatValue(-1.5) || columns[2].Range.Max != IntValue(100) {
		t.Fatalf("unexpected FLUX range: %+v", columns[2].Range)
	}
	if columns[3].Range.Max.Kind() != KindUint || columns[3].Range.Max.String() != "18446744073709551615" {
		t.Fatalf("unexpected BIG range max: %#v", columns[3].Range.Max)
	}
}

func TestDecode_RequiresExtensions(t *testing.T) {
	_, err := Decode(parseNode(t, "name: x\nversion: '1'\ndescription: y\nextensions: []\n"))
	if !errors.Is(err, ErrNoExtensions) {
		t.Fatalf("expected ErrNoExtensions, got %v", err)
	}
}

func TestDecode_RejectsScalarDocument(t *testing.T) {
	if _, err := Decode(parseNode(t, "just a string\n")); err == nil {
		t.Fatalf("expected error for scalar document")
	}
}

func TestValue_Rendering(t *testing.T) {
	cases := []struct {
		value Value
		str   string
		iface any
	}{
		{StringValue("A"), "A", "A"},
		{BoolValue(true), "true", true},
		{IntValue(-128), "-128", int64(-128)},
		{UintValue(1 << 63), "9223372036854775808", uint64(1 << 63)},
		{UintValue(32768), "32768", int64(32768)},
		{FloatValue(0.5), "0.5", 0.5},
		{Value{}, "", nil},
	}
	for _, tc := range cases {
		if got := tc.value.String(); got != tc.str {
			t.Errorf("String() = %q, want %q", got, tc.str)
		}
		if diff := cmp.Diff(tc.iface, tc.value.Interface()); diff != "" {
			t.Errorf("Interface() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	raw, err := Value{}.MarshalJSON()
	if err != nil || string(raw) != "null" {
		t.Fatalf("expected null, got %s (%v)", raw, err)
	}
	raw, err = UintValue(1 << 63).MarshalJSON()
	if err != nil || string(raw) != "9223372036854775808" {
		t.Fatalf("unexpected uint json %s (%v)", raw, err)
	}
}
