package validation

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-dxu/pkg/fitsunit"
	"github.com/goliatone/go-dxu/pkg/ucd"
)

// String formats understood by the meta-schema.
const (
	FormatFITSUnit  = "fitsunit"
	FormatUCD       = "vo_ucd"
	FormatUCDSyntax = "vo_ucd_syntax"
)

func init() {
	defineFormat(FormatFITSUnit, "unit", fitsunit.Validate)
	defineFormat(FormatUCD, "ucd", ucd.Validate)
	defineFormat(FormatUCDSyntax, "ucd", ucd.ValidateSyntax)
}

// defineFormat registers check with kin-openapi. Format registrations are
// process-wide.
func defineFormat(name, field string, check func(string) error) {
	openapi3.DefineStringFormatValidator(name, openapi3.NewCallbackValidator(func(value string) error {
		if err := check(value); err != nil {
			return &FormatError{Field: field, Value: value, Err: err}
		}
		return nil
	}))
}

func formatField(format string) string {
	switch format {
	case FormatFITSUnit:
		return "unit"
	case FormatUCD, FormatUCDSyntax:
		return "ucd"
	}
	return format
}
