package fitsunit

// units maps every recognised base unit symbol to whether it accepts an SI
// prefix.
var units = map[string]bool{
	// SI base and derived units.
	"m": true, "g": true, "s": true, "rad": true, "sr": true, "K": true,
	"A": true, "mol": true, "cd": true, "Hz": true, "J": true, "W": true,
	"V": true, "N": true, "Pa": true, "C": true, "Ohm": true, "S": true,
	"F": true, "Wb": true, "T": true, "H": true, "lm": true, "lx": true,

	// Additional units that accept prefixes.
	"eV": true, "Jy": true, "R": true, "G": true, "barn": true, "D": true,
	"pc": true, "a": true, "yr": true, "bit": true, "byte": true, "mag": true,

	// Units that never take a prefix.
	"deg": false, "arcmin": false, "arcsec": false, "mas": false,
	"min": false, "h": false, "d": false, "erg": false, "Ry": false,
	"solMass": false, "u": false, "solLum": false, "Angstrom": false,
	"angstrom": false, "solRad": false, "AU": false, "au": false,
	"lyr": false, "count": false, "ct": false, "photon": false, "ph": false,
	"adu": false, "beam": false, "bin": false, "chan": false, "pix": false,
	"pixel": false, "voxel": false, "Sun": false, "Ba": false, "dyn": false,
}

// prefixes lists the SI prefixes, longest first so "da" wins over "d".
var prefixes = []string{
	"da",
	"Q", "R", "Y", "Z", "E", "P", "T", "G", "M", "k", "h",
	"d", "c", "m", "u", "n", "p", "f", "a", "z", "y", "r", "q",
}

var functions = map[string]bool{
	"log":  true,
	"ln":   true,
	"exp":  true,
	"sqrt": true,
}

// Known reports whether symbol, possibly carrying a prefix, names a unit.
func Known(symbol string) bool {
	_, _, ok := split(symbol)
	return ok
}

func split(symbol string) (prefix, base string, ok bool) {
	if _, exact := units[symbol]; exact {
		return "", symbol, true
	}
	for _, candidate := range prefixes {
		if len(symbol) <= len(candidate) || symbol[:len(candidate)] != candidate {
			continue
		}
		rest := symbol[len(candidate):]
		if prefixable, found := units[rest]; found && prefixable {
			return candidate, rest, true
		}
	}
	return "", "", false
}
