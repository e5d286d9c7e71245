package docgen

import (
	"fmt"

	"github.com/flosch/pongo2/v6"
)

// Formatting filters available inside templates, mirroring the masks the
// practice uses in petitions. Each leaves values of the wrong length alone
// so partially-typed input survives rendering.

func onlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// filterCPFFormat renders an 11-digit CPF as 000.000.000-00.
func filterCPFFormat(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := onlyDigits(in.String())
	if len(s) != 11 {
		return in, nil
	}
	return pongo2.AsValue(fmt.Sprintf("%s.%s.%s-%s", s[:3], s[3:6], s[6:9], s[9:])), nil
}

// filterCNPJFormat renders a 14-digit CNPJ as 00.000.000/0000-00.
func filterCNPJFormat(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := onlyDigits(in.String())
	if len(s) != 14 {
		return in, nil
	}
	return pongo2.AsValue(fmt.Sprintf("%s.%s.%s/%s-%s", s[:2], s[2:5], s[5:8], s[8:12], s[12:])), nil
}

// filterCEPFormat renders an 8-digit CEP as 00000-000.
func filterCEPFormat(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	s := onlyDigits(in.String())
	if len(s) != 8 {
		return in, nil
	}
	return pongo2.AsValue(fmt.Sprintf("%s-%s", s[:5], s[5:])), nil
}
