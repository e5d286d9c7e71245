package registry

import (
	"regexp"

	"github.com/jurisdoc/backend/internal/domain/shared"
)

var nonDigitRe = regexp.MustCompile(`\D+`)

// OnlyDigits strips every non-digit character from a value.
func OnlyDigits(value string) string {
	return nonDigitRe.ReplaceAllString(value, "")
}

// Brazilian federation units
var validUFs = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {},
	"ES": {}, "GO": {}, "MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {},
	"PB": {}, "PR": {}, "PE": {}, "PI": {}, "RJ": {}, "RN": {}, "RS": {},
	"RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// ValidateCPF checks the CPF check digits. The input must already be
// normalized to bare digits.
func ValidateCPF(cpf string) error {
	if len(cpf) != 11 {
		return shared.NewDomainError("INVALID_CPF", "CPF must have 11 digits")
	}
	allEqual := true
	for i := 1; i < 11; i++ {
		if cpf[i] != cpf[0] {
			allEqual = false
			break
		}
	}
	if allEqual {
		return shared.NewDomainError("INVALID_CPF", "CPF check digits are invalid")
	}
	if cpfCheckDigit(cpf, 9) != int(cpf[9]-'0') || cpfCheckDigit(cpf, 10) != int(cpf[10]-'0') {
		return shared.NewDomainError("INVALID_CPF", "CPF check digits are invalid")
	}
	return nil
}

// cpfCheckDigit computes the mod-11 check digit over the first n digits.
func cpfCheckDigit(cpf string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(cpf[i]-'0') * (n + 1 - i)
	}
	d := (sum * 10) % 11
	if d == 10 {
		d = 0
	}
	return d
}

// ValidateCNPJ checks the CNPJ check digits. The input must already be
// normalized to bare digits.
func ValidateCNPJ(cnpj string) error {
	if len(cnpj) != 14 {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ must have 14 digits")
	}
	if cnpjCheckDigit(cnpj, 12) != int(cnpj[12]-'0') || cnpjCheckDigit(cnpj, 13) != int(cnpj[13]-'0') {
		return shared.NewDomainError("INVALID_CNPJ", "CNPJ check digits are invalid")
	}
	return nil
}

// cnpjCheckDigit computes the mod-11 check digit over the first n digits.
func cnpjCheckDigit(cnpj string, n int) int {
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	offset := len(weights) - n
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(cnpj[i]-'0') * weights[offset+i]
	}
	d := sum % 11
	if d < 2 {
		return 0
	}
	return 11 - d
}

// ValidateCEP checks a normalized postal code.
func ValidateCEP(cep string) error {
	if len(cep) != 8 {
		return shared.NewDomainError("INVALID_CEP", "CEP must have 8 digits")
	}
	return nil
}

// ValidateUF checks a two-letter federation unit code.
func ValidateUF(uf string) error {
	if _, ok := validUFs[uf]; !ok {
		return shared.NewDomainError("INVALID_UF", "UF is not a valid federation unit")
	}
	return nil
}
