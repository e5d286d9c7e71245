package docgen

import "strings"

// ValueKind is the inferred kind of a placeholder value. It is advisory
// only, used for UI hints when listing template fields; nothing is enforced
// at render time.
type ValueKind string

const (
	KindString   ValueKind = "string"
	KindCurrency ValueKind = "currency"
	KindDate     ValueKind = "date"
	KindCPF      ValueKind = "cpf"
	KindCNPJ     ValueKind = "cnpj"
	KindCEP      ValueKind = "cep"
	KindPhone    ValueKind = "phone"
	KindBool     ValueKind = "bool"
	KindEmail    ValueKind = "email"
	KindInt      ValueKind = "int"
)

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// GuessKind infers a value kind from a normalized variable name.
func GuessKind(name string) ValueKind {
	n := strings.ToLower(name)
	switch {
	case containsAny(n, "valor", "quantia", "preco", "montante"):
		return KindCurrency
	case containsAny(n, "data", "competencia"):
		return KindDate
	case strings.Contains(n, "cnpj"):
		return KindCNPJ
	case strings.Contains(n, "cpf"):
		return KindCPF
	case strings.Contains(n, "cep"):
		return KindCEP
	case containsAny(n, "telefone", "celular", "fone"):
		return KindPhone
	case strings.HasPrefix(n, "is_"), strings.HasPrefix(n, "se_"), strings.HasSuffix(n, "_bool"):
		return KindBool
	case strings.Contains(n, "email"):
		return KindEmail
	case containsAny(n, "qtd", "quantidade", "parcelas"):
		return KindInt
	}
	return KindString
}
