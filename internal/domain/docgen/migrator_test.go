package docgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRewritesLegacyTokens(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/document.xml": docXML("residente em << Cidade de residência >>, CPF << CPF do cliente >>"),
	})

	migrated, err := Migrate(doc, nil)
	require.NoError(t, err)

	body := readDocxPart(t, migrated, "word/document.xml")
	assert.Contains(t, body, "{{ cidade_de_residencia }}")
	assert.Contains(t, body, "{{ cpf_do_cliente }}")
	assert.NotContains(t, body, "<<")

	result, err := Scan(migrated)
	require.NoError(t, err)
	assert.Equal(t, SyntaxExpression, result.Syntax)
	assert.Equal(t, []string{"cidade_de_residencia", "cpf_do_cliente"}, result.RequiredNames())
}

func TestMigrateUsesSuppliedMapping(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/document.xml": docXML("<< Cidade >>"),
	})

	migrated, err := Migrate(doc, map[string]string{"Cidade": "cidade_cliente"})
	require.NoError(t, err)

	body := readDocxPart(t, migrated, "word/document.xml")
	assert.Contains(t, body, "{{ cidade_cliente }}")
}

func TestMigrateIsIdempotent(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/document.xml": docXML("<< Nome >> e {{ cpf }}"),
	})

	once, err := Migrate(doc, nil)
	require.NoError(t, err)
	twice, err := Migrate(once, nil)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMigrateLeavesNonTextPartsByteIdentical(t *testing.T) {
	styles := `<w:styles xmlns:w="x"><< nao migrar >></w:styles>`
	doc := buildDocx(t, map[string]string{
		"word/document.xml": docXML("<< Nome >>"),
		"word/styles.xml":   styles,
	})

	migrated, err := Migrate(doc, nil)
	require.NoError(t, err)

	assert.Equal(t, styles, readDocxPart(t, migrated, "word/styles.xml"))
	assert.Equal(t,
		readDocxPart(t, doc, "word/_rels/document.xml.rels"),
		readDocxPart(t, migrated, "word/_rels/document.xml.rels"))
}

func TestMigrationMapping(t *testing.T) {
	doc := buildDocx(t, map[string]string{
		"word/document.xml": docXML("<< Órgão Expedidor >> << Valor da causa >>"),
	})

	mapping, err := MigrationMapping(doc)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Órgão Expedidor": "orgao_expedidor",
		"Valor da causa":  "valor_da_causa",
	}, mapping)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Cidade de residência": "cidade_de_residencia",
		"CPF do cliente":       "cpf_do_cliente",
		"Órgão Expedidor":      "orgao_expedidor",
		"  valor -- total  ":   "valor_total",
		"ação judicial":        "acao_judicial",
		"___":                  "campo",
		"":                     "campo",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "slug for %q", in)
	}
}
