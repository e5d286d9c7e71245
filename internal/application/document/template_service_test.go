package document

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/docgen"
	"github.com/jurisdoc/backend/internal/domain/document"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_Upload_Success(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	content := buildDocx(t, "Cliente: {{ nome_completo }}")

	s.templateRepo.On("FindByName", ctx, "procuracao").Return(nil, shared.ErrNotFound)
	s.templateRepo.On("Save", ctx, mock.AnythingOfType("*document.Template")).Return(nil)

	result, err := s.templates.Upload(ctx, UploadTemplateInput{
		Name:     "procuracao",
		Filename: "procuracao.docx",
		Content:  content,
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "procuracao", result.Name)
	assert.Equal(t, 1, result.Revision)
	assert.True(t, result.Active)
	s.templateRepo.AssertExpectations(t)
}

func TestTemplateService_Upload_NameDefaultsToFilename(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	content := buildDocx(t, "corpo")

	s.templateRepo.On("FindByName", ctx, "contrato_inicial").Return(nil, shared.ErrNotFound)
	s.templateRepo.On("Save", ctx, mock.AnythingOfType("*document.Template")).Return(nil)

	result, err := s.templates.Upload(ctx, UploadTemplateInput{
		Filename: "contrato_inicial.docx",
		Content:  content,
	})

	assert.NoError(t, err)
	assert.Equal(t, "contrato_inicial", result.Name)
}

func TestTemplateService_Upload_RejectsWrongExtension(t *testing.T) {
	s := newTestServices(t)

	result, err := s.templates.Upload(context.Background(), UploadTemplateInput{
		Name:     "planilha",
		Filename: "planilha.xlsx",
		Content:  []byte("not a docx"),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FILE_TYPE", domainErr.Code)
}

func TestTemplateService_Upload_RejectsCorruptArchive(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	s.templateRepo.On("FindByName", ctx, "quebrado").Return(nil, shared.ErrNotFound)

	result, err := s.templates.Upload(ctx, UploadTemplateInput{
		Name:     "quebrado",
		Filename: "quebrado.docx",
		Content:  []byte("definitely not a zip"),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_FILE", domainErr.Code)
}

func TestTemplateService_Upload_DuplicateName(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	existing, err := document.NewTemplate("procuracao", "templates/x.docx")
	require.NoError(t, err)

	s.templateRepo.On("FindByName", ctx, "procuracao").Return(existing, nil)

	result, err := s.templates.Upload(ctx, UploadTemplateInput{
		Name:     "procuracao",
		Filename: "procuracao.docx",
		Content:  buildDocx(t, "x"),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func uploadedTemplate(t *testing.T, s *testServices, body string) *document.Template {
	t.Helper()
	ctx := context.Background()
	content := buildDocx(t, body)

	key := "templates/" + uuid.NewString() + ".docx"
	require.NoError(t, s.blobStore.Put(ctx, key, content, DocxContentType))

	template, err := document.NewTemplate("modelo-"+uuid.NewString()[:8], key)
	require.NoError(t, err)
	return template
}

func TestTemplateService_Fields_ScansAndCaches(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "{{ nome_completo }} CPF {{ cpf }}")

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Fields(ctx, template.ID)

	assert.NoError(t, err)
	assert.Equal(t, docgen.SyntaxExpression, result.Scan.Syntax)
	assert.Len(t, result.Scan.Fields, 2)
	assert.Equal(t, template.Revision, result.Revision)

	// Second call must come from the cache, not storage
	require.NoError(t, s.blobStore.Delete(ctx, template.StorageKey))
	again, err := s.templates.Fields(ctx, template.ID)
	assert.NoError(t, err)
	assert.Equal(t, result.Scan.Syntax, again.Scan.Syntax)
}

func TestTemplateService_Fields_MissingFile(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template, err := document.NewTemplate("fantasma", "templates/missing.docx")
	require.NoError(t, err)

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Fields(ctx, template.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var pipelineErr *docgen.PipelineError
	assert.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, docgen.ErrKindTemplateNotFound, pipelineErr.Kind)
}

func TestTemplateService_Migrate_RewritesLegacyTokens(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "Nome: << nome completo >>")

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)
	s.templateRepo.On("Save", ctx, template).Return(nil)

	result, err := s.templates.Migrate(ctx, template.ID)

	assert.NoError(t, err)
	assert.True(t, result.Migrated)
	assert.NotEmpty(t, result.Mapping)
	assert.Equal(t, 2, result.Revision)

	// The stored file now scans as expression syntax
	migrated, err := s.blobStore.Get(ctx, template.StorageKey)
	require.NoError(t, err)
	scan, err := docgen.Scan(migrated)
	require.NoError(t, err)
	assert.Equal(t, docgen.SyntaxExpression, scan.Syntax)
	s.templateRepo.AssertExpectations(t)
}

func TestTemplateService_Migrate_NoopWithoutLegacyTokens(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "{{ nome_completo }}")

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Migrate(ctx, template.ID)

	assert.NoError(t, err)
	assert.False(t, result.Migrated)
	assert.Empty(t, result.Mapping)
	assert.Equal(t, 1, result.Revision)
}

func TestTemplateService_Render_Success(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "Cliente: {{ nome_completo }}")

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Render(ctx, template.ID, RenderTemplateRequest{
		Context: map[string]any{"nome_completo": "Maria da Silva"},
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Contains(t, docxText(t, result.Content), "Cliente: Maria da Silva")
	assert.Equal(t, template.Name+".docx", result.Filename)
}

func TestTemplateService_Render_WithClientPrefill(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "{{ nome_completo }}, CPF {{ cpf }}")
	client := newTestClientFixture()

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)
	s.clientRepo.On("FindByID", ctx, client.ID).Return(client, nil)
	s.accountRepo.On("FindPrincipal", ctx, client.ID).Return(nil, shared.ErrNotFound)

	result, err := s.templates.Render(ctx, template.ID, RenderTemplateRequest{
		ClientID: &client.ID,
	})

	assert.NoError(t, err)
	text := docxText(t, result.Content)
	assert.Contains(t, text, "Maria da Silva")
	assert.Contains(t, text, "52998224725")
}

func TestTemplateService_Render_StrictRejectsMissingVariables(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "{{ nome_completo }} e {{ cpf }}")
	strict := true

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Render(ctx, template.ID, RenderTemplateRequest{
		Context: map[string]any{"nome_completo": "Maria"},
		Strict:  &strict,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var pipelineErr *docgen.PipelineError
	assert.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, docgen.ErrKindMissingVariables, pipelineErr.Kind)
	assert.Equal(t, []string{"cpf"}, pipelineErr.Missing)
}

func TestTemplateService_Render_NonStrictLeavesMissingBlank(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "Nome: {{ nome_completo }}.")

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Render(ctx, template.ID, RenderTemplateRequest{})

	assert.NoError(t, err)
	assert.Contains(t, docxText(t, result.Content), "Nome: .")
}

func TestTemplateService_Render_BlocksLegacyTemplate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "<< nome completo >>")

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Render(ctx, template.ID, RenderTemplateRequest{})

	assert.Error(t, err)
	assert.Nil(t, result)
	var pipelineErr *docgen.PipelineError
	assert.ErrorAs(t, err, &pipelineErr)
	assert.Equal(t, docgen.ErrKindUnmigratedSyntax, pipelineErr.Kind)
}

func TestTemplateService_Render_InactiveTemplate(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	template := uploadedTemplate(t, s, "{{ x }}")
	template.Deactivate()

	s.templateRepo.On("FindByID", ctx, template.ID).Return(template, nil)

	result, err := s.templates.Render(ctx, template.ID, RenderTemplateRequest{})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		template  string
		want      string
	}{
		{"empty falls back to template name", "", "procuracao", "procuracao.docx"},
		{"extension appended", "minha peticao", "x", "minha peticao.docx"},
		{"existing extension kept", "saida.docx", "x", "saida.docx"},
		{"path characters stripped", "../../etc/passwd", "x", "_.._etc_passwd.docx"},
		{"slashes collapse to underscore", "///", "", "_.docx"},
		{"nothing at all falls back", "", "", "documento.docx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputFilename(tt.requested, tt.template))
		})
	}
}
