package document

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jurisdoc/backend/internal/domain/contract"
	"github.com/jurisdoc/backend/internal/domain/document"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	"github.com/jurisdoc/backend/internal/infrastructure/cache"
	"github.com/jurisdoc/backend/internal/infrastructure/config"
	"github.com/jurisdoc/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockTemplateRepository is a mock implementation of TemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByName(ctx context.Context, name string) (*document.Template, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Template, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]document.Template), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, template *document.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPetitionRepository is a mock implementation of PetitionRepository
type MockPetitionRepository struct {
	mock.Mock
}

func (m *MockPetitionRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Petition, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*document.Petition), args.Error(1)
}

func (m *MockPetitionRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]document.Petition, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]document.Petition), args.Error(1)
}

func (m *MockPetitionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Petition, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]document.Petition), args.Error(1)
}

func (m *MockPetitionRepository) Save(ctx context.Context, petition *document.Petition) error {
	args := m.Called(ctx, petition)
	return args.Error(0)
}

func (m *MockPetitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPetitionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockClientRepository) FindByCPF(ctx context.Context, cpf string) (*registry.Client, error) {
	args := m.Called(ctx, cpf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockClientRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.Client, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *registry.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBankAccountRepository is a mock implementation of BankAccountRepository
type MockBankAccountRepository struct {
	mock.Mock
}

func (m *MockBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]registry.BankAccount, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindPrincipal(ctx context.Context, clientID uuid.UUID) (*registry.BankAccount, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BankAccount, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.BankAccount), args.Error(1)
}

func (m *MockBankAccountRepository) Save(ctx context.Context, account *registry.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockBankAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBankAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockBankDescriptionRepository is a mock implementation of BankDescriptionRepository
type MockBankDescriptionRepository struct {
	mock.Mock
}

func (m *MockBankDescriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.BankDescription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindActiveByBankID(ctx context.Context, bankID string) (*registry.BankDescription, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindLatestByBankID(ctx context.Context, bankID string) (*registry.BankDescription, error) {
	args := m.Called(ctx, bankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindByBankID(ctx context.Context, bankID string) ([]registry.BankDescription, error) {
	args := m.Called(ctx, bankID)
	return args.Get(0).([]registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindActiveByNormalizedName(ctx context.Context, normalized string) (*registry.BankDescription, error) {
	args := m.Called(ctx, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]registry.BankDescription, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) Save(ctx context.Context, description *registry.BankDescription) error {
	args := m.Called(ctx, description)
	return args.Error(0)
}

func (m *MockBankDescriptionRepository) ActivateExclusively(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) (*registry.BankDescription, error) {
	args := m.Called(ctx, id, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.BankDescription), args.Error(1)
}

func (m *MockBankDescriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBankDescriptionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockContractRepository is a mock implementation of contract.Repository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*contract.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]contract.Contract, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByClientAndIDs(ctx context.Context, clientID uuid.UUID, ids []uuid.UUID) ([]contract.Contract, error) {
	args := m.Called(ctx, clientID, ids)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, number string) (*contract.Contract, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contract.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]contract.Contract, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]contract.Contract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *contract.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Test fixtures
// =============================================================================

// testServices wires a TemplateService and PetitionService against a
// temp-dir blob store, an in-memory fields cache and mock repositories.
type testServices struct {
	templates    *TemplateService
	petitions    *PetitionService
	templateRepo *MockTemplateRepository
	petitionRepo *MockPetitionRepository
	clientRepo   *MockClientRepository
	accountRepo  *MockBankAccountRepository
	descRepo     *MockBankDescriptionRepository
	contractRepo *MockContractRepository
	blobStore    *storage.LocalBlobStore
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	blobStore, err := storage.NewLocalBlobStore(t.TempDir())
	require.NoError(t, err)

	fieldsCache := cache.NewInMemoryFieldsCache()
	t.Cleanup(func() { _ = fieldsCache.Close() })

	s := &testServices{
		templateRepo: new(MockTemplateRepository),
		petitionRepo: new(MockPetitionRepository),
		clientRepo:   new(MockClientRepository),
		accountRepo:  new(MockBankAccountRepository),
		descRepo:     new(MockBankDescriptionRepository),
		contractRepo: new(MockContractRepository),
		blobStore:    blobStore,
	}

	resolver := NewBankContextResolver(s.accountRepo, s.descRepo)
	s.templates = NewTemplateService(
		s.templateRepo, s.clientRepo, blobStore, fieldsCache, resolver, nil,
		config.StorageConfig{}, config.RenderConfig{},
	)
	s.petitions = NewPetitionService(
		s.petitionRepo, s.templateRepo, s.clientRepo, s.contractRepo, blobStore, s.templates,
	)

	return s
}

const minimalContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

// buildDocx assembles a minimal in-memory .docx whose body is one run of
// the given text.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:r><w:t xml:space="preserve">` + body + `</w:t></w:r></w:p></w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"[Content_Types].xml": minimalContentTypes,
		"word/document.xml":   documentXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// docxText extracts the main document part of a rendered archive.
func docxText(t *testing.T, doc []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(doc), int64(len(doc)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var sb bytes.Buffer
		_, err = sb.ReadFrom(rc)
		require.NoError(t, err)
		return sb.String()
	}
	t.Fatal("word/document.xml not found")
	return ""
}

func newTestClientFixture() *registry.Client {
	client, err := registry.NewClient("Maria da Silva", "52998224725")
	if err != nil {
		panic(err)
	}
	return client
}
