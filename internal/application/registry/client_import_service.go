package registry

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
	csvimport "github.com/jurisdoc/backend/internal/infrastructure/import"
)

// maxImportErrors caps how many row errors are reported back per file.
const maxImportErrors = 100

// requiredImportHeaders are the columns an import file must carry. The
// column names mirror the CSV export so an exported file round-trips.
var requiredImportHeaders = []string{"nome_completo", "cpf"}

// ClientImportResult summarizes a CSV import run.
type ClientImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	ImportedRows int                  `json:"imported_rows"`
	SkippedRows  int                  `json:"skipped_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated"`
	TotalErrors  int                  `json:"total_errors"`
}

// ClientImportService imports clients in bulk from CSV files
type ClientImportService struct {
	clientRepo registry.ClientRepository
}

// NewClientImportService creates a new ClientImportService
func NewClientImportService(clientRepo registry.ClientRepository) *ClientImportService {
	return &ClientImportService{
		clientRepo: clientRepo,
	}
}

// validationRules returns the per-column rules applied to each row
func (s *ClientImportService) validationRules() []csvimport.FieldRule {
	return []csvimport.FieldRule{
		csvimport.Field("nome_completo").Required().String().MinLength(1).MaxLength(200).Build(),
		csvimport.Field("cpf").Required().String().Custom(validateCPFColumn).Build(),
		csvimport.Field("rg").String().MaxLength(20).Build(),
		csvimport.Field("orgao_emissor").String().MaxLength(50).Build(),
		csvimport.Field("idoso").String().Custom(validateBoolColumn).Build(),
		csvimport.Field("logradouro").String().MaxLength(200).Build(),
		csvimport.Field("numero").String().MaxLength(20).Build(),
		csvimport.Field("bairro").String().MaxLength(100).Build(),
		csvimport.Field("cidade").String().MaxLength(100).Build(),
		csvimport.Field("cep").String().Custom(validateCEPColumn).Build(),
		csvimport.Field("uf").String().Custom(validateUFColumn).Build(),
	}
}

// Import parses, validates, and persists clients from a CSV stream.
// Rows that fail validation or collide on CPF are reported in the
// result without aborting the run. A repository failure aborts.
func (s *ClientImportService) Import(ctx context.Context, r io.Reader) (*ClientImportResult, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.ValidateHeaders(requiredImportHeaders); len(missing) > 0 {
		return nil, shared.NewDomainError("MISSING_COLUMNS",
			fmt.Sprintf("CSV file is missing required columns: %s", strings.Join(missing, ", ")))
	}

	result := &ClientImportResult{}
	errors := csvimport.NewErrorCollection(maxImportErrors)
	validator := csvimport.NewFieldValidator(s.validationRules(), maxImportErrors)
	seenCPFs := make(map[string]int)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := parser.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			result.SkippedRows++
			continue
		}
		result.TotalRows++

		validator.Reset()
		if !validator.ValidateRow(row) {
			for _, rowErr := range validator.Errors().Errors() {
				errors.Add(rowErr)
			}
			result.ErrorRows++
			continue
		}

		cpf := registry.OnlyDigits(row.Get("cpf"))
		if firstLine, seen := seenCPFs[cpf]; seen {
			errors.Add(csvimport.NewRowErrorWithValue(row.LineNumber, "cpf",
				csvimport.ErrCodeImportDuplicateInFile,
				fmt.Sprintf("CPF already appears on line %d of this file", firstLine), cpf))
			result.ErrorRows++
			continue
		}
		seenCPFs[cpf] = row.LineNumber

		if err := s.importRow(ctx, row, cpf, result, errors); err != nil {
			return nil, err
		}
	}

	if result.TotalRows == 0 {
		return nil, csvimport.ErrNoDataRows
	}

	result.Errors = errors.Errors()
	result.IsTruncated = errors.IsTruncated()
	result.TotalErrors = errors.TotalCount()

	return result, nil
}

// importRow persists a single validated row. Validation failures land
// in the error collection; only infrastructure errors propagate.
func (s *ClientImportService) importRow(
	ctx context.Context,
	row *csvimport.Row,
	cpf string,
	result *ClientImportResult,
	errors *csvimport.ErrorCollection,
) error {
	existing, err := s.clientRepo.FindByCPF(ctx, cpf)
	if err != nil && err != shared.ErrNotFound {
		return fmt.Errorf("failed to check existing client: %w", err)
	}
	if existing != nil {
		errors.AddDuplicateError(row.LineNumber, "cpf", cpf, true)
		result.ErrorRows++
		return nil
	}

	client, err := registry.NewClient(row.Get("nome_completo"), cpf)
	if err != nil {
		errors.AddValidationError(row.LineNumber, "nome_completo", csvimport.ErrCodeImportValidation, err.Error())
		result.ErrorRows++
		return nil
	}

	rg := strings.TrimSpace(row.Get("rg"))
	rgIssuer := strings.TrimSpace(row.Get("orgao_emissor"))
	qualification := strings.TrimSpace(row.Get("qualificacao"))
	if rg != "" || rgIssuer != "" || qualification != "" {
		if err := client.Update(client.FullName, rg, rgIssuer, qualification); err != nil {
			errors.AddValidationError(row.LineNumber, "rg", csvimport.ErrCodeImportValidation, err.Error())
			result.ErrorRows++
			return nil
		}
	}

	street := strings.TrimSpace(row.Get("logradouro"))
	number := strings.TrimSpace(row.Get("numero"))
	district := strings.TrimSpace(row.Get("bairro"))
	city := strings.TrimSpace(row.Get("cidade"))
	cep := strings.TrimSpace(row.Get("cep"))
	uf := strings.TrimSpace(row.Get("uf"))
	if street != "" || number != "" || district != "" || city != "" || cep != "" || uf != "" {
		if err := client.SetAddress(street, number, district, city, cep, uf); err != nil {
			errors.AddValidationError(row.LineNumber, "cep", csvimport.ErrCodeImportValidation, err.Error())
			result.ErrorRows++
			return nil
		}
	}

	if parseImportBool(row.Get("idoso")) {
		client.MarkElderly(true)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	result.ImportedRows++

	return nil
}

func validateCPFColumn(value string) error {
	return registry.ValidateCPF(registry.OnlyDigits(value))
}

func validateCEPColumn(value string) error {
	return registry.ValidateCEP(registry.OnlyDigits(value))
}

func validateUFColumn(value string) error {
	return registry.ValidateUF(strings.ToUpper(strings.TrimSpace(value)))
}

// validateBoolColumn accepts the usual boolean spellings plus the
// Portuguese ones a spreadsheet export produces.
func validateBoolColumn(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "false", "1", "0", "yes", "no", "sim", "nao", "não":
		return nil
	default:
		return fmt.Errorf("invalid boolean value: %s", value)
	}
}

func parseImportBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "sim":
		return true
	default:
		return false
	}
}
