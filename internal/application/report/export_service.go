package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jurisdoc/backend/internal/domain/contract"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// exportPageSize is how many rows are loaded per repository page while
// streaming a CSV export.
const exportPageSize = 500

var clientCSVHeader = []string{
	"id", "nome_completo", "cpf", "rg", "orgao_emissor", "qualificacao",
	"idoso", "logradouro", "numero", "bairro", "cidade", "cep", "uf",
	"criado_em",
}

var contractCSVHeader = []string{
	"id", "cliente_id", "numero", "banco", "codigo_banco", "status",
	"origem", "data_inclusao", "primeiro_desconto", "parcelas",
	"valor_parcela", "iof", "valor_emprestado", "valor_liberado",
	"valor_total", "criado_em",
}

// ExportService streams CSV exports of the registry and contract data
type ExportService struct {
	clientRepo   registry.ClientRepository
	contractRepo contract.Repository
}

// NewExportService creates a new ExportService
func NewExportService(clientRepo registry.ClientRepository, contractRepo contract.Repository) *ExportService {
	return &ExportService{
		clientRepo:   clientRepo,
		contractRepo: contractRepo,
	}
}

// ExportClients writes all clients as CSV to w, ordered by name
func (s *ExportService) ExportClients(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clientCSVHeader); err != nil {
		return err
	}

	filter := shared.Filter{
		Page:     1,
		PageSize: exportPageSize,
		OrderBy:  "full_name",
		OrderDir: "asc",
		Filters:  make(map[string]any),
	}

	for {
		clients, err := s.clientRepo.FindAll(ctx, filter)
		if err != nil {
			return err
		}

		for i := range clients {
			if err := cw.Write(clientRow(&clients[i])); err != nil {
				return err
			}
		}

		if len(clients) < filter.PageSize {
			break
		}
		filter.Page++
	}

	cw.Flush()
	return cw.Error()
}

// ExportContracts writes all contracts as CSV to w, ordered by number
func (s *ExportService) ExportContracts(ctx context.Context, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(contractCSVHeader); err != nil {
		return err
	}

	filter := shared.Filter{
		Page:     1,
		PageSize: exportPageSize,
		OrderBy:  "number",
		OrderDir: "asc",
		Filters:  make(map[string]any),
	}

	for {
		contracts, err := s.contractRepo.FindAll(ctx, filter)
		if err != nil {
			return err
		}

		for i := range contracts {
			if err := cw.Write(contractRow(&contracts[i])); err != nil {
				return err
			}
		}

		if len(contracts) < filter.PageSize {
			break
		}
		filter.Page++
	}

	cw.Flush()
	return cw.Error()
}

func clientRow(c *registry.Client) []string {
	return []string{
		c.ID.String(),
		c.FullName,
		c.CPF,
		c.RG,
		c.RGIssuer,
		c.Qualification,
		formatBool(c.Elderly),
		c.Street,
		c.Number,
		c.District,
		c.City,
		c.CEP,
		c.UF,
		c.CreatedAt.Format(time.RFC3339),
	}
}

func contractRow(c *contract.Contract) []string {
	return []string{
		c.ID.String(),
		c.ClientID.String(),
		c.Number,
		c.BankName,
		c.BankCode,
		string(c.Status),
		c.Origin,
		formatDate(c.InclusionDate),
		formatDate(c.FirstDiscountDate),
		strconv.Itoa(c.Installments),
		c.InstallmentValue.StringFixed(2),
		c.IOF.StringFixed(2),
		c.LoanedValue.StringFixed(2),
		c.ReleasedValue.StringFixed(2),
		c.TotalValue().StringFixed(2),
		c.CreatedAt.Format(time.RFC3339),
	}
}

func formatBool(b bool) string {
	return fmt.Sprintf("%t", b)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
