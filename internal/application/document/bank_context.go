package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/jurisdoc/backend/internal/domain/docgen"
	"github.com/jurisdoc/backend/internal/domain/registry"
	"github.com/jurisdoc/backend/internal/domain/shared"
)

// BankContextResolver fills bank-related placeholder values from the
// client's principal account and the curated bank descriptions. Caller
// supplied values always win; only empty keys are filled.
type BankContextResolver struct {
	accountRepo     registry.BankAccountRepository
	descriptionRepo registry.BankDescriptionRepository
}

// NewBankContextResolver creates a new BankContextResolver
func NewBankContextResolver(accountRepo registry.BankAccountRepository, descriptionRepo registry.BankDescriptionRepository) *BankContextResolver {
	return &BankContextResolver{
		accountRepo:     accountRepo,
		descriptionRepo: descriptionRepo,
	}
}

// ResolveClient fills the client identification keys older templates
// expect, then the bank keys.
func (r *BankContextResolver) ResolveClient(ctx context.Context, client *registry.Client, data map[string]any) error {
	docgen.FillMissing(data, "nome_completo", client.FullName)
	docgen.FillMissing(data, "cpf", client.CPF)
	docgen.FillMissing(data, "cidade", client.City)
	return r.Resolve(ctx, client, data)
}

// Resolve fills nome_banco, cnpj, endereco_banco and the legacy banco key
// for the given client. Clients without a principal account leave the
// context untouched.
func (r *BankContextResolver) Resolve(ctx context.Context, client *registry.Client, data map[string]any) error {
	account, err := r.accountRepo.FindPrincipal(ctx, client.ID)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil
		}
		return err
	}

	description, err := r.lookupDescription(ctx, account)
	if err != nil {
		return err
	}

	if description != nil {
		docgen.FillMissing(data, "nome_banco", description.EffectiveName())
		docgen.FillMissing(data, "cnpj", description.CNPJ)
		docgen.FillMissing(data, "endereco_banco", description.Address)
		docgen.FillMissing(data, "banco", legacyBankLine(description))
	} else {
		docgen.FillMissing(data, "nome_banco", account.BankName)
		docgen.FillMissing(data, "banco", account.BankName)
	}

	return nil
}

// lookupDescription resolves the description for an account: the active
// record for the exact bank code, else the active record matching the
// normalized bank name, else the most recently updated record for the
// identifier regardless of the active flag.
func (r *BankContextResolver) lookupDescription(ctx context.Context, account *registry.BankAccount) (*registry.BankDescription, error) {
	if account.BankCode != "" {
		description, err := r.descriptionRepo.FindActiveByBankID(ctx, account.BankCode)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if description != nil {
			return description, nil
		}
	}

	if account.BankName != "" {
		description, err := r.descriptionRepo.FindActiveByNormalizedName(ctx, registry.NormalizeBankName(account.BankName))
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if description != nil {
			return description, nil
		}
	}

	description, err := r.descriptionRepo.FindLatestByBankID(ctx, account.BankIdentifier())
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	return description, nil
}

// legacyBankLine builds the single-line bank presentation older templates
// print as one "banco" value.
func legacyBankLine(d *registry.BankDescription) string {
	parts := []string{d.EffectiveName()}
	if d.CNPJ != "" {
		parts = append(parts, fmt.Sprintf("CNPJ: %s", d.CNPJ))
	}
	if d.Address != "" {
		parts = append(parts, d.Address)
	}
	return strings.Join(parts, " — ")
}
