package billing

import (
	"context"
	"fmt"
	"path"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/pkg/jwt"
)

// InvoiceFilesUseCase URLs firmadas para descargar los archivos de una factura.
type InvoiceFilesUseCase struct {
	invoices  repository.InvoiceRepository
	clients   repository.ClientRepository
	artifacts *ArtifactRenderer
	store     ArtifactStore
	signer    URLSigner
}

// NewInvoiceFilesUseCase construye el caso de uso.
func NewInvoiceFilesUseCase(
	invoices repository.InvoiceRepository,
	clients repository.ClientRepository,
	artifacts *ArtifactRenderer,
	store ArtifactStore,
	signer URLSigner,
) *InvoiceFilesUseCase {
	return &InvoiceFilesUseCase{invoices: invoices, clients: clients, artifacts: artifacts, store: store, signer: signer}
}

// Files devuelve las URLs del PDF y el XLSX de la factura number.
// Permitido al personal interno y a los usuarios del cliente dueño de la factura.
// Si los archivos aún no existen se generan en este momento.
func (uc *InvoiceFilesUseCase) Files(ctx context.Context, who jwt.Identity, number string) (*dto.InvoiceFilesDTO, error) {
	inv, err := uc.invoices.GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("files: factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	staff := who.Role == entity.RoleAdmin || who.Role == entity.RoleCare
	if !staff && inv.ClientID != who.ClientID {
		return nil, domain.ErrForbidden
	}

	if !inv.HasArtifacts() {
		client, err := uc.clients.GetByID(ctx, inv.ClientID)
		if err != nil {
			return nil, fmt.Errorf("files: cliente: %w", err)
		}
		if client == nil {
			client = &entity.Client{ID: inv.ClientID, Name: inv.ClientID}
		}
		if err := uc.artifacts.Render(ctx, inv, client, nil); err != nil {
			return nil, err
		}
	}

	pdfURL, exp, err := uc.signer.Sign(inv.PDFKey, KindPDF)
	if err != nil {
		return nil, err
	}
	xlsxURL, _, err := uc.signer.Sign(inv.XLSXKey, KindXLSX)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceFilesDTO{Number: inv.Number, PDFURL: pdfURL, XLSXURL: xlsxURL, ExpiresAt: exp}, nil
}

// Open resuelve un token de descarga. Token inválido o vencido: domain.ErrUnauthorized.
func (uc *InvoiceFilesUseCase) Open(ctx context.Context, token string) (Artifact, string, error) {
	key, _, err := uc.signer.Verify(token)
	if err != nil {
		return Artifact{}, "", fmt.Errorf("%v: %w", err, domain.ErrUnauthorized)
	}
	a, err := uc.store.Get(ctx, key)
	if err != nil {
		return Artifact{}, "", err
	}
	return a, path.Base(key), nil
}
