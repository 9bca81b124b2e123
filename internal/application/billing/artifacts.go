package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// ArtifactRenderer genera el PDF y el XLSX de una factura, los guarda y registra sus claves.
type ArtifactRenderer struct {
	invoices  repository.InvoiceRepository
	shipments repository.ShipmentRepository
	pdf       InvoicePDFGenerator
	xlsx      InvoiceXLSXGenerator
	store     ArtifactStore
	currency  string
}

// NewArtifactRenderer construye el generador de archivos.
func NewArtifactRenderer(
	invoices repository.InvoiceRepository,
	shipments repository.ShipmentRepository,
	pdf InvoicePDFGenerator,
	xlsx InvoiceXLSXGenerator,
	store ArtifactStore,
	currency string,
) *ArtifactRenderer {
	if currency == "" {
		currency = "USD"
	}
	return &ArtifactRenderer{invoices: invoices, shipments: shipments, pdf: pdf, xlsx: xlsx, store: store, currency: currency}
}

// ArtifactKey invoices/<número>.<kind>.
func ArtifactKey(number, kind string) string {
	return "invoices/" + number + "." + kind
}

// Render genera ambos archivos en paralelo. shipments nil se cargan por invoiceID.
// Deja inv.PDFKey e inv.XLSXKey actualizados.
func (r *ArtifactRenderer) Render(ctx context.Context, inv *entity.Invoice, client *entity.Client, shipments []*entity.Shipment) error {
	lines, err := r.invoices.GetLineItems(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("artifacts: líneas: %w", err)
	}
	if shipments == nil {
		shipments, err = r.shipments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("artifacts: envíos: %w", err)
		}
	}
	doc := InvoiceDocument{Invoice: inv, Client: client, Lines: lines, Shipments: shipments, Currency: r.currency}

	pdfKey := ArtifactKey(inv.Number, KindPDF)
	xlsxKey := ArtifactKey(inv.Number, KindXLSX)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := r.pdf.GenerateInvoicePDF(gctx, doc)
		if err != nil {
			return fmt.Errorf("artifacts: pdf: %w", err)
		}
		return r.store.Put(gctx, pdfKey, Artifact{Data: data, ContentType: contentTypePDF})
	})
	g.Go(func() error {
		data, err := r.xlsx.GenerateInvoiceXLSX(gctx, doc)
		if err != nil {
			return fmt.Errorf("artifacts: xlsx: %w", err)
		}
		return r.store.Put(gctx, xlsxKey, Artifact{Data: data, ContentType: contentTypeXLSX})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := r.invoices.SetArtifacts(ctx, inv.ID, pdfKey, xlsxKey); err != nil {
		return fmt.Errorf("artifacts: registrar claves: %w", err)
	}
	inv.PDFKey, inv.XLSXKey = pdfKey, xlsxKey
	return nil
}
