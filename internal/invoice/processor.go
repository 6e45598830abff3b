// invoice/processor.go
package invoice

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/internal/mail"
	"github.com/crestlinesc/fbserver/pkg/fbclient"
)

// Processing result statuses.
const (
	StatusProcessed = "processed"
	StatusIgnored   = "ignored"
)

// Result reports what happened to one webhook-delivered invoice.
type Result struct {
	Status    string `json:"status"`
	InvoiceID string `json:"invoiceId"`
	Message   string `json:"message,omitempty"`
}

// Processor converts Kforce invoices to CSV and re-attaches the result.
type Processor struct {
	vendor           VendorProfile
	kforceCustomerID string
	clientEmail      string
	senderEmail      string
	mailer           mail.Sender
	logger           *zap.Logger
}

// NewProcessor creates an invoice processor.
func NewProcessor(vendor VendorProfile, kforceCustomerID, clientEmail, senderEmail string, mailer mail.Sender, logger *zap.Logger) *Processor {
	return &Processor{
		vendor:           vendor,
		kforceCustomerID: kforceCustomerID,
		clientEmail:      clientEmail,
		senderEmail:      senderEmail,
		mailer:           mailer,
		logger:           logger,
	}
}

// Process fetches the invoice, generates the Kforce CSV, uploads it as an
// attachment, links it back onto the invoice and hands the email off to the
// sender. Invoices for other customers are reported as ignored, not failed.
func (p *Processor) Process(ctx context.Context, client *fbclient.Client, invoiceID string) (*Result, error) {
	inv, err := client.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", invoiceID, err)
	}

	if inv.CustomerID != p.kforceCustomerID {
		return &Result{
			Status:    StatusIgnored,
			InvoiceID: invoiceID,
			Message:   "Not for Kforce client",
		}, nil
	}

	csvData, err := KforceCSV(inv, p.vendor)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV for invoice %s: %w", invoiceID, err)
	}

	filename := fmt.Sprintf("kforce-invoice-%s.csv", invoiceID)
	attachment, err := client.UploadAttachment(ctx, filename, []byte(csvData))
	if err != nil {
		return nil, fmt.Errorf("failed to upload attachment: %w", err)
	}

	patch := fbclient.InvoicePatch{
		Attachments: []fbclient.Attachment{
			{
				JWT:       attachment.JWT,
				MediaType: attachment.MediaType,
			},
		},
	}
	if _, err := client.UpdateInvoice(ctx, invoiceID, patch); err != nil {
		return nil, fmt.Errorf("failed to attach CSV to invoice: %w", err)
	}

	msg := mail.Message{
		To:             p.clientEmail,
		From:           p.senderEmail,
		Subject:        fmt.Sprintf("Invoice %s - CSV for Kforce", invoiceID),
		Body:           fmt.Sprintf("Please find attached the CSV file for invoice %s.", invoiceID),
		AttachmentName: filename,
		Attachment:     []byte(csvData),
	}
	if err := p.mailer.Send(ctx, msg); err != nil {
		// Delivery is best effort; the invoice itself is already updated.
		p.logger.Warn("failed to send invoice email", zap.String("invoice_id", invoiceID), zap.Error(err))
	}

	p.logger.Info("invoice processed",
		zap.String("invoice_id", invoiceID),
		zap.String("attachment", filename))

	return &Result{
		Status:    StatusProcessed,
		InvoiceID: invoiceID,
	}, nil
}
