package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/avollmer/stockdesk/internal/gateway"
	"github.com/avollmer/stockdesk/internal/model"
)

// ReceiptRequest is the body of a PDF generation call: either a full order,
// or a single article together with a customer.
type ReceiptRequest struct {
	Order    *model.Order    `json:"order,omitempty"`
	Articles *model.Article  `json:"articles,omitempty"`
	Customer *model.Customer `json:"customer,omitempty"`
}

// Filename suggests a local file name for the generated receipt.
func (r ReceiptRequest) Filename() string {
	if r.Order != nil {
		return fmt.Sprintf("order_%d.pdf", r.Order.OrderID)
	}
	if r.Articles != nil {
		return fmt.Sprintf("article_%d.pdf", r.Articles.ArticleID)
	}
	return "receipt.pdf"
}

// TransferService covers CSV import and PDF receipt generation.
type TransferService struct {
	gw     *gateway.Client
	logger *slog.Logger
}

// NewTransferService creates an import/export service on top of the gateway.
func NewTransferService(gw *gateway.Client, logger *slog.Logger) *TransferService {
	return &TransferService{gw: gw, logger: logger.With("component", "service/transfer")}
}

// ImportArticleCSV uploads a CSV file of articles as a multipart form.
func (s *TransferService) ImportArticleCSV(ctx context.Context, filename string, file io.Reader) error {
	if err := s.gw.PostMultipart(ctx, "/articles/import_csv", "file", filename, file, nil); err != nil {
		s.logger.ErrorContext(ctx, "Failed to import CSV", "file", filename, "error", err)
		return err
	}
	return nil
}

// GenerateReceipt asks the backend to render a PDF receipt and returns the
// raw bytes together with a suggested file name.
func (s *TransferService) GenerateReceipt(ctx context.Context, req ReceiptRequest) ([]byte, string, error) {
	data, err := s.gw.PostBinary(ctx, "/operations/pdf", req)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate receipt", "error", err)
		return nil, "", err
	}
	return data, req.Filename(), nil
}
