package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRequest query params para GET /api/ledger/balance.
// Center y Form son obligatorios; el resto estrecha el bucket.
type BalanceRequest struct {
	Center      string `query:"center" validate:"required"`
	Form        string `query:"form" validate:"required"`
	Status      string `query:"status"`
	BatchRef    string `query:"batch_ref"`
	CoffeeGrade string `query:"coffee_grade"`
}

// BalanceResponse saldo derivado de las entradas no canceladas.
type BalanceResponse struct {
	Center      string          `json:"center"`
	Form        string          `json:"form"`
	Status      string          `json:"status,omitempty"`
	BatchRef    string          `json:"batch_ref,omitempty"`
	CoffeeGrade string          `json:"coffee_grade,omitempty"`
	QtyKg       decimal.Decimal `json:"qty_kg"`
}

// MovementEntryResponse una entrada del ledger.
type MovementEntryResponse struct {
	ID               string          `json:"id"`
	Center           string          `json:"center"`
	FromCenter       string          `json:"from_center,omitempty"`
	ToCenter         string          `json:"to_center,omitempty"`
	Status           string          `json:"status"`
	CoffeeForm       string          `json:"coffee_form"`
	CoffeeGrade      string          `json:"coffee_grade,omitempty"`
	QtyKg            decimal.Decimal `json:"qty_kg"`
	EntryType        string          `json:"entry_type"`
	BatchRef         string          `json:"batch_ref,omitempty"`
	ReferenceDoctype string          `json:"reference_doctype"`
	ReferenceName    string          `json:"reference_name"`
	EntryRef         string          `json:"entry_ref"`
	IsCancelled      bool            `json:"is_cancelled"`
	IsReversal       bool            `json:"is_reversal"`
	Remarks          string          `json:"remarks,omitempty"`
	PostingTime      time.Time       `json:"posting_time"`
}

// StockBucketDTO fila del resumen de stock de un centro.
type StockBucketDTO struct {
	Status   string          `json:"status"`
	Form     string          `json:"form"`
	BatchRef string          `json:"batch_ref,omitempty"`
	QtyKg    decimal.Decimal `json:"qty_kg"`
}

// CenterStockOverviewResponse stock de un centro agrupado por bucket.
type CenterStockOverviewResponse struct {
	Center  string           `json:"center"`
	Buckets []StockBucketDTO `json:"buckets"`
}
