// Package domain defines the core domain models for the dispute caller.
package domain

// BillFields is the structured record produced by bill-document extraction.
// Extraction is best effort: every field may be empty.
type BillFields struct {
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	Company         string   `json:"company,omitempty"`
	CustomerName    string   `json:"customerName,omitempty"`
	AccountNumber   string   `json:"accountNumber,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	BillType        string   `json:"billType,omitempty"`
	TransactionID   string   `json:"transactionId,omitempty"`
	ChargeDate      string   `json:"chargeDate,omitempty"`
	DueDate         string   `json:"dueDate,omitempty"`
	BillingPeriod   string   `json:"billingPeriod,omitempty"`
	PreviousBalance *float64 `json:"previousBalance,omitempty"`
	CurrentCharges  *float64 `json:"currentCharges,omitempty"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`
}

// DisputeContext holds the bill facts used to personalize dialogue for one
// dispute. It is created once and read-only for the duration of any call that
// references it. The JSON form doubles as the URL-carried "data" payload, so
// field names are part of the webhook contract.
type DisputeContext struct {
	DisputeID       string   `json:"disputeId"`
	Company         string   `json:"company,omitempty"`
	CustomerName    string   `json:"customerName,omitempty"`
	AccountNumber   string   `json:"accountNumber,omitempty"`
	Amount          *float64 `json:"amount,omitempty"`
	BillType        string   `json:"billType,omitempty"`
	TransactionID   string   `json:"transactionId,omitempty"`
	ChargeDate      string   `json:"chargeDate,omitempty"`
	DueDate         string   `json:"dueDate,omitempty"`
	BillingPeriod   string   `json:"billingPeriod,omitempty"`
	PreviousBalance *float64 `json:"previousBalance,omitempty"`
	CurrentCharges  *float64 `json:"currentCharges,omitempty"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`
	PhoneNumber     string   `json:"phoneNumber,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// GenericContext returns the minimal fallback context used when a webhook
// turn arrives for a dispute the process no longer knows about.
func GenericContext(disputeID string) DisputeContext {
	return DisputeContext{
		DisputeID:   disputeID,
		Company:     "Customer Service",
		Description: "Billing dispute",
	}
}

// ContextFromBill builds a DisputeContext from extracted bill fields.
func ContextFromBill(disputeID, description string, b BillFields) DisputeContext {
	return DisputeContext{
		DisputeID:       disputeID,
		Company:         b.Company,
		CustomerName:    b.CustomerName,
		AccountNumber:   b.AccountNumber,
		Amount:          b.Amount,
		BillType:        b.BillType,
		TransactionID:   b.TransactionID,
		ChargeDate:      b.ChargeDate,
		DueDate:         b.DueDate,
		BillingPeriod:   b.BillingPeriod,
		PreviousBalance: b.PreviousBalance,
		CurrentCharges:  b.CurrentCharges,
		TotalAmount:     b.TotalAmount,
		PhoneNumber:     b.PhoneNumber,
		Description:     description,
	}
}
