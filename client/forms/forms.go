// Package forms validates money-movement dialog input before it is allowed
// anywhere near the network. Each form returns either a normalized request
// payload or a field-keyed validation error, never both.
package forms

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/client"
	"github.com/pochi-pay/pochi_pay/client/apierr"
)

// Wire field names used as validation error keys.
const (
	FieldAmount            = "amount"
	FieldWalletID          = "walletId"
	FieldFromWalletID      = "fromWalletId"
	FieldToWalletID        = "toWalletId"
	FieldServiceID         = "serviceId"
	FieldExternalReference = "externalReference"
	FieldDescription       = "description"
)

// Field-error messages shown next to the offending input.
const (
	msgAmountRequired  = "Amount is required"
	msgAmountInvalid   = "Enter a valid amount"
	msgAmountPositive  = "Amount must be greater than zero"
	msgWalletRequired  = "Select a wallet"
	msgPayeeRequired   = "Select a payee"
	msgServiceRequired = "Select a service"
	msgSameWallet      = "Destination must differ from the source wallet"
	msgRefRequired     = "Payment reference is required"
	msgDescRequired    = "Description is required"
)

// parseAmount turns raw user input into a positive two-decimal amount.
// Halves round away from zero. Garbage input is an error, never zero.
func parseAmount(raw string, errs *apierr.Validation) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		errs.Add(FieldAmount, msgAmountRequired)
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		errs.Add(FieldAmount, msgAmountInvalid)
		return decimal.Zero, false
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		errs.Add(FieldAmount, msgAmountPositive)
		return decimal.Zero, false
	}
	return amount, true
}

// FundForm collects funding dialog input as the user typed it.
type FundForm struct {
	WalletID          string
	Amount            string
	ExternalReference string
}

// Validate normalizes the form into a funding request.
func (f FundForm) Validate() (client.FundInput, *apierr.Validation) {
	errs := apierr.NewValidation()
	amount, _ := parseAmount(f.Amount, errs)
	if strings.TrimSpace(f.WalletID) == "" {
		errs.Add(FieldWalletID, msgWalletRequired)
	}
	if strings.TrimSpace(f.ExternalReference) == "" {
		errs.Add(FieldExternalReference, msgRefRequired)
	}
	if !errs.Empty() {
		return client.FundInput{}, errs
	}
	return client.FundInput{
		WalletID:          strings.TrimSpace(f.WalletID),
		Amount:            amount,
		ExternalReference: strings.TrimSpace(f.ExternalReference),
	}, nil
}

// TransferForm collects wallet-to-wallet transfer dialog input.
type TransferForm struct {
	FromWalletID string
	ToWalletID   string
	Amount       string
	Description  string
}

// Validate normalizes the form into a transfer request. A destination equal
// to the source is reported against the destination field.
func (f TransferForm) Validate() (client.TransferInput, *apierr.Validation) {
	errs := apierr.NewValidation()
	amount, _ := parseAmount(f.Amount, errs)
	from := strings.TrimSpace(f.FromWalletID)
	to := strings.TrimSpace(f.ToWalletID)
	if from == "" {
		errs.Add(FieldFromWalletID, msgWalletRequired)
	}
	if to == "" {
		errs.Add(FieldToWalletID, msgPayeeRequired)
	} else if to == from {
		errs.Add(FieldToWalletID, msgSameWallet)
	}
	description := strings.TrimSpace(f.Description)
	if description == "" {
		errs.Add(FieldDescription, msgDescRequired)
	}
	if !errs.Empty() {
		return client.TransferInput{}, errs
	}
	return client.TransferInput{
		FromWalletID: from,
		ToWalletID:   to,
		Amount:       amount,
		Description:  description,
	}, nil
}

// PayServiceForm collects service payment dialog input.
type PayServiceForm struct {
	FromWalletID string
	ServiceID    string
	Amount       string
}

// Validate normalizes the form into a service payment request.
func (f PayServiceForm) Validate() (client.PayServiceInput, *apierr.Validation) {
	errs := apierr.NewValidation()
	amount, _ := parseAmount(f.Amount, errs)
	if strings.TrimSpace(f.FromWalletID) == "" {
		errs.Add(FieldFromWalletID, msgWalletRequired)
	}
	if strings.TrimSpace(f.ServiceID) == "" {
		errs.Add(FieldServiceID, msgServiceRequired)
	}
	if !errs.Empty() {
		return client.PayServiceInput{}, errs
	}
	return client.PayServiceInput{
		FromWalletID: strings.TrimSpace(f.FromWalletID),
		ServiceID:    strings.TrimSpace(f.ServiceID),
		Amount:       amount,
	}, nil
}
