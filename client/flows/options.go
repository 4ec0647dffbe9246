package flows

import "github.com/pochi-pay/pochi_pay/client"

// PayeeKind distinguishes the two payee sources in the transfer dialog.
type PayeeKind string

const (
	PayeeService PayeeKind = "service"
	PayeeWallet  PayeeKind = "wallet"
)

// Payee is a selectable destination in the transfer and payment dialogs.
type Payee struct {
	ID   string
	Name string
	Kind PayeeKind
}

// SelectableWallets filters the caller's wallets down to those that can be
// used as a money source. Inactive wallets stay visible on the dashboard but
// never appear in a picker.
func SelectableWallets(wallets []client.Wallet) []client.Wallet {
	out := make([]client.Wallet, 0, len(wallets))
	for _, w := range wallets {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out
}

// Payees builds the payee picker list: active catalogue services followed by
// active system wallets. Service-wallet projections share IDs with their
// services and are deduplicated. Personal wallets of other users are never
// listed.
func Payees(services []client.Service, serviceWallets []client.Wallet) []Payee {
	seen := make(map[string]struct{}, len(services))
	out := make([]Payee, 0, len(services)+len(serviceWallets))
	for _, s := range services {
		if s.IsActive {
			seen[s.ID] = struct{}{}
			out = append(out, Payee{ID: s.ID, Name: s.Name, Kind: PayeeService})
		}
	}
	for _, w := range serviceWallets {
		if !w.IsActive || w.Type != client.WalletSystem {
			continue
		}
		if _, dup := seen[w.ID]; dup {
			continue
		}
		out = append(out, Payee{ID: w.ID, Name: w.Name, Kind: PayeeWallet})
	}
	return out
}
