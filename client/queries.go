package client

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pochi-pay/pochi_pay/client/readcache"
)

// ServiceWallets projects the service catalogue into zero-balance system
// wallets so payee pickers can treat services and wallets uniformly.
func ServiceWallets(services []Service) []Wallet {
	out := make([]Wallet, 0, len(services))
	for _, s := range services {
		out = append(out, Wallet{
			ID:       s.ID,
			Name:     s.Name,
			Type:     WalletSystem,
			Balance:  decimal.Zero,
			IsActive: s.IsActive,
		})
	}
	return out
}

// RegisterReads binds the standard cache keys to their API fetchers with the
// default staleness policies.
func RegisterReads(cache *readcache.Cache, api *Client) {
	cache.Register(readcache.KeyProfile, readcache.ProfileStaleness, func(ctx context.Context) (any, error) {
		return api.Me(ctx)
	})
	cache.Register(readcache.KeyWallets, readcache.WalletsStaleness, func(ctx context.Context) (any, error) {
		return api.Wallets(ctx)
	})
	cache.Register(readcache.KeyTransactions, readcache.TransactionsStaleness, func(ctx context.Context) (any, error) {
		return api.Transactions(ctx)
	})
	cache.Register(readcache.KeyServices, readcache.ServicesStaleness, func(ctx context.Context) (any, error) {
		return api.Services(ctx)
	})
	cache.Register(readcache.KeyServiceWallets, readcache.ServiceWalletsStaleness, func(ctx context.Context) (any, error) {
		services, err := api.Services(ctx)
		if err != nil {
			return nil, err
		}
		return ServiceWallets(services), nil
	})
}
