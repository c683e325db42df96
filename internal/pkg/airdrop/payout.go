package airdrop

import (
	"errors"
	"math/big"

	"github.com/abielcoin/abiel-api/internal/pkg/config"
)

// ErrPayoutOverflow means the computed payout does not fit the token's
// 64-bit minor-unit range; nothing legitimate gets anywhere near it.
var ErrPayoutOverflow = errors.New("payout amount overflows minor units")

// ComputePayout converts a normalized payment into token minor units.
//
// Stable payments:  floor(raw * rate * 10^tokenDec / 10^stableDec)
// Native payments:  floor(raw * priceMicroUsd * rate * 10^tokenDec / (1e9 * 1e6))
//
// Everything stays integral (big.Int), and the final division floors, so the
// contract never over-delivers relative to the value received.
func ComputePayout(ev *PaymentEvent, rate uint64, price Price, cfg *config.AirdropConfig) (uint64, error) {
	n := new(big.Int).SetUint64(ev.RawAmount)
	n.Mul(n, new(big.Int).SetUint64(rate))
	n.Mul(n, pow10(cfg.TokenDecimals))

	var den *big.Int
	switch ev.PaidAsset {
	case AssetNative:
		n.Mul(n, new(big.Int).SetUint64(price.MicroUsd))
		den = new(big.Int).Mul(big.NewInt(config.LamportsPerSol), big.NewInt(config.MicroUsd))
	default:
		den = pow10(cfg.StableDecimals)
	}

	n.Quo(n, den)
	if !n.IsUint64() {
		return 0, ErrPayoutOverflow
	}
	return n.Uint64(), nil
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
