package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"github.com/abielcoin/abiel-api/internal/pkg/config"
)

// Sentinel errors the settlement layer can branch on. Everything else coming
// out of the RPC client is wrapped but passed through.
var (
	ErrInvalidAddress      = errors.New("invalid recipient address")
	ErrInsufficientBalance = errors.New("insufficient token balance")
	ErrNetworkTimeout      = errors.New("rpc request timed out")
)

// IsRetryable reports whether a failed transfer is worth redelivering. Bad
// addresses and drained balances stay failed no matter how often the
// notifier retries.
func IsRetryable(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrInvalidAddress) &&
		!errors.Is(err, ErrInsufficientBalance)
}

// Executor sends payout tokens from the source wallet, creating the
// recipient's associated token account when it does not exist yet.
type Executor struct {
	rpc      *client.Client
	source   types.Account
	mint     common.PublicKey
	decimals uint8
}

// NewExecutor builds the transfer executor and verifies the configured secret
// key actually controls the configured source wallet. Catching a key/wallet
// mismatch here beats finding out on the first payout.
func NewExecutor(cfg *config.AirdropConfig) (*Executor, error) {
	if err := ValidateAddress(cfg.SourceWallet); err != nil {
		return nil, fmt.Errorf("source wallet: %w", err)
	}
	if err := ValidateAddress(cfg.TokenMint); err != nil {
		return nil, fmt.Errorf("token mint: %w", err)
	}

	source, err := types.AccountFromBytes(cfg.SourceSecretKey)
	if err != nil {
		return nil, fmt.Errorf("parse source secret key: %w", err)
	}
	if source.PublicKey.ToBase58() != cfg.SourceWallet {
		return nil, fmt.Errorf("secret key controls %s, config names %s", source.PublicKey.ToBase58(), cfg.SourceWallet)
	}

	rpc := client.NewClient(cfg.RPCEndpoint)
	if rpc == nil {
		return nil, errors.New("rpc client init failed")
	}

	return &Executor{
		rpc:      rpc,
		source:   source,
		mint:     common.PublicKeyFromString(cfg.TokenMint),
		decimals: uint8(cfg.TokenDecimals),
	}, nil
}

// ValidateAddress checks that an address is well-formed base58 decoding to a
// 32-byte public key.
func ValidateAddress(addr string) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ErrInvalidAddress
	}
	raw, err := base58.Decode(addr)
	if err != nil || len(raw) != 32 {
		return ErrInvalidAddress
	}
	return nil
}

// SendTokens transfers amount token minor units to the recipient and returns
// the transaction signature. The source wallet pays fees and funds the
// recipient's associated token account if one has to be created.
func (e *Executor) SendTokens(ctx context.Context, recipient string, amount uint64) (string, error) {
	if err := ValidateAddress(recipient); err != nil {
		return "", err
	}
	owner := common.PublicKeyFromString(recipient)

	destATA, _, err := common.FindAssociatedTokenAddress(owner, e.mint)
	if err != nil {
		return "", fmt.Errorf("derive recipient token account: %w", err)
	}
	sourceATA, _, err := common.FindAssociatedTokenAddress(e.source.PublicKey, e.mint)
	if err != nil {
		return "", fmt.Errorf("derive source token account: %w", err)
	}

	instructions := make([]types.Instruction, 0, 2)

	exists, err := e.accountExists(ctx, destATA)
	if err != nil {
		return "", wrapRPC("check recipient token account", err)
	}
	if !exists {
		log.Printf("creating token account %s for %s", destATA.ToBase58(), recipient)
		instructions = append(instructions, associated_token_account.Create(associated_token_account.CreateParam{
			Funder:                 e.source.PublicKey,
			Owner:                  owner,
			Mint:                   e.mint,
			AssociatedTokenAccount: destATA,
		}))
	}

	instructions = append(instructions, token.TransferChecked(token.TransferCheckedParam{
		From:     sourceATA,
		To:       destATA,
		Mint:     e.mint,
		Auth:     e.source.PublicKey,
		Amount:   amount,
		Decimals: e.decimals,
	}))

	blockhash, err := e.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", wrapRPC("get latest blockhash", err)
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        e.source.PublicKey,
			RecentBlockhash: blockhash.Blockhash,
			Instructions:    instructions,
		}),
		Signers: []types.Account{e.source},
	})
	if err != nil {
		return "", fmt.Errorf("build transfer transaction: %w", err)
	}

	sig, err := e.rpc.SendTransaction(ctx, tx)
	if err != nil {
		if isInsufficientFunds(err) {
			return "", fmt.Errorf("%w: %v", ErrInsufficientBalance, err)
		}
		return "", wrapRPC("send transaction", err)
	}
	return sig, nil
}

// accountExists treats a zero-value account info as "not on chain"; the RPC
// client returns that instead of an error for missing accounts.
func (e *Executor) accountExists(ctx context.Context, addr common.PublicKey) (bool, error) {
	info, err := e.rpc.GetAccountInfo(ctx, addr.ToBase58())
	if err != nil {
		return false, err
	}
	return info.Owner != common.PublicKey{}, nil
}

func wrapRPC(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrNetworkTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isInsufficientFunds sniffs the RPC simulation error text. The node reports
// token-program failures as opaque strings, not typed errors.
func isInsufficientFunds(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "insufficient funds") || strings.Contains(msg, "insufficient lamports")
}
