package airdrop

import (
	"context"
	"errors"
	"testing"

	"github.com/abielcoin/abiel-api/app/models"
)

type fakeRepo struct {
	settled      map[string]bool
	insertFails  error
	insertLoses  bool
	created      []*models.Settlement
	flags        []*models.ManualReviewFlag
	flagFails    error
	settledCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{settled: map[string]bool{}}
}

func (r *fakeRepo) HasSettled(sourceTxID string) (bool, error) {
	r.settledCalls++
	return r.settled[sourceTxID], nil
}

func (r *fakeRepo) CreateSettlementIfNotExists(s *models.Settlement) (bool, error) {
	if r.insertFails != nil {
		return false, r.insertFails
	}
	if r.insertLoses {
		return false, nil
	}
	r.created = append(r.created, s)
	r.settled[s.SourceTxID] = true
	return true, nil
}

func (r *fakeRepo) CreateManualReviewFlag(f *models.ManualReviewFlag) error {
	if r.flagFails != nil {
		return r.flagFails
	}
	r.flags = append(r.flags, f)
	return nil
}

type fakePrices struct {
	price Price
	calls int
}

func (p *fakePrices) NativeAssetUsdPrice(ctx context.Context) Price {
	p.calls++
	return p.price
}

type fakeExecutor struct {
	txID  string
	err   error
	calls int
	sent  uint64
	to    string
}

func (e *fakeExecutor) SendTokens(ctx context.Context, recipient string, amount uint64) (string, error) {
	e.calls++
	e.to = recipient
	e.sent = amount
	if e.err != nil {
		return "", e.err
	}
	return e.txID, nil
}

func testService(repo *fakeRepo, prices *fakePrices, exec *fakeExecutor) *Service {
	s := NewService(testAirdropConfig(), repo, prices, exec)
	s.normalizer = testNormalizer()
	return s
}

const nativeBody = `[{
	"type": "TRANSFER",
	"signature": "sig-native",
	"timestamp": 1762689600,
	"nativeTransfers": [
		{"fromUserAccount": "Buyer111", "toUserAccount": "CoLLwaLLetXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX", "amount": 2000000000}
	]
}]`

func TestProcessWebhookSettlesNativePayment(t *testing.T) {
	repo := newFakeRepo()
	prices := &fakePrices{price: Price{MicroUsd: 180_000_000}}
	exec := &fakeExecutor{txID: "payout-tx-1"}

	out, err := testService(repo, prices, exec).ProcessWebhook(context.Background(), []byte(nativeBody))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if out.Status != StatusSettled {
		t.Fatalf("status = %q, want settled", out.Status)
	}
	if exec.calls != 1 || exec.to != "Buyer111" {
		t.Fatalf("executor calls=%d to=%q", exec.calls, exec.to)
	}
	// 2 SOL * $180 * 750 tokens/$ = 270000 tokens (6 decimals).
	if exec.sent != 270_000_000_000 {
		t.Fatalf("sent = %d, want 270000000000", exec.sent)
	}

	if len(repo.created) != 1 {
		t.Fatalf("created %d settlements, want 1", len(repo.created))
	}
	s := repo.created[0]
	if s.SourceTxID != "sig-native" || s.PayoutTxID != "payout-tx-1" {
		t.Fatalf("settlement ids: source=%q payout=%q", s.SourceTxID, s.PayoutTxID)
	}
	if s.RateApplied != 750 || s.PriceUsed != 180_000_000 || s.LowConfidence {
		t.Fatalf("settlement terms: rate=%d price=%d lowConfidence=%v", s.RateApplied, s.PriceUsed, s.LowConfidence)
	}
	if s.PaidAmount != 2.0 {
		t.Fatalf("paid amount = %v, want 2.0", s.PaidAmount)
	}
}

func TestProcessWebhookStablePaymentSkipsOracle(t *testing.T) {
	body := `[{
		"signature": "sig-stable",
		"tokenTransfers": [
			{"fromUserAccount": "Buyer111", "toUserAccount": "CoLLwaLLetXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXXX", "tokenAmount": 100000000, "mint": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"}
		]
	}]`

	repo := newFakeRepo()
	prices := &fakePrices{price: Price{MicroUsd: 180_000_000}}
	exec := &fakeExecutor{txID: "payout-tx-2"}

	out, err := testService(repo, prices, exec).ProcessWebhook(context.Background(), []byte(body))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if out.Status != StatusSettled {
		t.Fatalf("status = %q, want settled", out.Status)
	}
	if prices.calls != 0 {
		t.Fatalf("oracle consulted %d times for a stable payment", prices.calls)
	}
	if repo.created[0].PriceUsed != 0 {
		t.Fatalf("stable settlement recorded price %d, want 0", repo.created[0].PriceUsed)
	}
	// 100 USDC * 750 = 75000 tokens.
	if exec.sent != 75_000_000_000 {
		t.Fatalf("sent = %d, want 75000000000", exec.sent)
	}
}

func TestProcessWebhookDuplicateSkipsTransfer(t *testing.T) {
	repo := newFakeRepo()
	repo.settled["sig-native"] = true
	exec := &fakeExecutor{txID: "never"}

	out, err := testService(repo, &fakePrices{price: Price{MicroUsd: 180_000_000}}, exec).
		ProcessWebhook(context.Background(), []byte(nativeBody))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if out.Status != StatusDuplicate {
		t.Fatalf("status = %q, want duplicate", out.Status)
	}
	if exec.calls != 0 {
		t.Fatalf("transfer executed %d times for a duplicate", exec.calls)
	}
}

func TestProcessWebhookIgnoredNeverTransfers(t *testing.T) {
	body := `[{"type":"NFT_SALE","signature":"s"}]`
	exec := &fakeExecutor{}

	out, err := testService(newFakeRepo(), &fakePrices{}, exec).
		ProcessWebhook(context.Background(), []byte(body))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if out.Status != StatusIgnored || out.Reason != IgnoreWrongEventType {
		t.Fatalf("outcome = %+v, want ignored/wrong_event_type", out)
	}
	if exec.calls != 0 {
		t.Fatalf("transfer executed for an ignored delivery")
	}
}

func TestProcessWebhookFallbackPriceMarksLowConfidence(t *testing.T) {
	repo := newFakeRepo()
	prices := &fakePrices{price: Price{MicroUsd: 180_000_000, Fallback: true}}

	out, err := testService(repo, prices, &fakeExecutor{txID: "payout-tx-3"}).
		ProcessWebhook(context.Background(), []byte(nativeBody))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if out.Status != StatusSettled {
		t.Fatalf("status = %q, want settled", out.Status)
	}
	if !repo.created[0].LowConfidence {
		t.Fatalf("fallback-priced settlement not marked low confidence")
	}
}

func TestProcessWebhookTransferFailure(t *testing.T) {
	repo := newFakeRepo()
	exec := &fakeExecutor{err: errors.New("rpc down")}

	out, err := testService(repo, &fakePrices{price: Price{MicroUsd: 180_000_000}}, exec).
		ProcessWebhook(context.Background(), []byte(nativeBody))
	if err == nil {
		t.Fatalf("expected error when transfer fails")
	}
	if out.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", out.Status)
	}
	if len(repo.created) != 0 {
		t.Fatalf("settlement recorded despite failed transfer")
	}
}

func TestProcessWebhookLedgerFailureFlagsReview(t *testing.T) {
	repo := newFakeRepo()
	repo.insertFails = errors.New("db gone")

	out, err := testService(repo, &fakePrices{price: Price{MicroUsd: 180_000_000}}, &fakeExecutor{txID: "payout-tx-4"}).
		ProcessWebhook(context.Background(), []byte(nativeBody))
	if err == nil {
		t.Fatalf("expected error when ledger write fails")
	}
	if out.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", out.Status)
	}
	if out.ReviewRef == "" || len(repo.flags) != 1 {
		t.Fatalf("expected one manual review flag, ref=%q flags=%d", out.ReviewRef, len(repo.flags))
	}
	if repo.flags[0].PayoutTxID != "payout-tx-4" {
		t.Fatalf("flag payout tx = %q", repo.flags[0].PayoutTxID)
	}
}

func TestProcessWebhookInsertRaceFlagsDoubleSend(t *testing.T) {
	repo := newFakeRepo()
	repo.insertLoses = true

	out, err := testService(repo, &fakePrices{price: Price{MicroUsd: 180_000_000}}, &fakeExecutor{txID: "payout-tx-5"}).
		ProcessWebhook(context.Background(), []byte(nativeBody))
	if err != nil {
		t.Fatalf("ProcessWebhook returned error: %v", err)
	}
	if out.Status != StatusDuplicate {
		t.Fatalf("status = %q, want duplicate", out.Status)
	}
	if out.ReviewRef == "" || len(repo.flags) != 1 {
		t.Fatalf("double-send not flagged for review")
	}
}
