package airdrop

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/abielcoin/abiel-api/internal/pkg/config"
)

// rawEvent mirrors one provider event object from the webhook body.
type rawEvent struct {
	Type            string        `json:"type"`
	Signature       string        `json:"signature"`
	Timestamp       int64         `json:"timestamp"`
	BlockTime       int64         `json:"blockTime"`
	NativeTransfers []rawTransfer `json:"nativeTransfers"`
	TokenTransfers  []rawTransfer `json:"tokenTransfers"`
}

// rawTransfer tolerates every field naming the provider has shipped over the
// webhook's lifetime. The accessor methods define the one authoritative alias
// order; nothing else in the codebase sniffs payload fields.
type rawTransfer struct {
	FromUserAccount string `json:"fromUserAccount"`
	FromAccount     string `json:"fromAccount"`
	Source          string `json:"source"`
	ToUserAccount   string `json:"toUserAccount"`
	ToAccount       string `json:"toAccount"`
	Destination     string `json:"destination"`
	Amount          uint64 `json:"amount"`
	TokenAmount     uint64 `json:"tokenAmount"`
	Mint            string `json:"mint"`
}

// sender returns the first non-empty buyer alias, oldest naming last.
func (t *rawTransfer) sender() string {
	for _, v := range []string{t.FromUserAccount, t.FromAccount, t.Source} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// recipient returns the first non-empty destination alias.
func (t *rawTransfer) recipient() string {
	for _, v := range []string{t.ToUserAccount, t.ToAccount, t.Destination} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// Normalizer extracts canonical payment events from webhook payloads.
// Pure parse: no side effects, no clock reads beyond the injected now().
type Normalizer struct {
	cfg *config.AirdropConfig
	now func() time.Time
}

func NewNormalizer(cfg *config.AirdropConfig) *Normalizer {
	return &Normalizer{cfg: cfg, now: time.Now}
}

// Normalize parses the webhook body and extracts the first payment credited
// to the collection wallet. A nil event with a reason means the delivery is
// ignored; a non-nil error means the body itself is malformed.
func (n *Normalizer) Normalize(body []byte) (*PaymentEvent, IgnoreReason, error) {
	var events []rawEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, "", err
	}
	if len(events) == 0 {
		return nil, IgnoreNoTransfers, nil
	}

	ev := firstTransferEvent(events)
	if ev == nil {
		return nil, IgnoreWrongEventType, nil
	}

	var (
		buyer  string
		amount uint64
		asset  PaidAsset
		found  bool
	)

	for i := range ev.NativeTransfers {
		t := &ev.NativeTransfers[i]
		if t.recipient() == n.cfg.CollectionWallet {
			buyer = t.sender()
			amount = t.Amount
			asset = AssetNative
			found = true
			break
		}
	}

	// A stable-token credit in the same transaction takes precedence over the
	// native leg (the native leg is usually just the fee/rent shuffle).
	for i := range ev.TokenTransfers {
		t := &ev.TokenTransfers[i]
		if t.recipient() != n.cfg.CollectionWallet {
			continue
		}
		if n.cfg.StableMint != "" && t.Mint != "" && t.Mint != n.cfg.StableMint {
			continue
		}
		buyer = t.sender()
		amount = t.TokenAmount
		asset = AssetStable
		found = true
		break
	}

	if !found {
		return nil, IgnoreNoTransfers, nil
	}
	if buyer == "" || buyer == n.cfg.CollectionWallet || buyer == n.cfg.SourceWallet {
		return nil, IgnoreInvalidBuyer, nil
	}
	if amount == 0 {
		return nil, IgnoreZeroAmount, nil
	}

	return &PaymentEvent{
		SourceTxID:   strings.TrimSpace(ev.Signature),
		BuyerAddress: buyer,
		PaidAsset:    asset,
		RawAmount:    amount,
		ObservedAt:   n.observedAt(ev),
	}, "", nil
}

func firstTransferEvent(events []rawEvent) *rawEvent {
	for i := range events {
		if isTransferType(events[i].Type) {
			return &events[i]
		}
	}
	return nil
}

// isTransferType accepts the provider's TRANSFER type plus the untyped shape
// older webhook configurations deliver.
func isTransferType(t string) bool {
	switch strings.ToUpper(strings.TrimSpace(t)) {
	case "", "TRANSFER":
		return true
	default:
		return false
	}
}

func (n *Normalizer) observedAt(ev *rawEvent) time.Time {
	if ev.Timestamp > 0 {
		return time.Unix(ev.Timestamp, 0).UTC()
	}
	if ev.BlockTime > 0 {
		return time.Unix(ev.BlockTime, 0).UTC()
	}
	return n.now().UTC()
}
