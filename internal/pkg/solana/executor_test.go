package solana

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "system program", addr: "11111111111111111111111111111111", wantErr: false},
		{name: "usdc mint", addr: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", wantErr: false},
		{name: "empty", addr: "", wantErr: true},
		{name: "whitespace only", addr: "   ", wantErr: true},
		{name: "bad base58 characters", addr: "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl", wantErr: true},
		{name: "too short", addr: "abc", wantErr: true},
		{name: "an ethereum address", addr: "0x52908400098527886E0F7030069857D2E4169EE7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.addr)
			if tt.wantErr && err == nil {
				t.Fatalf("ValidateAddress(%q) = nil, want error", tt.addr)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("ValidateAddress(%q) = %v, want nil", tt.addr, err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("error %v is not ErrInvalidAddress", err)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "invalid address", err: ErrInvalidAddress, want: false},
		{name: "wrapped invalid address", err: fmt.Errorf("send: %w", ErrInvalidAddress), want: false},
		{name: "insufficient balance", err: ErrInsufficientBalance, want: false},
		{name: "timeout", err: ErrNetworkTimeout, want: true},
		{name: "unknown rpc error", err: errors.New("node behind"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsInsufficientFunds(t *testing.T) {
	if !isInsufficientFunds(errors.New("Transaction simulation failed: Error processing Instruction 1: insufficient funds")) {
		t.Fatalf("expected token-program insufficient funds to match")
	}
	if isInsufficientFunds(errors.New("blockhash not found")) {
		t.Fatalf("unrelated rpc error matched")
	}
}
