// Package receipt builds lesson completion receipts and sends them to
// Solana as memo transactions.
package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/st-academy/academy/internal/curriculum"
)

const (
	Kind    = "academy_lesson_completion_receipt"
	Version = "mvp-v3-optional"
	Score   = 100

	// MemoProgramID is the SPL Memo program.
	MemoProgramID = "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr"
)

const tsLayout = "2006-01-02T15:04:05.000Z07:00"

// ErrSendFailed matches every *SendError via errors.Is.
var ErrSendFailed = errors.New("receipt send failed")

// SendError wraps a failure from the transaction sender.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("receipt send failed: %v", e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

func (e *SendError) Is(target error) bool { return target == ErrSendFailed }

// Payload is the fixed-shape JSON memo recorded on chain.
type Payload struct {
	Kind        string             `json:"kind"`
	TS          string             `json:"ts"`
	Wallet      string             `json:"wallet"`
	Track       curriculum.TrackID `json:"track"`
	LessonID    string             `json:"lessonId"`
	LessonTitle string             `json:"lessonTitle"`
	Score       int                `json:"score"`
	XP          int                `json:"xp"`
	Version     string             `json:"version"`
}

// NewPayload fills the fixed fields of a receipt.
func NewPayload(now time.Time, wallet string, l curriculum.Lesson, xp int) Payload {
	return Payload{
		Kind:        Kind,
		TS:          now.UTC().Format(tsLayout),
		Wallet:      wallet,
		Track:       l.Track,
		LessonID:    l.ID,
		LessonTitle: l.Title,
		Score:       Score,
		XP:          xp,
		Version:     Version,
	}
}

// Encode returns the UTF-8 JSON encoding of p.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Request is one transaction to submit.
type Request struct {
	Signer    string
	ProgramID string
	Data      []byte
}

// Sender submits receipt transactions. Identity returns the base58 public
// key of the signing identity, or "" when none is connected.
type Sender interface {
	Identity() string
	Send(ctx context.Context, req Request) (string, error)
}

// ExplorerURL links to the transaction on Solscan.
func ExplorerURL(signature, cluster string) string {
	u := "https://solscan.io/tx/" + url.PathEscape(signature)
	switch cluster {
	case "mainnet", "mainnet-beta":
		return u
	case "":
		cluster = "devnet"
	}
	return u + "?cluster=" + url.QueryEscape(cluster)
}

// ValidateAddress checks that s is a base58-encoded public key.
func ValidateAddress(s string) error {
	if _, err := solana.PublicKeyFromBase58(s); err != nil {
		return fmt.Errorf("invalid wallet address %q: %w", s, err)
	}
	return nil
}
