package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st-academy/academy/internal/curriculum"
)

func TestPayloadEncode(t *testing.T) {
	l := curriculum.Lesson{ID: "m1", Track: curriculum.TrackBeginner101, Title: "Wallets"}
	now := time.Date(2026, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

	data, err := NewPayload(now, "Wallet1", l, 300).Encode()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, map[string]any{
		"kind":        "academy_lesson_completion_receipt",
		"ts":          "2026-03-04T05:06:07.890Z",
		"wallet":      "Wallet1",
		"track":       "beginner101",
		"lessonId":    "m1",
		"lessonTitle": "Wallets",
		"score":       float64(100),
		"xp":          float64(300),
		"version":     "mvp-v3-optional",
	}, got)
}

func TestExplorerURL(t *testing.T) {
	tests := []struct {
		cluster string
		want    string
	}{
		{"", "https://solscan.io/tx/abc?cluster=devnet"},
		{"devnet", "https://solscan.io/tx/abc?cluster=devnet"},
		{"testnet", "https://solscan.io/tx/abc?cluster=testnet"},
		{"mainnet-beta", "https://solscan.io/tx/abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExplorerURL("abc", tt.cluster), "cluster %q", tt.cluster)
	}
}

func TestValidateAddress(t *testing.T) {
	assert.NoError(t, ValidateAddress(MemoProgramID))
	assert.Error(t, ValidateAddress("not-a-key"))
	assert.Error(t, ValidateAddress(""))
}

func TestSendErrorIs(t *testing.T) {
	err := error(&SendError{Err: errors.New("rpc down")})
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Contains(t, err.Error(), "rpc down")
}

type fakeRPC struct {
	blockhash solana.Hash
	sent      *solana.Transaction
	sendErr   error
}

func (f *fakeRPC) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{Blockhash: f.blockhash},
	}, nil
}

func (f *fakeRPC) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ rpc.TransactionOpts) (solana.Signature, error) {
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	f.sent = tx
	return tx.Signatures[0], nil
}

func writeKeypair(t *testing.T) (string, solana.PrivateKey) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path, key
}

func TestSolanaSenderSend(t *testing.T) {
	path, key := writeKeypair(t)
	s, err := NewSolanaSender(SolanaConfig{KeypairPath: path, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), s.Identity())

	fake := &fakeRPC{blockhash: solana.Hash{1, 2, 3}}
	s.client = fake

	memo := []byte(`{"kind":"academy_lesson_completion_receipt"}`)
	sig, err := s.Send(context.Background(), Request{Signer: s.Identity(), Data: memo})
	require.NoError(t, err)
	require.NotNil(t, fake.sent)

	tx := fake.sent
	assert.Equal(t, tx.Signatures[0].String(), sig)
	assert.Equal(t, solana.Hash{1, 2, 3}, tx.Message.RecentBlockhash)
	require.Len(t, tx.Message.Instructions, 1)
	assert.Equal(t, memo, []byte(tx.Message.Instructions[0].Data))
	assert.True(t, tx.Message.AccountKeys[0].Equals(key.PublicKey()))
	assert.NoError(t, tx.VerifySignatures())
}

func TestSolanaSenderSendError(t *testing.T) {
	path, _ := writeKeypair(t)
	s, err := NewSolanaSender(SolanaConfig{KeypairPath: path})
	require.NoError(t, err)
	s.client = &fakeRPC{sendErr: errors.New("blockhash not found")}

	_, err = s.Send(context.Background(), Request{Data: []byte("x")})
	assert.ErrorContains(t, err, "blockhash not found")
}

func TestSolanaSenderWithoutKeypair(t *testing.T) {
	s, err := NewSolanaSender(SolanaConfig{})
	require.NoError(t, err)
	assert.Empty(t, s.Identity())

	_, err = s.Send(context.Background(), Request{Data: []byte("x")})
	assert.ErrorIs(t, err, ErrNoSigner)
}

func TestNewSolanaSenderBadKeypair(t *testing.T) {
	_, err := NewSolanaSender(SolanaConfig{KeypairPath: filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
