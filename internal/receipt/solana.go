package receipt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// DevnetRPC is the public devnet endpoint.
const DevnetRPC = "https://api.devnet.solana.com"

// ErrNoSigner is returned when the sender has no keypair loaded.
var ErrNoSigner = errors.New("no signing keypair configured")

// SolanaConfig configures NewSolanaSender.
type SolanaConfig struct {
	RPCURL      string
	KeypairPath string
	Timeout     time.Duration
	Logger      *zap.Logger
}

type rpcClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
}

// SolanaSender signs memo transactions with a Solana CLI keypair and
// submits them over JSON-RPC.
type SolanaSender struct {
	client  rpcClient
	key     *solana.PrivateKey
	timeout time.Duration
	logger  *zap.Logger
}

// NewSolanaSender builds a sender. An empty KeypairPath yields a sender
// with no identity, whose Send always fails with ErrNoSigner.
func NewSolanaSender(cfg SolanaConfig) (*SolanaSender, error) {
	if cfg.RPCURL == "" {
		cfg.RPCURL = DevnetRPC
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &SolanaSender{
		client:  rpc.New(cfg.RPCURL),
		timeout: cfg.Timeout,
		logger:  cfg.Logger,
	}
	if cfg.KeypairPath != "" {
		key, err := solana.PrivateKeyFromSolanaKeygenFile(cfg.KeypairPath)
		if err != nil {
			return nil, fmt.Errorf("load keypair %s: %w", cfg.KeypairPath, err)
		}
		s.key = &key
	}
	return s, nil
}

// Identity returns the keypair's public key in base58.
func (s *SolanaSender) Identity() string {
	if s.key == nil {
		return ""
	}
	return s.key.PublicKey().String()
}

// Send submits req.Data as a memo instruction signed by the configured key.
func (s *SolanaSender) Send(ctx context.Context, req Request) (string, error) {
	if s.key == nil {
		return "", ErrNoSigner
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	programID := req.ProgramID
	if programID == "" {
		programID = MemoProgramID
	}

	latest, err := s.client.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("get latest blockhash: %w", err)
	}

	tx, err := buildTransaction(*s.key, programID, req.Data, latest.Value.Blockhash)
	if err != nil {
		return "", err
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	s.logger.Info("receipt sent",
		zap.String("signature", sig.String()),
		zap.String("signer", s.Identity()),
		zap.Int("bytes", len(req.Data)),
	)
	return sig.String(), nil
}

func buildTransaction(key solana.PrivateKey, programID string, data []byte, blockhash solana.Hash) (*solana.Transaction, error) {
	program, err := solana.PublicKeyFromBase58(programID)
	if err != nil {
		return nil, fmt.Errorf("program id %q: %w", programID, err)
	}
	payer := key.PublicKey()

	ix := solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, false, true),
	}, data)

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return nil, fmt.Errorf("build transaction: %w", err)
	}

	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if pk.Equals(payer) {
			return &key
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return tx, nil
}
