package lesson

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/st-academy/academy/internal/quiz"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/store"
)

// ReceiptIdentity returns the signing identity, or "" when none.
func (v *View) ReceiptIdentity() string {
	if v.deps.Sender == nil {
		return ""
	}
	return v.deps.Sender.Identity()
}

// Signature returns the signature of the last receipt accepted by the
// network in this view, or "" when none. It survives a failed local save.
func (v *View) Signature() string { return v.signature }

// Busy reports whether a receipt send is in flight.
func (v *View) Busy() bool { return v.busy }

// CanEmitReceipt reports whether BeginReceipt would succeed.
func (v *View) CanEmitReceipt() bool {
	return v.quiz.CanFinish() && v.ReceiptIdentity() != "" && !v.busy
}

// BeginReceipt checks the receipt gate, marks the view busy and returns the
// transaction to send. Every successful call must be followed by
// CompleteReceipt.
func (v *View) BeginReceipt() (receipt.Request, error) {
	if err := v.quiz.Gate(); err != nil {
		return receipt.Request{}, err
	}
	wallet := v.ReceiptIdentity()
	if wallet == "" {
		return receipt.Request{}, &quiz.PreconditionError{Reason: quiz.NoIdentity}
	}
	if v.busy {
		return receipt.Request{}, &quiz.PreconditionError{Reason: quiz.Busy}
	}

	data, err := receipt.NewPayload(v.deps.Clock(), wallet, v.lesson, v.state.XP).Encode()
	if err != nil {
		return receipt.Request{}, fmt.Errorf("encode receipt: %w", err)
	}
	v.busy = true
	v.signature = ""
	return receipt.Request{
		Signer:    wallet,
		ProgramID: receipt.MemoProgramID,
		Data:      data,
	}, nil
}

// Send performs the network half of a receipt using the view's sender.
func (v *View) Send(ctx context.Context, req receipt.Request) (string, error) {
	return v.deps.Sender.Send(ctx, req)
}

// CompleteReceipt clears the busy flag and applies the send result. On
// success the signature is kept and the lesson is also marked complete, as
// Finish would; a save error after that is returned but Signature still
// reports the on-chain transaction. A send failure is returned as a
// *receipt.SendError and leaves progress as it was.
func (v *View) CompleteReceipt(ctx context.Context, signature string, sendErr error) error {
	v.busy = false
	if sendErr != nil {
		v.record(ctx, store.LessonEventData{Kind: EventReceiptFailed, Detail: sendErr.Error()})
		v.deps.Logger.Warn("receipt send failed", zap.String("lesson", v.lesson.ID), zap.Error(sendErr))
		return &receipt.SendError{Err: sendErr}
	}

	v.signature = signature
	v.record(ctx, store.LessonEventData{Kind: EventReceipt, Detail: signature})
	if !v.quiz.CanFinish() {
		return nil
	}
	before := v.state.XP
	if err := v.complete(ctx); err != nil {
		return err
	}
	if v.state.XP != before {
		v.record(ctx, store.LessonEventData{Kind: EventCompleted, XP: v.state.XP - before})
	}
	return v.syncChecklist(ctx)
}

// EmitReceipt runs BeginReceipt, Send and CompleteReceipt in sequence.
// The signature is returned whenever the send succeeded, even if the local
// save that follows fails.
func (v *View) EmitReceipt(ctx context.Context) (string, error) {
	req, err := v.BeginReceipt()
	if err != nil {
		return "", err
	}
	sig, sendErr := v.Send(ctx, req)
	err = v.CompleteReceipt(ctx, sig, sendErr)
	return v.signature, err
}
