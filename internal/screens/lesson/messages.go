package lesson

import "github.com/st-academy/academy/internal/tutor"

// receiptSentMsg carries the result of the network half of a receipt.
type receiptSentMsg struct {
	viewID    string
	signature string
	err       error
}

// explainedMsg carries a tutor reply for one question.
type explainedMsg struct {
	viewID      string
	questionID  string
	explanation *tutor.Explanation
	err         error
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusError
)
