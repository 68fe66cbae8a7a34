package lesson

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/st-academy/academy/internal/curriculum"
	"github.com/st-academy/academy/internal/kv"
	"github.com/st-academy/academy/internal/progress"
	"github.com/st-academy/academy/internal/quiz"
	"github.com/st-academy/academy/internal/receipt"
	"github.com/st-academy/academy/internal/store"
)

const track = curriculum.TrackBeginner101

func fixtureCurriculum(t *testing.T) curriculum.Repository {
	t.Helper()
	tracks := []curriculum.Track{{ID: track, Title: "Beginner 101"}}
	lessons := []curriculum.Lesson{
		{
			ID: "l1", Track: track, Title: "First", Minutes: 5,
			Quiz: []curriculum.QuizQuestion{
				{ID: "A", Prompt: "A?", CorrectChoiceID: "x", Choices: []curriculum.Choice{{ID: "x", Label: "X"}, {ID: "w", Label: "W"}}},
				{ID: "B", Prompt: "B?", CorrectChoiceID: "y", Choices: []curriculum.Choice{{ID: "y", Label: "Y"}, {ID: "z", Label: "Z"}}},
			},
		},
		{ID: "l2", Track: track, Title: "Second", Minutes: 3},
	}
	repo, err := curriculum.NewStatic(tracks, lessons)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	return repo
}

type recorder struct {
	events []store.LessonEventData
	err    error
}

func (r *recorder) AppendLessonEvent(_ context.Context, e store.LessonEventData) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) kinds() []string {
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type fakeSender struct {
	identity string
	sig      string
	err      error
	sent     []receipt.Request
}

func (f *fakeSender) Identity() string { return f.identity }

func (f *fakeSender) Send(_ context.Context, req receipt.Request) (string, error) {
	f.sent = append(f.sent, req)
	return f.sig, f.err
}

type harness struct {
	deps   Deps
	kv     *kv.Memory
	events *recorder
	sender *fakeSender
}

func newHarness(t *testing.T, identity string) *harness {
	t.Helper()
	mem := kv.NewMemory()
	clock := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	h := &harness{
		kv:     mem,
		events: &recorder{},
		sender: &fakeSender{identity: identity, sig: "5igSig"},
	}
	h.deps = Deps{
		Curriculum: fixtureCurriculum(t),
		Progress:   progress.NewStore(mem, progress.WithClock(clock)),
		Identity:   identity,
		Sender:     h.sender,
		Events:     h.events,
	}
	return h
}

func (h *harness) stored(t *testing.T) (progress.State, bool) {
	t.Helper()
	raw, ok, _ := h.kv.Get(context.Background(), progress.StorageKey(h.deps.Identity))
	if !ok {
		return progress.State{}, false
	}
	var s progress.State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("stored record: %v", err)
	}
	return s, true
}

func open(t *testing.T, h *harness, id string) *View {
	t.Helper()
	v, err := Open(context.Background(), h.deps, track, id)
	if err != nil {
		t.Fatalf("Open(%s): %v", id, err)
	}
	return v
}

func answer(t *testing.T, v *View, q, c string) quiz.Outcome {
	t.Helper()
	ctx := context.Background()
	if err := v.Select(ctx, q, c); err != nil {
		t.Fatalf("Select(%s, %s): %v", q, c, err)
	}
	out, err := v.Submit(ctx, q)
	if err != nil {
		t.Fatalf("Submit(%s): %v", q, err)
	}
	return out
}

func TestOpenNotFound(t *testing.T) {
	h := newHarness(t, "")
	_, err := Open(context.Background(), h.deps, track, "missing")
	if !errors.Is(err, curriculum.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOpenWritesInitialChecklist(t *testing.T) {
	h := newHarness(t, "")
	v := open(t, h, "l1")

	want := []bool{true, false, false}
	if got := v.Checklist(); !progress.ChecklistEqual(got, want) {
		t.Fatalf("Checklist() = %v, want %v", got, want)
	}
	s, ok := h.stored(t)
	if !ok {
		t.Fatal("checklist not persisted")
	}
	if got := s.Checklist[progress.Key(track, "l1")]; !progress.ChecklistEqual(got, want) {
		t.Errorf("stored checklist = %v, want %v", got, want)
	}
	if v.Prev() != nil || v.Next() == nil || v.Next().ID != "l2" {
		t.Errorf("neighbors = %v, %v", v.Prev(), v.Next())
	}
	if len(h.events.events) != 1 || h.events.events[0].Kind != EventOpened || h.events.events[0].ViewID != v.ViewID() {
		t.Errorf("events = %+v", h.events.events)
	}
}

func TestChecklistNotRewrittenWhenUnchanged(t *testing.T) {
	h := newHarness(t, "")
	open(t, h, "l1")
	first, _ := h.stored(t)

	// Select without submitting leaves every step unchanged.
	h.deps.Progress = progress.NewStore(h.kv, progress.WithClock(func() time.Time {
		return time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	v := open(t, h, "l1")
	if err := v.Select(context.Background(), "A", "x"); err != nil {
		t.Fatal(err)
	}
	second, _ := h.stored(t)
	if second.UpdatedAt != first.UpdatedAt {
		t.Errorf("record rewritten: updatedAt %s -> %s", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestChecklistKeepsStoredReadStep(t *testing.T) {
	h := newHarness(t, "")
	s := progress.SetChecklist(progress.New(nil), track, "l1", []bool{false}, nil)
	if err := h.deps.Progress.Save(context.Background(), "", s); err != nil {
		t.Fatal(err)
	}
	v := open(t, h, "l1")
	if got := v.Checklist(); got[progress.StepRead] {
		t.Errorf("read step = true, want stored false")
	}
}

func TestGradingScenario(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	v := open(t, h, "l1")

	if err := v.Finish(ctx); !errors.Is(err, quiz.ErrPreconditionFailed) {
		t.Fatalf("Finish before submit = %v", err)
	}
	if got := quiz.UserMessage(v.Finish(ctx)); got != "Submit each question first." {
		t.Errorf("message = %q", got)
	}

	answer(t, v, "A", "x")
	if out := answer(t, v, "B", "z"); out.Correct {
		t.Fatal("B=z should be incorrect")
	}
	if got := v.Checklist(); !progress.ChecklistEqual(got, []bool{true, true, false}) {
		t.Errorf("Checklist() = %v", got)
	}

	before, _ := h.stored(t)
	err := v.Finish(ctx)
	if got := quiz.UserMessage(err); got != "Some answers are still incorrect. Fix them and resubmit." {
		t.Fatalf("Finish message = %q (err %v)", got, err)
	}
	after, _ := h.stored(t)
	if after.XP != before.XP || len(after.CompletedLessons) != 0 || len(after.QuizPassed) != 0 {
		t.Fatalf("failed Finish changed the record: %+v", after)
	}

	answer(t, v, "B", "y")
	if err := v.Finish(ctx); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	s, _ := h.stored(t)
	key := progress.Key(track, "l1")
	if !s.CompletedLessons[key] || !s.QuizPassed[key] {
		t.Errorf("stored = %+v, want completed and passed", s)
	}
	if s.XP != before.XP+progress.XPPerLesson {
		t.Errorf("xp = %d, want %d", s.XP, before.XP+progress.XPPerLesson)
	}
	if got := s.Checklist[key]; !progress.ChecklistEqual(got, []bool{true, true, true}) {
		t.Errorf("stored checklist = %v", got)
	}
	if !v.Completed() || !v.QuizPassed() {
		t.Error("view state not updated")
	}

	// Finishing again never awards XP twice.
	if err := v.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := h.stored(t); s.XP != progress.XPPerLesson {
		t.Errorf("xp after repeat = %d", s.XP)
	}
}

func TestChecklistStaysDoneAfterReselect(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	v := open(t, h, "l1")
	answer(t, v, "A", "x")
	answer(t, v, "B", "y")
	if err := v.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	if err := v.Select(ctx, "B", "z"); err != nil {
		t.Fatal(err)
	}
	if got := v.Checklist(); !progress.ChecklistEqual(got, []bool{true, false, true}) {
		t.Errorf("Checklist() = %v, want [true false true]", got)
	}
}

func TestEmptyQuizCanFinish(t *testing.T) {
	h := newHarness(t, "")
	v := open(t, h, "l2")
	if err := v.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !v.Completed() {
		t.Error("not completed")
	}
	if v.Prev() == nil || v.Prev().ID != "l1" || v.Next() != nil {
		t.Errorf("neighbors = %v, %v", v.Prev(), v.Next())
	}
}

func TestIdentitiesDoNotBlend(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "WalletA")
	v := open(t, h, "l2")
	if err := v.Finish(ctx); err != nil {
		t.Fatal(err)
	}

	h.deps.Identity = "WalletB"
	other := open(t, h, "l2")
	if other.Completed() || other.State().XP != 0 {
		t.Errorf("WalletB sees WalletA progress: %+v", other.State())
	}
}

func TestEventFailureIsNotFatal(t *testing.T) {
	h := newHarness(t, "")
	h.events.err = errors.New("db locked")
	v := open(t, h, "l2")
	if err := v.Finish(context.Background()); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestEmitReceiptGates(t *testing.T) {
	ctx := context.Background()

	h := newHarness(t, "")
	h.sender.identity = ""
	v := open(t, h, "l2")
	_, err := v.EmitReceipt(ctx)
	if got := quiz.UserMessage(err); got != "Connect a wallet to emit a devnet receipt (optional)." {
		t.Errorf("no identity message = %q", got)
	}

	h = newHarness(t, "Wallet1")
	v = open(t, h, "l1")
	if _, err := v.EmitReceipt(ctx); !errors.Is(err, quiz.ErrPreconditionFailed) {
		t.Errorf("unanswered quiz err = %v", err)
	}
	if len(h.sender.sent) != 0 {
		t.Error("sender called despite gate")
	}

	h.deps.Sender = nil
	v = open(t, h, "l2")
	if v.CanEmitReceipt() {
		t.Error("CanEmitReceipt with nil sender")
	}
}

func TestEmitReceiptSuccess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "Wallet1")
	v := open(t, h, "l1")
	answer(t, v, "A", "x")
	answer(t, v, "B", "y")

	if !v.CanEmitReceipt() {
		t.Fatal("CanEmitReceipt = false")
	}
	sig, err := v.EmitReceipt(ctx)
	if err != nil {
		t.Fatalf("EmitReceipt: %v", err)
	}
	if sig != "5igSig" {
		t.Errorf("sig = %q", sig)
	}

	if len(h.sender.sent) != 1 {
		t.Fatalf("sent %d, want 1", len(h.sender.sent))
	}
	req := h.sender.sent[0]
	if req.ProgramID != receipt.MemoProgramID || req.Signer != "Wallet1" {
		t.Errorf("request = %+v", req)
	}
	var p receipt.Payload
	if err := json.Unmarshal(req.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Kind != receipt.Kind || p.LessonID != "l1" || p.LessonTitle != "First" || p.Score != 100 || p.XP != 0 || p.Wallet != "Wallet1" {
		t.Errorf("payload = %+v", p)
	}
	if p.TS != "2026-01-02T03:04:05.000Z" {
		t.Errorf("ts = %q", p.TS)
	}

	s, _ := h.stored(t)
	key := progress.Key(track, "l1")
	if !s.CompletedLessons[key] || !s.QuizPassed[key] || s.XP != progress.XPPerLesson {
		t.Errorf("stored = %+v, want completed with xp", s)
	}
	if v.Busy() {
		t.Error("still busy")
	}

	// Finishing after the receipt must not award XP again.
	if err := v.Finish(ctx); err != nil {
		t.Fatal(err)
	}
	if s, _ := h.stored(t); s.XP != progress.XPPerLesson {
		t.Errorf("xp = %d after receipt + finish", s.XP)
	}
}

func TestEmitReceiptFailureKeepsProgress(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "Wallet1")
	v := open(t, h, "l1")
	answer(t, v, "A", "x")
	answer(t, v, "B", "y")
	if err := v.Finish(ctx); err != nil {
		t.Fatal(err)
	}

	h.sender.err = errors.New("user rejected")
	_, err := v.EmitReceipt(ctx)
	if !errors.Is(err, receipt.ErrSendFailed) {
		t.Fatalf("err = %v, want ErrSendFailed", err)
	}

	s, _ := h.stored(t)
	if !s.CompletedLessons[progress.Key(track, "l1")] || s.XP != progress.XPPerLesson {
		t.Errorf("send failure changed progress: %+v", s)
	}
	if v.Busy() {
		t.Error("busy after failure")
	}
	kinds := h.events.kinds()
	if kinds[len(kinds)-1] != EventReceiptFailed {
		t.Errorf("last event = %s, want %s", kinds[len(kinds)-1], EventReceiptFailed)
	}
}

func TestBeginReceiptBusy(t *testing.T) {
	h := newHarness(t, "Wallet1")
	v := open(t, h, "l2")

	if _, err := v.BeginReceipt(); err != nil {
		t.Fatalf("BeginReceipt: %v", err)
	}
	if v.CanEmitReceipt() {
		t.Error("CanEmitReceipt while busy")
	}
	_, err := v.BeginReceipt()
	var pe *quiz.PreconditionError
	if !errors.As(err, &pe) || pe.Reason != quiz.Busy {
		t.Fatalf("second BeginReceipt = %v, want Busy", err)
	}
	if err := v.CompleteReceipt(context.Background(), "sig", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := v.BeginReceipt(); err != nil {
		t.Errorf("BeginReceipt after complete: %v", err)
	}
}

// brokenKV fails writes once fail is set.
type brokenKV struct {
	*kv.Memory
	fail bool
}

func (b *brokenKV) Set(ctx context.Context, key, value string) error {
	if b.fail {
		return errors.New("disk full")
	}
	return b.Memory.Set(ctx, key, value)
}

func TestEmitReceiptKeepsSignatureWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, "Wallet1")
	broken := &brokenKV{Memory: h.kv}
	h.deps.Progress = progress.NewStore(broken)
	v := open(t, h, "l1")
	answer(t, v, "A", "x")
	answer(t, v, "B", "y")

	broken.fail = true
	sig, err := v.EmitReceipt(ctx)
	if err == nil {
		t.Fatal("EmitReceipt succeeded with failing store")
	}
	if errors.Is(err, receipt.ErrSendFailed) {
		t.Errorf("save failure reported as send failure: %v", err)
	}
	if want := "complete lesson: save progress: disk full"; err.Error() != want {
		t.Errorf("err = %q, want %q", err, want)
	}
	if sig != "5igSig" || v.Signature() != "5igSig" {
		t.Errorf("sig = %q, Signature() = %q; want 5igSig", sig, v.Signature())
	}
	if len(h.sender.sent) != 1 {
		t.Errorf("sent %d, want 1", len(h.sender.sent))
	}
	if s, _ := h.stored(t); s.CompletedLessons[progress.Key(track, "l1")] {
		t.Error("lesson stored as complete despite failed save")
	}
	if v.Completed() {
		t.Error("view state advanced despite failed save")
	}

	// A new attempt starts without the previous signature.
	if _, err := v.BeginReceipt(); err != nil {
		t.Fatal(err)
	}
	if v.Signature() != "" {
		t.Errorf("Signature() = %q after BeginReceipt", v.Signature())
	}
}
