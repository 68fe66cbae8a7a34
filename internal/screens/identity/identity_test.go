package identity

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/st-academy/academy/internal/screen/screentest"
)

func typeText(s *IdentityScreen, text string) {
	for _, r := range text {
		s.Update(screentest.Key(r))
	}
}

func TestSetWalletIdentity(t *testing.T) {
	f := screentest.New(t)
	s := New(f.Env)
	typeText(s, screentest.Wallet)

	_, cmd := s.Update(screentest.Special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("valid address should produce a command")
	}
	if f.Env.Identity != screentest.Wallet {
		t.Errorf("identity = %q, want %q", f.Env.Identity, screentest.Wallet)
	}
}

func TestRejectInvalidAddress(t *testing.T) {
	f := screentest.New(t)
	s := New(f.Env)
	typeText(s, "not-a-wallet!")

	_, cmd := s.Update(screentest.Special(tea.KeyEnter))
	if cmd != nil {
		t.Error("invalid address should not leave the screen")
	}
	if f.Env.Identity != "" {
		t.Errorf("identity = %q, want anonymous", f.Env.Identity)
	}
}

func TestEmptyMeansAnonymous(t *testing.T) {
	f := screentest.New(t)
	f.Env.Identity = screentest.Wallet
	s := New(f.Env)
	for range screentest.Wallet {
		s.Update(screentest.Special(tea.KeyBackspace))
	}

	_, cmd := s.Update(screentest.Special(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("empty input should be accepted")
	}
	if f.Env.Identity != "" {
		t.Errorf("identity = %q, want anonymous", f.Env.Identity)
	}
}

func TestSignerFixesIdentity(t *testing.T) {
	f := screentest.New(t)
	f.Env.Sender = &screentest.Sender{ID: screentest.Wallet}
	f.Env.Identity = screentest.Wallet
	s := New(f.Env)

	typeText(s, "x")
	if _, cmd := s.Update(screentest.Special(tea.KeyEnter)); cmd != nil {
		t.Error("identity screen should be read-only with a signer")
	}
	if f.Env.Identity != screentest.Wallet {
		t.Errorf("identity changed to %q", f.Env.Identity)
	}
}
