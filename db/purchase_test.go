package db

import "testing"

func TestCanTransition(t *testing.T) {
	legal := map[PaidStatus][]PaidStatus{
		StatusUnpaid: {StatusPaid},
		StatusPaid:   {StatusFunded, StatusPartiallyFunded, StatusFailed},
	}
	all := []PaidStatus{StatusFailed, StatusUnpaid, StatusPaid, StatusFunded, StatusPartiallyFunded}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if to == allowed {
					want = true
				}
			}
			if got := from.CanTransition(to); got != want {
				t.Errorf("%v -> %v: got %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExit(t *testing.T) {
	all := []PaidStatus{StatusFailed, StatusUnpaid, StatusPaid, StatusFunded, StatusPartiallyFunded}
	for _, s := range []PaidStatus{StatusFunded, StatusPartiallyFunded, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%v must be terminal", s)
		}
		for _, to := range all {
			if s.CanTransition(to) {
				t.Errorf("%v must not transition to %v", s, to)
			}
		}
	}
	for _, s := range []PaidStatus{StatusUnpaid, StatusPaid} {
		if s.Terminal() {
			t.Errorf("%v must not be terminal", s)
		}
	}
}

func TestPaidStatusString(t *testing.T) {
	cases := map[PaidStatus]string{
		StatusFailed:          "failed",
		StatusUnpaid:          "unpaid",
		StatusPaid:            "paid",
		StatusFunded:          "funded",
		StatusPartiallyFunded: "partially funded",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestNonceLocks(t *testing.T) {
	nonces := NewNonceLocks()
	if !nonces.Check("alice", 10, 100) {
		t.Fatal("first nonce must pass")
	}
	if nonces.Check("alice", 10, 101) {
		t.Fatal("replayed nonce must fail")
	}
	if nonces.Check("alice", 9, 102) {
		t.Fatal("older nonce must fail")
	}
	if !nonces.Check("alice", 11, 103) {
		t.Fatal("newer nonce must pass")
	}
	if !nonces.Check("bob", 1, 104) {
		t.Fatal("nonces are tracked per pubkey")
	}

	nonces.Sweep(200)
	if !nonces.Check("alice", 1, 300) {
		t.Fatal("swept pubkey starts fresh")
	}
}
