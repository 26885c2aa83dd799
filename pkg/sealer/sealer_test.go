package sealer

import "testing"

func TestManageTokenRoundTrip(t *testing.T) {
	token, err := CreateManageToken("agent-1", "665f0a1b2c3d4e5f60718294")
	if err != nil {
		t.Fatalf("CreateManageToken returned error: %v", err)
	}

	agentID, bookingID, err := ParseManageToken(token)
	if err != nil {
		t.Fatalf("ParseManageToken returned error: %v", err)
	}
	if agentID != "agent-1" {
		t.Errorf("agentID = %q, want agent-1", agentID)
	}
	if bookingID != "665f0a1b2c3d4e5f60718294" {
		t.Errorf("bookingID = %q, want 665f0a1b2c3d4e5f60718294", bookingID)
	}
}

func TestManageTokenUnique(t *testing.T) {
	// Random nonces make every token distinct even for the same payload.
	a, err := CreateManageToken("agent-1", "booking-1")
	if err != nil {
		t.Fatalf("CreateManageToken returned error: %v", err)
	}
	b, err := CreateManageToken("agent-1", "booking-1")
	if err != nil {
		t.Fatalf("CreateManageToken returned error: %v", err)
	}
	if a == b {
		t.Error("two tokens for the same payload should differ")
	}
}

func TestParseManageTokenRejectsTampering(t *testing.T) {
	token, err := CreateManageToken("agent-1", "booking-1")
	if err != nil {
		t.Fatalf("CreateManageToken returned error: %v", err)
	}

	tampered := []byte(token)
	if tampered[len(tampered)-1] == 'A' {
		tampered[len(tampered)-1] = 'B'
	} else {
		tampered[len(tampered)-1] = 'A'
	}

	if _, _, err := ParseManageToken(string(tampered)); err == nil {
		t.Error("ParseManageToken accepted a tampered token")
	}
}

func TestParseManageTokenRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-token", "AAAA"} {
		if _, _, err := ParseManageToken(input); err == nil {
			t.Errorf("ParseManageToken(%q) returned nil error", input)
		}
	}
}
