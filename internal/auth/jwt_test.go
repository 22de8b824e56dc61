package auth

import (
	"strings"
	"testing"
	"time"
)

func testService() TicketService {
	return TicketService{
		Secret:   []byte("test-secret"),
		Issuer:   "dancehub-test",
		Duration: time.Hour,
	}
}

func TestIssueAndParse(t *testing.T) {
	ts := testService()
	u := &User{
		ID:            "u-123",
		Username:      "dancer",
		Email:         "dancer@example.com",
		TicketVersion: 2,
	}

	ticket, exp, err := ts.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry %v not about one hour out", exp)
	}

	claims, err := ts.Parse(ticket)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-123" || claims.Username != "dancer" || claims.Email != "dancer@example.com" {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.TicketVersion != 2 {
		t.Fatalf("ticket version = %d, want 2", claims.TicketVersion)
	}
	if claims.Issuer != "dancehub-test" || claims.Subject != "u-123" {
		t.Fatalf("registered claims = %+v", claims.RegisteredClaims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testService()
	ticket, _, err := ts.Issue(&User{ID: "u-1", Username: "x"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := TicketService{Secret: []byte("different"), Issuer: ts.Issuer, Duration: ts.Duration}
	if _, err := other.Parse(ticket); err == nil {
		t.Fatal("ticket signed with another secret must not parse")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testService()
	ts.Duration = -time.Minute

	ticket, _, err := ts.Issue(&User{ID: "u-1", Username: "x"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ts.Parse(ticket); err == nil {
		t.Fatal("expired ticket must not parse")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	ts := testService()
	for _, in := range []string{"", "not.a.ticket", strings.Repeat("x", 64)} {
		if _, err := ts.Parse(in); err == nil {
			t.Fatalf("Parse(%q) accepted garbage", in)
		}
	}
}
