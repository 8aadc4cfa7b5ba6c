package models_test

import (
	"errors"
	"testing"
	"time"

	"kindred_server/models"
)

func TestCanonicalPair(t *testing.T) {
	cases := []struct {
		a, b   string
		p1, p2 string
	}{
		{"u1", "u2", "u1", "u2"},
		{"u2", "u1", "u1", "u2"},
		{"b7e0", "0a11", "0a11", "b7e0"},
		{"same", "same", "same", "same"},
	}
	for _, c := range cases {
		p1, p2 := models.CanonicalPair(c.a, c.b)
		if p1 != c.p1 || p2 != c.p2 {
			t.Errorf("CanonicalPair(%q, %q) = (%q, %q), want (%q, %q)", c.a, c.b, p1, p2, c.p1, c.p2)
		}
	}
}

func TestNewMatch_OrderIndependent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	m1, err := models.NewMatch("m-1", "zed", "amy", 0.5, now)
	if err != nil {
		t.Fatalf("NewMatch returned unexpected error: %v", err)
	}
	m2, err := models.NewMatch("m-2", "amy", "zed", 0.5, now)
	if err != nil {
		t.Fatalf("NewMatch returned unexpected error: %v", err)
	}

	if m1.Profile1ID != "amy" || m1.Profile2ID != "zed" {
		t.Errorf("got (%s, %s), want (amy, zed)", m1.Profile1ID, m1.Profile2ID)
	}
	if m1.PairKey != m2.PairKey {
		t.Errorf("pair keys differ: %q vs %q", m1.PairKey, m2.PairKey)
	}
	if m1.PairKey != models.PairKey("zed", "amy") {
		t.Errorf("PairKey mismatch: %q", m1.PairKey)
	}
	if m1.Status != models.MatchStatusMatched {
		t.Errorf("status = %q, want matched", m1.Status)
	}
}

func TestNewMatch_RejectsSelf(t *testing.T) {
	_, err := models.NewMatch("m-1", "u1", "u1", 0.5, time.Now())
	if !errors.Is(err, models.ErrSelfMatch) {
		t.Errorf("NewMatch(u1, u1) error = %v, want ErrSelfMatch", err)
	}
}

func TestMatch_Other(t *testing.T) {
	m, _ := models.NewMatch("m-1", "u2", "u1", 0.5, time.Now())

	if other, ok := m.Other("u1"); !ok || other != "u2" {
		t.Errorf("Other(u1) = (%q, %v), want (u2, true)", other, ok)
	}
	if other, ok := m.Other("u2"); !ok || other != "u1" {
		t.Errorf("Other(u2) = (%q, %v), want (u1, true)", other, ok)
	}
	if _, ok := m.Other("u3"); ok {
		t.Error("Other(u3) should report false")
	}
	if m.HasProfile("u3") {
		t.Error("HasProfile(u3) should be false")
	}
}

func TestMatchStatus_Valid(t *testing.T) {
	for _, s := range []models.MatchStatus{
		models.MatchStatusPending,
		models.MatchStatusMatched,
		models.MatchStatusRejected,
		models.MatchStatusBlocked,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if models.MatchStatus("archived").Valid() {
		t.Error("archived should not be valid")
	}
}

func TestProfileUpdate_Apply(t *testing.T) {
	p := models.Profile{ID: "u1", Name: "Old", IsActive: true, IsSearching: true}
	name := "New"
	inactive := false
	interests := []string{"climbing"}

	u := models.ProfileUpdate{Name: &name, IsActive: &inactive, Interests: &interests}
	if u.Empty() {
		t.Fatal("update should not be empty")
	}
	u.Apply(&p)

	if p.Name != "New" || p.IsActive || len(p.Interests) != 1 {
		t.Errorf("unexpected profile after Apply: %+v", p)
	}
	if p.ID != "u1" || !p.IsSearching {
		t.Error("Apply must not touch id or isSearching")
	}
	if !(models.ProfileUpdate{}).Empty() {
		t.Error("zero update should be empty")
	}
}

func TestProfile_PublicNeverNilInterests(t *testing.T) {
	pub := models.Profile{ID: "u1", Name: "Ana"}.Public()
	if pub.Interests == nil {
		t.Error("Public().Interests should be an empty slice, not nil")
	}
}
