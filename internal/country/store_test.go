package country

import (
	"testing"

	"github.com/archon-sim/core/internal/ids"
)

func TestTagIDRoundTrip(t *testing.T) {
	s := NewStore([]string{"ARG", "BRA"}, nil)
	id, ok := s.IDForTag("BRA")
	if !ok {
		t.Fatal("expected BRA to resolve")
	}
	tag, ok := s.TagForID(id)
	if !ok || tag != "BRA" {
		t.Errorf("expected BRA, got %q ok=%v", tag, ok)
	}
}

func TestUnknownTagNotFound(t *testing.T) {
	s := NewStore([]string{"ARG"}, nil)
	if _, ok := s.IDForTag("ZZZ"); ok {
		t.Error("expected ZZZ to be unresolved")
	}
}

func TestSentinelIDNotRegistered(t *testing.T) {
	s := NewStore([]string{"ARG"}, nil)
	if s.Exists(ids.NoCountry) {
		t.Error("sentinel 0 must never exist as a registered country")
	}
}

func TestHotColdSeparation(t *testing.T) {
	s := NewStore([]string{"ARG"}, []Hot{{ColorRGB: 0xFF0000}})
	id, _ := s.IDForTag("ARG")
	if s.GetHot(id).ColorRGB != 0xFF0000 {
		t.Error("expected hot color to be set from constructor")
	}
	s.AppendHistory(id, "founded")
	if len(s.GetCold(id).History) != 1 {
		t.Error("expected one history entry")
	}
}
