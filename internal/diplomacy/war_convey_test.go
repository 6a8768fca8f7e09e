package diplomacy

import (
	"testing"

	"github.com/archon-sim/core/internal/ids"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWarDeclarationRules(t *testing.T) {
	Convey("Given two countries with no prior relationship", t, func() {
		s := NewStore()
		var a, b ids.CountryID = 1, 2

		Convey("Declaring war against yourself is rejected", func() {
			reason := s.ValidateDeclareWar(a, a)
			So(reason, ShouldEqual, WarSameCountry)
		})

		Convey("A fresh declaration of war is accepted", func() {
			reason := s.DeclareWar(a, b)
			So(reason, ShouldEqual, WarOK)
			So(s.IsAtWar(a, b), ShouldBeTrue)
			So(s.IsAtWar(b, a), ShouldBeTrue)

			Convey("Declaring war again while already at war is rejected", func() {
				reason := s.ValidateDeclareWar(a, b)
				So(reason, ShouldEqual, WarAlreadyAtWar)
			})

			Convey("Making peace clears the war state", func() {
				s.MakePeace(a, b)
				So(s.IsAtWar(a, b), ShouldBeFalse)
			})
		})

		Convey("When a non-aggression pact is in force", func() {
			s.SetTreaty(a, b, FlagNonAggressionPact, true)

			Convey("Declaring war is rejected", func() {
				reason := s.ValidateDeclareWar(a, b)
				So(reason, ShouldEqual, WarNonAggressionPact)
			})
		})

		Convey("When an alliance is in force", func() {
			s.SetTreaty(a, b, FlagAlliance, true)

			Convey("Declaring war is rejected", func() {
				reason := s.ValidateDeclareWar(a, b)
				So(reason, ShouldEqual, WarAllianceActive)
			})

			Convey("Once the alliance is dissolved, war is accepted and no alliance remains", func() {
				s.SetTreaty(a, b, FlagAlliance, false) // clear it first so DeclareWar can succeed
				reason := s.DeclareWar(a, b)
				So(reason, ShouldEqual, WarOK)
				So(s.AreAllied(a, b), ShouldBeFalse)
			})
		})
	})
}

func TestAllianceTransitivity(t *testing.T) {
	Convey("Given a chain of alliances A-B-C-D", t, func() {
		s := NewStore()
		var a, b, c, d ids.CountryID = 1, 2, 3, 4
		s.SetTreaty(a, b, FlagAlliance, true)
		s.SetTreaty(b, c, FlagAlliance, true)
		s.SetTreaty(c, d, FlagAlliance, true)

		Convey("GetAllies returns only direct allies", func() {
			allies := s.GetAllies(b)
			So(len(allies), ShouldEqual, 2)
		})

		Convey("GetAlliesRecursive returns the whole transitive chain, excluding self", func() {
			allies := s.GetAlliesRecursive(a)
			So(len(allies), ShouldEqual, 3)
		})

		Convey("A cycle in the alliance graph still terminates", func() {
			s.SetTreaty(d, a, FlagAlliance, true) // close the loop
			allies := s.GetAlliesRecursive(a)
			So(len(allies), ShouldEqual, 3)
		})
	})
}
