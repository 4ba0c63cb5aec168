// SPDX-License-Identifier: MIT

package safelanes_test

import (
	"fmt"

	"github.com/naev/naev-sub006/safelanes"
	"github.com/naev/naev-sub006/universe"
)

// ExampleSolver connects two imperial spobs with a single lane.
func ExampleSolver() {
	u, err := universe.New([]universe.System{{
		Name: "Sol",
		Spobs: []universe.Spob{
			{Name: "Earth", Pos: universe.Vec2{X: 0, Y: 0}, Faction: 1, Presence: 100},
			{Name: "Mars", Pos: universe.Vec2{X: 1000, Y: 0}, Faction: 1, Presence: 100},
		},
	}}, []universe.Faction{{Name: "Empire", LaneLengthPerPresence: 10}})
	if err != nil {
		fmt.Println(err)
		return
	}

	s := safelanes.NewSolver(safelanes.WithLambda(1e6))
	if _, err = s.RecalculateUniverse(u); err != nil {
		fmt.Println(err)
		return
	}
	for _, l := range s.Lanes(safelanes.InSystem(0), safelanes.WithFaction(1)) {
		fmt.Println(u.FactionName(l.Faction), l.A.Pos, l.B.Pos)
	}
	b, _ := s.Table().Budget(1, 0)
	fmt.Printf("spent %.0f of %.0f\n", b.Spent, b.Initial)
	// Output:
	// Empire {0 0} {1000 0}
	// spent 100 of 200
}
