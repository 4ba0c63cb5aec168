// SPDX-License-Identifier: MIT

package builder

import "errors"

// ErrNeedRandSource indicates that Galaxy was called without WithSeed or WithRand.
var ErrNeedRandSource = errors.New("builder: random source required")

// ErrTooFewSystems indicates a galaxy with fewer systems than factions need
// for distinct home systems.
var ErrTooFewSystems = errors.New("builder: not enough systems for faction homes")
