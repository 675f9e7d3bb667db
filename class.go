// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package savegame

import "fmt"

// ClassType names the kind of object a Writer or Reader scope is working
// on. It only decorates diagnostics and is never persisted. Extend at the
// end only.
type ClassType uint8

const (
	ClassNone ClassType = iota
	ClassArea
	ClassMap
	ClassPlot
	ClassUnit
	ClassUnitAI

	NumClassTypes
)

var classNames = [NumClassTypes]string{
	ClassNone:   "none",
	ClassArea:   "area",
	ClassMap:    "map",
	ClassPlot:   "plot",
	ClassUnit:   "unit",
	ClassUnitAI: "unit_ai",
}

func (c ClassType) String() string {
	if c >= NumClassTypes {
		return fmt.Sprintf("class(%d)", uint8(c))
	}
	return classNames[c]
}
