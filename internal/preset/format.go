// Package preset reads and writes the stats editor's 228-line preset text:
// a 101x101 chemistry matrix, a 101x30 attribute matrix and a 26-line
// trajectory block, all comma separated.
package preset

import (
	"errors"
	"fmt"

	"github.com/clbtools/clbtools/internal/roster"
)

const (
	ChemistryRows     = roster.CanonicalCount
	AttributeRows     = roster.CanonicalCount
	AttributeColumns  = 30
	TrajectoryRows    = 24
	TrajectoryColumns = 25
	TrajectorySlots   = 6
	TrajectoryLines   = TrajectoryRows + 2

	chemistryStart  = 0
	attributesStart = chemistryStart + ChemistryRows
	trajectoryStart = attributesStart + AttributeRows

	// TotalLines is the number of lines in a complete preset.
	TotalLines = trajectoryStart + TrajectoryLines
)

// Chemistry cell values in the preset.
const (
	ValueNegative = 0
	ValueNeutral  = 1
	ValuePositive = 2
)

// Section names used in errors.
const (
	SectionFile       = "file"
	SectionChemistry  = "chemistry"
	SectionAttributes = "attributes"
	SectionTrajectory = "trajectory"
)

// ErrTrajectoryMissing is returned on export when no preset has been imported.
var ErrTrajectoryMissing = errors.New("trajectory data not found; import a stats preset first")

// ParseError describes a structural problem in a preset. Line is 1-based.
type ParseError struct {
	Section  string
	Line     int
	Expected int
	Actual   int
	Token    string
	Reason   string
}

func (e *ParseError) Error() string {
	switch {
	case e.Section == SectionFile:
		return fmt.Sprintf("invalid preset file: expected at least %d lines, found %d", e.Expected, e.Actual)
	case e.Reason != "":
		return fmt.Sprintf("invalid %s row at line %d: %s (%q)", e.Section, e.Line, e.Reason, e.Token)
	default:
		return fmt.Sprintf("invalid %s row at line %d: expected %d values, found %d", e.Section, e.Line, e.Expected, e.Actual)
	}
}

// Matrix is the chemistry section indexed by canonical id.
type Matrix [ChemistryRows][ChemistryRows]int

// NeutralMatrix returns a matrix with every cell neutral.
func NeutralMatrix() Matrix {
	var m Matrix
	for i := range m {
		for j := range m[i] {
			m[i][j] = ValueNeutral
		}
	}
	return m
}

// AttributeRow is one character's 30 raw attribute values.
type AttributeRow [AttributeColumns]int

// Trajectory is passed through untouched. Lines holds the original text so
// export reproduces it byte for byte.
type Trajectory struct {
	Matrix [TrajectoryRows][TrajectoryColumns]int `json:"matrix"`
	Names  [TrajectorySlots]string                `json:"names"`
	Usage  [TrajectorySlots]int                   `json:"usage"`
	Lines  []string                               `json:"lines,omitempty"`
}

// Preset is a fully parsed preset file.
type Preset struct {
	Chemistry  Matrix
	Attributes [AttributeRows]AttributeRow
	Trajectory Trajectory
}
