package model

import "fmt"

// Direction is the predicted mid-price movement class. The benchmark
// encodes raw labels as {1, 2, 3}; subtracting one yields the class index.
type Direction int

const (
	Down Direction = iota
	Stationary
	Up
)

// ClassCount is the number of movement classes.
const ClassCount = 3

// String returns the class name.
func (d Direction) String() string {
	switch d {
	case Down:
		return "down"
	case Stationary:
		return "stationary"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// LabelRangeError reports a raw label value outside {1, 2, 3}. It marks a
// data-integrity fault in the split file, not a transient condition.
type LabelRangeError struct {
	Index int     // time-step index of the offending label
	Value float64 // raw value found in the file
}

func (e *LabelRangeError) Error() string {
	return fmt.Sprintf("label %v at index %d outside {1,2,3}", e.Value, e.Index)
}

// DirectionFromRaw maps a raw file label in {1, 2, 3} to a Direction.
// Any other value, including non-integral ones, is a LabelRangeError.
func DirectionFromRaw(v float64, index int) (Direction, error) {
	switch v {
	case 1:
		return Down, nil
	case 2:
		return Stationary, nil
	case 3:
		return Up, nil
	default:
		return 0, &LabelRangeError{Index: index, Value: v}
	}
}

// Raw returns the benchmark's integer encoding of the class.
func (d Direction) Raw() int { return int(d) + 1 }

// OneHot is a length-3 indicator vector over {down, stationary, up}.
type OneHot [ClassCount]float64

// OneHot encodes the direction as an indicator vector.
func (d Direction) OneHot() OneHot {
	var o OneHot
	o[d] = 1
	return o
}

// Direction decodes a one-hot vector back to its class. The second return
// is false if the vector is not a valid indicator.
func (o OneHot) Direction() (Direction, bool) {
	hot := -1
	for i, v := range o {
		switch v {
		case 1:
			if hot >= 0 {
				return 0, false
			}
			hot = i
		case 0:
		default:
			return 0, false
		}
	}
	if hot < 0 {
		return 0, false
	}
	return Direction(hot), true
}
