// internal/tags/tags.go
package tags

// Tag ids published for one laser line.
// The set and the order are fixed and MUST NOT be configurable.
const (
	Reserved       = 0
	RollIndexLine1 = 1
	RollIndexLine2 = 2
	PrintCount     = 3
	OKPrintCount   = 4
	PrintActive    = 5
	Printing       = 6
	Alarm          = 7
	AlarmCode      = 8
	LiveBit        = 9
	SessionTime    = 10
)

// Count is the number of tags per line (ids 0..Count-1).
const Count = 11

// Quality tells whether a tag carries a value read in this run.
type Quality uint8

const (
	// Undefined means no value has been set since the table was created or reset.
	Undefined Quality = iota
	Defined
)

func (q Quality) String() string {
	if q == Defined {
		return "defined"
	}
	return "undefined"
}

// Value is one tag reading.
type Value struct {
	ID      int
	Value   float64
	Quality Quality
}

var names = [Count]string{
	Reserved:       "---",
	RollIndexLine1: "Actual roll number UM1",
	RollIndexLine2: "Actual roll number UM2",
	PrintCount:     "Print counter",
	OKPrintCount:   "Print counter Ok",
	PrintActive:    "Print active",
	Printing:       "Printing",
	Alarm:          "Alarm",
	AlarmCode:      "Alarm code",
	LiveBit:        "Live bit",
	SessionTime:    "Session time (ms)",
}

// Name returns the display name of a tag id, or "" if the id is unknown.
func Name(id int) string {
	if id < 0 || id >= Count {
		return ""
	}
	return names[id]
}

// Bool converts a flag to the 0/1 tag encoding.
func Bool(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
