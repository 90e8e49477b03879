// internal/status/encode.go
package status

import (
	"math"

	"github.com/tamzrod/kba-poller/internal/tags"
)

// Encode converts a Snapshot and the tag values into a full line block.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, vals []tags.Value) []uint16 {
	regs := make([]uint16, SlotsPerLine)

	copy(regs, EncodeHeader(s))

	for _, v := range vals {
		if v.ID < 0 || v.ID >= tags.Count {
			continue
		}
		copy(regs[TagSlot(v.ID):], EncodeTag(v))
	}

	return regs
}

// EncodeHeader returns the HeaderSlots registers of s.
func EncodeHeader(s Snapshot) []uint16 {
	regs := make([]uint16, HeaderSlots)
	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotSessions] = uint16(s.Sessions)
	return regs
}

// EncodeTag returns the SlotsPerTag registers of one tag.
// Undefined tags are written as quality 0 with a zero value.
func EncodeTag(v tags.Value) []uint16 {
	regs := make([]uint16, SlotsPerTag)
	if v.Quality != tags.Defined {
		return regs
	}

	bits := math.Float32bits(float32(v.Value))
	regs[0] = 1
	regs[1] = uint16(bits >> 16)
	regs[2] = uint16(bits)
	return regs
}

// TagSlot returns the first slot of tag id inside a line block.
func TagSlot(id int) int {
	return SlotTagStart + id*SlotsPerTag
}
