// internal/status/constants.go
package status

import "github.com/tamzrod/kba-poller/internal/tags"

// Line block layout constants.
// These values define the published protocol and MUST NOT be configurable.

// ---- HEADER ----

// SlotHealthCode holds the line health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the line has been in error.
const SlotSecondsInError = 2

// SlotSessions holds the low 16 bits of the session counter.
const SlotSessions = 3

// HeaderSlots is the number of header slots before the tag area.
const HeaderSlots = 4

// ---- TAG AREA ----

// SlotTagStart is the first slot of tag 0.
const SlotTagStart = HeaderSlots

// SlotsPerTag is quality (1) + float32 value (2).
const SlotsPerTag = 3

// SlotsPerLine is the fixed size of one line block.
const SlotsPerLine = HeaderSlots + tags.Count*SlotsPerTag

// ---- LIMITS ----

// MaxSecondsInError is where seconds_in_error saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state before the first session.
const HealthUnknown uint16 = 0

// HealthOK represents a line whose last session completed.
const HealthOK uint16 = 1

// HealthError represents a line whose last session failed.
const HealthError uint16 = 2

// HealthFatal represents a line that could not start (configuration fatal).
const HealthFatal uint16 = 3
