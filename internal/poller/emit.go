// internal/poller/emit.go
package poller

import (
	"github.com/tamzrod/kba-poller/internal/laser"
	"github.com/tamzrod/kba-poller/internal/tags"
)

// statusTag maps one status field straight to a tag.
type statusTag struct {
	id    int
	value func(laser.Status) float64
}

// statusTags lists the pass-through fields in emission order.
// Tag 6 (printing) is derived and not part of this table.
var statusTags = []statusTag{
	{tags.PrintCount, func(s laser.Status) float64 { return float64(s.PrintCount) }},
	{tags.OKPrintCount, func(s laser.Status) float64 { return float64(s.OKPrintCount) }},
	{tags.PrintActive, func(s laser.Status) float64 { return tags.Bool(s.PrintIsStarted) }},
	{tags.Alarm, func(s laser.Status) float64 { return tags.Bool(s.IsAlarm) }},
	{tags.AlarmCode, func(s laser.Status) float64 { return float64(s.AlarmCode) }},
}
