// internal/poller/debounce.go
package poller

// PrintingHold is how many consecutive "not printing" readings are still
// reported as printing after the last "printing" reading.
const PrintingHold = 5

// Debounce is the printing filter transition.
// A true reading reloads the counter; a false reading reports printing while
// the counter is still above zero and then decrements it (floor 0).
func Debounce(count int, isPrinting bool) (int, bool) {
	if isPrinting {
		return PrintingHold, true
	}
	if count > PrintingHold {
		count = PrintingHold
	}
	if count <= 0 {
		return 0, false
	}
	return count - 1, true
}
