package core

// NearDueWindow is how many days ahead an unpaid bill is flagged.
const NearDueWindow = 3

// IsNearDue reports whether an unpaid bill falls due between today and
// NearDueWindow days from now, inclusive. today is the current day of the
// month. Bills without a numeric due day are never near due.
func IsNearDue(b Bill, today int) bool {
	if b.Paid {
		return false
	}
	day, ok := b.DueDay()
	if !ok {
		return false
	}
	diff := day - today
	return diff >= 0 && diff <= NearDueWindow
}
