package models

// TimeSlots lists the fixed daily windows in assignment order.
var TimeSlots = []string{
	"08.00 - 10.00",
	"10.00 - 12.00",
	"13.00 - 15.00",
	"15.00 - 17.00",
}

const SlotsPerDay = 4

// TimeSlotIndex returns the position of label in TimeSlots or -1.
func TimeSlotIndex(label string) int {
	for index, slot := range TimeSlots {
		if slot == label {
			return index
		}
	}
	return -1
}

func IsValidTimeSlot(label string) bool {
	return TimeSlotIndex(label) >= 0
}
