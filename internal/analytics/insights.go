package analytics

import (
	"fmt"
	"sort"

	"github.com/guildpulse/guildpulse/internal/models"
)

// TopChannels returns the n busiest channels. Input order does not matter:
// the result is sorted by count descending with ties broken by ascending
// channel ID so rankings are reproducible.
func TopChannels(channels []models.ChannelActivity, n int) []models.ChannelActivity {
	if n <= 0 || len(channels) == 0 {
		return []models.ChannelActivity{}
	}

	sorted := make([]models.ChannelActivity, len(channels))
	copy(sorted, channels)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].ChannelID < sorted[j].ChannelID
	})

	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// PeakTimeSlots buckets hour-of-day counts into fixed-size slots and returns
// the n busiest, sorted by count descending with ties broken by earlier slot
// start. slotSize must divide 24 evenly; labels are zero-padded and wrap at
// midnight, e.g. "21h-00h".
func PeakTimeSlots(hours []models.HourCount, slotSize, n int) []models.TimeSlot {
	if slotSize <= 0 || 24%slotSize != 0 {
		slotSize = 3
	}
	if n <= 0 {
		return []models.TimeSlot{}
	}

	slots := make([]models.TimeSlot, 24/slotSize)
	for i := range slots {
		start := i * slotSize
		slots[i] = models.TimeSlot{
			SlotStart: start,
			Label:     fmt.Sprintf("%02dh-%02dh", start, (start+slotSize)%24),
		}
	}
	for _, h := range hours {
		if h.Hour >= 0 && h.Hour < 24 {
			slots[h.Hour/slotSize].Count += h.Count
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Count != slots[j].Count {
			return slots[i].Count > slots[j].Count
		}
		return slots[i].SlotStart < slots[j].SlotStart
	})

	if n > len(slots) {
		n = len(slots)
	}
	return slots[:n]
}
