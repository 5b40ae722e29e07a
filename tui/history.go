// Package tui provides a Bubble Tea terminal UI for ClashCore combats.
package tui

// History keeps the most recent commands in a fixed-size ring, with a
// cursor for Up/Down navigation.
type History struct {
	ring   []string
	start  int // index of the oldest entry
	size   int
	cursor int // -1 = not navigating, else offset from the oldest entry
}

// NewHistory creates a history buffer holding at most max commands.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{ring: make([]string, max), cursor: -1}
}

// Len reports the number of stored commands.
func (h *History) Len() int { return h.size }

func (h *History) at(i int) string {
	return h.ring[(h.start+i)%len(h.ring)]
}

// Push records cmd. A repeat of the newest entry is skipped; when full the
// oldest entry is overwritten.
func (h *History) Push(cmd string) {
	if h.size > 0 && h.at(h.size-1) == cmd {
		return
	}
	if h.size < len(h.ring) {
		h.ring[(h.start+h.size)%len(h.ring)] = cmd
		h.size++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if h.size == 0 {
		return "", false
	}
	switch {
	case h.cursor == -1:
		h.cursor = h.size - 1
	case h.cursor > 0:
		h.cursor--
	}
	return h.at(h.cursor), true
}

// Next steps forward to a newer command. Past the newest it returns false
// and navigation ends.
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= h.size {
		h.cursor = -1
		return "", false
	}
	return h.at(h.cursor), true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = -1
}
