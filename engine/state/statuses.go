package state

import (
	"fmt"

	"github.com/nathoo/clashcore/types"
)

// knownIndex maps built-in status ids to their table position.
var knownIndex = func() map[types.StatusID]int {
	m := make(map[types.StatusID]int, types.NumKnownStatuses)
	for i, id := range types.KnownStatuses {
		m[id] = i
	}
	return m
}()

// IsKnownStatus reports whether id belongs to the closed built-in set.
func IsKnownStatus(id types.StatusID) bool {
	_, ok := knownIndex[id]
	return ok
}

// StatusEntry is a snapshot of one status: its id and active stack amount.
type StatusEntry struct {
	ID    types.StatusID
	Stack int
}

func stacks(t *types.StatusTable, id types.StatusID) []types.StatusStack {
	if i, ok := knownIndex[id]; ok {
		return t.Known[i]
	}
	return t.Custom[id]
}

// putStacks stores the stacks for id, dropping zero-amount entries and
// deleting the id entirely when nothing is left.
func putStacks(t *types.StatusTable, id types.StatusID, in []types.StatusStack) {
	var kept []types.StatusStack
	for _, s := range in {
		if s.Amount > 0 {
			kept = append(kept, s)
		}
	}

	_, present := indexOf(t.Order, id)
	if i, ok := knownIndex[id]; ok {
		t.Known[i] = kept
	} else if len(kept) > 0 {
		if t.Custom == nil {
			t.Custom = map[types.StatusID][]types.StatusStack{}
		}
		t.Custom[id] = kept
	} else {
		delete(t.Custom, id)
	}

	switch {
	case len(kept) > 0 && !present:
		t.Order = append(t.Order, id)
	case len(kept) == 0 && present:
		j, _ := indexOf(t.Order, id)
		t.Order = append(t.Order[:j], t.Order[j+1:]...)
	}
}

func indexOf(ids []types.StatusID, id types.StatusID) (int, bool) {
	for i, v := range ids {
		if v == id {
			return i, true
		}
	}
	return -1, false
}

// GetStatus returns the active stack count of a status. Pending (delayed)
// stacks are not counted. Missing statuses return 0.
func GetStatus(u *types.Unit, id types.StatusID) int {
	total := 0
	for _, s := range stacks(&u.Statuses, id) {
		if s.Delay <= 0 {
			total += s.Amount
		}
	}
	return total
}

// PendingStatus returns the amount of a status still waiting to activate.
func PendingStatus(u *types.Unit, id types.StatusID) int {
	total := 0
	for _, s := range stacks(&u.Statuses, id) {
		if s.Delay > 0 {
			total += s.Amount
		}
	}
	return total
}

// AddStatus applies amount stacks of a status. Untimed, immediate stacks
// merge into one entry; timed or delayed ones are kept separate.
func AddStatus(u *types.Unit, id types.StatusID, amount, duration, delay int) {
	if amount <= 0 || id == "" {
		return
	}
	if duration < 0 {
		duration = 0
	}
	if delay < 0 {
		delay = 0
	}
	cur := append([]types.StatusStack(nil), stacks(&u.Statuses, id)...)
	if duration == 0 && delay == 0 {
		for i := range cur {
			if cur[i].Duration == 0 && cur[i].Delay == 0 {
				cur[i].Amount += amount
				putStacks(&u.Statuses, id, cur)
				return
			}
		}
	}
	cur = append(cur, types.StatusStack{Amount: amount, Duration: duration, Delay: delay})
	putStacks(&u.Statuses, id, cur)
}

// ReduceStatus removes up to amount active stacks, oldest entry first.
// Returns the amount actually removed.
func ReduceStatus(u *types.Unit, id types.StatusID, amount int) int {
	if amount <= 0 {
		return 0
	}
	cur := append([]types.StatusStack(nil), stacks(&u.Statuses, id)...)
	removed := 0
	for i := range cur {
		if cur[i].Delay > 0 {
			continue
		}
		take := cur[i].Amount
		if take > amount-removed {
			take = amount - removed
		}
		cur[i].Amount -= take
		removed += take
		if removed == amount {
			break
		}
	}
	putStacks(&u.Statuses, id, cur)
	return removed
}

// SetStatus replaces the active stacks of a status with a single untimed
// stack of the given amount. Pending stacks are kept.
func SetStatus(u *types.Unit, id types.StatusID, amount int) {
	var cur []types.StatusStack
	for _, s := range stacks(&u.Statuses, id) {
		if s.Delay > 0 {
			cur = append(cur, s)
		}
	}
	if amount > 0 {
		cur = append([]types.StatusStack{{Amount: amount}}, cur...)
	}
	putStacks(&u.Statuses, id, cur)
}

// RemoveStatus deletes every stack of a status, pending ones included.
func RemoveStatus(u *types.Unit, id types.StatusID) {
	putStacks(&u.Statuses, id, nil)
}

// ClearStatuses removes all statuses.
func ClearStatuses(u *types.Unit) {
	u.Statuses = types.StatusTable{}
}

// ActiveStatuses returns a snapshot of every status with an active stack,
// in insertion order. Callers may mutate the unit while ranging over it.
func ActiveStatuses(u *types.Unit) []StatusEntry {
	out := make([]StatusEntry, 0, len(u.Statuses.Order))
	for _, id := range u.Statuses.Order {
		if n := GetStatus(u, id); n > 0 {
			out = append(out, StatusEntry{ID: id, Stack: n})
		}
	}
	return out
}

// StatusStacks returns a copy of every stack stored for id.
func StatusStacks(u *types.Unit, id types.StatusID) []types.StatusStack {
	return append([]types.StatusStack(nil), stacks(&u.Statuses, id)...)
}

// RestoreStatus stores stacks verbatim, used when loading checkpoints.
func RestoreStatus(u *types.Unit, id types.StatusID, in []types.StatusStack) {
	putStacks(&u.Statuses, id, append([]types.StatusStack(nil), in...))
}

// TickStatuses advances durations and delays by one turn. Timed stacks
// expire at 0; delayed stacks activate at 0. Returns log lines.
func TickStatuses(u *types.Unit) []string {
	var log []string
	for _, id := range append([]types.StatusID(nil), u.Statuses.Order...) {
		cur := append([]types.StatusStack(nil), stacks(&u.Statuses, id)...)
		var next []types.StatusStack
		for _, s := range cur {
			switch {
			case s.Delay > 0:
				s.Delay--
				if s.Delay == 0 {
					log = append(log, fmt.Sprintf("%s: %s %d takes effect", u.Name, id, s.Amount))
				}
			case s.Duration > 0:
				s.Duration--
				if s.Duration == 0 {
					log = append(log, fmt.Sprintf("%s: %s %d wears off", u.Name, id, s.Amount))
					continue
				}
			}
			next = append(next, s)
		}
		putStacks(&u.Statuses, id, mergeUntimed(next))
	}
	return log
}

// mergeUntimed folds all immediate untimed stacks into the first one.
func mergeUntimed(in []types.StatusStack) []types.StatusStack {
	first := -1
	var out []types.StatusStack
	for _, s := range in {
		if s.Duration == 0 && s.Delay == 0 {
			if first >= 0 {
				out[first].Amount += s.Amount
				continue
			}
			first = len(out)
		}
		out = append(out, s)
	}
	return out
}
