package state

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EndingStatus is the persisted flag for a single ending passage.
type EndingStatus struct {
	Got bool `json:"got"`
}

// EndingRecord maps ending passage names to whether the player has reached
// them. The zero value is not usable; use NewEndingRecord or DecodeEndingRecord.
type EndingRecord map[string]EndingStatus

func NewEndingRecord() EndingRecord {
	return make(EndingRecord)
}

// DecodeEndingRecord parses a stored record. Callers treat any error as an
// empty record.
func DecodeEndingRecord(data string) (EndingRecord, error) {
	rec := NewEndingRecord()
	if data == "" {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return NewEndingRecord(), fmt.Errorf("failed to unmarshal ending record: %w", err)
	}
	if rec == nil {
		// "null" decodes to a nil map
		rec = NewEndingRecord()
	}
	return rec, nil
}

func (r EndingRecord) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ending record: %w", err)
	}
	return string(data), nil
}

// Tracked reports whether name is a known ending.
func (r EndingRecord) Tracked(name string) bool {
	_, ok := r[name]
	return ok
}

// MarkGot sets got=true for a tracked ending. Untracked names are left alone
// and reported with false; no key is ever added.
func (r EndingRecord) MarkGot(name string) bool {
	status, ok := r[name]
	if !ok {
		return false
	}
	status.Got = true
	r[name] = status
	return true
}

// Track adds names that are not yet in the record with got=false and reports
// how many were added.
func (r EndingRecord) Track(names ...string) int {
	added := 0
	for _, n := range names {
		if _, ok := r[n]; !ok {
			r[n] = EndingStatus{}
			added++
		}
	}
	return added
}

// Unlocked returns the number of endings reached.
func (r EndingRecord) Unlocked() int {
	n := 0
	for _, s := range r {
		if s.Got {
			n++
		}
	}
	return n
}

// Names returns the tracked ending names in sorted order.
func (r EndingRecord) Names() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (r EndingRecord) Clone() EndingRecord {
	out := make(EndingRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
