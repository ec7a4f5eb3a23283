package opc

import (
	"fmt"
	"strconv"
	"strings"
)

// Counter hands out strictly increasing values, starting after its seed.
// It never reuses a value, even if the caller discards one.
type Counter struct {
	last uint64
}

// NewCounter creates a Counter whose first Next() returns seed+1.
func NewCounter(seed uint64) *Counter {
	return &Counter{last: seed}
}

// Next returns the next value.
func (c *Counter) Next() uint64 {
	c.last++
	return c.last
}

// Last returns the most recently issued value (or the seed).
func (c *Counter) Last() uint64 {
	return c.last
}

// relIDPrefix is the conventional prefix of relationship IDs.
const relIDPrefix = "rId"

// RelIDAllocator allocates relationship IDs of the form rId<N> that are
// unused within one relationship set.
type RelIDAllocator struct {
	counter *Counter
	used    map[string]struct{}
}

// NewRelIDAllocator seeds an allocator from the IDs already in use. The
// counter starts at the highest numeric rId suffix; IDs that do not follow
// the rId<N> form are only reserved.
func NewRelIDAllocator(existing []string) *RelIDAllocator {
	a := &RelIDAllocator{used: make(map[string]struct{}, len(existing))}
	var max uint64
	for _, id := range existing {
		a.used[id] = struct{}{}
		if n, ok := parseRelID(id); ok && n > max {
			max = n
		}
	}
	a.counter = NewCounter(max)
	return a
}

// Next returns a fresh relationship ID and marks it used.
func (a *RelIDAllocator) Next() string {
	for {
		id := fmt.Sprintf("%s%d", relIDPrefix, a.counter.Next())
		if _, taken := a.used[id]; !taken {
			a.used[id] = struct{}{}
			return id
		}
	}
}

// Reserve marks id as used. It returns false if it was already taken.
func (a *RelIDAllocator) Reserve(id string) bool {
	if _, taken := a.used[id]; taken {
		return false
	}
	a.used[id] = struct{}{}
	if n, ok := parseRelID(id); ok && n > a.counter.Last() {
		a.counter = NewCounter(n)
	}
	return true
}

func parseRelID(id string) (uint64, bool) {
	if !strings.HasPrefix(id, relIDPrefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(id[len(relIDPrefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
