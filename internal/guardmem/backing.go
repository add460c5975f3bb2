package guardmem

import (
	"fmt"

	"github.com/awnumar/memguard"
)

// Backing supplies the raw regions that allocations are carved from.
type Backing interface {
	// Name identifies the backing in configuration and logs.
	Name() string

	// Reserve returns a writable region of exactly n bytes and a function
	// that releases it. Release is called exactly once.
	Reserve(n int) (region []byte, release func(), err error)
}

// Backing names accepted by BackingByName.
const (
	BackingHeap   = "heap"
	BackingLocked = "locked"
)

// BackingByName resolves a configured backing name.
func BackingByName(name string) (Backing, error) {
	switch name {
	case "", BackingHeap:
		return Heap(), nil
	case BackingLocked:
		return Locked(), nil
	default:
		return nil, fmt.Errorf("unknown allocator backing %q (valid: %s, %s)", name, BackingHeap, BackingLocked)
	}
}

type heapBacking struct{}

// Heap returns a backing on ordinary garbage-collected memory.
func Heap() Backing { return heapBacking{} }

func (heapBacking) Name() string { return BackingHeap }

func (heapBacking) Reserve(n int) ([]byte, func(), error) {
	return make([]byte, n), func() {}, nil
}

type lockedBacking struct{}

// Locked returns a backing on memguard buffers. The regions are mlocked
// and surrounded by guard pages, so writes far outside the signature
// paddings fault instead of silently landing in unrelated memory.
func Locked() Backing { return lockedBacking{} }

func (lockedBacking) Name() string { return BackingLocked }

func (lockedBacking) Reserve(n int) (region []byte, release func(), err error) {
	// memguard panics when the kernel refuses the mapping or the lock.
	defer func() {
		if r := recover(); r != nil {
			region, release = nil, nil
			err = fmt.Errorf("locked backing: reserve %d bytes: %v", n, r)
		}
	}()

	buf := memguard.NewBuffer(n)
	if buf == nil || buf.Size() != n {
		return nil, nil, fmt.Errorf("locked backing: reserve %d bytes failed", n)
	}
	buf.Melt()
	return buf.Bytes(), buf.Destroy, nil
}
