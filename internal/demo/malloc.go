package demo

import (
	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/param"
)

// MallocSuite writes inside and just outside guarded blocks. Writes
// outside the payload are reported when the block is freed.
func MallocSuite() *engine.Suite {
	return engine.NewSuite("MyMallocTests").
		Test("CanWriteToAllocatedMemory", func(t *engine.T) {
			mem := t.Alloc(t.Int("size"))
			buf := mem.Bytes()
			for i := range buf {
				buf[i]++
			}
			t.Free(mem)
		}, param.Enum("size", 0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 16, 32, 64, 128)).
		Test("WriteOutOfLeftBoundsFails", func(t *engine.T) {
			mem := t.Alloc(t.Int("size"))
			*mem.At(-t.Int("offset"))++
			t.Free(mem)
		},
			param.Enum("size", 0, 1, 10, 128),
			param.Enum("offset", 1, 2, 3, 5, 10, 25),
		).
		Test("WriteOutOfRightBoundsFails", func(t *engine.T) {
			size := t.Int("size")
			mem := t.Alloc(size)
			*mem.At(size + t.Int("offset"))++
			t.Free(mem)
		},
			param.Enum("size", 0, 1, 2, 3, 10, 128),
			param.Enum("offset", 1, 2, 3, 5, 10, 25),
		)
}
