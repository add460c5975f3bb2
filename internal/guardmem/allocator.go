package guardmem

import (
	"encoding/binary"
	"fmt"
	"sync"
)

const (
	// Padding is the length of each signature padding around an allocation.
	Padding = 32

	// HeaderSize is the length of the allocation header.
	HeaderSize = 24

	// Magic is the fixed header value checked on Free.
	Magic uint32 = 0xDEADBEEF
)

// Header field offsets. Integers are little-endian.
const (
	offSize       = 0
	offSizeVerify = 8
	offMagic      = 16
	offChecksum   = 20
)

// SignatureByte returns the fill byte expected at absolute region offset i.
func SignatureByte(i int) byte {
	return byte((i + 1) * 37)
}

// Checksum computes the header checksum: the sum of (i+1)*11*hdr[i] over
// the header bytes, with the checksum field itself counted as zero.
func Checksum(hdr []byte) uint32 {
	var sum uint32
	for i := 0; i < offChecksum && i < len(hdr); i++ {
		sum += uint32(i+1) * 11 * uint32(hdr[i])
	}
	return sum
}

// Stats counts allocator activity.
type Stats struct {
	Allocations int64
	Frees       int64
	Corruptions int64
	LiveBlocks  int64
	LiveBytes   int64
}

// Allocator hands out guarded blocks. It is safe for concurrent use.
type Allocator struct {
	backing Backing

	mu    sync.Mutex
	stats Stats
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithBacking sets the memory source. The default is Heap().
func WithBacking(b Backing) Option {
	return func(a *Allocator) {
		if b != nil {
			a.backing = b
		}
	}
}

// New creates an Allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{backing: Heap()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Backing returns the allocator's memory source.
func (a *Allocator) Backing() Backing { return a.backing }

// Stats returns a snapshot of the allocator counters.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Block is one guarded allocation.
type Block struct {
	region  []byte
	size    int64
	release func()
	freed   bool
}

// Allocate reserves a block with a payload of size bytes. The payload is
// filled with signature bytes, not zeros.
func (a *Allocator) Allocate(size int64) (*Block, error) {
	if size < 0 {
		return nil, ErrNegativeSize
	}
	total := 2*Padding + HeaderSize + size
	if total < size || int64(int(total)) != total {
		return nil, fmt.Errorf("guardmem: allocation of %d bytes is too large", size)
	}

	region, release, err := a.backing.Reserve(int(total))
	if err != nil {
		return nil, fmt.Errorf("guardmem: allocate %d bytes: %w", size, err)
	}
	if len(region) != int(total) {
		release()
		return nil, fmt.Errorf("guardmem: backing %s returned %d bytes, want %d", a.backing.Name(), len(region), total)
	}

	for i := range region {
		region[i] = SignatureByte(i)
	}

	hdr := region[Padding : Padding+HeaderSize]
	binary.LittleEndian.PutUint64(hdr[offSize:], uint64(size))
	binary.LittleEndian.PutUint64(hdr[offSizeVerify:], uint64(size))
	binary.LittleEndian.PutUint32(hdr[offMagic:], Magic)
	binary.LittleEndian.PutUint32(hdr[offChecksum:], 0)
	binary.LittleEndian.PutUint32(hdr[offChecksum:], Checksum(hdr))

	a.mu.Lock()
	a.stats.Allocations++
	a.stats.LiveBlocks++
	a.stats.LiveBytes += size
	a.mu.Unlock()

	return &Block{region: region, size: size, release: release}, nil
}

// Free verifies the block and releases it. It returns nil when the header
// and both paddings are intact, otherwise the first *CorruptionError found.
// The memory is released in either case.
func (a *Allocator) Free(b *Block) error {
	if b == nil {
		return ErrNilBlock
	}
	if b.freed {
		return ErrDoubleFree
	}

	err := verify(b.region)

	b.freed = true
	b.release()
	b.region = nil

	a.mu.Lock()
	a.stats.Frees++
	a.stats.LiveBlocks--
	a.stats.LiveBytes -= b.size
	if err != nil {
		a.stats.Corruptions++
	}
	a.mu.Unlock()

	return err
}

func verify(region []byte) error {
	hdr := region[Padding : Padding+HeaderSize]
	size := int64(binary.LittleEndian.Uint64(hdr[offSize:]))
	sizeVerify := int64(binary.LittleEndian.Uint64(hdr[offSizeVerify:]))
	magic := binary.LittleEndian.Uint32(hdr[offMagic:])
	sum := binary.LittleEndian.Uint32(hdr[offChecksum:])

	switch {
	case size != sizeVerify:
		return &CorruptionError{Region: RegionHeader, Field: "size", Offset: -HeaderSize + offSizeVerify,
			Expected: uint64(size), Actual: uint64(sizeVerify)}
	case magic != Magic:
		return &CorruptionError{Region: RegionHeader, Field: "magic", Offset: -HeaderSize + offMagic,
			Expected: uint64(Magic), Actual: uint64(magic)}
	case sum != Checksum(hdr):
		return &CorruptionError{Region: RegionHeader, Field: "checksum", Offset: -HeaderSize + offChecksum,
			Expected: uint64(Checksum(hdr)), Actual: uint64(sum)}
	}

	// The recorded size must describe this region; anything else is a
	// header that was rewritten consistently.
	if size < 0 || int64(len(region)) != 2*Padding+HeaderSize+size {
		return &CorruptionError{Region: RegionHeader, Field: "size", Offset: -HeaderSize + offSize,
			Expected: uint64(int64(len(region)) - 2*Padding - HeaderSize), Actual: uint64(size)}
	}

	if err := verifySignature(region, 0, RegionLeftPadding); err != nil {
		return err
	}
	return verifySignature(region, Padding+HeaderSize+int(size), RegionRightPadding)
}

func verifySignature(region []byte, start int, where Region) error {
	for i := start; i < start+Padding; i++ {
		if want := SignatureByte(i); region[i] != want {
			return &CorruptionError{
				Region:   where,
				Offset:   int64(i - Padding - HeaderSize),
				Expected: uint64(want),
				Actual:   uint64(region[i]),
			}
		}
	}
	return nil
}

// Size returns the requested payload size.
func (b *Block) Size() int64 { return b.size }

// Freed reports whether the block has been released.
func (b *Block) Freed() bool { return b.freed }

// Bytes returns the payload. Its length is the requested size and its
// capacity extends over the right padding. Bytes returns nil after Free.
func (b *Block) Bytes() []byte {
	if b.freed {
		return nil
	}
	start := Padding + HeaderSize
	return b.region[start : start+int(b.size) : len(b.region)]
}

// At returns a pointer to the byte at payload offset i. Offsets from
// -(Padding+HeaderSize) up to Size()+Padding-1 address the reserved region;
// anything else panics.
func (b *Block) At(i int64) *byte {
	if b.freed {
		panic("guardmem: access to freed block")
	}
	abs := i + Padding + HeaderSize
	if abs < 0 || abs >= int64(len(b.region)) {
		panic(fmt.Sprintf("guardmem: offset %d outside reserved region [%d, %d)",
			i, -(Padding + HeaderSize), b.size+Padding))
	}
	return &b.region[abs]
}
