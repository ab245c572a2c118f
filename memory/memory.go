/*
 * mipsbot - Word-addressable memory with callback-driven I/O bindings.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package memory implements the robot's byte-addressable virtual memory: a
// flat RAM region overlaid with memory-mapped I/O bindings. The CPU reads
// and writes bytes/words during a step batch; an external clock calls
// Synchronize between batches to reconcile bound ports with the outside
// world.
package memory

import "errors"

// Default size and base address used when a caller does not supply its own.
const (
	DefaultSize        = 1024 * 1024 // 1 MiB
	DefaultBaseAddress = 0x0
)

// ErrAddressDomain is returned when a negative address is passed to an
// accessor. Out-of-range positive addresses are never an error: they read
// as zero and writes to them are silently discarded.
var ErrAddressDomain = errors.New("memory: negative address")

// ErrBadSize is returned by New when size is not a multiple of 4.
var ErrBadSize = errors.New("memory: size must be a multiple of 4")

// Callback realises one side of a memory-mapped I/O port. It receives the
// masked input byte and returns the masked output byte to store back.
type Callback func(in uint8) uint8

// binding is one registered I/O port.
type binding struct {
	address uint32
	bitmask uint8
	cb      Callback
	latch   uint8 // owned value, used only when address falls outside RAM
}

// Memory is the robot's linear RAM plus its table of I/O bindings.
type Memory struct {
	ram      []byte
	base     uint32
	size     uint32
	bindings []*binding
}

// New creates a Memory of size bytes starting at base. size must be a
// multiple of 4.
func New(size, base uint32) (*Memory, error) {
	if size%4 != 0 {
		return nil, ErrBadSize
	}
	return &Memory{
		ram:  make([]byte, size),
		base: base,
		size: size,
	}, nil
}

// NewDefault creates a Memory using DefaultSize and DefaultBaseAddress.
func NewDefault() *Memory {
	m, _ := New(DefaultSize, DefaultBaseAddress)
	return m
}

// Size returns the RAM region size in bytes.
func (m *Memory) Size() uint32 { return m.size }

// Base returns the RAM region's base address.
func (m *Memory) Base() uint32 { return m.base }

// inRange reports whether addr falls inside [base, base+size).
func (m *Memory) inRange(addr uint32) bool {
	return addr >= m.base && addr-m.base < m.size
}

// GetUByte reads the byte at addr as unsigned. Out-of-range positive
// addresses read as zero; negative addr is an error.
func (m *Memory) GetUByte(addr int64) (uint8, error) {
	if addr < 0 {
		return 0, ErrAddressDomain
	}
	a := uint32(addr)
	if !m.inRange(a) {
		return 0, nil
	}
	return m.ram[a-m.base], nil
}

// GetSByte reads the byte at addr, sign-extended to int8.
func (m *Memory) GetSByte(addr int64) (int8, error) {
	v, err := m.GetUByte(addr)
	if err != nil {
		return 0, err
	}
	return int8(v), nil
}

// GetUWord reads a little-endian 32-bit word at addr..addr+4. If any byte
// of the range lies outside RAM, the whole word reads as zero.
func (m *Memory) GetUWord(addr int64) (uint32, error) {
	if addr < 0 {
		return 0, ErrAddressDomain
	}
	a := uint32(addr)
	if !m.inRange(a) || !m.inRange(a+3) {
		return 0, nil
	}
	i := a - m.base
	return uint32(m.ram[i]) | uint32(m.ram[i+1])<<8 | uint32(m.ram[i+2])<<16 | uint32(m.ram[i+3])<<24, nil
}

// GetSWord reads a little-endian 32-bit word at addr, reinterpreted signed.
func (m *Memory) GetSWord(addr int64) (int32, error) {
	v, err := m.GetUWord(addr)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// SetByte stores v&0xFF at addr. Out-of-range addr is a silent no-op.
func (m *Memory) SetByte(addr int64, v uint8) error {
	if addr < 0 {
		return ErrAddressDomain
	}
	a := uint32(addr)
	if !m.inRange(a) {
		return nil
	}
	m.ram[a-m.base] = v
	return nil
}

// SetWord stores the four little-endian bytes of v at addr..addr+4. If any
// byte of the range lies outside RAM, the whole store is discarded.
func (m *Memory) SetWord(addr int64, v uint32) error {
	if addr < 0 {
		return ErrAddressDomain
	}
	a := uint32(addr)
	if !m.inRange(a) || !m.inRange(a+3) {
		return nil
	}
	i := a - m.base
	m.ram[i] = uint8(v)
	m.ram[i+1] = uint8(v >> 8)
	m.ram[i+2] = uint8(v >> 16)
	m.ram[i+3] = uint8(v >> 24)
	return nil
}

// Index is shorthand for GetUByte.
func (m *Memory) Index(addr int64) (uint8, error) { return m.GetUByte(addr) }

// IndexSet is shorthand for SetByte.
func (m *Memory) IndexSet(addr int64, v uint8) error { return m.SetByte(addr, v) }

// Bind registers an I/O callback at address under bitmask. If address falls
// inside RAM, the binding shares the RAM byte as its shadow; otherwise it
// owns a latched byte of its own, initialised to zero. bitmask has no
// default: it is stored as given, so callers pass 0xFF for the whole byte.
func (m *Memory) Bind(address uint32, bitmask uint8, cb Callback) {
	m.bindings = append(m.bindings, &binding{address: address, bitmask: bitmask, cb: cb})
}

// Synchronize invokes every binding's callback in insertion order, feeding
// it the current masked shadow byte and writing back the masked result.
// Callbacks on out-of-range (pure) ports are still invoked; they own their
// value entirely. Idempotent when callbacks are identity on their input.
func (m *Memory) Synchronize() {
	for _, b := range m.bindings {
		if m.inRange(b.address) {
			idx := b.address - m.base
			x := m.ram[idx] & b.bitmask
			y := b.cb(x) & b.bitmask
			m.ram[idx] = (m.ram[idx] &^ b.bitmask) | y
			continue
		}
		x := b.latch & b.bitmask
		y := b.cb(x) & b.bitmask
		b.latch = (b.latch &^ b.bitmask) | y
	}
}
