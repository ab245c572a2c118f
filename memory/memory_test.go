package memory

/*
 * mipsbot - Memory tests.
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

import (
	"errors"
	"testing"
)

func newTestMemory(t *testing.T) *Memory {
	t.Helper()
	m, err := New(4096, 0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return m
}

func TestNewRejectsUnalignedSize(t *testing.T) {
	if _, err := New(10, 0); !errors.Is(err, ErrBadSize) {
		t.Errorf("New(10, 0) error = %v, want ErrBadSize", err)
	}
}

func TestByteRoundTrip(t *testing.T) {
	m := newTestMemory(t)
	if err := m.SetByte(0x10, 0xAB); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	v, err := m.GetUByte(0x10)
	if err != nil {
		t.Fatalf("GetUByte: %v", err)
	}
	if v != 0xAB {
		t.Errorf("GetUByte got 0x%02x, want 0xAB", v)
	}
	sv, err := m.GetSByte(0x10)
	if err != nil {
		t.Fatalf("GetSByte: %v", err)
	}
	if sv != -0x55 {
		t.Errorf("GetSByte got %d, want %d", sv, int8(-0x55))
	}
}

func TestWordRoundTrip(t *testing.T) {
	m := newTestMemory(t)
	want := uint32(0xDEADBEEF)
	if err := m.SetWord(0x100, want); err != nil {
		t.Fatalf("SetWord: %v", err)
	}
	got, err := m.GetUWord(0x100)
	if err != nil {
		t.Fatalf("GetUWord: %v", err)
	}
	if got != want {
		t.Errorf("GetUWord got 0x%08x, want 0x%08x", got, want)
	}
	// Little-endian: low byte at the lowest address.
	b0, _ := m.GetUByte(0x100)
	if b0 != 0xEF {
		t.Errorf("low byte got 0x%02x, want 0xef", b0)
	}
}

func TestOutOfRangeReadsZero(t *testing.T) {
	m := newTestMemory(t)
	v, err := m.GetUByte(0x10000)
	if err != nil {
		t.Fatalf("GetUByte: %v", err)
	}
	if v != 0 {
		t.Errorf("out-of-range GetUByte got %d, want 0", v)
	}
	w, err := m.GetUWord(0x10000)
	if err != nil {
		t.Fatalf("GetUWord: %v", err)
	}
	if w != 0 {
		t.Errorf("out-of-range GetUWord got %d, want 0", w)
	}
}

func TestOutOfRangeWriteIsNoOp(t *testing.T) {
	m := newTestMemory(t)
	if err := m.SetByte(0x10000, 0xFF); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	if err := m.SetWord(4094, 0xFFFFFFFF); err != nil {
		t.Fatalf("SetWord: %v", err)
	}
	// Straddling the end must not partially write.
	for i := int64(4090); i < 4096; i++ {
		v, _ := m.GetUByte(i)
		if v != 0 {
			t.Errorf("straddling SetWord modified byte at %d: got %d", i, v)
		}
	}
}

func TestNegativeAddressIsDomainError(t *testing.T) {
	m := newTestMemory(t)
	if _, err := m.GetUByte(-1); !errors.Is(err, ErrAddressDomain) {
		t.Errorf("GetUByte(-1) error = %v, want ErrAddressDomain", err)
	}
	if err := m.SetByte(-1, 1); !errors.Is(err, ErrAddressDomain) {
		t.Errorf("SetByte(-1, 1) error = %v, want ErrAddressDomain", err)
	}
}

func TestIndexShorthand(t *testing.T) {
	m := newTestMemory(t)
	if err := m.IndexSet(5, 0x42); err != nil {
		t.Fatalf("IndexSet: %v", err)
	}
	v, err := m.Index(5)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if v != 0x42 {
		t.Errorf("Index got 0x%02x, want 0x42", v)
	}
}

// Scenario f from the design: bind f(x)=~x&0x05 at 0x0 under bitmask 0b101,
// write 0b111, synchronize, and expect 0b010 back.
func TestSynchronizeBindingRoundTrip(t *testing.T) {
	m := newTestMemory(t)
	m.Bind(0x0, 0b101, func(x uint8) uint8 { return ^x & 0x05 })
	if err := m.SetByte(0x0, 0b111); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	m.Synchronize()
	got, err := m.GetUByte(0x0)
	if err != nil {
		t.Fatalf("GetUByte: %v", err)
	}
	if got != 0b010 {
		t.Errorf("got 0b%03b, want 0b010", got)
	}
}

func TestSynchronizeIsIdempotentForIdentityCallback(t *testing.T) {
	m := newTestMemory(t)
	m.Bind(0x20, 0xFF, func(x uint8) uint8 { return x })
	if err := m.SetByte(0x20, 0x77); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	m.Synchronize()
	m.Synchronize()
	got, _ := m.GetUByte(0x20)
	if got != 0x77 {
		t.Errorf("got 0x%02x, want 0x77", got)
	}
}

func TestSynchronizePureOutOfRangePort(t *testing.T) {
	m := newTestMemory(t)
	var seen uint8
	calls := 0
	m.Bind(0x100000, 0xFF, func(x uint8) uint8 {
		seen = x
		calls++
		return 0x5A
	})
	m.Synchronize()
	if calls != 1 {
		t.Fatalf("callback invoked %d times, want 1", calls)
	}
	if seen != 0 {
		t.Errorf("first call saw 0x%02x, want 0 (latch starts zeroed)", seen)
	}
	m.Synchronize()
	if seen != 0x5A {
		t.Errorf("second call saw 0x%02x, want 0x5a (latch persisted)", seen)
	}
}

func TestBindingsInsideRAMShareTheByte(t *testing.T) {
	m := newTestMemory(t)
	m.Bind(0x50, 0xFF, func(x uint8) uint8 { return x + 1 })
	if err := m.SetByte(0x50, 0); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	for i, want := range []uint8{1, 2, 3} {
		m.Synchronize()
		got, _ := m.GetUByte(0x50)
		if got != want {
			t.Errorf("after synchronize #%d got %d, want %d", i+1, got, want)
		}
	}
}
