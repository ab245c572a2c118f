package robotio

/*
 * mipsbot - Robot I/O binding tests.
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
	"testing"

	"github.com/rcornwell/mipsbot/memory"
)

func TestBindMotorsDecodesNibbles(t *testing.T) {
	mem, err := memory.New(4096, 0)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	drv := &RecordingDriver{}
	BindMotors(mem, drv)

	// Right motor magnets 0 and 1, left motor magnets 2 and 3.
	if err := mem.SetByte(int64(MotorPort), 0xC3); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	mem.Synchronize()

	if drv.Last.Right.Magnets() != 0x3 {
		t.Errorf("Right magnets = 0x%x, want 0x3", drv.Last.Right.Magnets())
	}
	if drv.Last.Left.Magnets() != 0xC {
		t.Errorf("Left magnets = 0x%x, want 0xc", drv.Last.Left.Magnets())
	}
}

func TestBindMotorsOnlyDrivesOnChange(t *testing.T) {
	mem, err := memory.New(4096, 0)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	calls := 0
	drv := driverFunc(func(Motors) { calls++ })
	BindMotors(mem, drv)

	if err := mem.SetByte(int64(MotorPort), 0x05); err != nil {
		t.Fatalf("SetByte: %v", err)
	}
	mem.Synchronize()
	mem.Synchronize()
	mem.Synchronize()

	if calls != 1 {
		t.Errorf("Drive called %d times, want 1 (unchanged command)", calls)
	}
}

type driverFunc func(Motors)

func (f driverFunc) Drive(m Motors) { f(m) }

func TestBindLineSensorReadback(t *testing.T) {
	mem, err := memory.New(4096, 0)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	BindLineSensor(mem, StaticSensor(0x5A))
	mem.Synchronize()

	v, err := mem.GetUByte(int64(LineSensorPort))
	if err != nil {
		t.Fatalf("GetUByte: %v", err)
	}
	if v != 0x5A {
		t.Errorf("LineSensorPort = 0x%x, want 0x5a", v)
	}
}

func TestPackSplitRoundTrip(t *testing.T) {
	m := Motors{Right: 0x3, Left: 0xC}
	if got := split(pack(m)); got != m {
		t.Errorf("split(pack(%+v)) = %+v", m, got)
	}
}
