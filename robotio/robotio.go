/*
 * mipsbot - Reference I/O bindings for the simulated step-motor robot.
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

// Package robotio is the binding contract for the robot collaborator
// described by the core's external interfaces: a motor port and a
// line-sensor port, installed on a memory.Memory via Bind. The core itself
// is agnostic to these addresses; this package is the one concrete
// instantiation of them, analogous to a device implementation sitting
// behind the core's channel interface.
package robotio

import "github.com/rcornwell/mipsbot/memory"

// Default port addresses, per the binding contract: motor control shares
// one byte, the line sensor publishes another.
const (
	MotorPort      uint32 = 0x10
	LineSensorPort uint32 = 0x21
)

// Magnet bits within a 4-bit motor nibble. A step motor advances by
// energizing its magnets in a fixed sequence; which bits are set decides
// direction and whether it's stepping at all. The core does not interpret
// these values, it only carries them through the bound byte.
const (
	Magnet0 uint8 = 1 << 0
	Magnet1 uint8 = 1 << 1
	Magnet2 uint8 = 1 << 2
	Magnet3 uint8 = 1 << 3
)

// MotorState is the commanded magnet pattern for one motor, as the low or
// high nibble of MotorPort.
type MotorState uint8

// Magnets reports which of the four magnets are energized.
func (m MotorState) Magnets() uint8 { return uint8(m) & 0x0F }

// Motors receives the full byte written to MotorPort: the right motor's
// magnets in the low nibble, the left motor's in the high nibble.
type Motors struct {
	Right MotorState
	Left  MotorState
}

// split decodes a raw MotorPort byte into right/left nibbles.
func split(raw uint8) Motors {
	return Motors{
		Right: MotorState(raw & 0x0F),
		Left:  MotorState((raw >> 4) & 0x0F),
	}
}

// pack re-encodes a Motors pair back into a MotorPort byte.
func pack(m Motors) uint8 {
	return (uint8(m.Left) << 4 & 0xF0) | (uint8(m.Right) & 0x0F)
}

// MotorDriver consumes each motor command written by the CPU between
// synchronize calls. Implementations are expected to drive (or simulate)
// the physical magnets; mipsbot's core has no opinion on how.
type MotorDriver interface {
	Drive(m Motors)
}

// LineSensor supplies the byte read back from LineSensorPort: whatever
// bits the host's line-following hardware (or its simulation) currently
// reports.
type LineSensor interface {
	Read() uint8
}

// BindMotors installs a write-only binding at MotorPort: every call to
// mem.Synchronize after a program write decodes the motor byte and hands
// it to drv. The port reads back the last commanded state, matching
// ordinary memory-mapped-output semantics.
func BindMotors(mem *memory.Memory, drv MotorDriver) {
	var last uint8
	mem.Bind(MotorPort, 0xFF, func(in uint8) uint8 {
		if in != last {
			drv.Drive(split(in))
			last = in
		}
		return in
	})
}

// BindLineSensor installs a read-only binding at LineSensorPort: every
// mem.Synchronize call refreshes the byte the CPU will read back from that
// address with sensor.Read(), ignoring whatever the program last wrote
// there. When LineSensorPort lies inside RAM the value is stored in that
// RAM byte; otherwise it is held in the binding's own latch.
func BindLineSensor(mem *memory.Memory, sensor LineSensor) {
	mem.Bind(LineSensorPort, 0xFF, func(uint8) uint8 {
		return sensor.Read()
	})
}

// StaticSensor is a LineSensor that always reports a fixed value, useful
// for tests and for configurations with no sensor hardware attached.
type StaticSensor uint8

// Read implements LineSensor.
func (s StaticSensor) Read() uint8 { return uint8(s) }

// RecordingDriver is a MotorDriver that remembers the last command it
// received, useful for tests and for the debug console.
type RecordingDriver struct {
	Last Motors
}

// Drive implements MotorDriver.
func (d *RecordingDriver) Drive(m Motors) { d.Last = m }
