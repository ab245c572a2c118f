/*
 * mipsbot - Execution unit and CPU facade: load/step/execute.
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

// Package cpu implements the MIPS-1 subset fetch-decode-execute engine:
// a 32-register execution unit driven by the load/step/execute contract
// of spec.md §4.5, operating against a memory.Memory for data accesses.
package cpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/rcornwell/mipsbot/memory"
)

// DefaultProgramStart is the load address used when a caller does not
// supply its own.
const DefaultProgramStart = 0

// CPU holds the register file, program counter, and the currently loaded
// program. It is not safe for concurrent use: Step/Execute must not run
// concurrently with Memory.Synchronize, per spec.md §5.
type CPU struct {
	mem *memory.Memory

	regs [32]uint32
	pc   uint32

	programStart uint32
	program      []uint32 // raw big-endian-decoded instruction words
	loaded       bool
}

// New creates a CPU bound to mem. Registers and PC start at zero.
func New(mem *memory.Memory) *CPU {
	return &CPU{mem: mem}
}

// NewDefault creates a CPU over a default-sized memory.Memory.
func NewDefault() *CPU {
	return New(memory.NewDefault())
}

// Memory returns the CPU's attached memory.
func (c *CPU) Memory() *memory.Memory { return c.mem }

// reg reads general-purpose register i; R0 always reads zero.
func (c *CPU) reg(i uint8) uint32 {
	if i == 0 {
		return 0
	}
	return c.regs[i]
}

// setReg writes general-purpose register i; writes to R0 are a no-op.
func (c *CPU) setReg(i uint8, v uint32) {
	if i == 0 {
		return
	}
	c.regs[i] = v
}

// GetRegister returns the current value of register i (0..31).
func (c *CPU) GetRegister(i uint8) uint32 { return c.reg(i) }

// GetPC returns the current byte program counter.
func (c *CPU) GetPC() uint32 { return c.pc }

// SetPC sets the byte program counter. addr must be 4-aligned.
func (c *CPU) SetPC(addr uint32) error {
	if addr%4 != 0 {
		return ErrBadAlignment
	}
	c.pc = addr
	return nil
}

// Load reads a MIPS binary from path: a sequence of big-endian 32-bit
// instruction words whose byte length must be a positive multiple of 4.
// It resets the decoded program and the program counter, but does not
// clear memory or the register file (both are preserved across reload,
// matching the source).
func (c *CPU) Load(path string, programStart uint32) error {
	if programStart%4 != 0 {
		return ErrBadAlignment
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &BadBinaryError{Path: path, Reason: err.Error()}
	}
	if len(data) == 0 {
		return &BadBinaryError{Path: path, Reason: "empty binary"}
	}
	if len(data)%4 != 0 {
		return &BadBinaryError{Path: path, Reason: "length not a multiple of 4"}
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(data[i*4 : i*4+4])
	}

	c.program = words
	c.programStart = programStart
	c.pc = programStart
	c.loaded = true

	slog.Info("program loaded", "path", path, "words", len(words), "start", fmt.Sprintf("0x%08x", programStart))
	return nil
}

// fetch returns the raw instruction word at byte address pc. Addresses
// outside the loaded program fetch as 0x00000000 (decodes as SLL $0,$0,0,
// i.e. a no-op), per spec.md §3/§4.4.
func (c *CPU) fetch(pc uint32) uint32 {
	if pc < c.programStart {
		return 0
	}
	idx := (pc - c.programStart) / 4
	if idx >= uint32(len(c.program)) {
		return 0
	}
	return c.program[idx]
}

// Step executes exactly count instructions. It returns ErrNoProgram if no
// program has been loaded, or the decode/execute error of the offending
// instruction. It never calls Memory.Synchronize; the host is responsible
// for that between batches (spec.md §5).
func (c *CPU) Step(count int) error {
	if !c.loaded {
		return ErrNoProgram
	}
	for range count {
		word := c.fetch(c.pc)
		if err := c.executeWord(word); err != nil {
			return err
		}
	}
	return nil
}

// Execute decodes and executes a single caller-supplied word against the
// current CPU state, advancing the PC exactly as if it had been fetched.
// Used for testing individual instructions in isolation.
func (c *CPU) Execute(word uint32) error {
	return c.executeWord(word)
}

// executeWord is the shared decode-dispatch-execute path for both Step and
// Execute. On a decode or funct error, CPU state (registers and PC) is left
// exactly as it was before the offending instruction.
func (c *CPU) executeWord(word uint32) error {
	instr, err := Decode(word)
	if err != nil {
		return &BadOpcodeError{PC: c.pc, Word: word}
	}

	switch instr.Kind {
	case KindR:
		return c.execR(instr)
	case KindI:
		return c.execI(instr)
	case KindJ:
		c.execJ(instr)
		return nil
	default:
		return &BadOpcodeError{PC: c.pc, Word: word}
	}
}

// execR applies an R-type instruction and advances the PC by 4.
func (c *CPU) execR(in Instruction) error {
	rs, rt := c.reg(in.Rs), c.reg(in.Rt)

	var result uint32
	switch in.Funct {
	case functADD:
		result = rs + rt
	case functSUB:
		result = rs - rt
	case functAND:
		result = rs & rt
	case functOR:
		result = rs | rt
	case functXOR:
		result = rs ^ rt
	case functSLL:
		result = rt << (in.Shamt & 0x1F)
	case functSRL:
		result = rt >> (in.Shamt & 0x1F)
	case functSLT:
		if rs < rt { // unsigned compare of stored values, per spec.md §9
			result = 1
		}
	default:
		return &BadFunctError{PC: c.pc, Funct: in.Funct}
	}

	c.setReg(in.Rd, result)
	c.pc += 4
	return nil
}

// execI applies an I-type instruction and advances the PC by 4 (BEQ folds
// its branch displacement into that same advance).
func (c *CPU) execI(in Instruction) error {
	rs, rt := c.reg(in.Rs), c.reg(in.Rt)

	switch in.Opcode {
	case opADDI:
		simmed := signExtendImmed(in.Immed)
		c.setReg(in.Rt, rs+uint32(simmed))
	case opANDI:
		c.setReg(in.Rt, rs&uint32(in.Immed))
	case opORI:
		c.setReg(in.Rt, rs|uint32(in.Immed))
	case opLW:
		simmed := signExtendImmed(in.Immed)
		addr := rs + uint32(simmed)
		v, err := c.mem.GetUWord(int64(addr))
		if err != nil {
			return err
		}
		c.setReg(in.Rt, v)
	case opSW:
		simmed := signExtendImmed(in.Immed)
		addr := rs + uint32(simmed)
		if err := c.mem.SetWord(int64(addr), rt); err != nil {
			return err
		}
	case opBEQ:
		next := c.pc + 4
		if rs == rt {
			simmed := signExtendImmed(in.Immed)
			next += uint32(simmed) * 4
		}
		c.pc = next
		return nil
	}

	c.pc += 4
	return nil
}

// execJ applies a J-type instruction. J sets the PC directly and does not
// advance it afterwards (no delay slot is emulated, per spec.md §9).
func (c *CPU) execJ(in Instruction) {
	c.pc = (c.pc & 0xF0000000) | (in.Addr << 2)
}

// String renders PC and all 32 registers for debugging. The format is not
// part of the contract (spec.md §4.5).
func (c *CPU) String() string {
	s := fmt.Sprintf("pc : 0x%08x\n", c.pc)
	for i := range 32 {
		s += fmt.Sprintf("\tr%-2d: 0x%08x\n", i, c.reg(uint8(i)))
	}
	return s
}
