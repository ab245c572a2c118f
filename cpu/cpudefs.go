/*
 * mipsbot - Opcode/funct definitions and error taxonomy for the MIPS-1 core.
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

package cpu

import (
	"errors"
	"fmt"
)

// Opcode values recognized by Decode.
const (
	opR    uint8 = 0x00 // R-type dispatch opcode.
	opBEQ  uint8 = 0x04
	opADDI uint8 = 0x08
	opJ    uint8 = 0x02
	opANDI uint8 = 0x0c
	opORI  uint8 = 0x0d
	opLW   uint8 = 0x23
	opSW   uint8 = 0x2b
)

// Funct values recognized for R-type instructions.
const (
	functSLL uint8 = 0x00
	functSRL uint8 = 0x02
	functADD uint8 = 0x20
	functSUB uint8 = 0x22
	functAND uint8 = 0x24
	functOR  uint8 = 0x25
	functXOR uint8 = 0x27
	functSLT uint8 = 0x2a
)

// ErrNoProgram is returned by Step when called before a program is loaded.
var ErrNoProgram = errors.New("cpu: no program loaded")

// ErrBadAlignment is returned when a program start address or a PC passed
// to SetPC is not a multiple of 4. A binary whose size is not a multiple
// of 4 is reported as a BadBinaryError instead.
var ErrBadAlignment = errors.New("cpu: address or size must be 4-byte aligned")

// BadBinaryError reports a failure to load a program image.
type BadBinaryError struct {
	Path   string
	Reason string
}

func (e *BadBinaryError) Error() string {
	return fmt.Sprintf("cpu: bad binary %q: %s", e.Path, e.Reason)
}

// BadOpcodeError reports an instruction word whose opcode is not in the
// supported set. The step that decoded it is fatal; CPU state is left as
// it was just before the offending instruction.
type BadOpcodeError struct {
	PC   uint32
	Word uint32
}

func (e *BadOpcodeError) Error() string {
	return fmt.Sprintf("cpu: bad opcode at pc=0x%08x word=0x%08x", e.PC, e.Word)
}

// BadFunctError reports an R-type instruction whose funct field is not in
// the supported set.
type BadFunctError struct {
	PC    uint32
	Funct uint8
}

func (e *BadFunctError) Error() string {
	return fmt.Sprintf("cpu: bad funct 0x%02x at pc=0x%08x", e.Funct, e.PC)
}
