/*
 * mipsbot - MIPS-1 instruction decoder.
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

// Kind tags the decoded instruction shape: R, I or J per the MIPS-1
// encoding. Dispatch is a switch on this tag rather than a table of
// function references, keeping the hot loop a jump table instead of a map
// lookup.
type Kind uint8

const (
	KindR Kind = iota
	KindI
	KindJ
)

// Instruction is the decoded form of a 32-bit MIPS-1 word: a tagged variant
// over the R/I/J encodings carrying only the fields that shape apply to.
type Instruction struct {
	Kind   Kind
	Opcode uint8
	Funct  uint8 // R-type only
	Rs     uint8 // R-type, I-type
	Rt     uint8 // R-type, I-type
	Rd     uint8 // R-type only
	Shamt  uint8 // R-type only
	Immed  uint16 // I-type only, zero-extended 16 bits as stored in the word
	Addr   uint32 // J-type only, 26-bit jump target
	Word   uint32
}

// supportedI lists the I-type opcodes this core understands; any other
// non-zero, non-J opcode is BadOpcode.
var supportedI = map[uint8]bool{
	opBEQ:  true,
	opADDI: true,
	opANDI: true,
	opORI:  true,
	opLW:   true,
	opSW:   true,
}

// Decode is the pure word -> decoded-instruction function of spec.md
// §4.3. It classifies by opcode alone; funct validity for R-type words is
// checked at execute time (BadFunctError), since the decoder cannot know
// which functs the execution unit implements without duplicating that
// table here.
func Decode(word uint32) (Instruction, error) {
	opcode := uint8((word >> 26) & 0x3F)

	switch {
	case opcode == opR:
		return Instruction{
			Kind:   KindR,
			Opcode: opcode,
			Rs:     uint8((word >> 21) & 0x1F),
			Rt:     uint8((word >> 16) & 0x1F),
			Rd:     uint8((word >> 11) & 0x1F),
			Shamt:  uint8((word >> 6) & 0x1F),
			Funct:  uint8(word & 0x3F),
			Word:   word,
		}, nil

	case supportedI[opcode]:
		return Instruction{
			Kind:   KindI,
			Opcode: opcode,
			Rs:     uint8((word >> 21) & 0x1F),
			Rt:     uint8((word >> 16) & 0x1F),
			Immed:  uint16(word & 0xFFFF),
			Word:   word,
		}, nil

	case opcode == opJ:
		return Instruction{
			Kind:   KindJ,
			Opcode: opcode,
			Addr:   word & 0x03FFFFFF,
			Word:   word,
		}, nil

	default:
		return Instruction{}, &BadOpcodeError{Word: word}
	}
}

// signExtendImmed widens a 16-bit immediate to a signed 32-bit value per
// spec.md §4.3: immed-0x10000 when the sign bit is set, immed otherwise.
func signExtendImmed(immed uint16) int32 {
	if immed&0x8000 != 0 {
		return int32(immed) - 0x10000
	}
	return int32(immed)
}
