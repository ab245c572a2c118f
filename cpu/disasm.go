/*
 * mipsbot - Disassembler for the supported MIPS-1 subset.
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

import "fmt"

// rFunctName maps an R-type funct to its mnemonic.
var rFunctName = map[uint8]string{
	functADD: "ADD",
	functSUB: "SUB",
	functAND: "AND",
	functOR:  "OR",
	functXOR: "XOR",
	functSLL: "SLL",
	functSRL: "SRL",
	functSLT: "SLT",
}

// iOpName maps an I-type opcode to its mnemonic.
var iOpName = map[uint8]string{
	opBEQ:  "BEQ",
	opADDI: "ADDI",
	opANDI: "ANDI",
	opORI:  "ORI",
	opLW:   "LW",
	opSW:   "SW",
}

// Disassemble renders word as MIPS-1 assembly text. Neither the debug
// console nor CPU.String() calls it. Unrecognized words render as a raw hex dump rather
// than erroring, since disassembly is a debugging aid, not part of the
// execute contract.
func Disassemble(word uint32) string {
	instr, err := Decode(word)
	if err != nil {
		return fmt.Sprintf(".word 0x%08x", word)
	}

	switch instr.Kind {
	case KindR:
		name, ok := rFunctName[instr.Funct]
		if !ok {
			return fmt.Sprintf(".word 0x%08x ; bad funct 0x%02x", word, instr.Funct)
		}
		if name == "SLL" || name == "SRL" {
			return fmt.Sprintf("%s $%d,$%d,%d", name, instr.Rd, instr.Rt, instr.Shamt)
		}
		return fmt.Sprintf("%s $%d,$%d,$%d", name, instr.Rd, instr.Rs, instr.Rt)

	case KindI:
		name := iOpName[instr.Opcode]
		simmed := signExtendImmed(instr.Immed)
		switch instr.Opcode {
		case opLW, opSW:
			return fmt.Sprintf("%s $%d,%d($%d)", name, instr.Rt, simmed, instr.Rs)
		case opANDI, opORI:
			return fmt.Sprintf("%s $%d,$%d,0x%x", name, instr.Rt, instr.Rs, instr.Immed)
		case opADDI:
			return fmt.Sprintf("%s $%d,$%d,%d", name, instr.Rt, instr.Rs, simmed)
		default: // BEQ
			return fmt.Sprintf("%s $%d,$%d,%d", name, instr.Rs, instr.Rt, simmed)
		}

	case KindJ:
		return fmt.Sprintf("J 0x%07x", instr.Addr<<2)
	}
	return fmt.Sprintf(".word 0x%08x", word)
}
