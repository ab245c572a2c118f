/*
 * mipsbot - Interactive debug console.
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

// Package console is a liner-backed interactive debug console for the
// CPU facade, adapted from the teacher's command/reader line-reader
// wrapper. It is optional tooling around cpu.CPU (memory is reached
// through CPU.Memory), not part of the core contract.
package console

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/rcornwell/mipsbot/cpu"
)

var commands = []string{"step", "regs", "mem", "break", "run", "quit", "help"}

func completer(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// Console drives a CPU from interactive liner input, reaching its bound
// memory through CPU.Memory rather than carrying a second handle to it.
type Console struct {
	cpu        *cpu.CPU
	breakpoint uint32
	hasBreak   bool
}

// New creates a Console bound to c.
func New(c *cpu.CPU) *Console {
	return &Console{cpu: c}
}

// Run starts the interactive prompt loop. It returns when the user types
// "quit", aborts the prompt (Ctrl-C), or reading a line fails (including
// end of input). Errors from a command, step errors included, are printed
// and the prompt continues.
func (con *Console) Run() {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer)

	for {
		input, err := line.Prompt("mipsbot> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return
			}
			slog.Error("error reading line", "error", err)
			return
		}
		line.AppendHistory(input)

		quit, err := con.dispatch(input)
		if err != nil {
			fmt.Println("error: " + err.Error())
		}
		if quit {
			return
		}
	}
}

// dispatch executes one console command line. It returns quit=true when
// the session should end.
func (con *Console) dispatch(input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}

	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Println("commands: step [n], regs, mem <addr>, break <addr>, run, quit")
		return false, nil

	case "step":
		n := 1
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return false, fmt.Errorf("step: %w", err)
			}
			n = v
		}
		return false, con.step(n)

	case "regs":
		fmt.Print(con.cpu.String())
		return false, nil

	case "mem":
		if len(fields) != 2 {
			return false, errors.New("mem requires an address")
		}
		addr, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return false, fmt.Errorf("mem: %w", err)
		}
		v, err := con.cpu.Memory().GetUWord(int64(addr))
		if err != nil {
			return false, err
		}
		fmt.Printf("0x%08x: 0x%08x\n", addr, v)
		return false, nil

	case "break":
		if len(fields) != 2 {
			return false, errors.New("break requires an address")
		}
		addr, err := strconv.ParseUint(fields[1], 0, 32)
		if err != nil {
			return false, fmt.Errorf("break: %w", err)
		}
		con.breakpoint = uint32(addr)
		con.hasBreak = true
		fmt.Printf("breakpoint set at 0x%08x\n", con.breakpoint)
		return false, nil

	case "run":
		return false, con.run()

	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
}

// step executes n instructions one at a time, printing the PC of each
// executed instruction, so the caller can watch a small batch unfold. It
// stops early when the breakpoint is reached.
func (con *Console) step(n int) error {
	for range n {
		pc := con.cpu.GetPC()
		if err := con.cpu.Step(1); err != nil {
			return err
		}
		fmt.Printf("0x%08x\n", pc)
		if con.hasBreak && con.cpu.GetPC() == con.breakpoint {
			fmt.Printf("hit breakpoint at 0x%08x\n", con.breakpoint)
			return nil
		}
	}
	return nil
}

// run steps one instruction at a time until the breakpoint is hit or an
// error occurs. With no breakpoint set, it refuses to run unbounded.
func (con *Console) run() error {
	if !con.hasBreak {
		return errors.New("run requires a breakpoint (set one with 'break <addr>')")
	}
	for {
		if err := con.cpu.Step(1); err != nil {
			return err
		}
		if con.cpu.GetPC() == con.breakpoint {
			fmt.Printf("hit breakpoint at 0x%08x\n", con.breakpoint)
			return nil
		}
	}
}
