package clock

/*
 * mipsbot - Clock tests.
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
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcornwell/mipsbot/cpu"
	"github.com/rcornwell/mipsbot/memory"
)

func TestBatchSize(t *testing.T) {
	cases := []struct {
		cpuFreq, syncFreq, want int
	}{
		{12_500_000, 1_000, 12_500},
		{DefaultCPUFreq, DefaultSyncFreq, 12_500},
		{100, 0, 100},
		{1, 1_000_000, 1},
	}
	for _, c := range cases {
		if got := BatchSize(c.cpuFreq, c.syncFreq); got != c.want {
			t.Errorf("BatchSize(%d, %d) = %d, want %d", c.cpuFreq, c.syncFreq, got, c.want)
		}
	}
}

func writeLoopProgram(t *testing.T) string {
	t.Helper()
	// J 0 - infinite loop, so the clock keeps running until Stop is called.
	word := uint32(0x02) << 26
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, word)
	path := filepath.Join(t.TempDir(), "loop.mips")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestClockStartStop(t *testing.T) {
	mem, err := memory.New(4096, 0)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	c := cpu.New(mem)
	if err := c.Load(writeLoopProgram(t), 0); err != nil {
		t.Fatalf("Load: %v", err)
	}

	clk := New(c, mem, 16)
	clk.Start(nil)
	time.Sleep(10 * time.Millisecond)
	clk.Stop()

	if c.GetPC() != 0 {
		t.Errorf("PC = %d, want 0 (still looping at program start)", c.GetPC())
	}
}

func TestClockReportsStepError(t *testing.T) {
	mem, err := memory.New(4096, 0)
	if err != nil {
		t.Fatalf("memory.New: %v", err)
	}
	c := cpu.New(mem) // no program loaded

	clk := New(c, mem, 16)
	errc := make(chan error, 1)
	clk.Start(errc)

	select {
	case err := <-errc:
		if err != cpu.ErrNoProgram {
			t.Errorf("error = %v, want ErrNoProgram", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for step error")
	}
	clk.Stop()
}
