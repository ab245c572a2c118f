/*
 * mipsbot - Host clock: batch step / synchronize driver loop.
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

// Package clock drives the CPU with the alternating step/synchronize
// pattern described by the core's concurrency model: run a batch of B
// instructions, then let memory propagate pending I/O, repeat. It is
// reference scaffolding around the cpu/memory facade, not part of the
// core contract; a host is free to drive cpu.Step/memory.Synchronize
// directly instead.
package clock

import (
	"log/slog"
	"sync"
	"time"

	"github.com/rcornwell/mipsbot/cpu"
	"github.com/rcornwell/mipsbot/memory"
)

// DefaultCPUFreq and DefaultSyncFreq give the reference batch size of
// 12,500 instructions per synchronize, the example figure from the
// concurrency model (12.5 MHz CPU clock against a 1 kHz sync tick).
const (
	DefaultCPUFreq  = 12_500_000
	DefaultSyncFreq = 1_000
)

// BatchSize returns CPU_FREQ/SYNC_FREQ, clamped to at least 1. A syncFreq
// of zero or less returns cpuFreq unchanged.
func BatchSize(cpuFreq, syncFreq int) int {
	if syncFreq <= 0 {
		return cpuFreq
	}
	b := cpuFreq / syncFreq
	if b < 1 {
		return 1
	}
	return b
}

// Clock runs a CPU in batches on its own goroutine, calling
// Memory.Synchronize between batches. It is not safe to call Step or
// Synchronize on the underlying CPU/Memory directly while a Clock is
// running.
type Clock struct {
	cpu   *cpu.CPU
	mem   *memory.Memory
	batch int

	wg      sync.WaitGroup
	done    chan struct{}
	running bool
	mu      sync.Mutex
}

// New creates a Clock that steps c in batches of batchSize, synchronizing
// mem after each batch. batchSize must be positive.
func New(c *cpu.CPU, mem *memory.Memory, batchSize int) *Clock {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Clock{
		cpu:   c,
		mem:   mem,
		batch: batchSize,
		done:  make(chan struct{}),
	}
}

// Start runs the batch loop on a new goroutine until Stop is called or the
// CPU returns an error (e.g. cpu.ErrNoProgram, a bad opcode). errc, if
// non-nil, receives the terminal error exactly once before the goroutine
// exits; callers that do not care may pass a nil channel.
func (c *Clock) Start(errc chan<- error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.done:
				slog.Info("clock stopped")
				return
			default:
			}

			if err := c.cpu.Step(c.batch); err != nil {
				slog.Error("cpu step failed", "error", err)
				if errc != nil {
					errc <- err
				}
				return
			}
			c.mem.Synchronize()
		}
	}()
}

// Stop signals the run loop to exit and waits up to one second for it to
// do so, matching the shutdown timeout of the teacher's core loop.
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	close(c.done)
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("timed out waiting for clock to stop")
	}
}
