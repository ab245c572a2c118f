/*
 * mipsbot - Configuration file parser
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

// Package configparser reads mipsbot's startup configuration file: a
// plain line-oriented keyword/value format, in the manner of the
// teacher's own config reader (bufio line scanning, '#' comments, no
// reflection, no third-party format library).
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored. Blank lines are ignored.
 * <line> := <keyword> <whitespace> <value>
 *
 * Recognized keywords:
 *   program  <path>      binary to load (required)
 *   start    <addr>      program_start, decimal or 0x-prefixed hex
 *   memsize  <n>         memory size in bytes, must be a multiple of 4
 *   membase  <addr>      memory base address
 *   cpufreq  <n>         CPU clock rate in Hz, for batch sizing
 *   syncfreq <n>         synchronize tick rate in Hz, for batch sizing
 *   bind     <name>      attach a named I/O binding (e.g. "motors", "line_sensor")
 */

// Config holds the resolved settings for one run of mipsbot.
type Config struct {
	Program  string   // path to the MIPS binary
	Start    uint32   // program_start, defaults to 0
	MemSize  uint32   // memory size in bytes; 0 if unset (main.go then uses memory.DefaultSize)
	MemBase  uint32   // memory base address, defaults to memory.DefaultBaseAddress
	CPUFreq  int      // CPU_FREQ for batch sizing; 0 if unset (main.go then uses clock.DefaultCPUFreq)
	SyncFreq int      // SYNC_FREQ for batch sizing; 0 if unset (main.go then uses clock.DefaultSyncFreq)
	Binds    []string // names of I/O bindings to install, in file order
}

// knownBinds is the set of binding names main.go knows how to install.
// Load validates against it so a typo surfaces at config time, not at
// first synchronize.
var knownBinds = map[string]bool{
	"motors":      true,
	"line_sensor": true,
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &Config{}
	reader := bufio.NewReader(file)
	lineNumber := 0
	for {
		raw, err := reader.ReadString('\n')
		lineNumber++
		if len(raw) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		if perr := parseLine(cfg, raw, lineNumber); perr != nil {
			return nil, perr
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}

	if cfg.Program == "" {
		return nil, fmt.Errorf("config: %s: no program specified", path)
	}
	return cfg, nil
}

// parseLine strips comments and whitespace, then dispatches on keyword.
func parseLine(cfg *Config, raw string, lineNumber int) error {
	line := raw
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	fields := strings.Fields(line)
	keyword := strings.ToLower(fields[0])
	rest := fields[1:]

	switch keyword {
	case "program":
		if len(rest) != 1 {
			return fmt.Errorf("config: line %d: program requires one path", lineNumber)
		}
		cfg.Program = rest[0]

	case "start":
		v, err := parseUint(rest, lineNumber, keyword)
		if err != nil {
			return err
		}
		cfg.Start = v

	case "memsize":
		v, err := parseUint(rest, lineNumber, keyword)
		if err != nil {
			return err
		}
		cfg.MemSize = v

	case "membase":
		v, err := parseUint(rest, lineNumber, keyword)
		if err != nil {
			return err
		}
		cfg.MemBase = v

	case "cpufreq":
		v, err := parseUint(rest, lineNumber, keyword)
		if err != nil {
			return err
		}
		cfg.CPUFreq = int(v)

	case "syncfreq":
		v, err := parseUint(rest, lineNumber, keyword)
		if err != nil {
			return err
		}
		cfg.SyncFreq = int(v)

	case "bind":
		if len(rest) != 1 {
			return fmt.Errorf("config: line %d: bind requires one name", lineNumber)
		}
		name := strings.ToLower(rest[0])
		if !knownBinds[name] {
			return fmt.Errorf("config: line %d: unknown binding %q", lineNumber, rest[0])
		}
		cfg.Binds = append(cfg.Binds, name)

	default:
		return fmt.Errorf("config: line %d: unknown keyword %q", lineNumber, fields[0])
	}
	return nil
}

// parseUint expects exactly one numeric field, decimal or 0x-prefixed hex.
func parseUint(fields []string, lineNumber int, keyword string) (uint32, error) {
	if len(fields) != 1 {
		return 0, fmt.Errorf("config: line %d: %s requires one numeric value", lineNumber, keyword)
	}
	v, err := strconv.ParseUint(fields[0], 0, 32)
	if err != nil {
		return 0, fmt.Errorf("config: line %d: %s: %w", lineNumber, keyword, err)
	}
	return uint32(v), nil
}
