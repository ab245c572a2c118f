/*
 * mipsbot - Main process.
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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mipsbot/clock"
	config "github.com/rcornwell/mipsbot/config/configparser"
	"github.com/rcornwell/mipsbot/console"
	"github.com/rcornwell/mipsbot/cpu"
	logger "github.com/rcornwell/mipsbot/util/logger"
	"github.com/rcornwell/mipsbot/memory"
	"github.com/rcornwell/mipsbot/robotio"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "mipsbot.cfg", "Configuration file")
	optProgram := getopt.StringLong("program", 'p', "", "MIPS binary to load (overrides config)")
	optStart := getopt.StringLong("start", 's', "", "Program start address (overrides config, decimal or 0x-hex)")
	optFreq := getopt.StringLong("freq", 0, "", "CPU frequency in Hz (overrides config)")
	optSyncFreq := getopt.StringLong("syncfreq", 0, "", "Synchronize frequency in Hz (overrides config)")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optInteractive := getopt.BoolLong("interactive", 'i', "Start the interactive debug console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := false
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debug))
	slog.SetDefault(Logger)

	Logger.Info("mipsbot started")

	cfg, err := config.Load(*optConfig)
	if err != nil {
		Logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *optProgram != "" {
		cfg.Program = *optProgram
	}
	if *optStart != "" {
		v, err := strconv.ParseUint(*optStart, 0, 32)
		if err != nil {
			Logger.Error("invalid --start value", "error", err)
			os.Exit(1)
		}
		cfg.Start = uint32(v)
	}
	if *optFreq != "" {
		v, err := strconv.Atoi(*optFreq)
		if err != nil {
			Logger.Error("invalid --freq value", "error", err)
			os.Exit(1)
		}
		cfg.CPUFreq = v
	}
	if *optSyncFreq != "" {
		v, err := strconv.Atoi(*optSyncFreq)
		if err != nil {
			Logger.Error("invalid --syncfreq value", "error", err)
			os.Exit(1)
		}
		cfg.SyncFreq = v
	}

	memSize := cfg.MemSize
	if memSize == 0 {
		memSize = memory.DefaultSize
	}
	mem, err := memory.New(memSize, cfg.MemBase)
	if err != nil {
		Logger.Error("failed to create memory", "error", err)
		os.Exit(1)
	}

	c := cpu.New(mem)
	if err := c.Load(cfg.Program, cfg.Start); err != nil {
		Logger.Error("failed to load program", "error", err)
		os.Exit(1)
	}

	installBindings(mem, cfg.Binds)

	if *optInteractive {
		console.New(c).Run()
		Logger.Info("mipsbot shutting down")
		return
	}

	cpuFreq := cfg.CPUFreq
	if cpuFreq == 0 {
		cpuFreq = clock.DefaultCPUFreq
	}
	syncFreq := cfg.SyncFreq
	if syncFreq == 0 {
		syncFreq = clock.DefaultSyncFreq
	}
	batch := clock.BatchSize(cpuFreq, syncFreq)
	clk := clock.New(c, mem, batch)

	errc := make(chan error, 1)
	clk.Start(errc)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		fmt.Println("Got quit signal")
	case err := <-errc:
		Logger.Error("cpu halted", "error", err)
	}

	Logger.Info("shutting down clock")
	clk.Stop()
	Logger.Info("mipsbot stopped")
}

// installBindings attaches the named I/O bindings from the config file to
// mem. Only the reference robot collaborator of spec.md §6 is known here;
// a host embedding its own hardware would extend this switch.
func installBindings(mem *memory.Memory, names []string) {
	for _, name := range names {
		switch name {
		case "motors":
			robotio.BindMotors(mem, &robotio.RecordingDriver{})
		case "line_sensor":
			robotio.BindLineSensor(mem, robotio.StaticSensor(0))
		}
	}
}
