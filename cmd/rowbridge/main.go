// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/rowbridge/rowbridge/cmd/util"
	"github.com/rowbridge/rowbridge/libraries/errhand"
	"github.com/rowbridge/rowbridge/libraries/rowcore/rowstats"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/typed/writable"
	"github.com/rowbridge/rowbridge/libraries/rowcore/table/untyped/delimited"
	"github.com/rowbridge/rowbridge/libraries/utils/filesys"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// env is shared by all commands of one invocation.
type env struct {
	fs     filesys.ReadWriteFS
	stdout io.Writer
	stderr io.Writer
	logger *logrus.Logger

	registry   *prometheus.Registry
	frameStats *rowstats.Stats
	textStats  *rowstats.Stats
}

func newEnv(fs filesys.ReadWriteFS, stdout, stderr io.Writer) *env {
	logger := logrus.New()
	logger.SetOutput(stderr)

	frameStats := rowstats.New(writable.FormatName)
	textStats := rowstats.New(delimited.FormatName)
	registry := prometheus.NewRegistry()
	registry.MustRegister(frameStats, textStats)

	return &env{
		fs:         fs,
		stdout:     stdout,
		stderr:     stderr,
		logger:     logger,
		registry:   registry,
		frameStats: frameStats,
		textStats:  textStats,
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("rowbridge", "Converts rows between delimited text and binary frame files.")
	app.HelpFlag.Short('h')

	// global flags
	verboseVal := app.Flag("verbose", "show more").Short('v').Bool()
	metricsFile := app.Flag("metrics-file", "write row and byte counters to this file in the prometheus text format").String()

	e := newEnv(filesys.LocalFS, stdout, stderr)
	kingpinCommands := []util.KingpinCommand{
		importCommand(e),
		exportCommand(e),
		dumpCommand(e),
	}

	handlers := map[string]util.KingpinHandler{}
	for _, cmdFunction := range kingpinCommands {
		command, handler := cmdFunction(app)
		handlers[command.FullCommand()] = handler
	}

	input, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if *verboseVal {
		e.logger.SetLevel(logrus.DebugLevel)
	}

	exitCode := handlers[strings.Split(input, " ")[0]](ctx, input)

	if *metricsFile != "" {
		if err := e.writeMetrics(*metricsFile); err != nil {
			return e.fail(err)
		}
	}

	return exitCode
}

func (e *env) writeMetrics(path string) error {
	wr, err := e.fs.OpenForWrite(path, 0644)
	if err == nil {
		err = rowstats.WriteText(wr, e.registry)
		if cerr := wr.Close(); err == nil {
			err = cerr
		}
	}

	return errhand.BuildIf(err, "error: failed to write metrics file '%s'", path).Build()
}

func (e *env) fail(err error) int {
	if verr, ok := err.(errhand.VerboseError); ok {
		fmt.Fprintln(e.stderr, verr.Verbose())
	} else {
		fmt.Fprintln(e.stderr, err.Error())
	}
	return 1
}

// result summarizes the conversion of one input.
type result struct {
	input  string
	output string
	good   int
	bad    int
	bytes  int64
}

func (e *env) printResults(results []result) {
	for _, r := range results {
		if r.input == "" {
			continue
		}
		fmt.Fprintf(e.stdout, "%s -> %s: %s rows, %s bad rows, %s read\n", r.input, r.output,
			humanize.Comma(int64(r.good)), humanize.Comma(int64(r.bad)), humanize.Bytes(uint64(r.bytes)))
	}
}
