// gozpaq is a thin front end over the embedded zpaq archive tool.
//
// Flags come before the verb; parsing stops at the first positional argument.
//
//	gozpaq -m 2 -t 4 add archive.zpaq file1 dir2
//	gozpaq extract archive.zpaq [files...]
//	gozpaq list archive.zpaq [files...]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	zpaq "github.com/zpaqio/go-zpaq"
)

func main() {
	var (
		methodFlag  string
		threadsFlag int
		verboseFlag bool
	)

	flag.StringVar(&methodFlag, "m", "", "compression method for add")
	flag.IntVar(&threadsFlag, "t", 0, "threads for add (0 = auto)")
	flag.BoolVar(&verboseFlag, "v", false, "be verbose")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"usage: gozpaq [flags] {add|extract|list} archive [paths...]\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	var err error
	var logger *zap.Logger
	if verboseFlag {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal("failed to initialize logger", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}
	command, archive, paths := args[0], args[1], args[2:]

	var out zpaq.CommandOutput
	switch command {
	case "add":
		if len(paths) == 0 {
			logger.Fatal("add needs at least one input path")
		}
		out, err = zpaq.Add(archive, paths, methodFlag, threadsFlag)
	case "extract":
		out, err = zpaq.Extract(archive, paths...)
	case "list":
		out, err = zpaq.List(archive, paths...)
	default:
		logger.Fatal("unknown command", zap.String("command", command))
	}

	if out.Stdout != "" {
		fmt.Print(out.Stdout)
	}
	if out.Stderr != "" {
		fmt.Fprint(os.Stderr, out.Stderr)
	}
	if err != nil {
		logger.Fatal("command failed", zap.String("command", command), zap.Error(err))
	}
}
