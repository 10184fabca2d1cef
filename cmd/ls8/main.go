// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
	"github.com/ezrec/ls8/translate"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [-v] [-lenient] [-S] [-c] program\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	var assemble bool
	var compile bool
	var lenient bool
	var verbose bool

	flag.BoolVar(&assemble, "S", false, "Program is assembly source (default for .asm and .s files)")
	flag.BoolVar(&compile, "c", false, "Print the program in loader format, do not execute")
	flag.BoolVar(&lenient, "lenient", false, "Skip unknown opcodes instead of stopping")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Usage = usage

	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix(filepath.Base(os.Args[0]) + ": ")

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s":
		assemble = true
	}

	if verbose {
		log.Printf("messages: %v", translate.Language())
	}

	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Console.Output = os.Stdout
	if lenient {
		emu.Unknown = cpu.UNKNOWN_SKIP
	}

	if assemble {
		emu.Program, err = emu.Assembler().Parse(inf)
	} else {
		emu.Program, err = cpu.Load(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if compile {
		_, err = emu.Program.WriteTo(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	err = emu.Run()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if verbose {
		log.Printf("%v: halted after %d steps", path, emu.Steps())
	}
}
