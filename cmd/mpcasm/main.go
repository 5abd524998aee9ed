// Copyright 2025, The mpcasm Authors

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/k0kubun/pp/v3"

	"github.com/mstore/mpcasm/asm"
)

// Config mirrors the optional mpcasm.toml tool configuration. Flags
// override the file; the file overrides the built-in defaults.
type Config struct {
	CarryAdjust *int   `toml:"carry_adjust"`
	Output      string `toml:"output"`
	Mapping     string `toml:"mapping"`
}

// settings resolves the output and mapping paths, flags winning over the
// configuration file, the file winning over the built-in defaults.
func settings(conf Config, output, mapping string) (string, string) {
	if output == "" {
		output = conf.Output
	}
	if output == "" {
		output = "ram.b"
	}
	if mapping == "" {
		mapping = conf.Mapping
	}
	if mapping == "" {
		mapping = "mapping.conf"
	}
	return output, mapping
}

// apply sets assembler options from the configuration.
func (conf *Config) apply(as *asm.Assembler) {
	if conf.CarryAdjust != nil {
		as.CarryAdjust = byte(*conf.CarryAdjust)
	}
}

// assembleFile assembles source into the output artifact. On any failure
// the artifact is removed, so a half-written or stale file never survives
// a failed run.
func assembleFile(as *asm.Assembler, source, output string) (prog *asm.Program, err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	ouf, err := os.Create(output)
	if err != nil {
		return
	}

	prog, err = as.Assemble(inf, ouf)
	if err != nil {
		ouf.Close()
		os.Remove(output)
		prog = nil
		return
	}

	err = ouf.Close()
	if err != nil {
		os.Remove(output)
		prog = nil
	}
	return
}

func main() {
	var output string
	var mapping string
	var confpath string
	var verbose bool
	var debug bool

	flag.StringVar(&output, "o", "", "assembled binary file (default ram.b)")
	flag.StringVar(&mapping, "m", "", "instruction mapping table (default mapping.conf)")
	flag.StringVar(&confpath, "c", "mpcasm.toml", "tool configuration file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&debug, "debug", false, "Dump the encoding table and assembled program")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: one assembly source file required", os.Args[0])
	}
	source := flag.Arg(0)

	var conf Config
	if _, err := os.Stat(confpath); err == nil {
		_, err = toml.DecodeFile(confpath, &conf)
		if err != nil {
			log.Fatalf("%v: %v", confpath, err)
		}
	}
	output, mapping = settings(conf, output, mapping)

	as := asm.NewAssembler()
	as.Verbose = verbose
	as.Trace = os.Stdout
	conf.apply(as)

	// The mapping table is optional; without it the built-in entries are
	// used alone.
	if mf, err := os.Open(mapping); err == nil {
		err = as.Table.Load(mf)
		mf.Close()
		if err != nil {
			log.Fatalf("%v: %v", mapping, err)
		}
	}

	if debug {
		pp.Fprintln(os.Stderr, as.Table)
	}

	prog, err := assembleFile(as, source, output)
	if err != nil {
		log.Fatalf("%v: %v", source, err)
	}

	if debug {
		pp.Fprintln(os.Stderr, prog)
	}

	fmt.Printf("\n%v successfully assembled to %v in %d bytes.\n", source, output, prog.Size())
}
