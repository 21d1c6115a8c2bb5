//
// Copyright (c) 2024-2025 The secc authors.
//
// All rights reserved.
//

// Command secc compiles annotated C programs into arithmetic circuits.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/seclang/secc/circuit"
	"github.com/seclang/secc/compiler"
	"github.com/seclang/secc/compiler/utils"
)

func main() {
	output := flag.String("o", "", "output file name")
	format := flag.String("format", "secc",
		"circuit format: secc, bristol, or dot")
	flat := flag.Bool("flat", false, "print the flattened program")
	stats := flag.Bool("stats", false, "print circuit statistics")
	digest := flag.Bool("digest", false, "print the circuit digest")
	eval := flag.String("eval", "",
		"evaluate the circuit with the argument inputs, "+
			"one comma-separated group per input, groups separated by '/'")
	verbose := flag.Bool("v", false, "verbose output")
	diag := flag.Bool("d", false, "verify the compiled circuit")
	flag.Parse()

	if len(flag.Args()) == 0 {
		fmt.Fprintf(os.Stderr, "no input files\n")
		os.Exit(1)
	}

	params := utils.NewParams()
	params.Verbose = *verbose
	params.Diagnostics = *diag
	params.CircFormat = *format
	if *flat {
		params.FlatOut = os.Stdout
	}
	defer params.Close()

	for _, arg := range flag.Args() {
		if err := compileFile(arg, *output, params,
			*stats, *digest, *eval); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
	}
}

func compileFile(file, output string, params *utils.Params,
	stats, digest bool, eval string) error {

	circ, err := compiler.New(params).CompileFile(file)
	if err != nil {
		return err
	}
	if params.Verbose {
		fmt.Printf("%s: %s\n", file, circ)
	}
	if stats {
		circ.Tabulate().Print(os.Stdout)
	}
	if digest {
		d, err := circ.Digest()
		if err != nil {
			return err
		}
		fmt.Printf("%x\n", d)
	}
	if len(eval) > 0 {
		if err := evaluate(circ, eval); err != nil {
			return err
		}
	}
	if len(output) == 0 {
		return nil
	}
	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()
	return compiler.Emit(circ, out, params.CircFormat)
}

func evaluate(circ *circuit.Circuit, eval string) error {
	var args [][]int64
	for _, group := range strings.Split(eval, "/") {
		var arg []int64
		for _, val := range strings.Split(group, ",") {
			v, err := strconv.ParseInt(strings.TrimSpace(val), 0, 64)
			if err != nil {
				return err
			}
			arg = append(arg, v)
		}
		args = append(args, arg)
	}
	result, err := circ.Compute(args...)
	if err != nil {
		return err
	}
	off := 0
	for _, out := range circ.Outputs {
		fmt.Printf("%s = %v\n", out.Name, result[off:off+out.Size()])
		off += out.Size()
	}
	return nil
}
