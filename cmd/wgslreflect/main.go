// Command wgslreflect prints the resource bindings and color attachment
// count reflected from a WGSL shader.
//
// Usage:
//
//	wgslreflect [-truncate] [-strict] shader.wgsl
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/gogpu/pipecache/shader"
)

func main() {
	var (
		truncate = flag.Bool("truncate", false, "drop bindings in groups past the device limit instead of failing")
		strict   = flag.Bool("strict", false, "reject compute, push constants and f64")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: wgslreflect [flags] shader.wgsl\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	log.SetFlags(0)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	path := flag.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("wgslreflect: %v", err)
	}

	caps := shader.DefaultCapabilities()
	if *strict {
		caps = shader.Capabilities{}
	}
	if err := run(os.Stdout, string(src), caps, *truncate); err != nil {
		log.Fatalf("wgslreflect: %s: %v", path, err)
	}
}

func run(w io.Writer, source string, caps shader.Capabilities, truncate bool) error {
	m, err := shader.Load(source, caps)
	if err != nil {
		return err
	}

	groups, err := shader.ReflectWith(m, shader.ReflectOptions{
		TruncateGroups: truncate,
		OnTruncate: func(name string, group, binding uint32) {
			log.Printf("warning: %s at @group(%d) @binding(%d) dropped", name, group, binding)
		},
	})
	if err != nil {
		return err
	}

	attachments, err := shader.CountColorOutputs(m)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tBINDING\tNAME\tRESOURCE\tVISIBILITY")
	for g, group := range groups {
		for _, b := range group {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n", g, b.Slot, b.Name, b, b.Visibility)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "color attachments: %d\n", attachments)
	return err
}
