package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	cli "github.com/urfave/cli/v2"

	z80dismblr "z80dismblr"
)

func buildDisassembler(c *cli.Context) (*z80dismblr.Disassembler, error) {
	d := z80dismblr.NewDisassembler()
	d.SetListingConfig(listingConfig(c))

	if bin := c.String("bin"); bin != "" {
		f, err := os.Open(bin)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		org, err := strconv.ParseUint(c.String("org"), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("could not parse --org: %w", err)
		}
		if err := z80dismblr.ReadBin(d.Mem, uint16(org), f); err != nil {
			return nil, err
		}
	}

	if sna := c.String("sna"); sna != "" {
		f, err := os.Open(sna)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		start, err := z80dismblr.ReadSNA(d.Mem, f)
		if err != nil {
			return nil, err
		}
		d.SetSNAStart(start)
	}

	if tr := c.String("trace"); tr != "" {
		f, err := os.Open(tr)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		addrs, err := z80dismblr.ReadTrace(f)
		if err != nil {
			return nil, err
		}
		for _, addr := range addrs {
			d.QueueTraceAddress(addr)
		}
	}

	if entry := c.String("entry"); entry != "" {
		for _, s := range strings.Split(entry, ",") {
			addr, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
			if err != nil {
				return nil, fmt.Errorf("could not parse --entry address %q: %w", s, err)
			}
			d.AddEntryPoint(uint16(addr))
		}
	}

	if jt := c.String("jmptable"); jt != "" {
		parts := strings.Split(jt, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("--jmptable wants addr,count")
		}
		addr, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 0, 16)
		if err != nil {
			return nil, fmt.Errorf("could not parse --jmptable address: %w", err)
		}
		count, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("could not parse --jmptable count: %w", err)
		}
		d.SetJumpTable(uint16(addr), count)
	}

	return d, nil
}

func runAnalysis(c *cli.Context) (*z80dismblr.Disassembler, error) {
	d, err := buildDisassembler(c)
	if err != nil {
		return nil, err
	}

	runErr := d.Run()

	if sink, ok := d.Sink.(*z80dismblr.SliceEventSink); ok {
		for _, ev := range sink.Events {
			fmt.Fprintf(os.Stderr, "warning: %s %v\n", ev.Message, ev.Addresses)
		}
	}

	return d, runErr
}

func listingConfig(c *cli.Context) z80dismblr.ListingConfig {
	return z80dismblr.ListingConfig{
		OpcodesLowerCase:           c.Bool("lowercase"),
		NumberOfLinesBetweenBlocks: c.Int("blank-lines"),
		AddOpcodeBytes:             c.Bool("bytes"),
		AddReferencesToSubroutines: c.Bool("refs"),
		AddReferencesToAbsoluteLbl: c.Bool("refs"),
		AddReferencesToRstLabels:   c.Bool("refs"),
		AddReferencesToDataLabels:  c.Bool("refs"),

		AddressColumnWidth:   c.Int("clmns-address"),
		BytesColumnWidth:     c.Int("clmns-bytes"),
		OpcodeFirstPartWidth: c.Int("clmns-opcode-first-part"),
		MnemonicColumnWidth:  c.Int("clmns-opcode-total"),

		LabelSubPrefix:           c.String("label-sub-prefix"),
		LabelLblPrefix:           c.String("label-lbl-prefix"),
		LabelRstPrefix:           c.String("label-rst-prefix"),
		LabelDataLblPrefix:       c.String("label-datalbl-prefix"),
		LabelSelfModifyingPrefix: c.String("label-selfmod-prefix"),
		LabelLocalLablePrefix:    c.String("label-local-prefix"),
		LabelLoopPrefix:          c.String("label-loop-prefix"),
		LabelIntrptPrefix:        c.String("label-intrpt-prefix"),
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "z80dismblr"
	app.Usage = "Static disassembler for Z80 machine code"

	inputFlags := []cli.Flag{
		&cli.StringFlag{Name: "bin", Usage: "raw binary image to load"},
		&cli.StringFlag{Name: "org", Value: "0x0000", Usage: "load address for --bin"},
		&cli.StringFlag{Name: "sna", Usage: "ZX-Spectrum 48K .sna snapshot to load"},
		&cli.StringFlag{Name: "trace", Usage: "MAME .tr execution trace whose addresses are queued for decoding"},
		&cli.StringFlag{Name: "entry", Usage: "comma-separated list of entry point addresses"},
		&cli.StringFlag{Name: "jmptable", Usage: "addr,count of a jump table to seed as fixed CODE_LBLs"},
	}

	// namingFlags configure pass 11's (and pass 2's INTRPT) label prefixes.
	// They're shared by both commands since callgraph node labels are the
	// same Label.Name pass 11 assigns.
	namingFlags := []cli.Flag{
		&cli.StringFlag{Name: "label-sub-prefix", Usage: "prefix for CODE_SUB labels (default SUB)"},
		&cli.StringFlag{Name: "label-lbl-prefix", Usage: "prefix for CODE_LBL labels (default LBL)"},
		&cli.StringFlag{Name: "label-rst-prefix", Usage: "prefix for CODE_RST labels (default RST)"},
		&cli.StringFlag{Name: "label-datalbl-prefix", Usage: "prefix for DATA_LBL labels (default DATA)"},
		&cli.StringFlag{Name: "label-selfmod-prefix", Usage: "prefix for self-modified data labels (default SELF_MOD)"},
		&cli.StringFlag{Name: "label-local-prefix", Usage: "suffix for CODE_LOCAL_LBL labels (default _l)"},
		&cli.StringFlag{Name: "label-loop-prefix", Usage: "suffix for CODE_LOCAL_LOOP labels (default _loop)"},
		&cli.StringFlag{Name: "label-intrpt-prefix", Usage: "prefix for interrupt-discovered labels (default INTRPT)"},
	}

	app.Commands = []*cli.Command{
		{
			Name:  "disasm",
			Usage: "Disassemble an image and print a listing",
			Flags: append(append(append([]cli.Flag{}, inputFlags...), namingFlags...),
				&cli.BoolFlag{Name: "lowercase", Usage: "lowercase mnemonics"},
				&cli.BoolFlag{Name: "bytes", Usage: "show raw opcode bytes"},
				&cli.BoolFlag{Name: "refs", Usage: "annotate labels with their referrers"},
				&cli.IntFlag{Name: "blank-lines", Value: 2, Usage: "blank lines between code blocks"},
				&cli.IntFlag{Name: "clmns-address", Usage: "address column width (default 4)"},
				&cli.IntFlag{Name: "clmns-bytes", Usage: "raw-bytes column width (default 15)"},
				&cli.IntFlag{Name: "clmns-opcode-first-part", Usage: "opcode-keyword column width (default: unpadded)"},
				&cli.IntFlag{Name: "clmns-opcode-total", Usage: "mnemonic column width before comment (default 24)"},
			),
			Action: func(c *cli.Context) error {
				d, err := runAnalysis(c)
				if d != nil {
					z80dismblr.WriteListing(d, os.Stdout, listingConfig(c))
				}
				if err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:  "callgraph",
			Usage: "Disassemble an image and emit its call graph as Graphviz DOT",
			Flags: append(append([]cli.Flag{}, inputFlags...), namingFlags...),
			Action: func(c *cli.Context) error {
				d, err := runAnalysis(c)
				if d != nil {
					z80dismblr.WriteCallGraph(d, os.Stdout)
				}
				if err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
