// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// tensorpad pads a tensor read from a .npy file, or given in the command line, and prints or saves the result.
//
// Examples:
//
//	tensorpad -values=1,2,3,4,5,6 -shape=3,2 -dtype=float32 -pads=0,2,0,0
//	tensorpad -input=image.npy -axes=1,2 -pads=2,2,2,2 -mode=reflect -output=padded.npy
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/tensorpad/pkg/core/tensors"
	"github.com/gomlx/tensorpad/pkg/core/tensors/numpy"
	"github.com/gomlx/tensorpad/pkg/pad"
	"github.com/gomlx/tensorpad/pkg/support/fsutil"
	"github.com/gomlx/tensorpad/pkg/support/xslices"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagInput  = flag.String("input", "", "Path to a .npy file with the tensor to pad. If empty, -values is used.")
	flagValues = flag.String("values", "", "Comma-separated values of the tensor to pad, used if -input is not given.")
	flagShape  = xslices.Flag[int]("shape", nil, "Comma-separated dimensions of the tensor given by -values. "+
		"Defaults to a 1D tensor with all the values.", strconv.Atoi)
	flagDType = flag.String("dtype", "float32", "DType of the tensor given by -values, e.g. \"float32\", \"int8\", \"bool\".")
	flagPads  = xslices.Flag[int]("pads", nil, "Comma-separated pads: by default all the lower pads followed by "+
		"all the upper pads, see -layout. Negative values crop.", strconv.Atoi)
	flagAxes = xslices.Flag[int]("axes", nil, "Comma-separated axes to pad. Defaults to all axes. "+
		"Negative values count from the end.", strconv.Atoi)
	flagMode   = flag.String("mode", "constant", "Pad mode: \"constant\", \"edge\" or \"reflect\".")
	flagValue  = flag.String("value", "", "Fill value for the \"constant\" mode, defaults to 0 (or false).")
	flagLayout = flag.String("layout", "begins_then_ends",
		"Layout of -pads: \"begins_then_ends\" (ONNX) or \"interleaved\" (lower and upper pad of each axis in pairs).")
	flagOutput      = flag.String("output", "", "Path of a .npy file where to save the result. If empty, the result is only printed.")
	flagParallelism = flag.Int("parallelism", -2, "Number of parallel workers: 0 to run sequentially, -1 for unlimited. "+
		"Defaults to the value in $"+pad.TENSORPAD_CONFIG+" or the number of CPUs.")
	flagSummary = flag.Bool("summary", true, "Print a summary table of the pad.")
)

// options holds the values of the flags.
type options struct {
	input, values, dtype        string
	shape, pads, axes           []int
	mode, value, layout, output string
	parallelism                 int
	summary                     bool
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if flag.NArg() > 0 {
		klog.Errorf("Unexpected arguments %q. See 'tensorpad -help'.", flag.Args())
		os.Exit(1)
	}
	opts := options{
		input:       *flagInput,
		values:      *flagValues,
		shape:       *flagShape,
		dtype:       *flagDType,
		pads:        *flagPads,
		axes:        *flagAxes,
		mode:        *flagMode,
		value:       *flagValue,
		layout:      *flagLayout,
		output:      *flagOutput,
		parallelism: *flagParallelism,
		summary:     *flagSummary,
	}
	if err := run(opts, os.Stdout); err != nil {
		klog.Fatalf("Failed: %+v", err)
	}
}

// run pads the tensor described by opts and writes the report to w.
func run(opts options, w io.Writer) error {
	x, err := loadInput(opts)
	if err != nil {
		return err
	}
	spec, err := buildSpec(opts)
	if err != nil {
		return err
	}
	var padOpts []pad.Option
	if opts.parallelism >= -1 {
		padOpts = append(padOpts, pad.WithParallelism(opts.parallelism))
	}
	plan, err := pad.Compile(x.Shape(), spec, padOpts...)
	if err != nil {
		return err
	}
	y, err := plan.Execute(x)
	if err != nil {
		return err
	}

	if opts.summary {
		fmt.Fprintln(w, titleStyle.Render("Pad"))
		fmt.Fprintln(w, summaryTable(opts, plan, x, y).Render())
	}
	fmt.Fprintln(w, y.String())
	if opts.output != "" {
		outputPath, err := fsutil.ReplaceTildeInDir(opts.output)
		if err != nil {
			return err
		}
		if err = numpy.ToNpyFile(y, outputPath); err != nil {
			return err
		}
		klog.V(1).Infof("Saved result to %q", outputPath)
	}
	return nil
}

// loadInput reads the tensor from the .npy file or from the -values, -shape and -dtype flags.
func loadInput(opts options) (*tensors.Tensor, error) {
	if opts.input != "" {
		if opts.values != "" {
			return nil, errors.New("only one of -input or -values can be given")
		}
		path, err := fsutil.ExistingFile(opts.input)
		if err != nil {
			return nil, err
		}
		return numpy.FromNpyFile(path)
	}
	if opts.values == "" {
		return nil, errors.New("either -input or -values must be given, see 'tensorpad -help'")
	}
	return tensorFromFlags(opts.values, opts.shape, opts.dtype)
}

// buildSpec converts the flags to a pad.Spec.
func buildSpec(opts options) (spec pad.Spec, err error) {
	spec.Pads = opts.pads
	if spec.Pads == nil {
		spec.Pads = []int{}
	}
	spec.Axes = opts.axes
	spec.Mode, err = pad.ParseMode(opts.mode)
	if err != nil {
		return spec, err
	}
	spec.Layout, err = pad.ParseLayout(opts.layout)
	if err != nil {
		return spec, err
	}
	if opts.value != "" {
		spec.FillValue, err = parseScalar(opts.value)
		if err != nil {
			return spec, errors.WithMessage(err, "parsing -value")
		}
	}
	return spec, nil
}

var titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)

func summaryTable(opts options, plan *pad.Plan, x, y *tensors.Tensor) *lgtable.Table {
	table := newPlainTable(true, lipgloss.Right, lipgloss.Left)
	table.Headers("", "Value")
	table.Row("input", x.Shape().String())
	table.Row("output", y.Shape().String())
	table.Row("mode", plan.Mode().String())
	table.Row("paddings", fmt.Sprintf("%v", plan.Paddings()))
	if plan.Mode() == pad.Constant {
		fill := opts.value
		if fill == "" {
			fill = "0"
		}
		table.Row("fill", fill)
	}
	table.Row("# elements", humanize.Comma(int64(y.Size())))
	table.Row("# bytes", humanize.Bytes(uint64(y.Memory())))
	table.Row("config", plan.Config().String())
	return table
}
