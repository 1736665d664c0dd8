package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	arrayruntime "github.com/vexlang/array-runtime"
	"github.com/vexlang/array-runtime/descriptor"
	"github.com/vexlang/array-runtime/transform"
)

func main() {
	var (
		sourceStr   = flag.String("source", "1,2,3,4,5,6", "Source elements (comma-separated integers)")
		shapeStr    = flag.String("shape", "2,3", "Result shape (comma-separated extents)")
		padStr      = flag.String("pad", "", "Pad elements (optional)")
		orderStr    = flag.String("order", "", "Dimension order, a permutation of 1..rank (optional)")
		width       = flag.Uint64("width", 8, "Integer kind width for shape/order (1, 2, 4, or 8)")
		raw         = flag.Bool("raw", false, "Dump the result's raw interop descriptor")
		verbose     = flag.Bool("v", false, "Verbose runtime logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		descriptor.SetLogger(logger)
		transform.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*sourceStr, *shapeStr, *padStr, *orderStr, *width, *raw); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sourceStr, shapeStr, padStr, orderStr string, width uint64, raw bool) error {
	source, err := parseInts(sourceStr)
	if err != nil {
		return fmt.Errorf("parse -source: %w", err)
	}
	shape, err := parseInts(shapeStr)
	if err != nil {
		return fmt.Errorf("parse -shape: %w", err)
	}

	srcDesc := descriptor.FromInt64s(source)
	defer srcDesc.Destroy()
	shapeDesc := descriptor.FromIntegers(width, shape)
	defer shapeDesc.Destroy()

	var padDesc, orderDesc *descriptor.Descriptor
	if padStr != "" {
		pad, err := parseInts(padStr)
		if err != nil {
			return fmt.Errorf("parse -pad: %w", err)
		}
		padDesc = descriptor.FromInt64s(pad)
		defer padDesc.Destroy()
	}
	if orderStr != "" {
		order, err := parseInts(orderStr)
		if err != nil {
			return fmt.Errorf("parse -order: %w", err)
		}
		orderDesc = descriptor.FromIntegers(width, order)
		defer orderDesc.Destroy()
	}

	result, err := callReshape(srcDesc, shapeDesc, padDesc, orderDesc)
	if err != nil {
		return err
	}
	defer result.Destroy()

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	fmt.Println(renderResult(result, styled))

	if raw {
		fmt.Println("\nRaw descriptor:")
		dumpRaw(result.EncodeRaw())
	}
	return nil
}

// callReshape converts the intrinsic's fatal contract into an error for
// this tool: a violation should print a diagnostic, not a stack trace.
func callReshape(source, shape, pad, order *descriptor.Descriptor) (result *descriptor.Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return transform.Reshape(source, shape, pad, order), nil
}

func parseInts(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func renderResult(d *descriptor.Descriptor, styled bool) string {
	head := lipglossHeader(styled)
	val := lipglossValue(styled)

	var b strings.Builder
	extents := make([]string, d.Rank())
	for j := 0; j < d.Rank(); j++ {
		extents[j] = strconv.FormatInt(d.Dimension(j).Extent(), 10)
	}
	b.WriteString(head.Render(fmt.Sprintf("result: rank %d, extents [%s], %d elements",
		d.Rank(), strings.Join(extents, " "), d.Elements())))
	b.WriteByte('\n')

	if d.Rank() == 2 {
		// one printed row per first-dimension subscript
		rows := d.Dimension(0).Extent()
		cols := d.Dimension(1).Extent()
		for i := int64(1); i <= rows; i++ {
			cells := make([]string, 0, cols)
			for j := int64(1); j <= cols; j++ {
				cells = append(cells, val.Render(elementString(d, []arrayruntime.SubscriptValue{i, j})))
			}
			b.WriteString("  " + strings.Join(cells, "  ") + "\n")
		}
		return strings.TrimSuffix(b.String(), "\n")
	}

	subscript := make([]arrayruntime.SubscriptValue, d.Rank())
	d.LowerBounds(subscript)
	for n := d.Elements(); n > 0; n-- {
		coords := make([]string, d.Rank())
		for j, s := range subscript {
			coords[j] = strconv.FormatInt(s, 10)
		}
		b.WriteString(fmt.Sprintf("  result(%s) = %s\n",
			strings.Join(coords, ","), val.Render(elementString(d, subscript))))
		d.IncrementSubscripts(subscript)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func elementString(d *descriptor.Descriptor, subscript []arrayruntime.SubscriptValue) string {
	return strconv.FormatInt(int64(binary.NativeEndian.Uint64(d.Element(subscript))), 10)
}

func dumpRaw(buf []byte) {
	for off := 0; off < len(buf); off += 8 {
		end := off + 8
		if end > len(buf) {
			end = len(buf)
		}
		fmt.Printf("  %04x  %x\n", off, buf[off:end])
	}
}
