// Diagnostic tool for inspecting store files
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/robert-malhotra/go-nexus/dtype"
	"github.com/robert-malhotra/go-nexus/nexus"
	"github.com/robert-malhotra/go-nexus/storage"
	"github.com/robert-malhotra/go-nexus/storage/dirstore"
)

const maxDepth = 20

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("diagnose", flag.ContinueOnError)
	fs.SetOutput(stderr)
	read := fs.String("read", "", "dataset `path` to read through a lazy loader")
	rows := fs.Int("rows", 4, "maximum rows of the first axis to read")
	verbose := fs.Bool("v", false, "log storage events to stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: diagnose [-v] [-read /group/dataset] [-rows n] <file>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected one file")
	}
	filename := fs.Arg(0)

	logger := slog.New(slog.DiscardHandler)
	if *verbose {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	store := dirstore.New(dirstore.WithLogger(logger))

	fmt.Fprintf(stdout, "=== Analyzing %s ===\n\n", filename)
	f, err := store.OpenFile(filename, storage.ReadOnly)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	err = storage.Walk(f, "/", func(path string, info storage.ObjectInfo, err error) error {
		depth := len(storage.SplitPath(path))
		indent := strings.Repeat("  ", depth)
		if depth > maxDepth {
			fmt.Fprintf(stdout, "%s[MAX DEPTH REACHED]\n", indent)
			return nil
		}
		if err != nil {
			fmt.Fprintf(stdout, "%s%q: ERROR %v\n", indent, path, err)
			return nil
		}
		if info.Group {
			members, err := f.Members(path)
			if err != nil {
				fmt.Fprintf(stdout, "%sGroup %q: ERROR getting members: %v\n", indent, path, err)
				return nil
			}
			fmt.Fprintf(stdout, "%sGroup %q:\n", indent, path)
			fmt.Fprintf(stdout, "%s  Members: %d\n", indent, len(members))
			if len(members) == 0 && depth > 0 {
				fmt.Fprintf(stdout, "%s  [EMPTY - no members]\n", indent)
			}
			return nil
		}
		fmt.Fprintf(stdout, "%sDataset %q:\n", indent, path)
		fmt.Fprintf(stdout, "%s  Type: %s\n", indent, nexus.TypeName(info.Kind))
		fmt.Fprintf(stdout, "%s  Shape: %v (max %v)\n", indent, info.Dims, info.MaxDims)
		fmt.Fprintf(stdout, "%s  Chunks: %v, stored %d\n", indent, info.ChunkDims, info.StoredChunks)
		if len(info.Filters) > 0 {
			fmt.Fprintf(stdout, "%s  Filters: %s\n", indent, strings.Join(info.Filters, ", "))
		}
		return nil
	})
	if err != nil {
		return err
	}

	if *read == "" {
		return nil
	}
	info, err := f.Stat(*read)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *read, err)
	}
	if !info.IsDataset() {
		return fmt.Errorf("reading %s: %w", *read, storage.ErrNotDataset)
	}
	return readDataset(stdout, store, filename, info, *rows, logger)
}

// readDataset reads the leading rows of a dataset through a Loader that
// reuses no handle, the way a lazy consumer would.
func readDataset(w io.Writer, b storage.Backend, filename string, info storage.ObjectInfo, rows int, logger *slog.Logger) error {
	shape := make([]int, len(info.Dims))
	for i, d := range info.Dims {
		shape[i] = int(d)
	}
	if info.Kind == dtype.Char {
		// Drop the text axis; a rank 1 text dataset is a single string.
		shape = shape[:len(shape)-1]
		if len(shape) == 0 {
			shape = []int{1}
		}
	}

	parts := storage.SplitPath(info.Path)
	group := "/" + strings.Join(parts[:len(parts)-1], "/")
	l := nexus.NewLoader(b, nexus.FileSource(filename), group, parts[len(parts)-1], shape, info.Kind,
		nexus.WithLogger(logger))
	defer l.Close()

	stop := make([]int, len(shape))
	copy(stop, shape)
	if len(stop) > 0 && rows >= 0 {
		stop[0] = min(stop[0], rows)
	}
	r, err := nexus.SliceRegion(shape, nil, stop)
	if err != nil {
		return err
	}
	buf, err := l.GetDataset(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w (%s)", info.Path, err, nexus.Classify(err))
	}

	fmt.Fprintf(w, "\n=== %s ===\n", info.Path)
	fmt.Fprintf(w, "%s\n", buf)
	if v, ok := buf.FirstValue(); ok {
		fmt.Fprintf(w, "First value: %v\n", v)
	}
	fmt.Fprint(w, buf.DataText(true, false, false))
	return nil
}
