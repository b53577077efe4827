package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/KGrewal1/optimisers/internal/serialization"
	"github.com/KGrewal1/optimisers/tensor"
)

// maxInlineElements bounds how many values --values prints per tensor.
const maxInlineElements = 16

var (
	inspectValues       bool
	inspectSkipChecksum bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <checkpoint>",
	Short: "Describe an optimizer checkpoint file",
	Long: `Inspect prints the header and tensor table of a checkpoint written by
the run command's --save-state flag.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectCheckpoint(args[0], inspectValues, inspectSkipChecksum)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectValues, "values", false, "print values for tensors with at most 16 elements")
	inspectCmd.Flags().BoolVar(&inspectSkipChecksum, "skip-checksum", false, "skip data checksum validation")
	rootCmd.AddCommand(inspectCmd)
}

func inspectCheckpoint(path string, values, skipChecksum bool) error {
	r, err := serialization.NewReaderWithOptions(path, serialization.ReaderOptions{
		SkipChecksumValidation: skipChecksum,
		ValidationLevel:        serialization.ValidationStrict,
	})
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	h := r.Header()
	fmt.Printf("file:      %s\n", path)
	if h.Optimizer != "" {
		fmt.Printf("optimizer: %s\n", h.Optimizer)
	}
	fmt.Printf("created:   %s\n", h.CreatedAt.Format(time.RFC3339))
	fmt.Printf("tensors:   %d\n", len(h.Tensors))

	if len(h.Metadata) > 0 {
		keys := make([]string, 0, len(h.Metadata))
		for k := range h.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("metadata:")
		for _, k := range keys {
			fmt.Printf("  %s: %s\n", k, h.Metadata[k])
		}
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if values {
		fmt.Fprintln(w, "NAME\tDTYPE\tSHAPE\tBYTES\tVALUES")
	} else {
		fmt.Fprintln(w, "NAME\tDTYPE\tSHAPE\tBYTES")
	}
	for _, meta := range h.Tensors {
		if values {
			v, err := tensorPreview(r, &meta)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%d\t%s\n", meta.Name, meta.DType, meta.Shape, meta.Size, v)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%v\t%d\n", meta.Name, meta.DType, meta.Shape, meta.Size)
		}
	}
	return w.Flush()
}

// tensorPreview formats a small tensor's values, or a placeholder for
// tensors too large to print inline.
func tensorPreview(r *serialization.Reader, meta *serialization.TensorMeta) (string, error) {
	elems := 1
	for _, d := range meta.Shape {
		elems *= d
	}
	if elems > maxInlineElements {
		return fmt.Sprintf("(%d elements)", elems), nil
	}

	raw, err := r.LoadTensor(meta.Name)
	if err != nil {
		return "", err
	}
	switch raw.DType() {
	case tensor.Float32:
		return fmt.Sprintf("%v", raw.AsFloat32()), nil
	case tensor.Float64:
		return fmt.Sprintf("%v", raw.AsFloat64()), nil
	case tensor.Int32:
		return fmt.Sprintf("%v", raw.AsInt32()), nil
	case tensor.Int64:
		return fmt.Sprintf("%v", raw.AsInt64()), nil
	case tensor.Uint8:
		return fmt.Sprintf("%v", raw.AsUint8()), nil
	case tensor.Bool:
		return fmt.Sprintf("%v", raw.AsBool()), nil
	}
	return fmt.Sprintf("(%s)", raw.DType()), nil
}
