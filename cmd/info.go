package cmd

import (
	"fmt"

	"github.com/philipparndt/guideline/pkg/analysis"
	"github.com/philipparndt/guideline/pkg/stl"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display information about a character model",
	Long:  "Show the triangle count, bounding box, dimensions and edge statistics of an STL model.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	model, err := stl.Parse(filename)
	if err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}

	s := analysis.Summarize(model)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Model Information")
	fmt.Fprintln(out, "=================")
	if model.Name != "" {
		fmt.Fprintf(out, "Name: %s\n", model.Name)
	}
	fmt.Fprintf(out, "File: %s\n\n", filename)

	fmt.Fprintln(out, "Mesh:")
	fmt.Fprintf(out, "  Triangles: %d\n", s.TriangleCount)
	fmt.Fprintf(out, "  Edges: %d\n", s.EdgeCount)
	fmt.Fprintf(out, "  Surface Area: %.4f square units\n\n", s.SurfaceArea)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(s.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(s.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(s.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.4f units\n", s.Dimensions.X)
	fmt.Fprintf(out, "  Height (Y): %.4f units\n", s.Dimensions.Y)
	fmt.Fprintf(out, "  Depth (Z): %.4f units\n\n", s.Dimensions.Z)

	fmt.Fprintln(out, "Edge Lengths:")
	fmt.Fprintf(out, "  Minimum: %.4f units\n", s.MinEdgeLength)
	fmt.Fprintf(out, "  Maximum: %.4f units\n", s.MaxEdgeLength)
	fmt.Fprintf(out, "  Average: %.4f units\n", s.AvgEdgeLength)
	return nil
}
