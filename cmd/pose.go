package cmd

import (
	"fmt"

	"github.com/philipparndt/guideline/pkg/vpd"
	"github.com/spf13/cobra"
)

var poseCmd = &cobra.Command{
	Use:   "pose [file]",
	Short: "Print the bones and morphs of a pose file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPose,
}

func init() {
	rootCmd.AddCommand(poseCmd)
}

func runPose(cmd *cobra.Command, args []string) error {
	pose, err := vpd.ParseFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Pose: %s\n", pose.Name)
	fmt.Fprintf(out, "Model: %s\n\n", pose.ModelFile)

	fmt.Fprintf(out, "Bones (%d):\n", len(pose.Bones))
	for _, b := range pose.Bones {
		t, r := b.Translation, b.Rotation
		fmt.Fprintf(out, "  %-16s T(%.3f, %.3f, %.3f) R(%.3f, %.3f, %.3f, %.3f)\n",
			b.Name, t.X, t.Y, t.Z, r.X, r.Y, r.Z, r.W)
	}

	fmt.Fprintf(out, "\nMorphs (%d):\n", len(pose.Morphs))
	for _, m := range pose.Morphs {
		fmt.Fprintf(out, "  %-16s %.3f\n", m.Name, m.Weight)
	}
	return nil
}
