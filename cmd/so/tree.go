package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/groblegark/soscope/internal/analysis"
	"github.com/groblegark/soscope/internal/format"
	"github.com/groblegark/soscope/internal/model"
	"github.com/groblegark/soscope/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:   "tree <type>/<id>",
	Short: "Show the dependency tree of a saved object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := model.ParseKey(args[0])
		if err != nil {
			return err
		}
		depth, _ := cmd.Flags().GetInt("depth")

		tree, err := analyzer.BuildDependencyTree(cmd.Context(), root, analysis.TreeOptions{
			Space:    space,
			MaxDepth: depth,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(tree)
			return nil
		}
		if markdownOutput {
			fmt.Print(format.Tree(tree))
			return nil
		}

		printTree(os.Stdout, tree)
		printTreeSummary(tree)
		return nil
	},
}

func printTree(w io.Writer, tree *model.DependencyTree) {
	fmt.Fprintln(w, nodeLine(tree.Root))
	seen := map[model.ObjectKey]bool{tree.Root.Key: true}
	printChildren(w, tree, tree.Root, "", seen)
}

// printChildren walks the forward references of a node. Nodes already printed
// on the current walk are shown once more with a circular-reference marker and
// not descended into.
func printChildren(w io.Writer, tree *model.DependencyTree, node *model.DependencyNode, prefix string, seen map[model.ObjectKey]bool) {
	refs := node.References
	for i, ref := range refs {
		isLast := i == len(refs)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if isLast {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		child := tree.Node(ref.Key())
		if child == nil {
			fmt.Fprintf(w, "%s%s%s %s\n", prefix, connector, ref.Key().String(), ui.RenderMuted("(not expanded)"))
			continue
		}
		if seen[child.Key] {
			fmt.Fprintf(w, "%s%s%s %s\n", prefix, connector, nodeLine(child), ui.RenderMuted("(circular reference)"))
			continue
		}
		seen[child.Key] = true

		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, nodeLine(child))
		printChildren(w, tree, child, childPrefix, seen)
	}
}

func nodeLine(n *model.DependencyNode) string {
	if n.Title == "" {
		return n.Key.String()
	}
	return fmt.Sprintf("%s %q", n.Key.String(), n.Title)
}

func printTreeSummary(tree *model.DependencyTree) {
	fmt.Printf("\n%d objects, max depth %d\n", tree.Summary.TotalObjects, tree.Summary.MaxDepth)
	if len(tree.Summary.MostReferenced) > 0 {
		fmt.Println("\nMost referenced:")
		for _, n := range tree.Summary.MostReferenced {
			fmt.Printf("  %s (%d inbound)\n", nodeLine(n), len(n.ReferencedBy))
		}
	}
	if len(tree.Summary.Orphans) > 0 {
		fmt.Println("\nOrphans:")
		for _, n := range tree.Summary.Orphans {
			fmt.Printf("  %s\n", nodeLine(n))
		}
	}
}

func init() {
	treeCmd.Flags().Int("depth", analysis.DefaultMaxDepth, "maximum depth to traverse")
}
