package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"mediator/internal/mediator"
	"mediator/internal/pathbuilder"
	"mediator/internal/treeinit"
	"mediator/internal/valuetree"
	"mediator/pkg/logging"
	pkgstrings "mediator/pkg/strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	pathManifest  string
	pathCompact   bool
	pathQualified bool
	pathPrefixed  bool
	pathStatus    bool
	pathPlain     bool
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Build a value tree from a manifest and print each node's path",
	Long: `Builds a value tree from the schema manifest given with --manifest.
Leaves take their manifest value, else their status document value, else
their declared default. Leaves listed under "virtual" are read live from the
status document.

Every node is printed with its canonical path and, for leaves, its value.

  --compact    '.' separated paths with '_' module separators
  --qualified  qualify every segment with its module name
  --prefixed   qualify every segment with its namespace prefix
  --status     print the status document path (root segment included)`,
	Args: cobra.NoArgs,
	RunE: runPath,
}

func runPath(cmd *cobra.Command, args []string) error {
	manifest, err := valuetree.LoadManifestFile(pathManifest)
	if err != nil {
		return err
	}

	application, err := newApplication(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	services := application.Services()

	tree, err := buildTree(ctx, manifest, services.Mediator)
	if err != nil {
		return err
	}

	opts := pathbuilder.Options{
		WithModuleQualify:  pathQualified,
		ForceModuleQualify: pathPrefixed,
	}
	if pathCompact {
		opts.Mode = pathbuilder.ModeCompact
	}
	root := services.Store.Root()

	return printTree(cmd.OutOrStdout(), tree, func(id valuetree.NodeID) (string, error) {
		if pathStatus {
			return pathbuilder.StatusPath(tree, id, root)
		}
		return pathbuilder.Build(tree, id, opts)
	})
}

// buildTree initializes one subtree per top-level manifest object. Leaves
// without a manifest value are seeded from the status document through m.
func buildTree(ctx context.Context, manifest *valuetree.Manifest, m *mediator.Mediator) (*valuetree.Tree, error) {
	tree := valuetree.NewTree(valuetree.TreeOptions{})

	callbacks := treeinit.NewCallbacks()
	callbacks.SetFallback(m.ValueFunc(ctx))

	virtuals := treeinit.NewVirtuals()
	for _, p := range manifest.Virtual {
		obj, ok := treeinit.FindObject(manifest.Top, p)
		if !ok {
			return nil, fmt.Errorf("virtual leaf %s is not in the manifest", p)
		}
		virtuals.Register(obj, m.VirtualFunc(ctx))
	}

	initializer := treeinit.New(tree, treeinit.Options{Callbacks: callbacks, Virtuals: virtuals})
	for _, top := range manifest.Top {
		if _, err := initializer.InitSubtree(top, tree.Root(), manifest.Values); err != nil {
			return nil, fmt.Errorf("failed to initialize %s: %w", top.Name, err)
		}
	}
	logging.Debug("TreeInit", "Value tree holds %d nodes", tree.Len())
	return tree, nil
}

// printTree renders every named node below the root with the path
// produced by pathOf.
func printTree(out io.Writer, tree *valuetree.Tree, pathOf func(valuetree.NodeID) (string, error)) error {
	type row struct {
		kind, path, value string
	}
	var rows []row

	err := tree.Walk(tree.Root(), func(id valuetree.NodeID, depth int) error {
		kind := tree.Kind(id)
		if id == tree.Root() || kind.IsTransparent() {
			return nil
		}
		path, err := pathOf(id)
		if err != nil {
			return fmt.Errorf("path of %s: %w", tree.Name(id), err)
		}
		logging.Debug("PathBuilder", "%s: %s", path, strings.Join(pathbuilder.Describe(tree, id), ", "))

		r := row{kind: kind.String(), path: path}
		if kind.IsSimple() {
			r.value = leafValue(tree, id)
		}
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return err
	}

	if pathPlain {
		for _, r := range rows {
			fmt.Fprintf(out, "%s\t%s\n", r.path, r.value)
		}
		return nil
	}
	if len(rows) == 0 {
		printEmpty(out, "Manifest declares no nodes")
		return nil
	}
	t := newTable(out, "KIND", "PATH", "VALUE")
	for _, r := range rows {
		t.AppendRow([]interface{}{r.kind, r.path, pkgstrings.TruncateValue(r.value, pkgstrings.DefaultValueMaxLen)})
	}
	t.Render()
	return nil
}

func leafValue(tree *valuetree.Tree, id valuetree.NodeID) string {
	value, ok, err := tree.Value(id)
	switch {
	case err != nil:
		return text.FgRed.Sprintf("<%v>", err)
	case !ok:
		return ""
	default:
		return value
	}
}

func init() {
	rootCmd.AddCommand(pathCmd)

	pathCmd.Flags().StringVar(&pathManifest, "manifest", "", "Schema manifest (YAML)")
	pathCmd.Flags().BoolVar(&pathCompact, "compact", false, "Use compact paths")
	pathCmd.Flags().BoolVar(&pathQualified, "qualified", false, "Qualify every segment with its module name")
	pathCmd.Flags().BoolVar(&pathPrefixed, "prefixed", false, "Qualify every segment with its namespace prefix")
	pathCmd.Flags().BoolVar(&pathStatus, "status", false, "Print status document paths")
	pathCmd.Flags().BoolVar(&pathPlain, "plain", false, "Print tab separated path and value per line")
	_ = pathCmd.MarkFlagRequired("manifest")
}
