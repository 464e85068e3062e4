package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/clbtools/clbtools/internal/app"
	"github.com/clbtools/clbtools/internal/config"
	"github.com/clbtools/clbtools/internal/preset"
	"github.com/clbtools/clbtools/internal/server"
)

var version = "0.1.0-dev"

type globalFlags struct {
	root     string
	workbook string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(app.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:           "clbtools",
		Short:         "Chemistry and attribute tooling for the CLB roster workbook",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", "App root holding clbtools.yaml (default: search upwards from the working directory)")
	rootCmd.PersistentFlags().StringVar(&g.workbook, "workbook", "", "Workbook path (overrides config and CLB_WORKBOOK)")

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "Expand the chemistry matrix into the Chemistry Lookup sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			force, _ := cmd.Flags().GetBool("force")
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.Convert(cmd.Context(), force)
				printResult(cmd.OutOrStdout(), res.Result)
				return err
			})
		},
	}
	convertCmd.Flags().Bool("force", false, "Overwrite a Chemistry Lookup that already has data")

	refreshCmd := &cobra.Command{
		Use:   "refresh-json",
		Short: "Republish the chemistry JSON index from the Chemistry Lookup sheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.RefreshJSON(cmd.Context())
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res.Result)
				return nil
			})
		},
	}

	importCmd := &cobra.Command{
		Use:   "import-preset <file|->",
		Short: "Import a 228-line stats preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return inputError(err)
			}
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.ImportPreset(cmd.Context(), text)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res.Result)
				return nil
			})
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export-preset",
		Short: "Export the workbook as a 228-line stats preset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.ExportPreset(cmd.Context())
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					fmt.Fprint(cmd.OutOrStdout(), res.Text)
					fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
					return nil
				}
				if err := os.WriteFile(out, []byte(res.Text), 0o644); err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res.Result)
				return nil
			})
		},
	}
	exportCmd.Flags().StringP("output", "o", "", "Write the preset to this file instead of stdout")

	queryCmd := &cobra.Command{
		Use:   "query <player>...",
		Short: "Show chemistry for one or more players, with team analysis for two or more",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.QueryChemistry(cmd.Context(), args)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	attributesCmd := &cobra.Command{
		Use:   "attributes [player]...",
		Short: "List attribute players, or show the named players",
		RunE: func(cmd *cobra.Command, args []string) error {
			averages, _ := cmd.Flags().GetBool("averages")
			return withApp(cmd, g, func(a *app.App) error {
				if len(args) == 0 {
					names, err := a.AttributePlayers(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
					return nil
				}
				views, err := a.PlayerAttributes(cmd.Context(), args, averages)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), views)
			})
		},
	}
	attributesCmd.Flags().Bool("averages", false, "Include pitching, batting and fielding averages")

	characterCmd := &cobra.Command{
		Use:   "character <name>",
		Short: "List the non-neutral editor chemistry of one character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, g, func(a *app.App) error {
				cc, err := a.CharacterChemistry(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), cc)
			})
		},
	}

	editorCmd := &cobra.Command{
		Use:   "editor",
		Short: "Read or apply the 101x101 editor chemistry grid",
	}
	editorCmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the editor grid as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, g, func(a *app.App) error {
				em, err := a.EditorMatrix(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), em)
			})
		},
	})
	editorCmd.AddCommand(&cobra.Command{
		Use:   "apply <file|->",
		Short: "Apply an edited grid ({\"matrix\": [[...]], \"changes\": [...]})",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return inputError(err)
			}
			var req struct {
				Matrix  preset.Matrix `json:"matrix"`
				Changes []app.Change  `json:"changes"`
			}
			if err := json.Unmarshal([]byte(raw), &req); err != nil {
				return app.ExitWithError(app.ExitInvalidInput, fmt.Errorf("decode editor grid: %w", err))
			}
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.UpdateEditorMatrix(cmd.Context(), req.Matrix, req.Changes)
				if err != nil {
					return err
				}
				printResult(cmd.OutOrStdout(), res.Result)
				return nil
			})
		},
	})

	namesCmd := &cobra.Command{
		Use:   "names",
		Short: "Create the name mapping sheet if needed and list display names",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, g, func(a *app.App) error {
				res, err := a.Names()
				if err != nil {
					return err
				}
				for i, n := range res.Names {
					fmt.Fprintf(cmd.OutOrStdout(), "%3d  %s\n", i, n)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), res.Message)
				return nil
			})
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chemistry and attribute JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			port, _ := cmd.Flags().GetString("port")
			return withApp(cmd, g, func(a *app.App) error {
				if port == "" {
					port = a.Config().Server.Port
				}
				return server.New(a).Run(cmd.Context(), ":"+strings.TrimPrefix(port, ":"))
			})
		},
	}
	serveCmd.Flags().String("port", "", "Listen port (overrides server.port and PORT)")

	rootCmd.AddCommand(convertCmd, refreshCmd, importCmd, exportCmd, queryCmd,
		attributesCmd, characterCmd, editorCmd, namesCmd, serveCmd)
	return rootCmd
}

func loadConfig(g *globalFlags) (config.Config, error) {
	root := g.root
	if root == "" {
		if found, err := config.FindRoot(""); err == nil {
			root = found
		} else {
			root = "."
		}
	}
	cfg, err := config.Load(root)
	if err != nil {
		return cfg, app.ExitWithError(app.ExitInvalidInput, err)
	}
	if g.workbook != "" {
		cfg.Workbook = g.workbook
	}
	return cfg, nil
}

func withApp(cmd *cobra.Command, g *globalFlags, fn func(a *app.App) error) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	a, err := app.Open(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "close:", cerr)
		}
	}()
	return fn(a)
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// inputError exits with ExitMissingResource for a missing input file and
// ExitInvalidInput for anything else readInput fails on.
func inputError(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return app.ExitWithError(app.ExitMissingResource, err)
	}
	return app.ExitWithError(app.ExitInvalidInput, err)
}

func printResult(w io.Writer, r app.Result) {
	if r.Message == "" {
		return
	}
	fmt.Fprintln(w, r.Message)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
