package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/request"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/state"
	"github.com/kailas-cloud/dnamatch/internal/render"
	"github.com/kailas-cloud/dnamatch/internal/tracing"
	"github.com/kailas-cloud/dnamatch/internal/transport/matcher"
	searchuc "github.com/kailas-cloud/dnamatch/internal/usecase/search"
)

// errSearchFailed marks a search that ended in the failed state.
var errSearchFailed = errors.New("search failed")

type searchFlags struct {
	sequence     string
	file         string
	k            string
	showSequence bool
	taxonomy     bool
	asJSON       bool
}

func newSearchCmd(g *globalFlags) *cobra.Command {
	f := &searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the matching service for one DNA sequence",
		Long: `Search the matching service for one DNA sequence and print the
ranked candidate species. Exits with status 1 when the search fails.`,
		Example: `  dnamatch search --sequence ATGCGTACGTTAGC --k 8
  dnamatch search --file query.txt --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, g, f)
		},
	}
	cmd.Flags().StringVarP(&f.sequence, "sequence", "s", "", "query DNA sequence")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the query sequence from a file (- for stdin)")
	cmd.Flags().StringVar(&f.k, "k", strconv.Itoa(request.DefaultK), "k-mer length")
	cmd.Flags().BoolVar(&f.showSequence, "show-sequence", false, "print each matched reference sequence")
	cmd.Flags().BoolVar(&f.taxonomy, "taxonomy", false, "print the full taxonomy of each match")
	cmd.Flags().BoolVar(&f.asJSON, "json", false, "print the rendered result as JSON")
	cmd.MarkFlagsMutuallyExclusive("sequence", "file")

	return cmd
}

func runSearch(cmd *cobra.Command, g *globalFlags, f *searchFlags) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger, err := g.newLogger("cli", "")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdown, err := tracing.Init(tracing.Config{
		ServiceName: cfg.Tracing.ServiceName,
		Enabled:     cfg.Tracing.Enabled,
		SampleRate:  cfg.Tracing.SampleRate,
		Writer:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdown(cmd.Context()) }()

	sequence := f.sequence
	if f.file != "" {
		sequence, err = readSequence(f.file, cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	client := matcher.NewClient(&matcher.Config{
		Endpoint: cfg.Matcher.Endpoint,
		Logger:   logger,
	})
	orch := searchuc.New(client, logger)

	if !f.asJSON {
		errOut := cmd.ErrOrStderr()
		orch.Subscribe(func(s state.State) {
			if s.IsSearching() {
				fmt.Fprintln(errOut, render.ProgressText)
			}
		})
	}

	// A validation failure is already reflected in the session state.
	if err := orch.SubmitRaw(cmd.Context(), sequence, f.k); err != nil {
		logger.Debug("search not started", zap.Error(err))
	}

	final, err := orch.Wait(cmd.Context())
	if err != nil {
		return fmt.Errorf("wait for search: %w", err)
	}

	view := render.Render(final)
	out := cmd.OutOrStdout()
	if f.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	} else {
		err := render.WriteText(out, view, render.TextOptions{
			ShowSequence: f.showSequence,
			ShowTaxonomy: f.taxonomy,
		})
		if err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}

	if final.Kind() == state.KindFailed {
		return errSearchFailed
	}
	return nil
}

// readSequence loads a query from path, or from stdin for "-". Only the
// trailing line break is removed; the rest is sent as written.
func readSequence(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-supplied input file
	}
	if err != nil {
		return "", fmt.Errorf("read sequence: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
