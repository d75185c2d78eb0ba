// Command corvid is a thin host around the engine façade: an "analyze"
// subcommand that runs one analysis to completion and prints each
// SearchInfo event plus the final BestMove, the same event vocabulary a
// network service or in-process binding would relay as JSON.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/arcalight/corvid/engine"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var (
		fen        string
		moves      []string
		depth      int
		moveTimeMs int
		infinite   bool
		hashSizeMB int
		configPath string
		quiet      bool
	)

	analyze := &cobra.Command{
		Use:   "analyze",
		Short: "run one analysis and print its SearchInfo/BestMove events",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !quiet {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.WarnLevel)
			}

			options := engine.Options{HashSizeMB: hashSizeMB}
			analyzeOptions := engine.AnalyzeOptions{HashSizeMB: hashSizeMB, Threads: 1, MultiPV: 1}
			if configPath != "" {
				cfg, err := engine.LoadConfig(configPath)
				if err != nil {
					return err
				}
				options = cfg.Options()
				analyzeOptions = cfg.DefaultAnalyzeOptions()
			}

			facade := engine.NewFacade(engine.NulLogger{}, options)

			limit := engine.SearchLimit{Kind: "infinite"}
			switch {
			case infinite:
				limit = engine.SearchLimit{Kind: "infinite"}
			case moveTimeMs > 0:
				limit = engine.SearchLimit{Kind: "time", MoveTimeMs: moveTimeMs}
			default:
				limit = engine.SearchLimit{Kind: "depth", Depth: depth}
			}

			req := engine.AnalyzeRequest{
				ID:      "cli",
				FEN:     fen,
				Moves:   moves,
				Limit:   limit,
				Options: analyzeOptions,
			}

			best, err := facade.Analyze(req, func(info engine.SearchInfo) {
				printSearchInfo(info)
			})
			if err != nil {
				log.Error().Err(err).Msg("analyze")
				return err
			}

			if best.Best == "" {
				fmt.Println("bestmove (none)")
			} else if best.Ponder != "" {
				fmt.Printf("bestmove %s ponder %s\n", best.Best, best.Ponder)
			} else {
				fmt.Printf("bestmove %s\n", best.Best)
			}
			return nil
		},
	}

	analyze.Flags().StringVar(&fen, "fen", "startpos", `position to analyze: a FEN string, or "startpos"`)
	analyze.Flags().StringSliceVar(&moves, "moves", nil, "UCI moves to apply after the position, in order")
	analyze.Flags().IntVar(&depth, "depth", 6, "depth limit (ignored if --movetime or --infinite is set)")
	analyze.Flags().IntVar(&moveTimeMs, "movetime", 0, "move time limit in milliseconds")
	analyze.Flags().BoolVar(&infinite, "infinite", false, "search until interrupted (Ctrl-C)")
	analyze.Flags().IntVar(&hashSizeMB, "hash", 64, "transposition table size in MB")
	analyze.Flags().StringVar(&configPath, "config", "", "path to a TOML config file (overrides --hash)")
	analyze.Flags().BoolVar(&quiet, "quiet", false, "suppress SearchInfo logging, print only the final bestmove")

	root := &cobra.Command{
		Use:   "corvid",
		Short: "a UCI-adjacent chess engine core",
	}
	root.AddCommand(analyze)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func printSearchInfo(info engine.SearchInfo) {
	score := fmt.Sprintf("cp %d", info.Score.Value)
	if info.Score.Kind == "mate" {
		score = fmt.Sprintf("mate %d", info.Score.Value)
	}
	log.Info().
		Int32("depth", info.Depth).
		Int32("seldepth", info.SelDepth).
		Uint64("nodes", info.Nodes).
		Uint64("nps", info.NPS).
		Int64("time_ms", info.TimeMs).
		Str("score", score).
		Int("hashfull", info.HashFull).
		Str("pv", strings.Join(info.PV, " ")).
		Msg("info")
}
