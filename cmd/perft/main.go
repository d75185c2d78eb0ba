// Command perft is a diagnostic CLI for move-generator correctness and
// throughput, testing, debugging, and benchmarking move generation by
// counting leaf nodes, captures, en passants, castles, and promotions at
// given depths from a starting position.
//
// For more on the technique see https://www.chessprogramming.org/Perft.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/arcalight/corvid/board"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var knownPositions = map[string]string{
	"startpos": board.FENStartPos,
	"kiwipete": "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"duplain":  "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
}

var expectedByName = map[string][]board.PerftCounters{
	"startpos": board.PerftExpectedStartPos,
	"kiwipete": board.PerftExpectedKiwipete,
	"duplain":  board.PerftExpectedDuplain,
}

func main() {
	var (
		fen        string
		minDepth   int
		maxDepth   int
		hashBits   uint
		checkMatch bool
	)

	root := &cobra.Command{
		Use:   "perft",
		Short: "count and optionally verify the legal-move game tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			startFEN := fen
			expected := expectedByName[fen]
			if known, ok := knownPositions[fen]; ok {
				startFEN = known
			}

			pos, err := board.PositionFromFEN(startFEN)
			if err != nil {
				return fmt.Errorf("parsing fen: %w", err)
			}

			table := board.NewPerftHashTable(hashBits)
			mismatch := false

			fmt.Printf("depth        nodes   captures enpassant castles   promotions   KNps   elapsed\n")
			for depth := minDepth; depth <= maxDepth; depth++ {
				start := time.Now()
				got := board.Perft(pos, depth, table)
				elapsed := time.Since(start)

				knps := float64(0)
				if elapsed > 0 {
					knps = float64(got.Nodes) / 1000 / elapsed.Seconds()
				}
				fmt.Printf("%5d %12d %10d %9d %8d %10d %8.0f %v\n",
					depth, got.Nodes, got.Captures, got.Enpassant, got.Castles, got.Promotions, knps, elapsed)

				if checkMatch && depth < len(expected) {
					if got != expected[depth] {
						log.Error().Int("depth", depth).
							Interface("want", expected[depth]).
							Interface("got", got).
							Msg("perft mismatch")
						mismatch = true
					}
				}
			}

			if mismatch {
				os.Exit(1)
			}
			return nil
		},
	}

	root.Flags().StringVar(&fen, "fen", "startpos", "position to search: a FEN string, or one of startpos/kiwipete/duplain")
	root.Flags().IntVar(&minDepth, "min-depth", 1, "minimum depth to search (inclusive)")
	root.Flags().IntVar(&maxDepth, "max-depth", 5, "maximum depth to search (inclusive)")
	root.Flags().UintVar(&hashBits, "hash-bits", 20, "log2 size of the perft memoization table")
	root.Flags().BoolVar(&checkMatch, "check", false, "exit non-zero if results don't match the known counts for startpos/kiwipete/duplain")

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("perft")
	}
}
