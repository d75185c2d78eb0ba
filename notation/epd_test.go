package notation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEPDBasicFields(t *testing.T) {
	epd, err := ParseEPD(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - id "start"; c0 "opening";`)
	require.NoError(t, err)
	require.Equal(t, "start", epd.ID)
	require.Equal(t, "opening", epd.Comment["c0"])
	require.Empty(t, epd.BestMove)
}

func TestParseEPDBestMoveInUCISyntax(t *testing.T) {
	epd, err := ParseEPD(`6k1/5ppp/8/8/8/8/5PPP/4Q1K1 w - - bm e1e8; id "mate in 1";`)
	require.NoError(t, err)
	require.Len(t, epd.BestMove, 1)
	require.Equal(t, "e1e8", epd.BestMove[0].UCI())
	require.Equal(t, "mate in 1", epd.ID)
}

func TestParseEPDMultipleBestMoves(t *testing.T) {
	epd, err := ParseEPD(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm e2e4 d2d4;`)
	require.NoError(t, err)
	require.Len(t, epd.BestMove, 2)
}

func TestParseEPDRejectsIllegalBestMove(t *testing.T) {
	_, err := ParseEPD(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - bm e2e5;`)
	require.Error(t, err)
}

func TestParseEPDTooFewFields(t *testing.T) {
	_, err := ParseEPD("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq")
	require.Error(t, err)
}

func TestParseEPDUnknownOpcodePreservedAsComment(t *testing.T) {
	epd, err := ParseEPD(`rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - acd 12;`)
	require.NoError(t, err)
	require.Equal(t, "12", epd.Comment["acd"])
}

func TestEPDStringRoundTripsBestMoveAndID(t *testing.T) {
	epd, err := ParseEPD(`6k1/5ppp/8/8/8/8/5PPP/4Q1K1 w - - bm e1e8; id "mate in 1";`)
	require.NoError(t, err)

	s := epd.String()
	require.Contains(t, s, "bm e1e8;")
	require.Contains(t, s, `id "mate in 1";`)
}
