// Package notation keeps a corentings/chess game in step with the engine's
// own chess state so the presentation layer gets SAN, ECO names and PGN.
// It never influences move choice.
package notation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	chesslib "github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"

	"github.com/park285/boardgame-ai/internal/chess"
	"github.com/park285/boardgame-ai/internal/game"
)

const standardStart = chess.StartFEN

var (
	ecoOnce sync.Once
	ecoBook *opening.BookECO
)

func bookECO() *opening.BookECO {
	ecoOnce.Do(func() {
		unlock := chess.LockLibrary()
		defer unlock()
		ecoBook = opening.NewBookECO()
	})
	return ecoBook
}

// Record mirrors one game. It is not safe for concurrent use.
type Record struct {
	game     *chesslib.Game
	startFEN string
	uci      []string
	san      []string
}

// NewRecord starts a record from fen, or from the initial position when fen is
// empty or "startpos".
func NewRecord(fen string) (*Record, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" || fen == "startpos" {
		fen = standardStart
	}
	unlock := chess.LockLibrary()
	defer unlock()
	option, err := chesslib.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return &Record{game: chesslib.NewGame(option), startFEN: fen}, nil
}

// Push plays a UCI move and returns its SAN.
func (r *Record) Push(uci string) (string, error) {
	uci = strings.ToLower(strings.TrimSpace(uci))
	pos := r.game.Position()
	mv, err := chesslib.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", fmt.Errorf("decode move %s: %w", uci, err)
	}
	san := chesslib.AlgebraicNotation{}.Encode(pos, mv)
	if err := r.game.Move(mv, nil); err != nil {
		return "", fmt.Errorf("apply move %s: %w", uci, err)
	}
	r.uci = append(r.uci, uci)
	r.san = append(r.san, san)
	return san, nil
}

// DecodeSAN converts SAN text such as "Nf3" or "exd5" in the current position
// to UCI.
func (r *Record) DecodeSAN(text string) (string, error) {
	pos := r.game.Position()
	mv, err := chesslib.AlgebraicNotation{}.Decode(pos, strings.TrimSpace(text))
	if err != nil {
		return "", fmt.Errorf("%w: %s", game.ErrIllegalMove, strings.TrimSpace(text))
	}
	return strings.ToLower(chesslib.UCINotation{}.Encode(pos, mv)), nil
}

func (r *Record) SAN() []string { return append([]string(nil), r.san...) }

func (r *Record) UCI() []string { return append([]string(nil), r.uci...) }

func (r *Record) FEN() string { return r.game.FEN() }

// Opening returns the ECO code and title of the line played so far. Games
// started from a custom position have no opening.
func (r *Record) Opening() (string, string) {
	if r.startFEN != standardStart || len(r.uci) == 0 {
		return "", ""
	}
	book := bookECO()
	if book == nil {
		return "", ""
	}
	if eco := book.Find(r.game.Moves()); eco != nil {
		return eco.Code(), eco.Title()
	}
	return "", ""
}

// ResultTag renders an outcome as a PGN result token.
func ResultTag(o game.Outcome) string {
	switch {
	case o.Result == game.Draw:
		return "1/2-1/2"
	case o.Result == game.Win && o.Winner == game.PlayerOne:
		return "1-0"
	case o.Result == game.Win && o.Winner == game.PlayerTwo:
		return "0-1"
	default:
		return "*"
	}
}

type Headers struct {
	Event string
	Site  string
	Date  time.Time
	White string
	Black string
}

// PGN renders the record with a seven-tag roster plus Termination, and SetUp
// and FEN tags when the game did not start from the initial position.
func (r *Record) PGN(h Headers, o game.Outcome) string {
	var b strings.Builder
	date := h.Date
	if date.IsZero() {
		date = time.Now()
	}
	result := ResultTag(o)
	fmt.Fprintf(&b, "[Event \"%s\"]\n", sanitizePGN(orDefault(h.Event, "Arcade")))
	fmt.Fprintf(&b, "[Site \"%s\"]\n", sanitizePGN(orDefault(h.Site, "local")))
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	b.WriteString("[Round \"-\"]\n")
	fmt.Fprintf(&b, "[White \"%s\"]\n", sanitizePGN(orDefault(h.White, "White")))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", sanitizePGN(orDefault(h.Black, "Black")))
	fmt.Fprintf(&b, "[Result \"%s\"]\n", result)
	if r.startFEN != standardStart {
		b.WriteString("[SetUp \"1\"]\n")
		fmt.Fprintf(&b, "[FEN \"%s\"]\n", r.startFEN)
	}
	if o.Terminal() {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", o.Method)
	}
	b.WriteString("\n")

	ply := 0
	if fields := strings.Fields(r.startFEN); len(fields) > 1 && fields[1] == "b" {
		ply = 1
	}
	number := fullmoveOf(r.startFEN)
	for i, san := range r.san {
		switch {
		case (ply+i)%2 == 0:
			fmt.Fprintf(&b, "%d. %s ", number, san)
		case i == 0:
			fmt.Fprintf(&b, "%d... %s ", number, san)
			number++
		default:
			fmt.Fprintf(&b, "%s ", san)
			number++
		}
	}
	b.WriteString(result)
	return b.String()
}

func fullmoveOf(fen string) int {
	fields := strings.Fields(fen)
	if len(fields) < 6 {
		return 1
	}
	var n int
	if _, err := fmt.Sscanf(fields[5], "%d", &n); err != nil || n < 1 {
		return 1
	}
	return n
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
