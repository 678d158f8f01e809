package session

import (
	"context"
	crand "crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"score4/internal/board"
	"score4/internal/bot"
)

// CreateParams configure a new game. Nil Difficulty means the caller left
// it unset and the server default applies; an explicit 0 is a blind
// opponent.
type CreateParams struct {
	Mode       Mode
	Rule       Rule
	Difficulty *int
}

// RematchStatus is the result of a rematch vote.
type RematchStatus string

const (
	RematchPending RematchStatus = "pending"
	RematchReset   RematchStatus = "reset"
)

// Machine arbitrates all writes to game records. Every operation re-reads
// the freshest persisted state before validating, and the store's
// version-keyed conditional update rejects the losing side of any remaining
// race.
type Machine struct {
	store  Store
	pub    Publisher
	logger *log.Logger

	defaultRule       Rule
	defaultDifficulty int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewMachine wires the state machine to its persistence and fan-out
// capabilities. defaultRule and defaultDifficulty apply when a create
// request omits them.
func NewMachine(store Store, pub Publisher, logger *log.Logger, defaultRule Rule, defaultDifficulty int) *Machine {
	if defaultRule == "" {
		defaultRule = RuleFullBoard
	}
	return &Machine{
		store:             store,
		pub:               pub,
		logger:            logger,
		defaultRule:       defaultRule,
		defaultDifficulty: clampDifficulty(defaultDifficulty),
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func clampDifficulty(d int) int {
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}

// SetRand replaces the RNG feeding the computer opponent. Tests use a
// seeded source.
func (m *Machine) SetRand(rng *rand.Rand) {
	m.mu.Lock()
	m.rng = rng
	m.mu.Unlock()
}

// Create starts a new game with the caller seated as White. Computer games
// are playable immediately; human games wait for a second participant.
func (m *Machine) Create(ctx context.Context, id Identity, p CreateParams) (*Game, error) {
	if id.ID == "" {
		return nil, ErrNotParticipant
	}
	switch p.Mode {
	case ModeComputer, ModeHuman:
	case "":
		p.Mode = ModeHuman
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrMalformed, p.Mode)
	}
	switch p.Rule {
	case RuleFirstLine, RuleFullBoard:
	case "":
		p.Rule = m.defaultRule
	default:
		return nil, fmt.Errorf("%w: unknown rule %q", ErrMalformed, p.Rule)
	}
	difficulty := m.defaultDifficulty
	if p.Difficulty != nil {
		difficulty = clampDifficulty(*p.Difficulty)
	}

	now := time.Now()
	g := &Game{
		ID:         newGameID(),
		WhiteID:    id.ID,
		Board:      board.New(),
		Turn:       board.White,
		StartColor: board.White,
		Winner:     OutcomeNone,
		Mode:       p.Mode,
		Rule:       p.Rule,
		Difficulty: difficulty,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if p.Mode == ModeComputer {
		g.BlackID = ComputerID
		g.BlackBot = true
	}
	if err := m.store.Create(ctx, g); err != nil {
		return nil, err
	}
	m.logger.Info("game created", "game", g.ID, "mode", g.Mode, "rule", g.Rule)
	return g, nil
}

// Join seats the caller as Black. Joining a game the caller already sits in
// is an idempotent success; joining a game with both seats taken fails with
// ErrGameFull.
func (m *Machine) Join(ctx context.Context, id Identity, gameID string) (*Game, board.Cell, error) {
	g, err := m.store.Get(ctx, gameID)
	if err != nil {
		return nil, board.Empty, err
	}
	if seat := g.SeatOf(id.ID); seat != board.Empty {
		return g, seat, nil
	}
	if g.Finished {
		return nil, board.Empty, ErrGameFinished
	}
	if !g.Waiting() {
		return nil, board.Empty, ErrGameFull
	}

	g.BlackID = id.ID
	g.BlackBot = id.Bot
	g.Mode = ModeHuman
	g.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, g); err != nil {
		return nil, board.Empty, err
	}
	m.logger.Info("player joined", "game", g.ID, "player", id.ID)
	m.pub.Publish(g.ID, EventStateUpdated, NewSnapshot(g))
	return g, board.Black, nil
}

// Move validates and applies one drop for the caller. The column is the
// only client input; the machine performs the drop and evaluation itself,
// so the server stays the sole author of derived state. For computer games
// the opponent's reply is applied in the same write, so the client sees
// both moves resolved together.
func (m *Machine) Move(ctx context.Context, id Identity, gameID string, col board.Column) (*Game, error) {
	g, err := m.store.Get(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Finished {
		return nil, ErrGameFinished
	}
	seat := g.SeatOf(id.ID)
	if seat == board.Empty {
		return nil, ErrNotParticipant
	}
	if g.Waiting() {
		return nil, ErrGameNotReady
	}
	if g.Turn != seat {
		return nil, ErrNotYourTurn
	}

	if err := m.apply(g, seat, col); err != nil {
		return nil, err
	}
	if g.Mode == ModeComputer && !g.Finished && g.Turn == board.Black {
		m.computerMove(g)
	}

	g.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, g); err != nil {
		return nil, err
	}
	m.pub.Publish(g.ID, EventStateUpdated, NewSnapshot(g))
	return g, nil
}

// apply performs one drop and settles the derived state. No persistence.
func (m *Machine) apply(g *Game, seat board.Cell, col board.Column) error {
	nb, _, err := board.Drop(g.Board, col, seat)
	if err != nil {
		if errors.Is(err, board.ErrColumnOutOfRange) || errors.Is(err, board.ErrInvalidCell) {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return err
	}
	g.Board = nb
	g.Moves = append(g.Moves, Move{X: col.X, Y: col.Y, Color: seat})

	ev := board.Evaluate(&g.Board)
	g.Scores = Scores{
		White: g.ScoreCarry.White + ev.White,
		Black: g.ScoreCarry.Black + ev.Black,
	}
	g.WinningCells = ev.Cells

	m.settle(g, ev)
	if !g.Finished {
		g.Turn = seat.Opponent()
	}
	return nil
}

// settle applies the game's win policy to a fresh evaluation.
func (m *Machine) settle(g *Game, ev board.Evaluation) {
	switch g.Rule {
	case RuleFirstLine:
		switch {
		case ev.White > 0:
			g.Finished = true
			g.Winner = OutcomeWhite
		case ev.Black > 0:
			g.Finished = true
			g.Winner = OutcomeBlack
		case board.IsFull(&g.Board):
			g.Finished = true
			g.Winner = OutcomeDraw
		}
	case RuleFullBoard:
		if !board.IsFull(&g.Board) {
			return
		}
		g.Finished = true
		switch {
		case ev.White > ev.Black:
			g.Winner = OutcomeWhite
		case ev.Black > ev.White:
			g.Winner = OutcomeBlack
		default:
			g.Winner = OutcomeDraw
		}
	}
}

func (m *Machine) computerMove(g *Game) {
	m.mu.Lock()
	col, ok := bot.Choose(&g.Board, board.Black, g.Difficulty, m.rng)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := m.apply(g, board.Black, col); err != nil {
		// Choose only returns open columns, so this would mean a board
		// invariant is broken
		m.logger.Error("computer move rejected", "game", g.ID, "column", col, "err", err)
	}
}

// VoteRematch records the caller's rematch consent. When the opposite seat
// is empty, computer-held, or flagged non-human its vote is forced, so a
// solitary human is never left waiting on a bot. Once both flags hold, the
// game resets in place with the starter color flipped and session scores
// preserved.
func (m *Machine) VoteRematch(ctx context.Context, id Identity, gameID string) (*Game, RematchStatus, error) {
	g, err := m.store.Get(ctx, gameID)
	if err != nil {
		return nil, "", err
	}
	if !g.Finished {
		return nil, "", ErrGameNotFinished
	}
	seat := g.SeatOf(id.ID)
	if seat == board.Empty {
		return nil, "", ErrNotParticipant
	}

	switch seat {
	case board.White:
		g.RematchWhite = true
	case board.Black:
		g.RematchBlack = true
	}

	other := seat.Opponent()
	if g.Mode == ModeComputer || g.seatID(other) == "" || (other == board.Black && g.BlackBot) {
		switch other {
		case board.White:
			g.RematchWhite = true
		case board.Black:
			g.RematchBlack = true
		}
	}

	status := RematchPending
	if g.RematchWhite && g.RematchBlack {
		m.reset(g)
		status = RematchReset
	}

	g.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, g); err != nil {
		return nil, "", err
	}

	if status == RematchReset {
		m.logger.Info("rematch resolved", "game", g.ID, "starter", g.StartColor.String())
		m.pub.Publish(g.ID, EventGameReset, NewSnapshot(g))
	} else {
		m.pub.Publish(g.ID, EventRematchRequested, map[string]string{"by": seat.String()})
	}
	return g, status, nil
}

// reset re-initializes the same game identity for the next round: empty
// board, flipped starter, cleared votes and history. The just-finished
// board's lines are folded into the carry so the cumulative scores survive
// untouched.
func (m *Machine) reset(g *Game) {
	ev := board.Evaluate(&g.Board)
	g.ScoreCarry.White += ev.White
	g.ScoreCarry.Black += ev.Black
	g.Scores = g.ScoreCarry

	g.Board = board.New()
	g.Moves = nil
	g.WinningCells = nil
	g.RematchWhite = false
	g.RematchBlack = false
	g.StartColor = g.StartColor.Opponent()
	g.Turn = g.StartColor
	g.Finished = false
	g.Abandoned = false
	g.Winner = OutcomeNone
}

// Abandon is the forfeiture rule for a lost real-time connection: the game
// ends immediately with the surviving participant as winner. Missing or
// already-finished games and non-participants are no-ops — connection
// churn after a game ends must not rewrite its outcome.
func (m *Machine) Abandon(ctx context.Context, id Identity, gameID string) error {
	g, err := m.store.Get(ctx, gameID)
	if errors.Is(err, ErrGameNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if g.Finished {
		return nil
	}
	seat := g.SeatOf(id.ID)
	if seat == board.Empty {
		return nil
	}

	g.Finished = true
	g.Abandoned = true
	survivor := seat.Opponent()
	survivorID := g.seatID(survivor)
	if survivorID != "" {
		g.Winner = outcomeFor(survivor)
	} else {
		g.Winner = OutcomeNone
	}

	g.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, g); err != nil {
		return err
	}
	m.logger.Info("game abandoned", "game", g.ID, "left", id.ID, "survivor", survivorID)
	m.pub.Publish(g.ID, EventGameAbandoned, map[string]any{
		"survivor": survivorID,
		"winner":   g.Winner,
	})
	return nil
}

// Get returns the authoritative snapshot source for polling clients.
func (m *Machine) Get(ctx context.Context, gameID string) (*Game, error) {
	return m.store.Get(ctx, gameID)
}

// SweepStale marks human-vs-human games with no update since maxAge ago as
// finished and abandoned, declaring no winner. A coarse safety net for
// sessions that never cleanly disconnect.
func (m *Machine) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	stale, err := m.store.ListStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, g := range stale {
		idleSince := g.UpdatedAt
		g.Finished = true
		g.Abandoned = true
		g.Winner = OutcomeNone
		g.UpdatedAt = time.Now()
		if err := m.store.Update(ctx, g); err != nil {
			// a concurrent move revived the game; leave it alone
			if errors.Is(err, ErrConflict) {
				continue
			}
			return swept, err
		}
		m.logger.Info("stale game swept", "game", g.ID, "idle_since", idleSince)
		m.pub.Publish(g.ID, EventGameAbandoned, map[string]any{
			"survivor": "",
			"winner":   OutcomeNone,
		})
		swept++
	}
	return swept, nil
}

// newGameID creates an 8-character uppercase base32 game identifier.
func newGameID() string {
	b := make([]byte, 5)
	if _, err := crand.Read(b); err != nil {
		return fmt.Sprintf("%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)
}
