package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"persona_chess/internal/clock"
	"persona_chess/internal/domain/game"
	"persona_chess/internal/engine/book"
	"persona_chess/internal/engine/persona"
	"persona_chess/internal/engine/selector"
	"persona_chess/internal/engine/style"
	"persona_chess/internal/oracle"
	engineuc "persona_chess/internal/usecase/engine"
)

type positionFlags struct {
	fen     string
	moves   string
	persona string
	book    string
}

func (p *positionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.fen, "fen", "", "start position (standard start when empty)")
	cmd.Flags().StringVar(&p.moves, "moves", "", "space separated UCI moves played from --fen")
	cmd.Flags().StringVar(&p.persona, "persona", persona.DefaultName, "persona tier")
	cmd.Flags().StringVar(&p.book, "book", "", "extra opening book file (json/yaml)")
}

func (p *positionFlags) position() (*oracle.Game, error) {
	return engineuc.PositionFromRequest(game.EngineMoveRequest{FEN: p.fen, Moves: strings.Fields(p.moves)})
}

func (p *positionFlags) openingBook() (*book.Book, error) {
	return book.Load(p.book)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "personactl",
		Short:         "Inspect persona move selection and chess clocks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSelectCmd(), newExplainCmd(), newPersonasCmd(), newClockCmd())
	return root
}

func newSelectCmd() *cobra.Command {
	var (
		pf      positionFlags
		seed    int64
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Pick the persona's move for a position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pos, err := pf.position()
			if err != nil {
				return err
			}
			b, err := pf.openingBook()
			if err != nil {
				return err
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			opts := []selector.Option{selector.WithRand(rand.New(rand.NewSource(seed)))}
			if verbose {
				logger, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				opts = append(opts, selector.WithLogger(logger.Sugar()))
			}
			sel := selector.New(b, style.NewScorer(), opts...)

			profile := persona.Resolve(pf.persona)
			decision, ok := sel.SelectMove(pos, pos.Turn(), profile)
			if !ok {
				return fmt.Errorf("no legal moves in %s", pos.FEN())
			}
			decision.Delay = sel.ThinkDelay(profile)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Persona string `json:"persona"`
				FEN     string `json:"fen"`
				selector.Decision
				ThinkMs int64 `json:"think_ms"`
			}{profile.Name, pos.FEN(), decision, decision.Delay.Milliseconds()})
		},
	}
	pf.bind(cmd)
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (time based when 0)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log selection steps")
	return cmd
}

func newExplainCmd() *cobra.Command {
	var pf positionFlags
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show the style score breakdown of every legal move",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pos, err := pf.position()
			if err != nil {
				return err
			}
			profile := persona.Resolve(pf.persona)
			scorer := style.NewScorer()

			type row struct {
				move oracle.Move
				b    style.Breakdown
			}
			rows := []row{}
			for _, m := range pos.LegalMoves() {
				rows = append(rows, row{m, scorer.Breakdown(m, pos, profile)})
			}
			sort.SliceStable(rows, func(i, j int) bool { return rows[i].b.Total > rows[j].b.Total })

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintf(w, "persona %s, pool %d\n", profile.Name, profile.CandidatePool())
			fmt.Fprintln(w, "MOVE\tSAN\tTOTAL\tCAPTURE\tMATE\tCHECK\tSAC\tSAC+\tKING\tCENTER\tDEV\tREP\tRETREAT\tCOMPLEX")
			for _, r := range rows {
				b := r.b
				fmt.Fprintf(w, "%s\t%s\t%.1f\t%.1f\t%.0f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
					r.move.Descriptor().UCI(), r.move.SAN, b.Total, b.Capture, b.Mate, b.Check, b.Sacrifice,
					b.SacrificeContinuation, b.KingProximity, b.Center, b.Development, b.Repetition, b.Retreat, b.Complexity)
			}
			return w.Flush()
		},
	}
	pf.bind(cmd)
	return cmd
}

func newPersonasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "personas",
		Short: "List persona tiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tRATING\tDEPTH\tTHINK\tINTENSITY\tMISTAKE\tSACRIFICE\tPOOL")
			for _, p := range persona.All() {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%.1f\t%.2f\t%.0f\t%d\n",
					p.Name, p.RatingProxy, p.SearchDepthProxy, p.ThinkTime, p.Intensity, p.MistakeRate, p.SacrificeThreshold, p.CandidatePool())
			}
			return w.Flush()
		},
	}
}

func newClockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Chess clock tools",
	}

	var (
		preset  string
		side    string
		seconds float64
	)
	simulate := &cobra.Command{
		Use:   "simulate",
		Short: "Run a clock for a number of simulated seconds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tc, ok := clock.LookupPreset(preset)
			if !ok {
				return fmt.Errorf("unknown preset %q", preset)
			}
			start := clock.Side(strings.ToLower(side))
			if start != clock.SidePlayer && start != clock.SideOpponent {
				return fmt.Errorf("side must be %q or %q", clock.SidePlayer, clock.SideOpponent)
			}

			c := clock.New()
			timeouts := 0
			var loser clock.Side
			c.OnTimeout(func(s clock.Side) {
				timeouts++
				loser = s
			})
			c.Initialize(tc)
			c.Start(start)

			ticks := int(time.Duration(seconds*float64(time.Second)) / c.Cadence())
			for i := 0; i < ticks; i++ {
				c.Tick()
			}

			snap := c.Snapshot()
			d := snap.Display()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "preset %s, %d ticks of %s\n", tc.Name, ticks, c.Cadence())
			fmt.Fprintf(out, "player %s  opponent %s  phase %s\n", d.Player, d.Opponent, snap.Phase)
			if timeouts > 0 {
				fmt.Fprintf(out, "timeout: %s (%d)\n", loser, timeouts)
			}
			return nil
		},
	}
	simulate.Flags().StringVar(&preset, "preset", clock.PresetBlitz, "time control preset")
	simulate.Flags().StringVar(&side, "side", string(clock.SidePlayer), "side whose clock runs")
	simulate.Flags().Float64Var(&seconds, "seconds", 10, "simulated seconds")

	cmd.AddCommand(simulate)
	return cmd
}
