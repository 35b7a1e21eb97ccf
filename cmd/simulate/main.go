// Command simulate drives full games against the engine with scripted bots
// and reports what happened. It is the balance-testing harness: run a few
// hundred turns under a candidate configuration and look at placement,
// explosion and capture rates before shipping the config.
//
// Subcommands:
//
//	run      play N turns of bot self-play under one configuration
//	balance  print balance heuristics for every config in a directory
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/tetrachess/server/game/engine"
)

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "Bot self-play and balance analysis for game configurations",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Play a number of bot self-play turns under one configuration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to a game config JSON file (default: built-in standard)",
					},
					&cli.IntFlag{
						Name:  "turns",
						Value: 40,
						Usage: "Full turn cycles (tetromino + chess) per player",
					},
					&cli.IntFlag{
						Name:  "players",
						Value: 2,
						Usage: "Number of bots",
					},
					&cli.IntFlag{
						Name:  "seed",
						Value: 1,
						Usage: "Random seed for the bots",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Log every committed action",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runSimulation(
						cmd.String("config"),
						int(cmd.Int("turns")),
						int(cmd.Int("players")),
						int64(cmd.Int("seed")),
						cmd.Bool("verbose"),
					)
				},
			},
			{
				Name:  "balance",
				Usage: "Print balance heuristics for every config in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "dir",
						Value: "configs",
						Usage: "Directory containing game config JSON files",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return analyzeConfigs(cmd.String("dir"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// simStats accumulates per-run counters across all bots.
type simStats struct {
	placements int
	explosions int
	linesClear int
	moves      int
	skips      int
	captures   int
	promotions int
}

func runSimulation(configPath string, turns, players int, seed int64, verbose bool) error {
	config := engine.DefaultGameConfig()
	if configPath != "" {
		loaded, err := engine.LoadGameConfig(configPath)
		if err != nil {
			return err
		}
		config = loaded
	}
	if players < engine.MinPlayers || players > config.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d for config %q",
			engine.MinPlayers, config.MaxPlayers, config.Name)
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return err
	}

	// Simulated clock so dwell times and energy regen do not slow the run.
	now := time.Now()
	eng.SetClock(func() time.Time { return now })

	var stats simStats
	eng.SetListener(func(ev engine.Event) {
		switch ev.Type {
		case engine.EventLineClear:
			stats.linesClear++
		case engine.EventPawnPromoted:
			stats.promotions++
		}
	})

	bots := make([]string, players)
	for i := range bots {
		bots[i] = fmt.Sprintf("bot%d", i+1)
		if err := eng.AddPlayer(bots[i]); err != nil {
			return fmt.Errorf("adding %s: %w", bots[i], err)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	dwell := time.Duration(config.MinPhaseTime())*time.Millisecond + time.Millisecond
	shapes := engine.ShapeNames()

	started := time.Now()
	for turn := 0; turn < turns && !eng.IsGameOver(); turn++ {
		for _, bot := range bots {
			if eng.IsGameOver() {
				break
			}

			// Tetromino half.
			now = now.Add(dwell)
			res := tryPlace(eng, rng, bot, shapes, &now, config)
			if res != nil {
				if res.Outcome == engine.OutcomeAttached {
					stats.placements++
					if verbose {
						log.Printf("[turn %d] %s attached %d cells, energy %d",
							turn, bot, len(res.Cells), res.Energy)
					}
				} else {
					stats.explosions++
					if verbose {
						log.Printf("[turn %d] %s exploded a placement", turn, bot)
					}
				}
			}

			// Chess half.
			now = now.Add(dwell)
			moved := tryMove(eng, rng, bot, &stats, verbose, turn)
			if !moved {
				if err := eng.SkipChessMove(bot); err == nil {
					stats.skips++
				}
			}
		}
	}

	fmt.Printf("Simulation of %q: %d players, %d turn cycles (%.2fs wall clock)\n",
		config.Name, players, turns, time.Since(started).Seconds())
	fmt.Printf("  placements: %d attached, %d exploded\n", stats.placements, stats.explosions)
	fmt.Printf("  chess:      %d moves (%d captures), %d skips\n", stats.moves, stats.captures, stats.skips)
	fmt.Printf("  lines cleared: %d, promotions: %d\n", stats.linesClear, stats.promotions)

	snap := eng.Snapshot()
	fmt.Printf("  final board: %d cells, %d pieces\n", len(snap.Cells), len(snap.Pieces))
	if snap.GameOver {
		if snap.Winner != "" {
			fmt.Printf("  game over: %s wins\n", snap.Winner)
		} else {
			fmt.Println("  game over: draw")
		}
	}
	for _, p := range snap.Players {
		status := "alive"
		if p.Eliminated {
			status = "eliminated"
		}
		fmt.Printf("  %s: %s, energy %d/%d\n", p.ID, status, p.Energy, p.EnergyMax)
	}
	return nil
}

// tryPlace attempts random placements anchored near the bot's own cells until
// the engine commits one. A committed explosion still counts: it consumed the
// turn. Returns nil when no placement could even be attempted.
func tryPlace(eng *engine.GameEngine, rng *rand.Rand, bot string, shapes []string, now *time.Time, config *engine.GameConfig) *engine.PlacementResult {
	snap := eng.Snapshot()
	var anchors []engine.Coord
	for _, cv := range snap.Cells {
		if cv.Cell.Owner == bot {
			anchors = append(anchors, cv.Pos)
		}
	}
	if len(anchors) == 0 {
		return nil
	}

	const maxAttempts = 250
	for attempt := 0; attempt < maxAttempts; attempt++ {
		anchor := anchors[rng.Intn(len(anchors))]
		pos := engine.Coord{
			X: anchor.X + rng.Intn(9) - 4,
			Y: anchor.Y + rng.Intn(9) - 4,
		}
		shape := shapes[rng.Intn(len(shapes))]
		rotation := rng.Intn(4)

		res, err := eng.PlaceTetromino(bot, shape, pos, rotation)
		if err == nil {
			return res
		}
		if errors.Is(err, engine.ErrInsufficientEnergy) {
			// Let regen catch up, then keep trying.
			*now = now.Add(time.Duration(config.Energy.RegenIntervalMs) * time.Millisecond)
			continue
		}
		if errors.Is(err, engine.ErrWrongPhase) || errors.Is(err, engine.ErrGameOver) || errors.Is(err, engine.ErrPlayerEliminated) {
			return nil
		}
		// Out of bounds, occupied, adjacency: try another spot.
	}
	return nil
}

// tryMove moves a random piece with at least one legal destination.
func tryMove(eng *engine.GameEngine, rng *rand.Rand, bot string, stats *simStats, verbose bool, turn int) bool {
	snap := eng.Snapshot()
	var own []engine.Piece
	for _, p := range snap.Pieces {
		if p.Owner == bot {
			own = append(own, p)
		}
	}
	rng.Shuffle(len(own), func(i, j int) { own[i], own[j] = own[j], own[i] })

	for _, piece := range own {
		moves, err := eng.LegalMovesFor(bot, piece.ID)
		if err != nil || len(moves) == 0 {
			continue
		}
		target := moves[rng.Intn(len(moves))]
		res, err := eng.MoveChessPiece(bot, piece.ID, target)
		if err != nil {
			continue
		}
		stats.moves++
		if res.Captured != nil {
			stats.captures++
			if verbose {
				log.Printf("[turn %d] %s captured %s with %s", turn, bot, res.Captured.ID, piece.ID)
			}
		}
		return true
	}
	return false
}

// analyzeConfigs prints balance heuristics for every config in the directory.
func analyzeConfigs(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no config files found in %s", dir)
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		config, err := engine.LoadGameConfig(file)
		if err != nil {
			fmt.Printf("invalid: %v\n", err)
			continue
		}

		fmt.Printf("Name: %s\n", config.Name)
		fmt.Printf("Board: ±%d (%d cells per axis)\n", config.BoardExtent, 2*config.BoardExtent+1)
		fmt.Printf("Line length: %d, collapse threshold: %d\n", config.LineLength, config.CollapseThreshold)
		fmt.Printf("Players: up to %d at spacing %d\n", config.MaxPlayers, config.SpawnSpacing)
		fmt.Printf("Dwell: %dms, chess timeout: %dms\n", config.MinPhaseTime(), config.ChessTimeoutMs)

		// Placement throughput: how long a player waits to afford each shape
		// from empty, assuming no spending in between.
		fmt.Println("Time to afford from zero energy:")
		regenMs := config.Energy.RegenIntervalMs / config.Energy.RegenRate
		for _, shape := range engine.ShapeNames() {
			cost := config.Energy.CostsByShape[shape]
			fmt.Printf("  %s (cost %d): %.1fs\n", shape, cost,
				float64(cost*regenMs)/1000.0)
		}

		// Territory growth bound: cells per minute at the dwell-limited rate.
		cycleMs := 2 * config.MinPhaseTime()
		cellsPerMin := 4.0 * 60000.0 / float64(cycleMs)
		fmt.Printf("Max territory growth: %.0f cells/min per player\n", cellsPerMin)

		// A pause must buy more than one opponent turn cycle to matter.
		cyclesPerPause := float64(config.Pause.DurationMs) / float64(cycleMs)
		fmt.Printf("Pause covers %.1f opponent turn cycles (cooldown %.0fs)\n",
			cyclesPerPause, float64(config.Pause.CooldownMs)/1000.0)
	}
	return nil
}
