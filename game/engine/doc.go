// Package engine implements the authoritative rules engine for Tetrachess, a
// real-time multiplayer hybrid of falling-block placement and chess-style
// piece movement on one shared, growing board.
//
// The engine owns:
//   - the sparse board of occupied cells and their ownership/zone state
//   - connectivity analysis (attachment adjacency, path-to-king reachability)
//   - tetromino placement resolution (attach, explode, or reject)
//   - line-clear detection across rows, columns, and both diagonals
//   - chess move legality, captures, promotion, and king-loss elimination
//   - the per-player turn-phase state machine with minimum dwell rules
//   - spawn energy and the pause/resume subsystem
//
// Concurrency model:
//
// One GameEngine serializes every mutating operation of one game behind a
// single mutex; independent games run concurrently in their own engines.
// Clients only ever see copy-on-read snapshots and outbound events, never
// direct mutation handles. A rejected request has zero side effects: all
// validation is computed before any write.
//
// Timer-driven behavior (chess-phase timeouts, promotion grace expiry,
// energy regeneration, home-zone degradation, pause expiry) is applied by
// Sweep, which runs on every request and from a periodic server routine.
package engine
