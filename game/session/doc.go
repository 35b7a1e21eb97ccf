// Package session provides game session lifecycle management for the
// TetraChess server.
//
// The session package handles:
//   - Session creation with generated hex IDs
//   - Case-insensitive session lookup
//   - Idle session cleanup
//   - Optional persistence of sessions to compressed snapshot files
//
// Persistence:
//
// When configured with a FilePersistence, every session save writes a
// zstd-compressed JSON snapshot to the sessions directory. On startup the
// server can reload all persisted sessions, rebuilding each game engine from
// its snapshot. Persistence is best-effort: a failed save logs a warning and
// the in-memory game keeps running.
//
// Usage:
//
//	persistence, err := session.NewFilePersistence("sessions", configMgr)
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManagerWithPersistence(persistence)
//	if err := manager.LoadPersistedSessions(); err != nil {
//		log.Printf("Warning: %v", err)
//	}
package session
