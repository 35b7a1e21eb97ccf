// Package websocket provides real-time game updates over WebSocket
// connections.
//
// The hub groups clients by session ID. When the engine commits an action,
// the server broadcasts the resulting snapshot and engine events to every
// client watching that session. Clients never send game commands over the
// socket; all mutations go through the REST API, the socket is a one-way
// event feed with ping/pong keepalive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// On each committed action
//	hub.BroadcastToSession(sessionID, eng.Snapshot())
//
//	// Forward engine events for a session
//	eng.SetListener(hub.EngineListener(sessionID))
package websocket
