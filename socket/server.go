// Package socket runs the socket.io endpoint clients subscribe to for match events.
package socket

import (
	"context"
	"fmt"
	"log"
	"time"

	"kindred_server/models"

	socketio "github.com/googollee/go-socket.io"
)

const (
	namespace         = "/"
	EventJoin         = "join"
	EventJoined       = "joined"
	EventMatchFound   = "matchFound"
	EventUnauthorized = "unauthorized"
)

// Authenticator resolves a bearer credential to a profile id.
type Authenticator interface {
	Authenticate(authHeader string) (string, error)
}

// Broadcaster is the part of the socket.io server used to push events.
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

// MatchFoundEvent is pushed to each participant's room when a match is created.
type MatchFoundEvent struct {
	MatchID     string  `json:"matchId"`
	MatchedWith string  `json:"matchedWith"`
	MatchScore  float64 `json:"matchScore"`
	CreatedAt   string  `json:"createdAt"`
}

// RoomFor is the room a profile's sockets join.
func RoomFor(profileID string) string {
	return "profile:" + profileID
}

// NewSocketServer initializes a socket.io server. A client joins its own room by
// emitting "join" with {"token": <access token>}; the room is derived from the verified identity.
func NewSocketServer(auth Authenticator) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect(namespace, func(c socketio.Conn) error {
		log.Println("✅ [socket] connected:", c.ID())
		return nil
	})

	server.OnEvent(namespace, EventJoin, func(c socketio.Conn, data map[string]string) {
		profileID, err := joinIdentity(auth, data)
		if err != nil {
			log.Printf("❌ [socket] join rejected for %s: %v", c.ID(), err)
			c.Emit(EventUnauthorized, "invalid token")
			return
		}
		c.Join(RoomFor(profileID))
		log.Printf("👥 [socket] %s joined %s", c.ID(), RoomFor(profileID))
		c.Emit(EventJoined, profileID)
	})

	server.OnError(namespace, func(c socketio.Conn, err error) {
		log.Printf("❌ [socket] error: %v", err)
	})

	server.OnDisconnect(namespace, func(c socketio.Conn, reason string) {
		log.Printf("❌ [socket] disconnected %s: %s", c.ID(), reason)
	})

	return server
}

// joinIdentity verifies the {"token": ...} payload of a join event.
func joinIdentity(auth Authenticator, data map[string]string) (string, error) {
	token := data["token"]
	if token == "" {
		return "", fmt.Errorf("join without token")
	}
	return auth.Authenticate("Bearer " + token)
}

// MatchBroadcaster pushes matchFound to both participants.
type MatchBroadcaster struct {
	Server Broadcaster
}

// MatchCreated implements services.MatchNotifier.
func (b *MatchBroadcaster) MatchCreated(ctx context.Context, m models.Match) error {
	delivered := 0
	for _, id := range []string{m.Profile1ID, m.Profile2ID} {
		other, _ := m.Other(id)
		event := MatchFoundEvent{
			MatchID:     m.ID,
			MatchedWith: other,
			MatchScore:  m.MatchScore,
			CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		}
		if b.Server.BroadcastToRoom(namespace, RoomFor(id), EventMatchFound, event) {
			delivered++
		}
	}
	if delivered == 0 {
		return fmt.Errorf("match %s: no room accepted the broadcast", m.ID)
	}
	return nil
}
