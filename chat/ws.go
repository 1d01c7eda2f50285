package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"worknest/db"
	"worknest/globals"
	"worknest/middleware"
	"worknest/models"
	"worknest/rdx"
	"worknest/utils"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inboundPayload represents what clients send us:
type inboundPayload struct {
	Action  string `json:"action"`            // "chat"
	Content string `json:"content,omitempty"` // message text
}

// outboundPayload is what we broadcast to every client:
type outboundPayload struct {
	Action    string `json:"action"`
	ID        string `json:"id"`
	Room      string `json:"room,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func authorizeMembership(userID, room string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	cnt, _ := db.ChatsCollection.CountDocuments(ctx, bson.M{"room": room, "users": userID})
	return cnt > 0
}

// WebSocketHandler joins a client to a room, replays recent history, and
// starts the pumps. The token comes as ?token= since browsers cannot set
// headers on websocket upgrades.
func WebSocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room := ps.ByName("room")

		claims, err := middleware.ValidateRawJWT(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		userID := claims.UserID

		if !authorizeMembership(userID, room) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 256),
			Room:   room,
			UserID: userID,
		}

		// Replay happens before the hub learns about the client: Send
		// cannot be closed yet, so buffering into it is safe even if
		// the peer drops mid-query.
		replayHistory(client, room)

		hub.register <- client
		go writePump(client)
		go readPump(client, hub)
	}
}

// replayHistory buffers the room's last 30 messages, oldest first, into
// the client's send queue. Must run before the client is registered.
func replayHistory(c *Client, room string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(30)

	cur, err := db.MessagesCollection.Find(ctx, bson.M{"room": room}, opts)
	if err != nil {
		log.Println("history find:", err)
		return
	}
	defer cur.Close(ctx)

	var history []models.Message
	if err := cur.All(ctx, &history); err != nil {
		log.Println("history decode:", err)
		return
	}

	for _, data := range historyPayloads(history) {
		select {
		case c.Send <- data:
		default:
			return // buffer full, drop the rest of the replay
		}
	}
}

// historyPayloads marshals newest-first query results into oldest-first
// outbound chat frames.
func historyPayloads(history []models.Message) [][]byte {
	out := make([][]byte, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		data, err := json.Marshal(outboundPayload{
			Action:    "chat",
			ID:        m.MessageID,
			Room:      m.Room,
			SenderID:  m.SenderID,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
		if err != nil {
			continue
		}
		out = append(out, data)
	}
	return out
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inboundPayload
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("invalid payload:", err)
			continue
		}
		if in.Action != "chat" || in.Content == "" {
			continue
		}

		msg := models.Message{
			MessageID: utils.GetUUID(),
			Room:      c.Room,
			SenderID:  c.UserID,
			Content:   in.Content,
			Timestamp: time.Now().Unix(),
		}

		// buffer in Redis; the flush worker moves batches into Mongo
		if data, err := json.Marshal(msg); err == nil {
			if err := rdx.Conn.RPush(globals.Ctx, "chat:"+c.Room+":messages", data).Err(); err != nil {
				log.Println("buffer:", err)
				// fall back to a direct insert so the message is not lost
				if _, err := db.MessagesCollection.InsertOne(context.Background(), msg); err != nil {
					log.Println("insert:", err)
					continue
				}
			}
		}

		out := outboundPayload{
			Action:    "chat",
			ID:        msg.MessageID,
			Room:      msg.Room,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if data, _ := json.Marshal(out); data != nil {
			hub.broadcast <- broadcastMsg{Room: c.Room, Data: data}
		}
	}
}

// NotifySocketHandler subscribes a client to its own notification room so
// the worker can push live notifications.
func NotifySocketHandler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		claims, err := middleware.ValidateRawJWT(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:   conn,
			Send:   make(chan []byte, 64),
			Room:   "notify:" + claims.UserID,
			UserID: claims.UserID,
		}
		hub.register <- client
		go writePump(client)
		go func() {
			defer func() {
				hub.unregister <- client
				conn.Close()
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
