package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func send(c *websocket.Conn, msgType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.WriteJSON(envelope{Type: msgType, Payload: data})
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	var playerID string
	done := make(chan struct{})

	// Read loop: print every envelope, remember our player id from "joined".
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := c.ReadJSON(&env); err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- %s %s", env.Type, string(env.Payload))

			if env.Type == "joined" {
				var joined struct {
					ID string `json:"id"`
				}
				if err := json.Unmarshal(env.Payload, &joined); err == nil {
					playerID = joined.ID
				}
			}
		}
	}()

	log.Println("Commands: join <room> [nick] [create] | draw | discard <index> | chat <text> | quit")

	input := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			input <- scanner.Text()
		}
		close(input)
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case line, ok := <-input:
			if !ok {
				return
			}
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			var err error
			switch fields[0] {
			case "join":
				if len(fields) < 2 {
					log.Println("usage: join <room> [nick] [create]")
					continue
				}
				payload := map[string]interface{}{"room": fields[1]}
				if len(fields) > 2 {
					payload["nick"] = fields[2]
				}
				if len(fields) > 3 && fields[3] == "create" {
					payload["create"] = true
				}
				err = send(c, "join", payload)
			case "draw":
				err = send(c, "draw", map[string]interface{}{"playerId": playerID})
			case "discard":
				if len(fields) < 2 {
					log.Println("usage: discard <index>")
					continue
				}
				idx, convErr := strconv.Atoi(fields[1])
				if convErr != nil {
					log.Println("index must be a number")
					continue
				}
				err = send(c, "discard", map[string]interface{}{
					"playerId":  playerID,
					"cardIndex": idx,
				})
			case "chat":
				err = send(c, "chat", map[string]interface{}{
					"text": strings.TrimSpace(strings.TrimPrefix(line, "chat")),
				})
			case "quit":
				return
			default:
				log.Printf("unknown command %q", fields[0])
				continue
			}
			if err != nil {
				log.Println("Write error:", err)
				return
			}
		}
	}
}
