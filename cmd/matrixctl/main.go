package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tagmatrix/internal/delivery/dto"
)

const (
	defaultServerAddr = "localhost:8080"

	cliVersion = "1.0.0"
	cliName    = "matrixctl"

	httpAPIBase = "http://localhost:8080/api/v1"
)

// Client drives one interactive session against a running tagmatrix
// server: it opens a WebSocket connection for drop events, queries the
// HTTP interface for the current matrix, and renders both through UI.
type Client struct {
	conn       *websocket.Conn
	sessionID  string
	done       chan struct{}
	closed     bool
	ui         *UI
	serverAddr string
}

func main() {
	fmt.Printf("%s v%s\n", cliName, cliVersion)
	fmt.Println("Interactive drag-drop client for a tagmatrix server")
	fmt.Println("Type 'help' for available commands or 'quit' to exit")
	fmt.Println()

	serverAddr := defaultServerAddr
	if len(os.Args) > 1 {
		serverAddr = os.Args[1]
	}

	client := &Client{
		sessionID:  "matrixctl-" + uuid.New().String()[:8],
		done:       make(chan struct{}),
		ui:         NewUI(),
		serverAddr: serverAddr,
	}

	if err := client.connect(serverAddr); err != nil {
		log.Fatalf("failed to connect to server: %v", err)
	}
	defer client.conn.Close()

	client.ui.SetSession(client.sessionID, true)
	fmt.Printf("✅ Connected to server at %s\n", serverAddr)
	fmt.Printf("🔧 Session ID: %s\n\n", client.sessionID)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go client.readMessages()

	go func() {
		<-interrupt
		fmt.Println("\n🛑 Shutting down matrixctl...")

		if !client.closed {
			client.closed = true
			close(client.done)
		}

		client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		time.Sleep(time.Second)
		os.Exit(0)
	}()

	client.query()
	client.commandLoop()
}

func (c *Client) connect(serverAddr string) error {
	u := url.URL{Scheme: "ws", Host: serverAddr, Path: "/ws"}

	var err error
	c.conn, _, err = websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial error: %w", err)
	}

	return nil
}

func (c *Client) readMessages() {
	for {
		select {
		case <-c.done:
			return
		default:
			var message dto.WebSocketMessage
			err := c.conn.ReadJSON(&message)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					fmt.Printf("❌ websocket error: %v\n", err)
					if !c.closed {
						c.closed = true
						close(c.done)
					}
				}
				return
			}

			c.handleMessage(message)
		}
	}
}

func (c *Client) handleMessage(message dto.WebSocketMessage) {
	switch message.Type {
	case dto.MessageTypeQueryResult:
		if result, ok := decodeQueryResult(message.Payload); ok {
			c.ui.SetResult(result)
			c.refreshDisplay()
		}

	case dto.MessageTypeError:
		if payload, ok := message.Payload.(map[string]interface{}); ok {
			if msg, ok := payload["message"].(string); ok {
				c.ui.SetLastCommand("", c.ui.RenderMessage("error", msg))
				c.refreshDisplay()
			}
		}
	}
}

// decodeQueryResult round-trips a raw JSON payload into dto.QueryResult,
// since WebSocketMessage.Payload arrives as interface{} after JSON decode.
func decodeQueryResult(payload interface{}) (*dto.QueryResult, bool) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, false
	}
	var result dto.QueryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *Client) commandLoop() {
	reader := bufio.NewReader(os.Stdin)

	c.refreshDisplay()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		fmt.Print(c.ui.RenderPrompt())
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}

		command := strings.TrimSpace(line)
		if command == "" {
			continue
		}

		if !c.processCommand(command) {
			return
		}
	}
}

// processCommand executes one command line, returning false when the CLI
// should exit.
func (c *Client) processCommand(command string) bool {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "help", "h":
		c.showHelp()

	case "quit", "exit", "q":
		if !c.closed {
			c.closed = true
			close(c.done)
		}
		return false

	case "status", "s":
		c.ui.SetLastCommand(command, c.ui.RenderMessage("info", fmt.Sprintf("session %s", c.sessionID)))
		c.refreshDisplay()

	case "clear", "cls":
		c.ui.SetLastCommand("", "")
		c.refreshDisplay()

	case "query":
		c.query()

	case "move":
		c.move(fields[1:])

	case "group":
		c.group(fields[1:])

	case "expand":
		c.expand(fields[1:])

	case "tag":
		c.addTagToCard(fields[1:])

	default:
		c.ui.SetLastCommand(command, c.ui.RenderMessage("error", "unknown command — type 'help'"))
		c.refreshDisplay()
	}

	return true
}

func (c *Client) showHelp() {
	help := strings.Join([]string{
		"Commands:",
		"  move <tag> <zone>        drag a tag onto a zone (INTERSECTION|UNION|EXCLUSION|DIFFERENCE|ROW|COLUMN|CLOUD)",
		"  group <name> <tag>       add a tag (or nested group name) to a tag group",
		"  expand <name> <zone>     drag a tag group onto a zone, expanding its members",
		"  tag <card> <tag>         drag a tag onto a card's tag set",
		"  query                    re-fetch the current matrix over HTTP",
		"  status                   show the current session id",
		"  clear                    clear the command output area",
		"  help                     show this message",
		"  quit                     exit",
	}, "\n")
	c.ui.SetLastCommand("help", help)
	c.refreshDisplay()
}

func (c *Client) move(args []string) {
	if len(args) < 2 {
		c.fail("move <tag> <zone>")
		return
	}
	c.dispatch("TAG", args[0], "ZONE", strings.ToUpper(args[1]), "move")
}

func (c *Client) group(args []string) {
	if len(args) < 2 {
		c.fail("group <name> <tag>")
		return
	}
	c.dispatch("TAG", args[1], "TAG_GROUP_TARGET", args[0], "group")
}

func (c *Client) expand(args []string) {
	if len(args) < 2 {
		c.fail("expand <name> <zone>")
		return
	}
	c.dispatch("TAG_GROUP", args[0], "ZONE", strings.ToUpper(args[1]), "expand")
}

func (c *Client) addTagToCard(args []string) {
	if len(args) < 2 {
		c.fail("tag <card> <tag>")
		return
	}
	c.dispatch("TAG", args[1], "CARD_TAGS", args[0], "tag")
}

func (c *Client) fail(usage string) {
	c.ui.SetLastCommand("", c.ui.RenderMessage("error", "usage: "+usage))
	c.refreshDisplay()
}

// dispatch sends one drop event over the WebSocket connection and returns
// without waiting; the hub's reply (a query result or an error) is handled
// by readMessages when it arrives.
func (c *Client) dispatch(dragKind, dragRef, dropKind, dropRef, label string) {
	payload := dto.DropEventPayload{
		DragKind:  dragKind,
		DragRef:   dragRef,
		DropKind:  dropKind,
		DropRef:   dropRef,
		SessionID: c.sessionID,
	}

	msg := dto.WebSocketMessage{Type: dto.MessageTypeDropEvent, Payload: payload}
	if err := c.conn.WriteJSON(msg); err != nil {
		c.ui.SetLastCommand(label, c.ui.RenderMessage("error", err.Error()))
		c.refreshDisplay()
		return
	}

	c.ui.SetLastCommand(label, c.ui.RenderMessage("success", "drop dispatched"))
	c.refreshDisplay()
}

// query fetches the current matrix over the HTTP query interface, useful
// on startup and for actions (like MOVE_COSMETIC) the hub never
// re-broadcasts from.
func (c *Client) query() {
	resp, err := http.Get(fmt.Sprintf("%s/sessions/%s/query", httpAPIBase, c.sessionID))
	if err != nil {
		c.ui.SetLastCommand("query", c.ui.RenderMessage("error", err.Error()))
		c.refreshDisplay()
		return
	}
	defer resp.Body.Close()

	var result dto.QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.ui.SetLastCommand("query", c.ui.RenderMessage("error", err.Error()))
		c.refreshDisplay()
		return
	}

	c.ui.SetResult(&result)
	c.ui.SetLastCommand("query", c.ui.RenderMessage("success", fmt.Sprintf("%d cards in view", result.Total)))
	c.refreshDisplay()
}

func (c *Client) refreshDisplay() {
	c.ui.ClearScreen()
	fmt.Println(c.ui.RenderFullDisplay())
}
