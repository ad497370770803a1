package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"campus-chat/protocol"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	DefaultGroup  string `env:"DEFAULT_GROUP,default=CMPS"`
}

type historyEntry struct {
	Sender string
	Body   string
}

// receiver reads server records on a background goroutine. Live
// broadcasts are printed immediately; ACK and ERROR replies are routed
// to whoever is waiting on a menu action; history streams are
// accumulated until the sentinel arrives.
type receiver struct {
	mu         sync.Mutex
	collecting bool
	collected  []historyEntry

	replies chan protocol.Response
	history chan []historyEntry
	closed  chan struct{}
}

func newReceiver() *receiver {
	return &receiver{
		replies: make(chan protocol.Response, 4),
		history: make(chan []historyEntry, 1),
		closed:  make(chan struct{}),
	}
}

func (r *receiver) run(conn net.Conn) {
	defer close(r.closed)
	for {
		resp, err := protocol.ReadResponse(conn)
		if err != nil {
			return
		}
		switch resp.Type {
		case protocol.TypePrintMessage:
			r.onPrintMessage(resp)
		case protocol.TypeAck, protocol.TypeError:
			r.replies <- resp
		}
	}
}

func (r *receiver) onPrintMessage(resp protocol.Response) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.collecting {
		color.New(color.FgCyan).Printf("\n[%s] ", resp.Name)
		fmt.Println(resp.Body)
		return
	}
	if resp.Body == protocol.EndOfMessages {
		r.collecting = false
		r.history <- r.collected
		r.collected = nil
		return
	}
	r.collected = append(r.collected, historyEntry{Sender: resp.Name, Body: resp.Body})
}

func (r *receiver) startCollecting() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collecting = true
	r.collected = nil
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	conn, err := net.Dial("tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer conn.Close()

	recv := newReceiver()
	go recv.run(conn)

	stdin := bufio.NewScanner(os.Stdin)
	color.New(color.FgGreen, color.Bold).Printf(">>> Connected to %s\n", config.ServerAddress)

	if !authenticate(conn, recv, stdin) {
		return exitOK, nil
	}
	menuLoop(conn, recv, stdin, config.DefaultGroup)
	return exitOK, nil
}

// authenticate loops over the pre-auth menu until the server accepts a
// login or registration, or the user gives up.
func authenticate(conn net.Conn, recv *receiver, stdin *bufio.Scanner) bool {
	for {
		color.Println("\n<fg=green>1.</> Login  <fg=green>2.</> Register  <fg=green>3.</> Quit")
		switch prompt(stdin, "> ") {
		case "1":
			email := prompt(stdin, "Email: ")
			password := promptSecret("Password: ")
			send(conn, protocol.TypeLogin, email+" "+password)
		case "2":
			email := prompt(stdin, "Email: ")
			name := prompt(stdin, "Display name (one word): ")
			password := promptSecret("Password: ")
			send(conn, protocol.TypeRegister, email+" "+name+" "+password)
		case "3":
			send(conn, protocol.TypeExit, "")
			return false
		default:
			continue
		}
		if awaitReply(recv) {
			color.Success.Println("Authenticated.")
			return true
		}
	}
}

func menuLoop(conn net.Conn, recv *receiver, stdin *bufio.Scanner, defaultGroup string) {
	for {
		color.Println("\n<fg=green>1.</> Send message  <fg=green>2.</> Join group  <fg=green>3.</> View all messages  <fg=green>4.</> Quit")
		switch prompt(stdin, "> ") {
		case "1":
			group := promptDefault(stdin, fmt.Sprintf("Group [%s]: ", defaultGroup), defaultGroup)
			body := prompt(stdin, "Message: ")
			if body == "" {
				continue
			}
			send(conn, protocol.TypeMessage, group+" "+body)
			awaitReply(recv)
		case "2":
			group := prompt(stdin, "Group name: ")
			if group == "" {
				continue
			}
			send(conn, protocol.TypeJoinGroup, group)
			awaitReply(recv)
		case "3":
			recv.startCollecting()
			send(conn, protocol.TypeRequestAllMessages, "all")
			renderHistory(<-recv.history)
			awaitReply(recv)
		case "4":
			send(conn, protocol.TypeExit, "")
			return
		}
	}
}

func renderHistory(entries []historyEntry) {
	if len(entries) == 0 {
		color.Comment.Println("No messages yet.")
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Sender", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i, entry := range entries {
		table.Append([]string{fmt.Sprintf("%d", i+1), entry.Sender, entry.Body})
	}
	table.Render()
}

func send(conn net.Conn, tag uint32, payload string) {
	if err := protocol.WriteRequest(conn, protocol.Request{Type: tag, Payload: payload}); err != nil {
		color.Error.Println("send failed:", err)
	}
}

// awaitReply blocks until the server answers the last action and
// reports whether it was an ACK.
func awaitReply(recv *receiver) bool {
	select {
	case resp := <-recv.replies:
		if resp.Type == protocol.TypeError {
			color.Error.Println(resp.Body)
			return false
		}
		return true
	case <-recv.closed:
		color.Error.Println("Connection lost.")
		os.Exit(exitRuntime)
		return false
	}
}

func prompt(stdin *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(stdin.Text())
}

func promptDefault(stdin *bufio.Scanner, label, fallback string) string {
	if value := prompt(stdin, label); value != "" {
		return value
	}
	return fallback
}

// promptSecret reads a password with terminal echo disabled.
func promptSecret(label string) string {
	fmt.Print(label)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(secret))
}
