package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"dancehub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type ticketData struct {
	Ticket string `json:"ticket"`
}

type authResponse struct {
	Ticket string `json:"ticket"`
}

type songListResponse struct {
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Items  []models.Song `json:"items"`
}

func main() {
	global := flag.NewFlagSet("dancehub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	ticketPath := global.String("ticket", defaultTicketPath(), "ticket file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "auth":
		handleAuth(ctx, client, *baseURL, *ticketPath, sub, args[2:])
	case "songs":
		handleSongs(ctx, client, *baseURL, sub, args[2:])
	case "favorites":
		handleFavorites(ctx, client, *baseURL, *ticketPath, sub, args[2:])
	case "played":
		handlePlayed(ctx, client, *baseURL, *ticketPath, args[1:])
	case "carousel":
		handleCarousel(ctx, client, *baseURL, *ticketPath, args[1:])
	case "leaderboard":
		handleLeaderboard(ctx, client, *baseURL, *ticketPath, sub, args[2:])
	case "events":
		handleEvents(*baseURL, sub, args[2:])
	case "notify":
		handleNotify(sub, args[2:])
	case "chat":
		handleChat(*baseURL, *ticketPath, sub, args[2:])
	case "export":
		handleExport(ctx, client, *baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, ticketPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *email == "" || *password == "" {
			log.Fatal("email and password are required")
		}

		payload := map[string]string{"email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveTicket(ticketPath, resp.Ticket); err != nil {
			log.Fatalf("save ticket: %v", err)
		}
		fmt.Println("✅ logged in")
	case "register":
		fs := flag.NewFlagSet("auth register", flag.ExitOnError)
		username := fs.String("username", "", "username")
		email := fs.String("email", "", "email address")
		password := fs.String("password", "", "password")
		_ = fs.Parse(args)

		if *username == "" || *email == "" || *password == "" {
			log.Fatal("username, email, and password are required")
		}

		payload := map[string]string{"username": *username, "email": *email, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/register", "", payload, &resp); err != nil {
			log.Fatalf("register failed: %v", err)
		}
		if err := saveTicket(ticketPath, resp.Ticket); err != nil {
			log.Fatalf("save ticket: %v", err)
		}
		fmt.Println("✅ registered and logged in")
	case "logout":
		ticket := mustTicket(ticketPath)
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/logout", ticket, nil, nil); err != nil {
			log.Printf("server logout failed: %v", err)
		}
		if err := clearTicket(ticketPath); err != nil {
			log.Fatalf("logout failed: %v", err)
		}
		fmt.Println("✅ logged out")
	default:
		log.Fatal("usage: dancehub auth <login|register|logout>")
	}
}

func handleSongs(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "search":
		fs := flag.NewFlagSet("songs search", flag.ExitOnError)
		query := fs.String("q", "", "search query")
		tag := fs.String("tag", "", "tag filter")
		version := fs.Int("version", 0, "game version filter")
		limit := fs.Int("limit", 20, "page size")
		offset := fs.Int("offset", 0, "offset")
		_ = fs.Parse(args)

		u, err := url.Parse(baseURL + "/songs")
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		if *query != "" {
			qv.Set("q", *query)
		}
		if *tag != "" {
			qv.Set("tag", *tag)
		}
		if *version != 0 {
			qv.Set("version", fmt.Sprintf("%d", *version))
		}
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		qv.Set("offset", fmt.Sprintf("%d", *offset))
		u.RawQuery = qv.Encode()

		var resp songListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("search failed: %v", err)
		}
		printJSON(resp)
	case "show":
		fs := flag.NewFlagSet("songs show", flag.ExitOnError)
		mapName := fs.String("map", "", "map name")
		_ = fs.Parse(args)
		if *mapName == "" {
			log.Fatal("map name is required")
		}

		var resp models.Song
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/songs/"+url.PathEscape(*mapName), "", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: dancehub songs <search|show>")
	}
}

func handleFavorites(ctx context.Context, client *http.Client, baseURL, ticketPath, sub string, args []string) {
	ticket := mustTicket(ticketPath)
	switch sub {
	case "add":
		fs := flag.NewFlagSet("favorites add", flag.ExitOnError)
		mapName := fs.String("map", "", "map name")
		_ = fs.Parse(args)
		if *mapName == "" {
			log.Fatal("map name is required")
		}

		payload := map[string]string{"map_name": *mapName}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/favorites", ticket, payload, &resp); err != nil {
			log.Fatalf("add failed: %v", err)
		}
		printJSON(resp)
	case "remove":
		fs := flag.NewFlagSet("favorites remove", flag.ExitOnError)
		mapName := fs.String("map", "", "map name")
		_ = fs.Parse(args)
		if *mapName == "" {
			log.Fatal("map name is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/users/favorites/"+url.PathEscape(*mapName), ticket, nil, &resp); err != nil {
			log.Fatalf("remove failed: %v", err)
		}
		printJSON(resp)
	case "list":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/users/favorites", ticket, nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: dancehub favorites <add|remove|list>")
	}
}

func handlePlayed(ctx context.Context, client *http.Client, baseURL, ticketPath string, args []string) {
	ticket := mustTicket(ticketPath)
	fs := flag.NewFlagSet("played", flag.ExitOnError)
	mapName := fs.String("map", "", "map name")
	score := fs.Int("score", 0, "score achieved")
	_ = fs.Parse(args)
	if *mapName == "" {
		log.Fatal("map name is required")
	}

	payload := map[string]any{"map_name": *mapName, "score": *score}
	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/users/played", ticket, payload, &resp); err != nil {
		log.Fatalf("played failed: %v", err)
	}
	printJSON(resp)
}

func handleCarousel(ctx context.Context, client *http.Client, baseURL, ticketPath string, args []string) {
	fs := flag.NewFlagSet("carousel", flag.ExitOnError)
	variant := fs.String("variant", "party", "carousel variant (party|coop|sweat|challenge)")
	search := fs.String("search", "", "search query appended to the carousel")
	_ = fs.Parse(args)

	// The carousel personalizes when a ticket is present and degrades to the
	// anonymous layout otherwise, so a missing ticket file is fine here.
	ticket, _ := readTicket(ticketPath)

	u, err := url.Parse(baseURL + "/carousel/" + url.PathEscape(*variant))
	if err != nil {
		log.Fatalf("invalid base url: %v", err)
	}
	if *search != "" {
		qv := u.Query()
		qv.Set("search", *search)
		u.RawQuery = qv.Encode()
	}

	var resp map[string]any
	if err := doJSON(ctx, client, http.MethodGet, u.String(), ticket, nil, &resp); err != nil {
		log.Fatalf("carousel failed: %v", err)
	}
	printJSON(resp)
}

func handleLeaderboard(ctx context.Context, client *http.Client, baseURL, ticketPath, sub string, args []string) {
	switch sub {
	case "top":
		fs := flag.NewFlagSet("leaderboard top", flag.ExitOnError)
		mapName := fs.String("map", "", "map name")
		limit := fs.Int("limit", 10, "number of entries")
		_ = fs.Parse(args)
		if *mapName == "" {
			log.Fatal("map name is required")
		}

		u, err := url.Parse(baseURL + "/leaderboard/" + url.PathEscape(*mapName))
		if err != nil {
			log.Fatalf("invalid base url: %v", err)
		}
		qv := u.Query()
		qv.Set("limit", fmt.Sprintf("%d", *limit))
		u.RawQuery = qv.Encode()

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			log.Fatalf("top failed: %v", err)
		}
		printJSON(resp)
	case "rank":
		ticket := mustTicket(ticketPath)
		fs := flag.NewFlagSet("leaderboard rank", flag.ExitOnError)
		mapName := fs.String("map", "", "map name")
		_ = fs.Parse(args)
		if *mapName == "" {
			log.Fatal("map name is required")
		}

		var resp map[string]any
		endpoint := baseURL + "/leaderboard/" + url.PathEscape(*mapName) + "/rank"
		if err := doJSON(ctx, client, http.MethodGet, endpoint, ticket, nil, &resp); err != nil {
			log.Fatalf("rank failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: dancehub leaderboard <top|rank>")
	}
}

func handleEvents(baseURL, sub string, args []string) {
	switch sub {
	case "listen":
		fs := flag.NewFlagSet("events listen", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP events server address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runEventsTCP(*addr, *pretty); err != nil {
				log.Printf("[events] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	case "subscribe":
		fs := flag.NewFlagSet("events subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint, nil); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: dancehub events <listen|subscribe>")
	}
}

func handleNotify(sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7071", "UDP notify server address")
		userID := fs.String("user-id", "", "user id to register")
		_ = fs.Parse(args)
		if *userID == "" {
			log.Fatal("user-id is required")
		}
		if err := runNotifyUDP(*addr, *userID); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: dancehub notify subscribe")
	}
}

func handleChat(baseURL, ticketPath, sub string, args []string) {
	switch sub {
	case "join":
		fs := flag.NewFlagSet("chat join", flag.ExitOnError)
		floor := fs.String("floor", "lobby", "dance floor to join")
		_ = fs.Parse(args)

		endpoint, err := websocketURL(baseURL, "/chat/ws")
		if err != nil {
			log.Fatalf("ws url: %v", err)
		}
		endpoint += "?floor=" + url.QueryEscape(*floor)

		ticket, _ := readTicket(ticketPath)
		if err := runChatWS(endpoint, ticket); err != nil {
			log.Fatalf("chat join failed: %v", err)
		}
	default:
		log.Fatal("usage: dancehub chat join")
	}
}

func handleExport(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "output file path")
	_ = fs.Parse(args)

	switch sub {
	case "json":
		path := *out
		if path == "" {
			path = "songs.json"
		}
		items, err := fetchAllSongs(ctx, client, baseURL)
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		if err := writeJSON(path, items); err != nil {
			log.Fatalf("write json: %v", err)
		}
		fmt.Printf("exported %d songs to %s\n", len(items), path)
	case "csv":
		path := *out
		if path == "" {
			path = "songs.csv"
		}
		items, err := fetchAllSongs(ctx, client, baseURL)
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		if err := writeCSV(path, items); err != nil {
			log.Fatalf("write csv: %v", err)
		}
		fmt.Printf("exported %d songs to %s\n", len(items), path)
	default:
		log.Fatal("usage: dancehub export <json|csv>")
	}
}

func runEventsTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[events] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string, header http.Header) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[ws] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func runChatWS(wsURL, ticket string) error {
	header := http.Header{}
	if ticket != "" {
		header.Set("Authorization", "Bearer "+ticket)
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("[chat] connected to %s", wsURL)
	go func() {
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Println(string(msg))
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func runNotifyUDP(addr, userID string) error {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	reg, err := json.Marshal(map[string]string{"type": "register", "user_id": userID})
	if err != nil {
		return err
	}
	if _, err := conn.Write(reg); err != nil {
		return err
	}
	log.Printf("[notify] registered with %s as %s", addr, userID)

	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return err
		}
		fmt.Println(string(buf[:n]))
	}
}

func fetchAllSongs(ctx context.Context, client *http.Client, baseURL string) ([]models.Song, error) {
	const pageSize = 200
	var out []models.Song
	offset := 0
	for {
		u, err := url.Parse(baseURL + "/songs")
		if err != nil {
			return nil, err
		}
		qv := u.Query()
		qv.Set("limit", fmt.Sprintf("%d", pageSize))
		qv.Set("offset", fmt.Sprintf("%d", offset))
		u.RawQuery = qv.Encode()

		var resp songListResponse
		if err := doJSON(ctx, client, http.MethodGet, u.String(), "", nil, &resp); err != nil {
			return nil, err
		}
		if len(resp.Items) == 0 {
			break
		}
		out = append(out, resp.Items...)
		offset += len(resp.Items)
		if offset >= resp.Total {
			break
		}
	}

	return out, nil
}

func writeJSON(path string, items []models.Song) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func writeCSV(path string, items []models.Song) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"map_name", "title", "artist", "original_jd_version", "tags"}); err != nil {
		return err
	}
	for _, item := range items {
		if err := writer.Write([]string{
			item.MapName,
			item.Title,
			item.Artist,
			fmt.Sprintf("%d", item.JDVersion),
			strings.Join(item.Tags, ","),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint, ticket string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ticket != "" {
		req.Header.Set("Authorization", "Bearer "+ticket)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTicketPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.dancehub-ticket.json"
	}
	return filepath.Join(home, ".dancehub", "ticket.json")
}

func saveTicket(path, ticket string) error {
	if ticket == "" {
		return errors.New("empty ticket")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(ticketData{Ticket: ticket}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readTicket(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td ticketData
	if err := json.Unmarshal(data, &td); err != nil {
		return "", err
	}
	return strings.TrimSpace(td.Ticket), nil
}

func mustTicket(path string) string {
	ticket, err := readTicket(path)
	if err != nil {
		log.Fatalf("ticket not found, please login: %v", err)
	}
	if ticket == "" {
		log.Fatal("ticket empty, please login")
	}
	return ticket
}

func clearTicket(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}

func printUsage() {
	fmt.Println("dancehub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  auth login|register|logout")
	fmt.Println("  songs search|show")
	fmt.Println("  favorites add|remove|list")
	fmt.Println("  played -map <name> -score <n>")
	fmt.Println("  carousel [-variant party|coop|sweat|challenge] [-search <q>]")
	fmt.Println("  leaderboard top|rank")
	fmt.Println("  events listen|subscribe")
	fmt.Println("  notify subscribe")
	fmt.Println("  chat join")
	fmt.Println("  export json|csv")
}
