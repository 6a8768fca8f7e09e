// Command console is an interactive REPL client for the control API: a
// bufio.Scanner command loop that issues runtime control verbs as
// http.Post JSON payloads.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

var ServerURL = "http://localhost:8080"

type statusResponse struct {
	Tick uint64 `json:"tick"`
}

func main() {
	if url := os.Getenv("ARCHON_SERVER"); url != "" {
		ServerURL = url
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Println("Archon Core Control Console")
	fmt.Printf("Target Server: %s\n", ServerURL)
	fmt.Println("Commands: status, pause, resume <speed>, set_speed <speed>, declare_war <a> <b>, make_peace <a> <b>,")
	fmt.Println("          set_treaty <a> <b> <kind> <on|off>, create_unit <province> <owner>, move_unit <unit> <dest> <unittype>,")
	fmt.Println("          add_resource <country> <type> <delta>, quicksave, quickload, help, quit")

	for {
		fmt.Print("archon> ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		parts := strings.Fields(text)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "status":
			doStatus()
		case "pause":
			post("/control/pause", nil)
		case "resume":
			speed := arg(parts, 1, "2")
			post("/control/resume", map[string]interface{}{"Speed": atoiOr(speed, 2)})
		case "set_speed":
			speed := arg(parts, 1, "2")
			post("/control/set_speed", map[string]interface{}{"Speed": atoiOr(speed, 2)})
		case "declare_war":
			if len(parts) < 3 {
				fmt.Println("Usage: declare_war <attacker> <defender>")
				continue
			}
			post("/control/declare_war", map[string]interface{}{
				"Attacker": atoiOr(parts[1], 0), "Defender": atoiOr(parts[2], 0),
			})
		case "make_peace":
			if len(parts) < 3 {
				fmt.Println("Usage: make_peace <a> <b>")
				continue
			}
			post("/control/make_peace", map[string]interface{}{"A": atoiOr(parts[1], 0), "B": atoiOr(parts[2], 0)})
		case "set_treaty":
			if len(parts) < 5 {
				fmt.Println("Usage: set_treaty <a> <b> <alliance|nap|guarantee|military_access> <on|off>")
				continue
			}
			post("/control/set_treaty", map[string]interface{}{
				"A": atoiOr(parts[1], 0), "B": atoiOr(parts[2], 0),
				"Kind": parts[3], "Set": parts[4] == "on",
			})
		case "create_unit":
			if len(parts) < 3 {
				fmt.Println("Usage: create_unit <province> <owner>")
				continue
			}
			post("/control/create_unit", map[string]interface{}{
				"Province": atoiOr(parts[1], 0), "Owner": atoiOr(parts[2], 0),
			})
		case "move_unit":
			if len(parts) < 4 {
				fmt.Println("Usage: move_unit <unit> <destination> <unittype>")
				continue
			}
			post("/control/move_unit", map[string]interface{}{
				"Unit": atoiOr(parts[1], 0), "Destination": atoiOr(parts[2], 0), "UnitTypeID": atoiOr(parts[3], 0),
			})
		case "add_resource":
			if len(parts) < 4 {
				fmt.Println("Usage: add_resource <country> <type> <delta>")
				continue
			}
			post("/control/add_resource", map[string]interface{}{
				"Country": atoiOr(parts[1], 0), "Type": atoiOr(parts[2], 0), "Delta": atoiOr(parts[3], 0),
			})
		case "quicksave":
			post("/control/quicksave", nil)
		case "quickload":
			post("/control/quickload", nil)
		case "help":
			fmt.Println("See the banner above for the full verb list.")
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help' for options.")
		}
	}
}

func arg(parts []string, i int, def string) string {
	if i < len(parts) {
		return parts[i]
	}
	return def
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func doStatus() {
	resp, err := http.Get(ServerURL + "/query/status")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var s statusResponse
	json.Unmarshal(body, &s)
	fmt.Printf("Tick: %d\n", s.Tick)
}

func post(path string, payload interface{}) {
	data, _ := json.Marshal(payload)
	resp, err := http.Post(ServerURL+path, "application/json", bytes.NewBuffer(data))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("[%d] %s\n", resp.StatusCode, string(body))
}
