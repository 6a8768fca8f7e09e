// Command saveadmin is an administration console over the save-slot
// catalog: a menu-loop-plus-CLI-argument-mode structure with direct
// database access to saveload.SlotRegistry's catalog.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/archon-sim/core/internal/saveload"
)

func main() {
	saveDir := flag.String("save-dir", "./saves", "directory containing the save-slot catalog")
	flag.Parse()

	registry, err := saveload.OpenSlotRegistry(*saveDir)
	if err != nil {
		fmt.Printf("saveadmin: could not open slot registry: %v\n", err)
		os.Exit(1)
	}
	defer registry.Close()

	args := flag.Args()
	if len(args) > 0 {
		handleCLI(registry, args)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\n========================================")
		fmt.Println("   ARCHON CORE SAVE ADMINISTRATION")
		fmt.Println("========================================")
		fmt.Println("1. List Saves")
		fmt.Println("2. Delete Save")
		fmt.Println("3. Exit")
		fmt.Println("========================================")
		fmt.Print("Select Option: ")

		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			listSaves(registry)
		case "2":
			deleteInteractive(registry, scanner)
		case "3":
			fmt.Println("Exiting.")
			return
		default:
			fmt.Println("Invalid option.")
		}
	}
}

func handleCLI(registry *saveload.SlotRegistry, args []string) {
	switch args[0] {
	case "list":
		listSaves(registry)
	case "delete":
		if len(args) < 3 {
			fmt.Println("Usage: saveadmin delete <name> CONFIRM")
			return
		}
		if args[2] != "CONFIRM" {
			fmt.Printf("Error: to delete save %q, pass CONFIRM as the third argument.\n", args[1])
			fmt.Printf("Example: saveadmin delete %s CONFIRM\n", args[1])
			return
		}
		performDelete(registry, args[1])
	default:
		fmt.Println("Unknown command. Available commands: list, delete")
	}
}

func listSaves(registry *saveload.SlotRegistry) {
	slots, err := registry.List()
	if err != nil {
		fmt.Printf("Error listing saves: %v\n", err)
		return
	}
	fmt.Println("\nName                 | Kind      | Tick       | Size     | Created")
	fmt.Println("---------------------|-----------|------------|----------|--------------------")
	for _, s := range slots {
		size := "?"
		if fi, err := os.Stat(s.FilePath); err == nil {
			size = humanize.Bytes(uint64(fi.Size()))
		}
		fmt.Printf("%-20s | %-9s | %-10d | %-8s | %s (%s)\n",
			s.Name, s.Kind, s.CurrentTick, size, s.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(s.CreatedAt))
	}
}

func deleteInteractive(registry *saveload.SlotRegistry, scanner *bufio.Scanner) {
	fmt.Print("Enter save name to DELETE: ")
	scanner.Scan()
	name := strings.TrimSpace(scanner.Text())
	if name == "" {
		fmt.Println("Invalid name.")
		return
	}
	fmt.Printf("WARNING: this permanently deletes save %q.\n", name)
	fmt.Print("Type 'CONFIRM' to proceed: ")
	scanner.Scan()
	if strings.TrimSpace(scanner.Text()) != "CONFIRM" {
		fmt.Println("Deletion cancelled.")
		return
	}
	performDelete(registry, name)
}

func performDelete(registry *saveload.SlotRegistry, name string) {
	if err := registry.Delete(name); err != nil {
		fmt.Printf("Error deleting save: %v\n", err)
		return
	}
	fmt.Println("Save deleted successfully.")
}
