package main

//// Small CLI tool over the notes client SDK.
//// Usage: notes_cli [-url http://127.0.0.1:8080] <command> [args]

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/notesbox/pkg/client"
)

const usage = `commands:
  list
  get <id>
  add <title> <content>
  update <id> <title> <content>
  patch <id> [-title T] [-content C]
  delete <id>
  search <query>
  example              adds a sample note and lists all notes
`

func main() {
	baseURL := flag.String("url", client.DefaultBaseURL, "notes service base url")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <command> [args]\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprint(flag.CommandLine.Output(), usage)
	}
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	c := client.New(*baseURL)
	log.Debugf("using notes service: %s", c.BaseURL())

	results, err := run(ctx, c, args[0], args[1:])
	if err != nil {
		log.Errorf("%s: %s", args[0], err)
		os.Exit(1)
	}

	for _, res := range results {
		if err := printJSON(res); err != nil {
			log.Fatalf("print result: %s", err)
		}
	}
}

func run(ctx context.Context, c *client.Client, command string, args []string) ([]any, error) {
	switch command {
	case "list":
		resp, err := c.ListNotes(ctx)
		return []any{resp}, err
	case "get":
		if len(args) != 1 {
			return nil, fmt.Errorf("expected <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		resp, err := c.GetNote(ctx, id)
		return []any{resp}, err
	case "add":
		if len(args) != 2 {
			return nil, fmt.Errorf("expected <title> <content>")
		}
		resp, err := c.AddNote(ctx, args[0], args[1])
		return []any{resp}, err
	case "update":
		if len(args) != 3 {
			return nil, fmt.Errorf("expected <id> <title> <content>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		resp, err := c.UpdateNote(ctx, id, args[1], args[2])
		return []any{resp}, err
	case "patch":
		return runPatch(ctx, c, args)
	case "delete":
		if len(args) != 1 {
			return nil, fmt.Errorf("expected <id>")
		}
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		resp, err := c.DeleteNote(ctx, id)
		return []any{resp}, err
	case "search":
		if len(args) != 1 {
			return nil, fmt.Errorf("expected <query>")
		}
		resp, err := c.SearchNotes(ctx, args[0])
		return []any{resp}, err
	case "example":
		added, err := c.AddNote(ctx, "Test Note", "This is a test note.")
		if err != nil {
			return nil, err
		}
		all, err := c.ListNotes(ctx)
		return []any{added, all}, err
	default:
		return nil, fmt.Errorf("unknown command, see -h")
	}
}

func runPatch(ctx context.Context, c *client.Client, args []string) ([]any, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("expected <id> [-title T] [-content C]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return nil, err
	}

	// flag.String cannot tell "not given" from "", so track what was set
	patchFlags := flag.NewFlagSet("patch", flag.ContinueOnError)
	title := patchFlags.String("title", "", "new title")
	content := patchFlags.String("content", "", "new content")
	if err := patchFlags.Parse(args[1:]); err != nil {
		return nil, err
	}

	var titlePtr, contentPtr *string
	patchFlags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			titlePtr = title
		case "content":
			contentPtr = content
		}
	})

	resp, err := c.PatchNote(ctx, id, titlePtr, contentPtr)
	return []any{resp}, err
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid id [%s]: %w", raw, err)
	}
	return id, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
