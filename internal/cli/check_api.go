package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/mrlokans/highlights-web/internal/apiclient"
	"github.com/mrlokans/highlights-web/internal/pages"
	"github.com/mrlokans/highlights-web/internal/tagview"
)

// CheckAPICommand verifies that the backend is reachable and, given a book, prints how its
// highlight tags would be grouped on the book page.
type CheckAPICommand struct {
	BaseURL string
	BookID  int
	Locale  string
	Timeout time.Duration

	out io.Writer
}

func NewCheckAPICommand() *CheckAPICommand {
	return &CheckAPICommand{out: os.Stdout}
}

func (cmd *CheckAPICommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("check-api", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", os.Getenv("API_URL"), "Absolute backend base URL (defaults to $API_URL)")
	fs.IntVar(&cmd.BookID, "book", 0, "Book ID to load and summarise")
	fs.StringVar(&cmd.Locale, "locale", "en", "Locale used to order tag names")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Second, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s check-api [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Check connectivity to the highlights backend.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s check-api -url http://localhost:8000\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s check-api -url http://localhost:8000 -book 12\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if !strings.Contains(cmd.BaseURL, "://") {
		fs.Usage()
		return fmt.Errorf("an absolute backend URL is required")
	}

	return nil
}

func (cmd *CheckAPICommand) Run() error {
	locale, err := language.Parse(cmd.Locale)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", cmd.Locale, err)
	}

	client := apiclient.New(cmd.BaseURL)
	client.SetTimeout(cmd.Timeout)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("backend at %s is not healthy: %w", cmd.BaseURL, err)
	}
	fmt.Fprintf(cmd.out, "Backend at %s is healthy\n", cmd.BaseURL)

	if cmd.BookID <= 0 {
		return nil
	}

	data, err := pages.LoadBook(ctx, client, cmd.BookID)
	if err != nil {
		return fmt.Errorf("failed to load book %d: %w", cmd.BookID, err)
	}

	view := tagview.AggregateIn(locale, data.Tags.Tags, data.Tags.TagGroups)

	fmt.Fprintf(cmd.out, "\n=== %s ===\n", data.Book.Title)
	fmt.Fprintf(cmd.out, "Highlights: %d\n", data.Book.HighlightCount())
	fmt.Fprintf(cmd.out, "Tags: %d\n", len(view.Sorted))
	if len(view.Ungrouped) > 0 {
		fmt.Fprintf(cmd.out, "  Ungrouped: %s\n", tagNames(view.Ungrouped))
	}
	for _, group := range view.Groups {
		fmt.Fprintf(cmd.out, "  %s: %s\n", group.Group.Name, tagNames(group.Tags))
	}

	return nil
}
