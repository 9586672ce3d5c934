package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Carvalth/dmhshows/internal/event"
	"github.com/Carvalth/dmhshows/internal/notifier"
	"github.com/Carvalth/dmhshows/internal/storage"
)

var (
	eventsFile = flag.String("events-file", "", "Path to shows JSON file (or read from stdin)")
	threshold  = flag.Int("threshold", 85, "Minimum percent sold to announce")
	dryRun     = flag.Bool("dry-run", false, "Print tweets without posting")
	maxTweets  = flag.Int("max-tweets", 10, "Maximum number of tweets to post")
)

func main() {
	flag.Parse()

	var events []*event.Event
	if *eventsFile != "" {
		loaded, err := storage.Read(*eventsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading events file: %v\n", err)
			os.Exit(1)
		}
		events = loaded
	} else {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &events); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing JSON: %v\n", err)
			os.Exit(1)
		}
	}

	events = notifier.SelectSellouts(events, *threshold)
	if len(events) == 0 {
		fmt.Println("No shows above threshold to announce")
		os.Exit(0)
	}

	if len(events) > *maxTweets {
		events = events[:*maxTweets]
	}

	var tw notifier.Notifier
	if *dryRun {
		tw = notifier.NewDryRunNotifier()
		fmt.Printf("DRY RUN MODE - Would tweet %d shows:\n\n", len(events))
	} else {
		client, err := notifier.NewTwitterNotifier()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing Twitter client: %v\n", err)
			os.Exit(1)
		}
		tw = client
	}

	if err := tw.Notify(events); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting tweets: %v\n", err)
		os.Exit(1)
	}

	if !*dryRun {
		fmt.Printf("Posted %d tweets\n", len(events))
	}
}
