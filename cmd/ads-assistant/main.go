package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/config"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/platform"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/runner"
	"github.com/kartik-syal/facebook-ads-ai-assistant/memory"
	"github.com/kartik-syal/facebook-ads-ai-assistant/tools"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if flag.Arg(0) == "token" {
		if err := runTokenExchange(cfg, flag.Arg(1)); err != nil {
			fmt.Fprintf(os.Stderr, "token exchange: %v\n", err)
			os.Exit(1)
		}
		return
	}

	api := adsapi.New(adsapi.Config{
		AccessToken: cfg.Facebook.AccessToken,
		AdAccountID: cfg.Facebook.AdAccountID,
	})
	defer api.Close()

	defs := tools.Registry(api, cfg.Facebook.PageID)
	specs := make([]platform.ToolSpec, 0, len(defs))
	for _, d := range defs {
		specs = append(specs, platform.ToolSpec{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.InputSchema,
		})
	}
	client := platform.NewOpenAIAssistants(cfg.OpenAI.APIKey, cfg.OpenAI.AssistantID, specs)

	r := runner.New(client, defs)
	r.MaxPolls = cfg.Turn.MaxPolls
	if cfg.Turn.Backoff {
		r.Wait = runner.CappedBackoff{Initial: cfg.Turn.PollInterval.Std(), Max: cfg.Turn.MaxBackoff.Std()}
	} else {
		r.Wait = runner.FixedDelay{Delay: cfg.Turn.PollInterval.Std()}
	}

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigch)
	go func() {
		<-sigch
		fmt.Println("\nExiting...")
		cancel()
	}()

	transcript, err := memory.LoadTranscript(cfg.TranscriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load transcript: %v\n", err)
	}

	// Resume the previous platform session when one is on record.
	session := platform.SessionID(transcript.SessionID)
	if session == "" {
		session, err = client.CreateSession(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create session: %v\n", err)
			os.Exit(1)
		}
		transcript.SessionID = string(session)
	}

	// Replay the local transcript so the user sees where they left off.
	for _, m := range transcript.Messages {
		fmt.Printf("%s: %s\n", roleLabel(m.Role), m.Text)
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("Facebook Ads Assistant (Ctrl-C to quit)")

	// stdin reader goroutine -> lines into channel
	inputCh := make(chan string)
	go func() {
		for scanner.Scan() {
			inputCh <- scanner.Text()
		}
		close(inputCh)
	}()

outer:
	for {
		fmt.Print("\u001b[94mYou\u001b[0m: ")
		var (
			user string
			ok   bool
		)
		select {
		case <-ctx.Done():
			break outer
		case user, ok = <-inputCh:
			if !ok {
				break outer
			}
		}
		if strings.TrimSpace(user) == "" {
			continue
		}

		// The REPL serializes turns per session: the next prompt only
		// appears once the current turn's chunk sequence is drained.
		var lastReply string
		for chunk := range r.RunTurn(ctx, session, user) {
			if chunk.Err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", chunk.Err)
				continue
			}
			fmt.Printf("%s: %s\n", roleLabel("assistant"), chunk.Text)
			lastReply = chunk.Text
		}

		transcript.Append(user, lastReply)
		if err := memory.SaveTranscript(cfg.TranscriptPath, transcript); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to save transcript: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: stdin read error: %v\n", err)
	}
}

func roleLabel(role string) string {
	if role == "user" {
		return "\u001b[94mYou\u001b[0m"
	}
	return "\u001b[93mAssistant\u001b[0m"
}

// runTokenExchange swaps a short-lived user token for long-lived page tokens
// and prints them, one page per line.
func runTokenExchange(cfg *config.Config, shortLivedToken string) error {
	if strings.TrimSpace(shortLivedToken) == "" {
		return fmt.Errorf("usage: ads-assistant token <short-lived-user-token>")
	}
	if cfg.Facebook.AppID == "" || cfg.Facebook.AppSecret == "" {
		return fmt.Errorf("facebook.app_id and facebook.app_secret must be configured")
	}

	api := adsapi.New(adsapi.Config{})
	defer api.Close()

	pages, err := api.ExchangeLongLivedPageTokens(context.Background(), cfg.Facebook.AppID, cfg.Facebook.AppSecret, shortLivedToken)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Println("No managed pages found for this token.")
		return nil
	}
	for _, p := range pages {
		fmt.Printf("%s (%s): %s\n", p.Name, p.PageID, p.AccessToken)
	}
	return nil
}
