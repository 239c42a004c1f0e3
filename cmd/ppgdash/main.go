// ppgdash is a terminal companion to the ppg dashboard: it tails the
// live event stream and drives the ppg serve HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ppg-dev/ppg-sdk-go/ppg"
	"github.com/ppg-dev/ppg-sdk-go/ppg/rest"
	"github.com/ppg-dev/ppg-sdk-go/ppg/settings"
)

var version = "dev" // injected via ldflags at build time

// Globals holds flags shared by every command, resolved against the
// settings file: flags win over the file, the file over defaults.
type Globals struct {
	Server   string `help:"Server base URL (overrides settings file)." short:"s"`
	Token    string `help:"Bearer token (overrides settings file)."`
	Settings string `help:"Path to settings file." type:"path"`
	LogLevel string `help:"Log level (debug/info/warn/error)." default:"warn"`
}

func (g *Globals) resolve() (settings.AppSettings, error) {
	s, err := settings.Load(g.Settings)
	if err != nil {
		return s, err
	}
	if g.Server != "" {
		s.ServerURL = g.Server
	}
	if g.Token != "" {
		s.BearerToken = g.Token
	}
	return s, nil
}

func (g *Globals) restClient() (*rest.Client, error) {
	s, err := g.resolve()
	if err != nil {
		return nil, err
	}
	c := rest.NewClient(s.ServerURL)
	c.SetToken(s.BearerToken)
	return c, nil
}

type CLI struct {
	Globals

	Watch        WatchCmd        `cmd:"" group:"observe" help:"Tail the live event stream."`
	Status       StatusCmd       `cmd:"" group:"observe" help:"Show worktrees and agents."`
	Logs         LogsCmd         `cmd:"" group:"observe" help:"Print an agent's recent terminal output."`
	Health       HealthCmd       `cmd:"" group:"observe" help:"Probe the server."`
	Spawn        SpawnCmd        `cmd:"" group:"control" help:"Spawn a worktree with agents."`
	Send         SendCmd         `cmd:"" group:"control" help:"Send text to an agent's terminal."`
	Restart      RestartCmd      `cmd:"" group:"control" help:"Restart an agent."`
	KillAgent    KillAgentCmd    `cmd:"kill-agent" group:"control" help:"Terminate an agent."`
	Merge        MergeCmd        `cmd:"" group:"control" help:"Merge a worktree into its base branch."`
	KillWorktree KillWorktreeCmd `cmd:"kill-worktree" group:"control" help:"Terminate every agent in a worktree."`
	Version      VersionCmd      `cmd:"" group:"maint" help:"Print version info."`
}

// ─── watch ───────────────────────────────────────────────────────────────────

type WatchCmd struct {
	Channel []string `help:"Channels to subscribe to (default: manifest)."`
}

func (c *WatchCmd) Run(g *Globals) error {
	s, err := g.resolve()
	if err != nil {
		return err
	}
	channels := c.Channel
	if len(channels) == 0 {
		channels = []string{"manifest"}
	}

	cfg := ppg.DefaultConfig()
	cfg.ServerURL = s.ServerURL
	cfg.Token = s.BearerToken
	client, err := ppg.NewClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()
	client.SetLogger(ppg.NewSlogLogger(slog.Default()))

	client.OnStateChanged(func(ev ppg.StateEvent) {
		fmt.Printf("%s state: %s -> %s\n", stamp(), ev.Old, ev.New)
		if ev.New.Phase == ppg.PhaseConnected {
			for _, ch := range channels {
				client.Send(ppg.SubscribeCommand{Channel: ch})
			}
		}
	})
	client.OnManifestUpdated(func(ev ppg.ManifestUpdatedEvent) {
		fmt.Printf("%s manifest: %d worktrees, %d agents running\n",
			stamp(), len(ev.Manifest.Worktrees), ev.Manifest.CountAgentsByStatus(ppg.AgentRunning))
	})
	client.OnAgentStatus(func(ev ppg.AgentStatusEvent) {
		fmt.Printf("%s agent %s: %s\n", stamp(), ev.AgentID, ev.Status.Label())
	})
	client.OnWorktreeStatus(func(ev ppg.WorktreeStatusEvent) {
		fmt.Printf("%s worktree %s: %s\n", stamp(), ev.WorktreeID, ev.Status.Label())
	})
	client.OnUnknownEvent(func(ev ppg.UnknownEvent) {
		slog.Debug("unknown event", "type", ev.Type)
	})

	client.Connect()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()
	fmt.Println("\nshutting down")
	client.Disconnect()
	return nil
}

func stamp() string {
	return time.Now().Format("15:04:05")
}

// ─── status ──────────────────────────────────────────────────────────────────

type StatusCmd struct{}

func (c *StatusCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	m, err := client.Status(context.Background())
	if err != nil {
		return err
	}
	printManifest(os.Stdout, m)
	return nil
}

func printManifest(w *os.File, m *ppg.Manifest) {
	fmt.Fprintf(w, "session %s (%d worktrees)\n", m.SessionName, len(m.Worktrees))
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKTREE\tBRANCH\tSTATUS\tAGENT\tTYPE\tAGENT STATUS")

	ids := make([]string, 0, len(m.Worktrees))
	for id := range m.Worktrees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		wt := m.Worktrees[id]
		if len(wt.Agents) == 0 {
			fmt.Fprintf(tw, "%s\t%s\t%s\t-\t-\t-\n", wt.Name, wt.Branch, wt.Status.Label())
			continue
		}
		agentIDs := make([]string, 0, len(wt.Agents))
		for aid := range wt.Agents {
			agentIDs = append(agentIDs, aid)
		}
		sort.Strings(agentIDs)
		for _, aid := range agentIDs {
			a := wt.Agents[aid]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
				wt.Name, wt.Branch, wt.Status.Label(), a.Name, a.AgentType, a.Status.Label())
		}
	}
	tw.Flush()
}

// ─── logs ────────────────────────────────────────────────────────────────────

type LogsCmd struct {
	AgentID string `arg:"" help:"Agent to read."`
	Lines   int    `help:"Number of scrollback lines." default:"100"`
}

func (c *LogsCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	resp, err := client.AgentLogs(context.Background(), c.AgentID, c.Lines)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(resp.Lines, "\n"))
	return nil
}

// ─── health ──────────────────────────────────────────────────────────────────

type HealthCmd struct{}

func (c *HealthCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	h, err := client.Health(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("server: %s\n", h.Status)
	return nil
}

// ─── spawn ───────────────────────────────────────────────────────────────────

type SpawnCmd struct {
	Name   string `arg:"" help:"Worktree name."`
	Agent  string `help:"Agent type."`
	Prompt string `help:"Initial prompt."`
	Count  int    `help:"Number of agents." default:"1"`
}

func (c *SpawnCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	resp, err := client.Spawn(context.Background(), rest.SpawnRequest{
		Name:   c.Name,
		Agent:  c.Agent,
		Prompt: c.Prompt,
		Count:  c.Count,
	})
	if err != nil {
		return err
	}
	fmt.Printf("spawned worktree %s on branch %s\n", resp.WorktreeID, resp.Branch)
	for _, a := range resp.Agents {
		fmt.Printf("  agent %s (%s)\n", a.ID, a.TmuxTarget)
	}
	return nil
}

// ─── send ────────────────────────────────────────────────────────────────────

type SendCmd struct {
	AgentID string `arg:"" help:"Agent to send to."`
	Text    string `arg:"" help:"Text to send."`
	Mode    string `help:"Delivery mode (raw/literal/with-enter)." default:"with-enter"`
}

func (c *SendCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	return client.SendKeys(context.Background(), c.AgentID, rest.SendKeysRequest{
		Text: c.Text,
		Mode: rest.SendMode(c.Mode),
	})
}

// ─── restart ─────────────────────────────────────────────────────────────────

type RestartCmd struct {
	AgentID string `arg:"" help:"Agent to restart."`
	Prompt  string `help:"New prompt."`
	Agent   string `help:"New agent type."`
}

func (c *RestartCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	return client.RestartAgent(context.Background(), c.AgentID, rest.RestartRequest{
		Prompt: c.Prompt,
		Agent:  c.Agent,
	})
}

// ─── kill-agent ──────────────────────────────────────────────────────────────

type KillAgentCmd struct {
	AgentID string `arg:"" help:"Agent to terminate."`
}

func (c *KillAgentCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	return client.KillAgent(context.Background(), c.AgentID)
}

// ─── merge ───────────────────────────────────────────────────────────────────

type MergeCmd struct {
	WorktreeID string `arg:"" help:"Worktree to merge."`
	Strategy   string `help:"Merge strategy."`
	Cleanup    bool   `help:"Remove the worktree after merging."`
	Force      bool   `help:"Merge even with dirty state."`
}

func (c *MergeCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	req := rest.MergeRequest{Strategy: c.Strategy}
	if c.Cleanup {
		req.Cleanup = &c.Cleanup
	}
	if c.Force {
		req.Force = &c.Force
	}
	return client.MergeWorktree(context.Background(), c.WorktreeID, req)
}

// ─── kill-worktree ───────────────────────────────────────────────────────────

type KillWorktreeCmd struct {
	WorktreeID string `arg:"" help:"Worktree to terminate."`
}

func (c *KillWorktreeCmd) Run(g *Globals) error {
	client, err := g.restClient()
	if err != nil {
		return err
	}
	return client.KillWorktree(context.Background(), c.WorktreeID)
}

// ─── version ─────────────────────────────────────────────────────────────────

type VersionCmd struct{}

func (c *VersionCmd) Run(g *Globals) error {
	fmt.Printf("ppgdash %s\n", version)
	return nil
}

func initLogging(level string) {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelWarn
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})
	slog.SetDefault(slog.New(h))
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("ppgdash"),
		kong.Description("Terminal companion to the ppg agent dashboard."),
		kong.UsageOnError(),
	)
	initLogging(cli.LogLevel)
	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
