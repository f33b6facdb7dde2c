// Rcon — CLI entry point.
//
// This tool connects to a console control protocol (RCON) server,
// authenticates, and executes remote console commands. It reassembles
// multi-packet responses transparently.
//
// It can be launched interactively (no flags) or non-interactively via CLI
// flags (-addr, -password, -cmd, …); server profiles can also be loaded
// from a TOML config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"

	"github.com/pterm/pterm"

	"github.com/1ureka/rcon/internal/client"
	"github.com/1ureka/rcon/internal/config"
	"github.com/1ureka/rcon/internal/util"
)

var version = "dev"

func main() {
	// Root context — cancelled on Ctrl+C.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// CLI flags.
	addr := flag.String("addr", "", "Server address (host:port)")
	password := flag.String("password", "", "RCON password")
	command := flag.String("cmd", "", "Execute a single command and exit")
	safe := flag.String("safe", "", "Safe command with exactly one response packet (optional)")
	timeout := flag.Duration("timeout", 0, "Connect timeout (e.g. 5s); 0 means none")
	configPath := flag.String("config", "", "Path to a TOML profile file")
	profileName := flag.String("profile", "default", "Profile name inside the config file")
	statsMode := flag.Bool("stats", false, "Report session statistics periodically")
	debugMode := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debugMode {
		util.EnableDebug()
	}

	pterm.Info.Println(fmt.Sprintf("Rcon — v%s", version))
	pterm.Println()

	profile := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadProfile(*configPath, *profileName)
		if err != nil {
			util.LogError("%v", err)
			os.Exit(1)
		}
		profile = loaded
	}

	// Flags override file values.
	if *addr != "" {
		profile.Addr = *addr
	}
	if *password != "" {
		profile.Password = *password
	}
	if *safe != "" {
		profile.SafeCommand = *safe
	}
	if *timeout > 0 {
		profile.Timeout = *timeout
	}

	// No address from flags or file → interactive mode.
	if profile.Addr == "" {
		profile.Addr = askAddr()
		profile.Password = askPassword()
		profile.SafeCommand = askSafeCommand()
	}

	c, err := client.Open(ctx, profile.Addr, profile.Password, &client.Options{
		SafeCommand: profile.SafeCommand,
		DialTimeout: profile.Timeout,
	})
	if err != nil {
		switch {
		case errors.Is(err, client.ErrAuthRejected):
			util.LogError("authentication failed: wrong password")
		case errors.Is(err, client.ErrAuthProtocol):
			util.LogError("server did not follow the authentication protocol")
		default:
			util.LogError("failed to open session: %v", err)
		}
		os.Exit(1)
	}
	defer c.Close()

	util.LogInfo("authenticated session established with %s", profile.Addr)

	if *statsMode {
		util.StartStatsReporter(ctx)
	}

	if *command != "" {
		runOnce(ctx, c, *command)
		return
	}

	runConsole(ctx, c)
}

// ---------------------------------------------------------------------------
// Run modes
// ---------------------------------------------------------------------------

// runOnce executes a single command and prints its response.
func runOnce(ctx context.Context, c *client.Client, command string) {
	out, err := c.Exec(ctx, command)
	if err != nil {
		util.LogError("command failed: %v", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

// runConsole drops into a read-exec-print loop until the user leaves with
// "exit"/"quit" or cancels with Ctrl+C.
func runConsole(ctx context.Context, c *client.Client) {
	for {
		if ctx.Err() != nil {
			return
		}

		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("rcon").
			Show()

		line := strings.TrimSpace(raw)
		switch line {
		case "":
			continue
		case "exit", "quit":
			util.LogInfo("closing session")
			return
		}

		out, err := c.Exec(ctx, line)
		if err != nil {
			util.LogError("command failed: %v", err)
			return
		}

		if out == "" {
			util.LogDebug("server returned an empty response")
			continue
		}
		fmt.Println(out)
	}
}

// ---------------------------------------------------------------------------
// Helper Functions
// ---------------------------------------------------------------------------

// askAddr prompts the user for a server address until a valid one is entered.
func askAddr() string {
	for {
		raw, _ := pterm.DefaultInteractiveTextInput.
			WithDefaultText("Server address (host:port)").
			Show()

		addr := strings.TrimSpace(raw)
		if _, _, err := net.SplitHostPort(addr); err == nil {
			pterm.Println()
			return addr
		}

		util.LogWarning("invalid address: must be host:port")
		pterm.Println()
	}
}

// askPassword prompts the user for the RCON password (masked input).
func askPassword() string {
	raw, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Password").
		WithMask("*").
		Show()

	pterm.Println()
	return strings.TrimSpace(raw)
}

// askSafeCommand prompts for an optional safe command; empty selects the
// empty value-response probe.
func askSafeCommand() string {
	raw, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText("Safe command (optional, e.g. echo)").
		Show()

	pterm.Println()
	return strings.TrimSpace(raw)
}
