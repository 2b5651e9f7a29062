// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"toolhost/internal/chat"
	"toolhost/internal/config"
	"toolhost/internal/tools"
)

// runREPL serves the interactive prompt. Lines starting with a tool
// name go straight to the registry; everything else goes to the model
// when an API key is configured.
func runREPL(logger zerolog.Logger, cfg *config.Config, registry *tools.Registry) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize readline")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	var session *chat.Session
	if cfg.APIKey != "" {
		session, err = chat.NewSession(cfg, registry)
		if err != nil {
			logger.Warn().Err(err).Msg("chat session unavailable")
		}
	}

	fmt.Println("toolhost ready. /help for commands, /tools for the tool list.")
	ctx := context.Background()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("read error")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch input {
		case "/quit", "/exit":
			return
		case "/help":
			fmt.Println("commands: /help /tools /quit")
			fmt.Println("invoke a tool directly with: <tool> <argument>")
			fmt.Println("anything else is sent to the model (requires an API key)")
			continue
		case "/tools":
			fmt.Println(registry.Summaries())
			continue
		}

		if name, argument, ok := splitToolInvocation(registry, input); ok {
			result := registry.Dispatch(ctx, name, argument)
			if !result.OK {
				fmt.Printf("Error: %s\n", result.Text)
				continue
			}
			fmt.Println(result.Text)
			continue
		}

		if session == nil {
			fmt.Println("no API key configured; use direct tool invocation or /tools")
			continue
		}
		response, err := session.Ask(ctx, input)
		if err != nil {
			logger.Error().Err(err).Msg("model request failed")
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println(response)
	}
}

// splitToolInvocation recognizes "name argument" lines whose first word
// is a registered tool.
func splitToolInvocation(registry *tools.Registry, input string) (string, string, bool) {
	name, argument, _ := strings.Cut(input, " ")
	if _, ok := registry.Lookup(name); !ok {
		return "", "", false
	}
	return name, strings.TrimSpace(argument), true
}
