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
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"toolhost/internal/chat"
	"toolhost/internal/config"
	"toolhost/internal/tools"
)

func runBatchMode(logger zerolog.Logger, cfg *config.Config, registry *tools.Registry) {
	if err := runBatch(logger, cfg, registry); err != nil {
		logger.Error().Err(err).Msg("batch mode failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runBatch processes stdin line by line. Lines whose first word is a
// registered tool are dispatched directly; anything else goes to the
// model. The chat session is created lazily so tool-only batches never
// need an API key.
func runBatch(logger zerolog.Logger, cfg *config.Config, registry *tools.Registry) error {
	logger.Debug().Msg("running in batch mode")

	ctx := context.Background()
	var session *chat.Session

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		logger.Info().Str("user_input", input).Msg("user input received")

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
			var err error
			session, err = chat.NewSession(cfg, registry)
			if err != nil {
				return err
			}
		}

		start := time.Now()
		response, err := session.Ask(ctx, input)
		duration := time.Since(start)
		if err != nil {
			logger.Error().Err(err).Dur("duration_ms", duration).Msg("error getting response")
			return fmt.Errorf("failed to get response: %w", err)
		}
		logger.Info().Dur("duration_ms", duration).Msg("model response received")
		fmt.Println(response)
	}
	return scanner.Err()
}
