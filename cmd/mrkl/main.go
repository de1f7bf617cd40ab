// Mrkl — интерактивный TUI чат с агентом.
//
// Использование:
//
//	./mrkl -config config.yaml -pipeline main -colors dark
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ilkoid/mrkl-agent/pkg/agent"
	"github.com/ilkoid/mrkl-agent/pkg/events"
	"github.com/ilkoid/mrkl-agent/pkg/tui"
	"github.com/ilkoid/mrkl-agent/pkg/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к config.yaml")
	pipeline := flag.String("pipeline", "", "имя целевого pipeline")
	colors := flag.String("colors", "default", "цветовая схема: default, dark, light")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer utils.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := agent.New(ctx, agent.Config{
		ConfigPath: *configPath,
		Pipeline:   *pipeline,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating agent: %v\n", err)
		os.Exit(1)
	}

	emitter := events.NewChanEmitter(16)
	defer emitter.Close()
	client.SetEmitter(emitter)

	ui := tui.NewSimpleTui(emitter.Subscribe(), tui.SimpleUIConfig{
		Colors:        tui.GetColorScheme(*colors),
		Title:         "MRKL Agent",
		ShowTimestamp: true,
		WrapText:      true,
	})

	ui.OnInput(func(input string) {
		// Ошибки доходят до UI через EventError
		_, _ = client.Run(ctx, input)
	})

	if err := ui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}
