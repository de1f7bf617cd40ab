// Simple-agent — минимальный пример использования pkg/agent.
//
// Использование:
//
//	go run cmd/simple-agent/main.go "запрос"
//	./simple-agent -config config.yaml -pipeline main "What is 2+2?"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilkoid/mrkl-agent/pkg/agent"
	"github.com/ilkoid/mrkl-agent/pkg/utils"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к config.yaml")
	pipeline := flag.String("pipeline", "", "имя целевого pipeline")
	maxIters := flag.Int("max-iterations", 0, "override лимита итераций (0 = из конфигурации)")
	timeout := flag.Duration("timeout", 2*time.Minute, "таймаут выполнения запроса")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: simple-agent [flags] \"query\"")
		flag.PrintDefaults()
		os.Exit(1)
	}
	query := flag.Arg(0)

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	defer utils.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, err := agent.New(ctx, agent.Config{
		ConfigPath:    *configPath,
		Pipeline:      *pipeline,
		MaxIterations: *maxIters,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating agent: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	result, err := client.Run(ctx, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running query: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(result)
	fmt.Fprintf(os.Stderr, "duration: %v\n", time.Since(start))
}
