package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/civiclens/tribuna/pkg/tribuna"
	"github.com/civiclens/tribuna/pkg/tribuna/config"
)

func main() {
	var (
		configPath = flag.String("config", "tribuna.yaml", "Config file path")
		query      = flag.String("query", "", "One-shot question (non-interactive mode)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	engine := tribuna.New(tribuna.Options{Config: cfg})
	defer engine.Close()

	if err := engine.Load(ctx); err != nil {
		log.Fatal(err)
	}

	session := engine.NewSession()

	// One-shot mode
	if *query != "" {
		ask(ctx, engine, session, *query)
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  Tribuna Q&A")
	fmt.Println("  Pyetje mbi deklaratat publike")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Shkruaj pyetjen (Ctrl+D për të dalë):")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		q := strings.TrimSpace(scanner.Text())
		if q == "" {
			continue
		}
		ask(ctx, engine, session, q)
	}

	fmt.Println("\nMirupafshim!")
}

func ask(ctx context.Context, engine *tribuna.Engine, session, query string) {
	res := engine.Ask(ctx, session, query)

	fmt.Println()
	fmt.Println(res.Answer)

	if len(res.Sources) > 0 {
		fmt.Println("\nBurimet:")
		for _, src := range res.Sources {
			fmt.Printf("  [%d] %s (%s): %s\n", src.ID, src.Speaker, src.Date, truncate(src.Text, 120))
		}
	}
	fmt.Println()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
