package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/futig/docqa/internal/builder"
)

func main() {
	var opts builder.ChatOptions
	flag.StringVar(&opts.Environment, "env", "local", "Environment to run (local, prod, or custom)")
	flag.StringVar(&opts.Model, "model", "", "Model to chat with (catalog default when empty)")
	flag.StringVar(&opts.LogFile, "log", "", "Write logs to this file (discarded when empty)")
	flag.Parse()
	opts.Files = flag.Args()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	program, cleanup, err := builder.BuildChat(ctx, opts)
	if err != nil {
		log.Fatal("Failed to build chat:", err)
	}
	defer cleanup()

	if _, err := program.Run(); err != nil {
		log.Fatal("Chat error:", err)
	}
}
