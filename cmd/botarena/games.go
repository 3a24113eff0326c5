package main

import (
	"fmt"

	"github.com/botarena/botarena/internal/bots"
	"github.com/botarena/botarena/internal/games"
)

// GamesCmd prints the registered game executors and built-in strategies.
type GamesCmd struct{}

func (c *GamesCmd) Run() error {
	fmt.Println("Games:")
	for _, gt := range games.DefaultRegistry().Games() {
		fmt.Printf("  %s\n", gt)
	}
	fmt.Println("Bot strategies:")
	for _, s := range bots.Strategies() {
		fmt.Printf("  %s\n", s)
	}
	return nil
}
