// Package main is the entry point for the riftcoach CLI tool, which crawls
// League of Legends ranked matches, clusters players into play-style
// archetypes, and scores individual matches.
package main

import "github.com/riftcoach/riftcoach/cmd"

func main() {
	cmd.Execute()
}
