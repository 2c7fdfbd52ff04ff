// Command reactchain is an interactive ReAct agent: it answers questions by
// letting a language model call web, API and scripting tools.
//
// Usage:
//
//	reactchain [flags]
//	reactchain tools
//
// Configuration is read from .env, the environment and
// <user config dir>/reactchain/config.json, in that order of precedence.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
