package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	stream   bool
	maxSteps int
	provider string
	model    string
	noRecall bool
	merge    bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "reactchain",
	Short: "Interactive ReAct agent with web, API and scripting tools",
	Long: `Start an interactive session. Each question is answered by a language
model that may call tools (search, retrieve, apicall, script, ...) until it
reaches a final answer.

Type a tool name as the first word to run that tool directly; its output
becomes the question.

Examples:
  reactchain
  reactchain --provider anthropic --no-recall
  reactchain --merge --max-steps 8`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		env, err := prepareRuntimeEnv(ctx, flags)
		if err != nil {
			return err
		}
		defer env.Close()

		r := &repl{
			env:   env,
			in:    os.Stdin,
			out:   os.Stdout,
			merge: flags.merge,
		}
		return r.run(ctx, !flags.noRecall)
	},
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the built-in tools and whether they are enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := prepareToolEnv(context.Background(), flags)
		if err != nil {
			return err
		}
		defer env.Close()

		reg := env.Session.Tools()
		for _, name := range reg.Names() {
			state := "enabled"
			if !reg.IsEnabled(name) {
				state = "disabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, state)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "LLM provider (openai, anthropic, ollama, lmstudio, groq, deepseek)")
	rootCmd.PersistentFlags().StringVar(&flags.model, "model", "", "model name for the selected provider")

	rootCmd.Flags().BoolVar(&flags.stream, "stream", true, "echo completion text as it streams")
	rootCmd.Flags().IntVar(&flags.maxSteps, "max-steps", 0, "completions per question before giving up (default MAX_STEPS or 15)")
	rootCmd.Flags().BoolVar(&flags.noRecall, "no-recall", false, "skip the opening question about previous queries")
	rootCmd.Flags().BoolVar(&flags.merge, "merge", false, "rewrite each question into a standalone one using the chat history")

	rootCmd.AddCommand(toolsCmd)
}
