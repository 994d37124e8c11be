package main

import (
	"context"
	"fmt"

	"zai/cmd/zai/chat"
	"zai/internal/conversation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runInteractive launches the chat TUI.
func runInteractive(cmd *cobra.Command, args []string) error {
	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return chat.RunInteractiveChat(commandContext(cmd), chat.Config{
		Service:      a.client,
		Identity:     a.resolver,
		Title:        a.cfg.Name,
		Theme:        a.cfg.UI.Theme,
		RefocusDelay: a.cfg.GetRefocusDelay(),
		WordWrap:     a.cfg.UI.WordWrap,
	})
}

// runHistory prints the conversation, one "role: text" line per message.
func runHistory(cmd *cobra.Command, args []string) error {
	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(commandContext(cmd), a.cfg.GetAPITimeout())
	defer cancel()

	userID, err := a.resolver.GetOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %w", err)
	}

	history, err := a.client.FetchHistory(ctx, userID)
	if err != nil {
		logger.Warn("History unavailable", zap.Error(err))
		fmt.Fprintln(cmd.ErrOrStderr(), "No history available.")
		return nil
	}

	log := conversation.NewLog()
	log.Replace(history)
	for _, m := range log.Messages() {
		fmt.Fprintln(cmd.OutOrStdout(), m.String())
	}
	return nil
}

// runSend sends one message and prints the reply (or the error reply).
func runSend(cmd *cobra.Command, args []string) error {
	session := conversation.NewSession(nil)
	text, ok := session.Begin(joinArgs(args))
	if !ok {
		logger.Debug("Ignoring empty message")
		return nil
	}

	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(commandContext(cmd), a.cfg.GetAPITimeout())
	defer cancel()

	userID, err := a.resolver.GetOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %w", err)
	}

	logger.Info("Sending message", zap.Int("chars", len(text)))
	reply, sendErr := a.client.Send(ctx, userID, text)
	if sendErr != nil {
		logger.Warn("Send failed", zap.Error(sendErr))
	}

	m, _ := session.Settle(reply, sendErr)
	fmt.Fprintln(cmd.OutOrStdout(), m.Text)
	return nil
}

// runWhoami prints the installation identifier, creating it on first use.
func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := setupApp()
	if err != nil {
		return err
	}
	defer a.Close()

	userID, err := a.resolver.GetOrCreate(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), userID)
	return nil
}
