package services

import (
	"fmt"
	"os"
	"os/exec"
)

// RulesetRunner abstracts the host rule-application tool so the firewall
// service can run against a fake in tests and fall back to in-memory
// state when the tool is not installed.
type RulesetRunner interface {
	// Available reports whether the tool can be invoked at all.
	Available() bool
	// ApplyScript hands a complete rendered script to the tool for
	// atomic installation.
	ApplyScript(script string) error
	// ListRuleset returns the live ruleset as the tool prints it.
	ListRuleset() (string, error)
}

// NFTRunner drives the nft binary. Whole-script invocation via `nft -f`
// delegates atomicity to the tool: either the full script installs or
// the previous ruleset stays live.
type NFTRunner struct{}

func (NFTRunner) Available() bool {
	_, err := exec.LookPath("nft")
	return err == nil
}

func (NFTRunner) ApplyScript(script string) error {
	tmp, err := os.CreateTemp("", "netadmin-*.nft")
	if err != nil {
		return fmt.Errorf("failed to create script file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write script file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write script file: %w", err)
	}

	if output, err := exec.Command("nft", "-f", tmp.Name()).CombinedOutput(); err != nil {
		return fmt.Errorf("nft -f failed: %s", string(output))
	}
	return nil
}

func (NFTRunner) ListRuleset() (string, error) {
	output, err := exec.Command("nft", "list", "ruleset").Output()
	if err != nil {
		return "", fmt.Errorf("nft list ruleset failed: %w", err)
	}
	return string(output), nil
}
