package runner

import (
	"encoding/hex"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/spacemeshos/vdf/config"
)

const unknownCommit = "unknown"

// BuildRunID returns "<unix seconds>-<commit>-<config digest>", where the
// digest is the first 8 hex characters of the configuration hash.
func BuildRunID(cfg *config.RunConfig, now time.Time, commit string) (string, error) {
	hash, err := cfg.Hash()
	if err != nil {
		return "", err
	}
	if commit == "" {
		commit = unknownCommit
	}
	return fmt.Sprintf("%d-%s-%s", now.Unix(), commit, hex.EncodeToString(hash[:4])), nil
}

// gitCommit returns the short hash of the checked out revision, or "unknown".
func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return unknownCommit
	}
	if commit := strings.TrimSpace(string(out)); commit != "" {
		return commit
	}
	return unknownCommit
}
